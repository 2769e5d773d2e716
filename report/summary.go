package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"sortbench/sweep"
)

// Meta describes the machine and run a summary belongs to.
type Meta struct {
	Timestamp  time.Time
	NumCPU     int
	GOMAXPROCS int
	Seed       uint64
}

// NewMeta captures the current machine details.
func NewMeta(seed uint64) Meta {
	return Meta{
		Timestamp:  time.Now(),
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Seed:       seed,
	}
}

// RenderSummary writes a Markdown report: a header with meta, one table per
// algorithm and a totals table.
func RenderSummary(w io.Writer, results []sweep.Result, meta Meta) error {
	var builder strings.Builder

	builder.WriteString("# Sort benchmark results\n\n")
	fmt.Fprintf(&builder, "Run at: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&builder, "CPU cores: %d\n", meta.NumCPU)
	fmt.Fprintf(&builder, "GOMAXPROCS: %d\n", meta.GOMAXPROCS)
	if meta.Seed != 0 {
		fmt.Fprintf(&builder, "Seed: %d\n", meta.Seed)
	}
	builder.WriteString("\n")

	for _, res := range results {
		fmt.Fprintf(&builder, "## %s\n\n", res.Algorithm)
		builder.WriteString("| Size | Time (ms) |\n")
		builder.WriteString("|------|-----------|\n")
		for _, m := range res.Measurements {
			fmt.Fprintf(&builder, "| %d | %d |\n", m.Size, m.Millis)
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Totals\n\n")
	builder.WriteString("| Algorithm | Sizes | Largest size | Total (ms) | Slowest (ms) |\n")
	builder.WriteString("|-----------|-------|--------------|------------|--------------|\n")
	for _, res := range results {
		var total, slowest int64
		largest := 0
		for _, m := range res.Measurements {
			total += m.Millis
			slowest = max(slowest, m.Millis)
			largest = max(largest, m.Size)
		}
		fmt.Fprintf(&builder, "| %s | %d | %d | %d | %d |\n",
			res.Algorithm, len(res.Measurements), largest, total, slowest)
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

// WriteSummary renders the summary into the file at path.
func WriteSummary(path string, results []sweep.Result, meta Meta) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	writer := bufio.NewWriterSize(file, 32*1024)
	if err := RenderSummary(writer, results, meta); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}
	return nil
}
