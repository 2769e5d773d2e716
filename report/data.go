// Package report writes sweep results to disk: the comma separated data
// files used for plotting and an optional Markdown summary.
package report

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"sortbench/sweep"
)

// Format renders measurements as "<size>,<ms>" lines joined by '\n', with no
// trailing newline.
func Format(ms []sweep.Measurement) string {
	var builder strings.Builder
	builder.Grow(len(ms) * 12)

	for i, m := range ms {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(strconv.Itoa(m.Size))
		builder.WriteByte(',')
		builder.WriteString(strconv.FormatInt(m.Millis, 10))
	}
	return builder.String()
}

// WriteData replaces the file at path with the formatted measurements. The
// file is closed on every path out of the function.
func WriteData(path string, ms []sweep.Measurement) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	writer := bufio.NewWriterSize(file, 64*1024)
	if _, err := writer.WriteString(Format(ms)); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}
	return nil
}

// WriteResults writes every result to its algorithm's data file under dir
// and returns the paths written, in result order.
func WriteResults(dir string, results []sweep.Result) ([]string, error) {
	paths := make([]string, 0, len(results))
	for _, res := range results {
		if res.DataFile == "" {
			return paths, errors.Newf("no data file configured for %s", res.Algorithm)
		}
		path := filepath.Join(dir, res.DataFile)
		if err := WriteData(path, res.Measurements); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadData parses a data file written by WriteData. Blank lines are skipped.
func ReadData(path string) ([]sweep.Measurement, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	var ms []sweep.Measurement
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), bufio.MaxScanTokenSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		m, err := parseRecord(line)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", path, lineNo)
		}
		ms = append(ms, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return ms, nil
}

func parseRecord(line string) (sweep.Measurement, error) {
	sizeField, msField, ok := strings.Cut(line, ",")
	if !ok {
		return sweep.Measurement{}, errors.Newf("malformed record %q", line)
	}
	size, err := strconv.Atoi(strings.TrimSpace(sizeField))
	if err != nil || size < 0 {
		return sweep.Measurement{}, errors.Newf("bad size in record %q", line)
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(msField), 10, 64)
	if err != nil || millis < 0 {
		return sweep.Measurement{}, errors.Newf("bad milliseconds in record %q", line)
	}
	return sweep.Measurement{Size: size, Millis: millis}, nil
}

// ReadResults loads the data file of each algorithm from dir.
func ReadResults(dir string, algorithms []sweep.Algorithm) ([]sweep.Result, error) {
	results := make([]sweep.Result, 0, len(algorithms))
	for _, alg := range algorithms {
		ms, err := ReadData(filepath.Join(dir, alg.DataFile))
		if err != nil {
			return nil, err
		}
		results = append(results, sweep.Result{
			Algorithm:    alg.Name,
			DataFile:     alg.DataFile,
			Measurements: ms,
		})
	}
	return results, nil
}
