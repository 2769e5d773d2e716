package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"

	"sortbench/sorting"
)

// Algorithm is a sort under test.
type Algorithm struct {
	Name     string
	DataFile string
	Sort     func([]int) []int
}

var (
	BubbleSort = Algorithm{Name: "Bubble Sort", DataFile: "bubble_sort_data.txt", Sort: sorting.BubbleSort[int]}
	MergeSort  = Algorithm{Name: "Merge Sort", DataFile: "merge_sort_data.txt", Sort: sorting.MergeSort[int]}
)

// Plan pairs an algorithm with the bounds of its sweep.
type Plan struct {
	Algorithm Algorithm
	Step      int
	Max       int
}

// Plans returns the bubble sort plan followed by the merge sort plan.
func Plans(cfg Config) []Plan {
	return []Plan{
		{Algorithm: BubbleSort, Step: cfg.BubbleStep, Max: cfg.BubbleMax},
		{Algorithm: MergeSort, Step: cfg.MergeStep, Max: cfg.MergeMax},
	}
}

// Measurement is the elapsed whole milliseconds for one input size.
type Measurement struct {
	Size   int   `json:"size"`
	Millis int64 `json:"ms"`
}

// Result collects the measurements of one sweep in ascending size order.
type Result struct {
	Algorithm    string        `json:"algorithm"`
	DataFile     string        `json:"data_file"`
	Measurements []Measurement `json:"measurements"`
}

// Observer is notified after every measurement.
type Observer func(algorithm string, m Measurement)

// Runner times algorithms over their sweep sizes. It is not safe for
// concurrent use.
type Runner struct {
	out       io.Writer
	gen       Generator
	now       func() time.Time
	gc        bool
	observers []Observer
	logger    *slog.Logger
}

type Option func(*Runner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithGC controls the forced collection before each timed sort.
func WithGC(enabled bool) Option {
	return func(r *Runner) { r.gc = enabled }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner returns a Runner printing progress lines to out.
func NewRunner(out io.Writer, gen Generator, opts ...Option) *Runner {
	r := &Runner{
		out:    out,
		gen:    gen,
		now:    time.Now,
		gc:     true,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs the sweeps one after another in plan order.
func (r *Runner) Run(ctx context.Context, plans []Plan) ([]Result, error) {
	if s, ok := r.gen.(seeder); ok {
		r.logger.Info("input generator seeded", "seed", s.Seed())
	}
	results := make([]Result, 0, len(plans))
	for _, p := range plans {
		res, err := r.Sweep(ctx, p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Sweep times p.Algorithm at every size of the plan. On cancellation it
// returns the measurements taken so far together with the context error.
func (r *Runner) Sweep(ctx context.Context, p Plan) (Result, error) {
	name := p.Algorithm.Name
	res := Result{Algorithm: name, DataFile: p.Algorithm.DataFile}
	if p.Step <= 0 {
		return res, errors.Wrapf(ErrInvalidStep, "%s: step %d", name, p.Step)
	}

	sizes := Sizes(p.Step, p.Max)
	res.Measurements = make([]Measurement, 0, len(sizes))

	r.logger.Info("sweep started", "algorithm", name, "step", p.Step, "max", p.Max, "sizes", len(sizes))
	fmt.Fprintf(r.out, "%s:\n", name)

	for _, n := range sizes {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "%s sweep stopped before size %d", name, n)
		}

		input := r.gen.Permutation(n)
		m := Measurement{Size: n, Millis: r.measure(p.Algorithm.Sort, input)}

		fmt.Fprintf(r.out, "  %d - %d ms\n", m.Size, m.Millis)
		res.Measurements = append(res.Measurements, m)

		for _, o := range r.observers {
			o(name, m)
		}
		r.logger.Debug("measured", "algorithm", name, "size", m.Size, "ms", m.Millis)
	}

	r.logger.Info("sweep finished", "algorithm", name, "measurements", len(res.Measurements))
	return res, nil
}

// measure returns the wall-clock time of one sort call in whole
// milliseconds, truncated.
func (r *Runner) measure(sort func([]int) []int, input []int) int64 {
	if r.gc {
		runtime.GC()
	}

	start := r.now()
	sort(input)
	ms := r.now().Sub(start).Milliseconds()

	if ms < 0 {
		ms = 0
	}
	return ms
}
