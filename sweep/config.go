package sweep

import "github.com/cockroachdb/errors"

// Defaults used when a sweep bound is not configured.
const (
	DefaultBubbleStep = 100
	DefaultBubbleMax  = 1000
	DefaultMergeStep  = 1000
	DefaultMergeMax   = 10000
)

var (
	ErrInvalidStep = errors.New("step must be positive")
	ErrInvalidMax  = errors.New("maximum size must not be negative")
)

// Config holds the step and maximum input size of both sweeps.
type Config struct {
	BubbleStep int `json:"bubble_step"`
	BubbleMax  int `json:"bubble_max"`
	MergeStep  int `json:"merge_step"`
	MergeMax   int `json:"merge_max"`
}

// DefaultConfig returns the stock sweep bounds.
func DefaultConfig() Config {
	return Config{
		BubbleStep: DefaultBubbleStep,
		BubbleMax:  DefaultBubbleMax,
		MergeStep:  DefaultMergeStep,
		MergeMax:   DefaultMergeMax,
	}
}

// Validate reports the first bound that cannot drive a sweep.
func (c Config) Validate() error {
	if c.BubbleStep <= 0 {
		return errors.Wrapf(ErrInvalidStep, "bubble sort step %d", c.BubbleStep)
	}
	if c.BubbleMax < 0 {
		return errors.Wrapf(ErrInvalidMax, "bubble sort max %d", c.BubbleMax)
	}
	if c.MergeStep <= 0 {
		return errors.Wrapf(ErrInvalidStep, "merge sort step %d", c.MergeStep)
	}
	if c.MergeMax < 0 {
		return errors.Wrapf(ErrInvalidMax, "merge sort max %d", c.MergeMax)
	}
	return nil
}

// maxPrealloc caps the capacity reserved up front for a size list.
const maxPrealloc = 1 << 16

// Sizes lists the input sizes of a sweep: 0, step, 2*step and so on, up to
// and including max when max is a multiple of step. step must be positive.
func Sizes(step, max int) []int {
	if step <= 0 || max < 0 {
		return nil
	}
	sizes := make([]int, 0, sizeHint(step, max))
	for n := 0; ; n += step {
		sizes = append(sizes, n)
		// n+step > max, written so it cannot overflow.
		if n > max-step {
			break
		}
	}
	return sizes
}

func sizeHint(step, max int) int {
	count := max / step
	if count >= maxPrealloc {
		return maxPrealloc
	}
	return count + 1
}
