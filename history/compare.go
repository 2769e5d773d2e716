package history

import "fmt"

// Comparison pairs the timings of one algorithm at one size across two runs.
type Comparison struct {
	Algorithm  string
	Size       int
	PrevMillis int64
	CurrMillis int64
	// Diff is the percentage change from prev to curr; 0 when prev is 0.
	Diff float64
}

// Compare matches the measurements of curr against prev. Algorithms and
// sizes missing from either run are skipped; order follows curr.
func Compare(prev, curr Run) []Comparison {
	prevMap := make(map[string]map[int]int64)
	for _, res := range prev.Results {
		sizes := make(map[int]int64, len(res.Measurements))
		for _, m := range res.Measurements {
			sizes[m.Size] = m.Millis
		}
		prevMap[res.Algorithm] = sizes
	}

	var comparisons []Comparison
	for _, res := range curr.Results {
		sizes, ok := prevMap[res.Algorithm]
		if !ok {
			continue
		}
		for _, m := range res.Measurements {
			p, ok := sizes[m.Size]
			if !ok {
				continue
			}
			c := Comparison{
				Algorithm:  res.Algorithm,
				Size:       m.Size,
				PrevMillis: p,
				CurrMillis: m.Millis,
			}
			if p > 0 {
				c.Diff = float64(m.Millis-p) / float64(p) * 100
			}
			comparisons = append(comparisons, c)
		}
	}
	return comparisons
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s n=%d: %d ms -> %d ms (%+.2f%%)", c.Algorithm, c.Size, c.PrevMillis, c.CurrMillis, c.Diff)
}
