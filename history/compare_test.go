package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortbench/sweep"
)

func TestCompare(t *testing.T) {
	prev := Run{Results: []sweep.Result{
		{Algorithm: "Bubble Sort", Measurements: []sweep.Measurement{{Size: 0, Millis: 0}, {Size: 100, Millis: 10}, {Size: 200, Millis: 40}}},
		{Algorithm: "Quick Sort", Measurements: []sweep.Measurement{{Size: 0, Millis: 0}}},
	}}
	curr := Run{Results: []sweep.Result{
		{Algorithm: "Bubble Sort", Measurements: []sweep.Measurement{{Size: 0, Millis: 1}, {Size: 100, Millis: 11}, {Size: 300, Millis: 90}}},
		{Algorithm: "Merge Sort", Measurements: []sweep.Measurement{{Size: 0, Millis: 0}}},
	}}

	comps := Compare(prev, curr)
	require.Len(t, comps, 2)

	assert.Equal(t, "Bubble Sort", comps[0].Algorithm)
	assert.Equal(t, 0, comps[0].Size)
	assert.Equal(t, 0.0, comps[0].Diff)

	assert.Equal(t, 100, comps[1].Size)
	assert.Equal(t, int64(10), comps[1].PrevMillis)
	assert.Equal(t, int64(11), comps[1].CurrMillis)
	assert.InDelta(t, 10.0, comps[1].Diff, 0.01)

	assert.Equal(t, "Bubble Sort n=100: 10 ms -> 11 ms (+10.00%)", comps[1].String())
}

func TestCompareNoOverlap(t *testing.T) {
	assert.Empty(t, Compare(Run{}, Run{}))
}
