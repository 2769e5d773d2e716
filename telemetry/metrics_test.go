package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortbench/sweep"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()
	m.Observe("Bubble Sort", sweep.Measurement{Size: 0, Millis: 0})
	m.Observe("Bubble Sort", sweep.Measurement{Size: 100, Millis: 7})
	m.Observe("Merge Sort", sweep.Measurement{Size: 1000, Millis: 2})

	assert.Equal(t, 7.0, testutil.ToFloat64(m.duration.WithLabelValues("Bubble Sort", "100")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.duration.WithLabelValues("Merge Sort", "1000")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.measurements.WithLabelValues("Bubble Sort")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Observe("Merge Sort", sweep.Measurement{Size: 10, Millis: 1})

	path := filepath.Join(t.TempDir(), "sortbench.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sortbench_sort_duration_milliseconds{algorithm="Merge Sort",size="10"} 1`)
	assert.Contains(t, string(data), `sortbench_measurements_total{algorithm="Merge Sort"} 1`)
}
