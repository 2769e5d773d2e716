package telemetry

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"sortbench/sweep"
)

// Metrics holds the per-run Prometheus collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	duration     *prometheus.GaugeVec
	measurements *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sortbench",
			Name:      "sort_duration_milliseconds",
			Help:      "Wall-clock time of one sort call, truncated to whole milliseconds.",
		}, []string{"algorithm", "size"}),
		measurements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sortbench",
			Name:      "measurements_total",
			Help:      "Number of sizes measured per algorithm.",
		}, []string{"algorithm"}),
	}
	m.registry.MustRegister(m.duration, m.measurements)
	return m
}

// Observe records one measurement. It satisfies sweep.Observer.
func (m *Metrics) Observe(algorithm string, ms sweep.Measurement) {
	m.duration.WithLabelValues(algorithm, strconv.Itoa(ms.Size)).Set(float64(ms.Millis))
	m.measurements.WithLabelValues(algorithm).Inc()
}

// WriteTextfile writes the registry in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.registry), "write metrics to %s", path)
}
