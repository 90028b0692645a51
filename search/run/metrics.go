package run

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusOK      = "ok"
	statusEmpty   = "empty"
	statusSkipped = "skipped"
	statusTimeout = "timeout"
	statusFailed  = "failed"
)

// Metrics holds the collectors of one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal  *prometheus.CounterVec
	QueryDuration prometheus.Histogram
	QueryResults  prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qryeval_queries_total",
				Help: "Total queries by status (ok, empty, skipped, timeout, failed).",
			},
			[]string{"status"},
		),
		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qryeval_query_duration_seconds",
				Help:    "Query evaluation latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		QueryResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qryeval_query_results",
				Help:    "Number of documents matched per query.",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
		),
	}

	m.registry.MustRegister(
		m.QueriesTotal,
		m.QueryDuration,
		m.QueryResults,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
