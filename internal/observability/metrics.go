// Package observability defines the Prometheus metric set for the
// monitoring loop. Metrics live on a private registry owned by the caller
// rather than the global default, which keeps tests isolated.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the monitor loop's instrumentation.
type Metrics struct {
	Registry *prometheus.Registry

	DetectionsTotal    prometheus.Counter
	DetectErrorsTotal  prometheus.Counter
	ParseFailuresTotal prometheus.Counter
	StoreErrorsTotal   prometheus.Counter
	DetectDuration     prometheus.Histogram
}

// NewMetrics creates and registers the metric set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		DetectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodwatch_detections_total",
			Help: "Observations successfully detected and stored",
		}),
		DetectErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodwatch_detect_errors_total",
			Help: "Failed detector round-trips",
		}),
		ParseFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodwatch_parse_failures_total",
			Help: "Detector responses skipped as unparsable",
		}),
		StoreErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodwatch_store_errors_total",
			Help: "Observation insert failures",
		}),
		DetectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodwatch_detect_duration_seconds",
			Help:    "Detector round-trip duration",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.DetectionsTotal,
		m.DetectErrorsTotal,
		m.ParseFailuresTotal,
		m.StoreErrorsTotal,
		m.DetectDuration,
	)

	return m
}
