// Package metrics exposes item operations as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	items "github.com/goliatone/go-items"
)

var defaultBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Logger is an items.Logger that records every event it receives.
type Logger struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var _ items.Logger = (*Logger)(nil)

// New registers the item collectors on reg.
func New(reg prometheus.Registerer) *Logger {
	l := &Logger{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "items_operations_total",
			Help: "Total number of item operations by outcome",
		}, []string{"op", "format", "outcome"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "items_operation_duration_seconds",
			Help:    "Item operation latency in seconds",
			Buckets: defaultBuckets,
		}, []string{"op", "format"}),
	}
	reg.MustRegister(l.operations, l.duration)
	return l
}

// LogEvent implements items.Logger.
func (l *Logger) LogEvent(event items.Event) {
	outcome := "ok"
	if event.Err != nil {
		outcome = "error"
	}
	format := event.Format
	if format == "" {
		format = "raw"
	}
	l.operations.WithLabelValues(string(event.Op), format, outcome).Inc()
	l.duration.WithLabelValues(string(event.Op), format).Observe(event.Duration.Seconds())
}
