package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters exported on /metrics.
type Metrics struct {
	sessions    prometheus.Counter
	navigations *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	submissions prometheus.Counter
}

// NewMetrics registers the stepform counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stepform",
			Name:      "sessions_started_total",
			Help:      "Sessions created",
		}),
		// Labels: event (next, back), result (blocked, moved, clamped, submitted)
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stepform",
			Name:      "navigations_total",
			Help:      "Navigation attempts by outcome",
		}, []string{"event", "result"}),
		fieldErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stepform",
			Name:      "field_errors_total",
			Help:      "Fields left invalid after a blocked navigation",
		}, []string{"field"}),
		submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stepform",
			Name:      "submissions_total",
			Help:      "Forms submitted",
		}),
	}
}
