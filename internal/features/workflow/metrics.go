package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeApplied  = "applied"
	outcomeRejected = "rejected"
	outcomeDenied   = "denied"
	outcomeConflict = "conflict"
	outcomeError    = "error"

	// unresolvedAction labels denials recorded before the request body is read.
	unresolvedAction = "unresolved"
)

type Metrics struct {
	transitions *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ojs",
			Subsystem: "workflow",
			Name:      "transitions_total",
			Help:      "Workflow transition requests by action and outcome.",
		}, []string{"action", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ojs",
			Subsystem: "workflow",
			Name:      "transition_seconds",
			Help:      "Time spent applying workflow transitions.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.transitions, m.duration)
	return m
}

func (m *Metrics) observe(action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, outcome).Inc()
	if outcome == outcomeApplied {
		m.duration.Observe(elapsed.Seconds())
	}
}
