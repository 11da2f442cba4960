package challengegen

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// Attempt outcomes recorded in the attempts counter.
const (
	OutcomeSuccess      = "success"
	OutcomeDuplicate    = "duplicate"
	OutcomeRejected     = "rejected"
	OutcomeMalformed    = "malformed"
	OutcomeUpstream     = "upstream_error"
	OutcomeStorageError = "storage_error"
	OutcomeFallback     = "fallback"
)

// Metrics counts generation attempts by challenge kind and outcome.
type Metrics struct {
	attempts *prometheus.CounterVec
}

// NewMetrics creates the generation counters and registers them with reg
// when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillstracker_generation_attempts_total",
				Help: "Challenge generation attempts by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.attempts)
	}
	return m
}

// Attempts exposes the underlying counter, mainly for tests.
func (m *Metrics) Attempts() *prometheus.CounterVec {
	return m.attempts
}

func (m *Metrics) observe(kind challenge.Kind, outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(string(kind), outcome).Inc()
}
