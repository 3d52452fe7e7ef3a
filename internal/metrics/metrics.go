package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's prometheus instruments.  All instruments are
// registered on the registerer passed to New, so tests can use a private
// registry.
type Metrics struct {
	// Access decisions by resulting status (granted | pending).
	DecisionsTotal *prometheus.CounterVec

	// Admin overrides by outcome (granted | denied).
	OverridesTotal *prometheus.CounterVec

	// Scans whose credential code matched no user.
	UserLookupMissesTotal prometheus.Counter

	// Unlock commands that failed to reach the door actuator.
	UnlockFailuresTotal prometheus.Counter

	// End-to-end duration of validate requests.
	ValidateDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accessit_decisions_total",
			Help: "Access decisions recorded, by resulting status.",
		}, []string{"status"}),

		OverridesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accessit_overrides_total",
			Help: "Administrative overrides applied, by outcome.",
		}, []string{"outcome"}),

		UserLookupMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "accessit_user_lookup_misses_total",
			Help: "Validate requests whose credential code matched no user.",
		}),

		UnlockFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "accessit_unlock_failures_total",
			Help: "Unlock commands that failed to reach the door actuator.",
		}),

		ValidateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "accessit_validate_duration_seconds",
			Help:    "Duration of validate requests, including store calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
