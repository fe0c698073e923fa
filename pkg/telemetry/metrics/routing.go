package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"venty-hq/relay/pkg/config"
)

// Routing decision paths recorded by the router.
const (
	PathAffinity = "affinity"
	PathSimilar  = "similar"
	PathGeneral  = "general"
)

// RoutingMetrics tracks routing decisions and outcomes.
//
// Metrics:
//   - venty_routing_decisions_total: selections by resolution path
//   - venty_routing_exhaustions_total: requests where every candidate failed
//   - venty_routing_cancellations_total: requests cancelled by the caller
type RoutingMetrics struct {
	// Successful selections by resolution path (affinity, similar, general)
	decisions *prometheus.CounterVec

	// Requests that exhausted every candidate
	exhaustions prometheus.Counter

	// Requests cancelled by the caller
	cancellations prometheus.Counter
}

// NewRoutingMetrics creates and registers routing metrics with the
// provided registry.
func NewRoutingMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RoutingMetrics {
	rm := &RoutingMetrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "routing_decisions_total",
				Help:      "Successful provider selections by resolution path",
			},
			[]string{"path", "provider"},
		),

		exhaustions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "routing_exhaustions_total",
				Help:      "Requests for which every candidate provider failed",
			},
		),

		cancellations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "routing_cancellations_total",
				Help:      "Requests cancelled by the caller",
			},
		),
	}

	registry.MustRegister(
		rm.decisions,
		rm.exhaustions,
		rm.cancellations,
	)

	return rm
}

// RecordDecision records a successful selection. Nil-safe.
func (rm *RoutingMetrics) RecordDecision(path, provider string) {
	if rm == nil {
		return
	}
	rm.decisions.WithLabelValues(path, provider).Inc()
}

// RecordExhaustion records a request that failed every candidate.
func (rm *RoutingMetrics) RecordExhaustion() {
	if rm == nil {
		return
	}
	rm.exhaustions.Inc()
}

// RecordCancellation records a caller-cancelled request.
func (rm *RoutingMetrics) RecordCancellation() {
	if rm == nil {
		return
	}
	rm.cancellations.Inc()
}
