// Package metrics registers and records the gateway's Prometheus
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"venty-hq/relay/pkg/config"
)

// ProviderMetrics tracks upstream provider calls.
//
// Metrics:
//   - venty_provider_requests_total: calls made to each provider/model
//   - venty_provider_errors_total: provider failures by error kind
//   - venty_provider_latency_seconds: provider call latency
//   - venty_provider_blacklisted: whether a provider is currently blacklisted
type ProviderMetrics struct {
	// Total calls to each provider/model
	requests *prometheus.CounterVec

	// Provider failure counter by error kind
	errors *prometheus.CounterVec

	// Provider call latency histogram
	latency *prometheus.HistogramVec

	// Blacklist status gauge (1=blacklisted, 0=eligible)
	blacklisted *prometheus.GaugeVec
}

// NewProviderMetrics creates and registers provider metrics with the
// provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of calls made to each provider and model",
			},
			[]string{"provider", "model"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider failures by error kind",
			},
			[]string{"provider", "kind"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_latency_seconds",
				Help:      "Provider call latency in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"provider", "model"},
		),

		blacklisted: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_blacklisted",
				Help:      "Whether a provider is temporarily blacklisted (1=blacklisted)",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		pm.requests,
		pm.errors,
		pm.latency,
		pm.blacklisted,
	)

	return pm
}

// RecordRequest records one call to a provider/model. Nil-safe so the
// router can run without metrics in tests.
func (pm *ProviderMetrics) RecordRequest(provider, model string) {
	if pm == nil {
		return
	}
	pm.requests.WithLabelValues(provider, model).Inc()
}

// RecordError records a provider failure by error kind (payment_required,
// rate_limited, auth, transport, bad_response, upstream).
func (pm *ProviderMetrics) RecordError(provider, kind string) {
	if pm == nil {
		return
	}
	pm.errors.WithLabelValues(provider, kind).Inc()
}

// RecordLatency records the latency of one provider call.
func (pm *ProviderMetrics) RecordLatency(provider, model string, seconds float64) {
	if pm == nil {
		return
	}
	pm.latency.WithLabelValues(provider, model).Observe(seconds)
}

// SetBlacklisted updates a provider's blacklist gauge.
func (pm *ProviderMetrics) SetBlacklisted(provider string, blacklisted bool) {
	if pm == nil {
		return
	}
	value := 0.0
	if blacklisted {
		value = 1.0
	}
	pm.blacklisted.WithLabelValues(provider).Set(value)
}
