package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"venty-hq/relay/pkg/config"
)

// Collector owns the Prometheus registry and the metric groups the
// gateway records. A nil *Collector is valid and records nothing, so
// tests can run without metrics.
type Collector struct {
	registry *prometheus.Registry

	// Provider tracks upstream provider calls.
	Provider *ProviderMetrics

	// Routing tracks router decisions and outcomes.
	Routing *RoutingMetrics

	// Request tracks inbound HTTP requests.
	Request *RequestMetrics
}

// NewCollector creates the registry and registers all metric groups plus
// the standard Go runtime and process collectors.
func NewCollector(cfg *config.MetricsConfig) *Collector {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		Provider: NewProviderMetrics(cfg, registry),
		Routing:  NewRoutingMetrics(cfg, registry),
		Request:  NewRequestMetrics(cfg, registry),
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// ProviderMetrics returns the provider group of a possibly-nil collector.
func (c *Collector) ProviderMetrics() *ProviderMetrics {
	if c == nil {
		return nil
	}
	return c.Provider
}

// RoutingMetrics returns the routing group of a possibly-nil collector.
func (c *Collector) RoutingMetrics() *RoutingMetrics {
	if c == nil {
		return nil
	}
	return c.Routing
}

// RequestMetrics returns the request group of a possibly-nil collector.
func (c *Collector) RequestMetrics() *RequestMetrics {
	if c == nil {
		return nil
	}
	return c.Request
}

// RequestMetrics tracks inbound HTTP requests.
//
// Metrics:
//   - venty_requests_total: inbound requests by route and status
//   - venty_request_duration_seconds: request duration by route
type RequestMetrics struct {
	// Inbound request counter
	requestsTotal *prometheus.CounterVec

	// Request duration histogram
	requestDuration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the
// provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of inbound HTTP requests",
			},
			[]string{"route", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of inbound HTTP requests in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
	)

	return rm
}

// RecordRequest records one completed inbound request. Nil-safe.
func (rm *RequestMetrics) RecordRequest(route, status string, duration time.Duration) {
	if rm == nil {
		return
	}
	rm.requestsTotal.WithLabelValues(route, status).Inc()
	rm.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
