package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the prediction service.
// A custom registry keeps the scrape output limited to what we register.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	learnersPredicted *prometheus.CounterVec
	narrativeFallback prometheus.Counter
}

// NewMetrics builds and registers the service instruments.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "learnpulse",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		requestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "learnpulse",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route and method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		learnersPredicted: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "learnpulse",
			Name:      "learners_predicted_total",
			Help:      "Total learners assigned a cluster, by category label",
		}, []string{"category"}),
		narrativeFallback: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "learnpulse",
			Name:      "narrative_fallback_total",
			Help:      "Insight messages served from the deterministic fallback table",
		}),
	}
}

// Registry exposes the custom registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, status).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// CountPrediction records one labeled learner result.
func (m *Metrics) CountPrediction(category string) {
	m.learnersPredicted.WithLabelValues(category).Inc()
}

// CountNarrativeFallback records one fallback-sourced insight message.
func (m *Metrics) CountNarrativeFallback() {
	m.narrativeFallback.Inc()
}
