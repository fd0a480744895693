package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector manages Prometheus metrics for the gateway
type MetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	activeRequests  *prometheus.GaugeVec
}

// NewMetricsCollector creates a new MetricsCollector and registers all metrics
func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Total number of gateway requests",
			},
			[]string{"model", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"model", "method"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_errors_total",
				Help: "Total number of errors",
			},
			[]string{"model", "method", "error_kind"},
		),
		activeRequests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gateway_active_requests",
				Help: "Number of active requests",
			},
			[]string{"model"},
		),
	}

	prometheus.MustRegister(m.requestsTotal)
	prometheus.MustRegister(m.requestDuration)
	prometheus.MustRegister(m.errorsTotal)
	prometheus.MustRegister(m.activeRequests)

	return m
}

// RecordRequest records a completed request
func (m *MetricsCollector) RecordRequest(model, method, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(model, method, status).Inc()
	m.requestDuration.WithLabelValues(model, method).Observe(duration.Seconds())
}

// RecordError records an error by its kind name
func (m *MetricsCollector) RecordError(model, method, errorKind string) {
	m.errorsTotal.WithLabelValues(model, method, errorKind).Inc()
}

// IncActiveRequests increments the active request counter
func (m *MetricsCollector) IncActiveRequests(model string) {
	m.activeRequests.WithLabelValues(model).Inc()
}

// DecActiveRequests decrements the active request counter
func (m *MetricsCollector) DecActiveRequests(model string) {
	m.activeRequests.WithLabelValues(model).Dec()
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}
