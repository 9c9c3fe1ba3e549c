// Package metrics exposes the analytics core's operational measurements in
// Prometheus format on a registry of its own.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// PrometheusMetrics implements ports.AnalyticsMetrics.
type PrometheusMetrics struct {
	registry         *prometheus.Registry
	overviewDuration *prometheus.HistogramVec
	overviewFailures *prometheus.CounterVec
	ratingUpdates    *prometheus.CounterVec
}

func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	overviewDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backoffice",
			Name:      "overview_duration_seconds",
			Help:      "Time taken to aggregate one overview",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"view"},
	)

	overviewFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "overview_failures_total",
			Help:      "Overviews that failed because a sub-query failed",
		},
		[]string{"view"},
	)

	ratingUpdates := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "rating_updates_total",
			Help:      "Rating maintenance operations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	registry.MustRegister(
		overviewDuration,
		overviewFailures,
		ratingUpdates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &PrometheusMetrics{
		registry:         registry,
		overviewDuration: overviewDuration,
		overviewFailures: overviewFailures,
		ratingUpdates:    ratingUpdates,
	}
}

func (m *PrometheusMetrics) ObserveOverview(view string, elapsed time.Duration, err error) {
	m.overviewDuration.WithLabelValues(view).Observe(elapsed.Seconds())
	if err != nil {
		m.overviewFailures.WithLabelValues(view).Inc()
	}
}

func (m *PrometheusMetrics) ObserveRatingUpdate(kind string, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	m.ratingUpdates.WithLabelValues(kind, outcome).Inc()
}

// Registry is exposed for tests and for registering further collectors.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
