// Package middleware provides the gin middleware of the hostel API.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	// Registry receives the collectors. A fresh registry is created when nil.
	Registry *prometheus.Registry
	// Namespace prefixes every metric name.
	Namespace string
	Enabled   bool
}

// DefaultHTTPMetricsConfig returns default HTTP metrics configuration.
func DefaultHTTPMetricsConfig() HTTPMetricsConfig {
	return HTTPMetricsConfig{
		Namespace: "hostel",
		Enabled:   true,
	}
}

// httpDurationBuckets covers fast cached reads up to slow report exports.
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// HTTPMetrics owns the Prometheus collectors of the HTTP layer.
type HTTPMetrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	enabled         bool
}

// NewHTTPMetrics registers the HTTP collectors plus the Go runtime and process
// collectors on the configured registry.
func NewHTTPMetrics(cfg HTTPMetricsConfig) *HTTPMetrics {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &HTTPMetrics{
		registry: reg,
		enabled:  cfg.Enabled,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution in seconds",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "route"}),
		responseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response body size distribution in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "http_active_requests",
			Help:      "Number of currently active HTTP requests",
		}),
	}

	reg.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.responseSize,
		m.activeRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for additional collectors
func (m *HTTPMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records one observation per request. Unmatched routes share the
// "unmatched" label to keep cardinality bounded.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	if m == nil || !m.enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		m.activeRequests.Inc()
		defer m.activeRequests.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requestTotal.WithLabelValues(method, route, status).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
