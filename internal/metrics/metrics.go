package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	WeatherCacheLookups *prometheus.CounterVec
	WeatherFetches      *prometheus.CounterVec
	WeatherFallbacks    prometheus.Counter

	registry *prometheus.Registry
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.WeatherCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_lookups_total",
			Help: "Weather cache lookups by outcome (fresh, stale, absent, error)",
		},
		[]string{"result"},
	)

	m.WeatherFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_provider_fetches_total",
			Help: "Outbound weather provider calls by outcome",
		},
		[]string{"result"},
	)

	m.WeatherFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_fallback_records_total",
			Help: "Weather records served from the deterministic placeholder",
		},
	)

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WeatherCacheLookups,
		m.WeatherFetches,
		m.WeatherFallbacks,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheLookup records a weather cache lookup outcome. Safe on a nil receiver.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.WeatherCacheLookups.WithLabelValues(result).Inc()
}

// Fetch records a provider call outcome. Safe on a nil receiver.
func (m *Metrics) Fetch(result string) {
	if m == nil {
		return
	}
	m.WeatherFetches.WithLabelValues(result).Inc()
}

// Fallback counts a placeholder record. Safe on a nil receiver.
func (m *Metrics) Fallback() {
	if m == nil {
		return
	}
	m.WeatherFallbacks.Inc()
}

// Middleware records request counts and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Raw paths of unrouted requests would make label cardinality unbounded.
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
