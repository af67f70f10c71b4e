// Package metrics holds the prometheus collectors of the proxy and of chat models.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/undrstnd-labs/undrstnd-go"
)

// Metrics groups the collectors. It implements chat.Recorder.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	Warnings         *prometheus.CounterVec
	CacheResults     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
// A nil reg uses a fresh registry, which keeps tests independent.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "undrstnd_upstream_requests_total",
			Help: "Upstream chat-completion calls by outcome.",
		}, []string{"provider", "model", "outcome"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "undrstnd_upstream_latency_seconds",
			Help:    "Upstream chat-completion latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider", "model"}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "undrstnd_call_warnings_total",
			Help: "Non-fatal call warnings by type.",
		}, []string{"provider", "type"}),
		CacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "undrstnd_cache_results_total",
			Help: "Response cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "undrstnd_http_latency_seconds",
			Help:    "Proxy HTTP request latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"route", "method", "status_code"}),
		gatherer: reg,
	}
	reg.MustRegister(m.UpstreamRequests, m.UpstreamLatency, m.Warnings, m.CacheResults, m.HTTPLatency)
	return m
}

// ObserveRequest records one upstream call.
func (m *Metrics) ObserveRequest(provider, model, outcome string, d time.Duration) {
	m.UpstreamRequests.WithLabelValues(provider, model, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(provider, model).Observe(d.Seconds())
}

// AddWarnings counts call warnings by type.
func (m *Metrics) AddWarnings(provider string, warnings []undrstnd.CallWarning) {
	for _, w := range warnings {
		m.Warnings.WithLabelValues(provider, w.Type()).Inc()
	}
}

// CacheResult counts one cache lookup.
func (m *Metrics) CacheResult(result string) {
	m.CacheResults.WithLabelValues(result).Inc()
}

// Handler exposes the registry for Prometheus to scrape.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware measures request latency, labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.HTTPLatency.WithLabelValues(route, r.Method, strconv.Itoa(rec.statusCode)).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush lets SSE handlers flush through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
