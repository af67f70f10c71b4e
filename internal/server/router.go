// Package server exposes chat models over HTTP: a JSON generate endpoint with a
// response cache, an SSE stream endpoint, health and metrics.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go/internal/metrics"
)

// Deps are the router dependencies. Metrics may be nil.
type Deps struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Handler        *Handler
	RequestTimeout time.Duration
}

// NewRouter builds the chi router.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := chi.NewRouter()
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(LoggingContext(d.Logger))
	r.Use(Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.With(timeout(d.RequestTimeout)).Post("/generate", d.Handler.Generate)
		r.Post("/stream", d.Handler.Stream)
	})
	r.Get("/healthz", Healthz)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
	return r
}

func timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimw.Timeout(d)
}
