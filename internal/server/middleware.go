package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/internal/logging"
)

// LoggingContext attaches a request-scoped logger to the context.
func LoggingContext(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(zap.String("method", r.Method), zap.String("path", r.URL.Path))
			if id := chimw.GetReqID(r.Context()); id != "" {
				l = l.With(zap.String("request_id", id))
			}
			if r.RemoteAddr != "" {
				l = l.With(zap.String("remote_ip", r.RemoteAddr))
			}
			next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), l)))
		})
	}
}

// Recoverer turns panics into 500s. Unknown call modes and tool choices panic in
// the adapter and land here.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			fields := []zap.Field{zap.Any("panic", rec), zap.ByteString("stack", debug.Stack())}
			if err, ok := rec.(error); ok &&
				(errors.Is(err, undrstnd.ErrUnsupportedMode) || errors.Is(err, undrstnd.ErrUnsupportedToolChoice)) {
				fields = append(fields, zap.Bool("contract_violation", true))
			}
			logging.L(r.Context()).Error("panic recovered", fields...)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"internal_server_error"}`))
		}()
		next.ServeHTTP(w, r)
	})
}
