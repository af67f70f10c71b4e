package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/adapter"
	"github.com/undrstnd-labs/undrstnd-go/chat"
	"github.com/undrstnd-labs/undrstnd-go/internal/cache"
	"github.com/undrstnd-labs/undrstnd-go/internal/logging"
)

const maxBodyBytes = 4 << 20

// Model is the part of *chat.Model the handlers use.
type Model interface {
	Prepare(ctx context.Context, call *undrstnd.Call) (*adapter.Request, error)
	Send(ctx context.Context, req *adapter.Request, extraHeaders map[string]string) (*undrstnd.GenerateResult, error)
	SendStream(ctx context.Context, req *adapter.Request, extraHeaders map[string]string) (*chat.StreamResult, error)
}

// ModelFactory returns the model for a model id; an empty id selects the default.
type ModelFactory func(modelID string) (Model, error)

// Handler serves the proxy endpoints.
type Handler struct {
	models ModelFactory
	loader *cache.Loader
}

// NewHandler returns a Handler. loader may be nil to disable caching.
func NewHandler(models ModelFactory, loader *cache.Loader) *Handler {
	return &Handler{models: models, loader: loader}
}

// prepare decodes the body and translates it. It writes the error response itself.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (Model, *adapter.Request, bool) {
	var body generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return nil, nil, false
	}
	call, err := body.toCall()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return nil, nil, false
	}
	model, err := h.models(body.Model)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return nil, nil, false
	}
	req, err := model.Prepare(r.Context(), call)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return nil, nil, false
	}
	return model, req, true
}

// Generate handles POST /v1/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	model, req, ok := h.prepare(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	headers := forwardedHeaders(r)

	fill := func(ctx context.Context) ([]byte, error) {
		res, err := model.Send(ctx, req, headers)
		if err != nil {
			return nil, err
		}
		return json.Marshal(newGenerateResponse(res))
	}

	var (
		out []byte
		hit bool
		err error
	)
	if h.loader != nil {
		key, kerr := cache.KeyFor(req.Body, headers)
		if kerr != nil {
			writeError(w, r, http.StatusInternalServerError, kerr)
			return
		}
		out, hit, err = h.loader.Load(ctx, key.String(), fill)
	} else {
		out, err = fill(ctx)
	}
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	logging.L(ctx).Info("generate completed", zap.Bool("cache_hit", hit), zap.String("model", req.Body.Model))
	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(out)
}

// Stream handles POST /v1/stream with server-sent events.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	model, req, ok := h.prepare(w, r)
	if !ok {
		return
	}
	res, err := model.SendStream(r.Context(), req, forwardedHeaders(r))
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if len(res.Warnings) > 0 {
		writeEvent(w, "warnings", warningsDTO(res.Warnings))
	}
	for p := range res.Parts {
		name, data := streamEvent(p)
		writeEvent(w, name, data)
		flusher.Flush()
	}
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeEvent(w http.ResponseWriter, name string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"error": err.Error()})
		name = "error"
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, b)
}

// forwardedHeaders passes X-Undrstnd-* request headers through to the API.
func forwardedHeaders(r *http.Request) map[string]string {
	var out map[string]string
	for k, v := range r.Header {
		if strings.HasPrefix(http.CanonicalHeaderKey(k), "X-Undrstnd-") && len(v) > 0 {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = v[0]
		}
	}
	return out
}

// statusFor maps an error to an HTTP status. API errors keep the upstream status.
func statusFor(err error) int {
	var apiErr *chat.APICallError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.StatusCode
	case errors.Is(err, errBadRequest),
		errors.Is(err, undrstnd.ErrEmptyPrompt),
		errors.Is(err, undrstnd.ErrUnsupportedRole),
		errors.Is(err, undrstnd.ErrUnsupportedContentType),
		errors.Is(err, undrstnd.ErrMalformedArgs),
		errors.Is(err, undrstnd.ErrMalformedResult):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := logging.L(r.Context())
	if status >= 500 {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.Int("status", status), zap.Error(err))
	}
	msg := err.Error()
	var apiErr *chat.APICallError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
