package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/adapter"
)

const maxErrorBody = 1 << 20

// Recorder observes upstream calls. internal/metrics.Metrics implements it.
type Recorder interface {
	ObserveRequest(provider, model, outcome string, d time.Duration)
	AddWarnings(provider string, warnings []undrstnd.CallWarning)
}

// Outcomes passed to Recorder.ObserveRequest.
const (
	OutcomeOK       = "ok"
	OutcomeAPIError = "api_error"
	OutcomeError    = "error"
)

// Model is a chat model bound to one model id. It is safe for concurrent use.
type Model struct {
	modelID    string
	cfg        Config
	adapter    adapter.ProviderAdapter
	safePrompt bool
	httpClient *http.Client
	logger     *zap.Logger
	recorder   Recorder
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRecorder reports every upstream call to r.
func WithRecorder(r Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithAdapter replaces the request translator. WithSafePrompt has no effect on it.
func WithAdapter(a adapter.ProviderAdapter) Option {
	return func(m *Model) { m.adapter = a }
}

// WithSafePrompt makes the default translator request the API safety prompt on
// every call.
func WithSafePrompt(on bool) Option {
	return func(m *Model) { m.safePrompt = on }
}

// NewModel returns a Model for modelID.
func NewModel(modelID string, cfg Config, opts ...Option) (*Model, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		modelID:    modelID,
		cfg:        cfg,
		httpClient: cfg.HTTPClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.adapter == nil {
		m.adapter = adapter.New(modelID, adapter.WithSafePrompt(m.safePrompt))
	}
	if m.httpClient == nil {
		m.httpClient = defaultHTTPClient()
	}
	m.logger = m.logger.Named("undrstnd.chat").With(zap.String("provider", cfg.Provider), zap.String("model", modelID))
	return m, nil
}

// Provider returns the provider id, e.g. "undrstnd.chat".
func (m *Model) Provider() string { return m.cfg.Provider }

// ModelID returns the model id.
func (m *Model) ModelID() string { return m.modelID }

// Prepare translates call without sending it.
func (m *Model) Prepare(ctx context.Context, call *undrstnd.Call) (*adapter.Request, error) {
	return m.adapter.Translate(ctx, call)
}

// Generate sends call and waits for the whole completion.
func (m *Model) Generate(ctx context.Context, call *undrstnd.Call) (*undrstnd.GenerateResult, error) {
	req, err := m.Prepare(ctx, call)
	if err != nil {
		return nil, err
	}
	var headers map[string]string
	if call != nil {
		headers = call.Headers
	}
	return m.Send(ctx, req, headers)
}

// Send posts an already translated request. extraHeaders override configured headers.
func (m *Model) Send(ctx context.Context, req *adapter.Request, extraHeaders map[string]string) (*undrstnd.GenerateResult, error) {
	start := time.Now()
	req.Body.Stream = false
	body, err := json.Marshal(req.Body)
	if err != nil {
		return nil, fmt.Errorf("chat: marshal request: %w", err)
	}
	m.reportWarnings(req.Warnings)

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	resp, err := m.post(ctx, body, extraHeaders)
	if err != nil {
		m.observe(OutcomeError, start)
		m.logger.Error("upstream request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := m.apiError(resp)
		m.observe(OutcomeAPIError, start)
		return nil, apiErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		m.observe(OutcomeError, start)
		return nil, fmt.Errorf("chat: read response: %w", err)
	}
	out, err := m.adapter.ParseResponse(ctx, raw, req)
	if err != nil {
		m.observe(OutcomeError, start)
		return nil, err
	}
	out.RawRequest = body
	m.observe(OutcomeOK, start)
	m.logger.Info("upstream request completed",
		zap.String("finish_reason", string(out.FinishReason)),
		zap.Int("prompt_tokens", out.Usage.PromptTokens),
		zap.Int("completion_tokens", out.Usage.CompletionTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (m *Model) url() string { return m.cfg.BaseURL + "/chat/completions" }

// post sends body with retries. Headers are resolved once per call.
func (m *Model) post(ctx context.Context, body []byte, extraHeaders map[string]string) (*http.Response, error) {
	headers, err := m.cfg.Headers()
	if err != nil {
		return nil, err
	}
	url := m.url()
	m.logger.Debug("upstream request starting", zap.Int("body_bytes", len(body)))
	return m.doWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("chat: build HTTP request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			httpReq.Header.Set(k, v)
		}
		for k, v := range extraHeaders {
			httpReq.Header.Set(k, v)
		}
		return m.httpClient.Do(httpReq)
	})
}

func (m *Model) apiError(resp *http.Response) *APICallError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := newAPICallError(m.url(), resp.StatusCode, body)
	fields := []zap.Field{zap.Int("status", resp.StatusCode), zap.String("error_message", e.Message)}
	if e.Data != nil {
		fields = append(fields, zap.String("error_type", e.Data.Type))
	} else {
		fields = append(fields, zap.String("body", truncate(string(body), 200)))
	}
	m.logger.Error("upstream returned error", fields...)
	return e
}

func (m *Model) observe(outcome string, start time.Time) {
	if m.recorder != nil {
		m.recorder.ObserveRequest(m.cfg.Provider, m.modelID, outcome, time.Since(start))
	}
}

func (m *Model) reportWarnings(ws []undrstnd.CallWarning) {
	if len(ws) == 0 {
		return
	}
	for _, w := range ws {
		m.logger.Debug("call warning", zap.String("type", w.Type()))
	}
	if m.recorder != nil {
		m.recorder.AddWarnings(m.cfg.Provider, ws)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
