// Package provider builds chat models for the Undrstnd API: base URL, API key
// resolution from UNDRSTND_API_KEY, custom headers and HTTP client.
package provider

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go/chat"
)

// Defaults of the Undrstnd API.
const (
	DefaultBaseURL = "https://api.undrstnd-labs.com/v1"
	APIKeyEnv      = "UNDRSTND_API_KEY"
	ChatProviderID = "undrstnd.chat"
)

// ErrMissingAPIKey is returned at request time when no API key was configured.
var ErrMissingAPIKey = errors.New("provider: API key is missing")

// Provider creates chat models sharing one configuration. It is safe for concurrent use.
type Provider struct {
	providerID string
	baseURL    string
	apiKey     string
	apiKeyEnv  string
	headers    map[string]string
	httpClient *http.Client
	logger     *zap.Logger
	recorder   chat.Recorder
	maxRetries int
	timeout    time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL sets the URL prefix for API calls, e.g. to use a proxy.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = u }
}

// WithAPIKey sets the API key sent as a bearer token. Without it the
// environment variable is read on every request.
func WithAPIKey(key string) Option {
	return func(p *Provider) { p.apiKey = key }
}

// WithHeaders adds headers to every request. They override Authorization.
func WithHeaders(h map[string]string) Option {
	return func(p *Provider) { p.headers = maps.Clone(h) }
}

// WithHTTPClient sets the HTTP client, e.g. for tests or middleware transports.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithLogger sets the logger handed to every model.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithRecorder sets the metrics recorder handed to every model.
func WithRecorder(r chat.Recorder) Option {
	return func(p *Provider) { p.recorder = r }
}

// WithMaxRetries sets the retry count; negative disables retries.
func WithMaxRetries(n int) Option {
	return func(p *Provider) { p.maxRetries = n }
}

// WithTimeout sets the per-request timeout of non-streamed calls.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// New returns an Undrstnd provider.
func New(opts ...Option) *Provider {
	p := &Provider{providerID: ChatProviderID, baseURL: DefaultBaseURL, apiKeyEnv: APIKeyEnv}
	for _, opt := range opts {
		opt(p)
	}
	p.normalize(DefaultBaseURL)
	return p
}

func (p *Provider) normalize(fallback string) {
	p.baseURL = strings.TrimRight(p.baseURL, "/")
	if p.baseURL == "" {
		p.baseURL = fallback
	}
}

// BaseURL returns the normalized base URL.
func (p *Provider) BaseURL() string { return p.baseURL }

// Chat creates a chat model for modelID.
func (p *Provider) Chat(modelID ModelID, settings ...ChatSettings) (*chat.Model, error) {
	var s ChatSettings
	if len(settings) > 0 {
		s = settings[0]
	}
	opts := []chat.Option{chat.WithLogger(p.logger), chat.WithSafePrompt(s.SafePrompt)}
	if p.recorder != nil {
		opts = append(opts, chat.WithRecorder(p.recorder))
	}
	return chat.NewModel(modelID, chat.Config{
		Provider:   p.providerID,
		BaseURL:    p.baseURL,
		Headers:    p.requestHeaders,
		Timeout:    p.timeout,
		MaxRetries: p.maxRetries,
		HTTPClient: p.httpClient,
	}, opts...)
}

// LanguageModel is an alias of Chat.
func (p *Provider) LanguageModel(modelID ModelID, settings ...ChatSettings) (*chat.Model, error) {
	return p.Chat(modelID, settings...)
}

// requestHeaders resolves the API key and merges custom headers over Authorization.
func (p *Provider) requestHeaders() (map[string]string, error) {
	key, err := p.loadAPIKey()
	if err != nil {
		return nil, err
	}
	h := map[string]string{"Authorization": "Bearer " + key}
	maps.Copy(h, p.headers)
	return h, nil
}

func (p *Provider) loadAPIKey() (string, error) {
	if p.apiKey != "" {
		return p.apiKey, nil
	}
	if key := os.Getenv(p.apiKeyEnv); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: pass it with WithAPIKey or set %s", ErrMissingAPIKey, p.apiKeyEnv)
}
