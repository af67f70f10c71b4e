package chat

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// Config describes how a Model reaches the API.
type Config struct {
	// Provider is reported in logs, metrics and Model.Provider (e.g. "undrstnd.chat").
	Provider string
	// BaseURL is the API root; "/chat/completions" is appended.
	BaseURL string
	// Headers returns the headers for each request. It runs per request so the
	// API key can be resolved lazily.
	Headers func() (map[string]string, error)

	Timeout     time.Duration // per-request timeout (default: 60s, streams excluded)
	MaxRetries  int           // retry attempts (default: 2, negative disables)
	BaseBackoff time.Duration // initial backoff (default: 200ms)

	// HTTPClient overrides the default pooled client.
	HTTPClient *http.Client
}

// Validate checks required fields only.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return errors.New("chat: Provider is required")
	}
	if c.BaseURL == "" {
		return errors.New("chat: BaseURL is required")
	}
	return nil
}

// WithDefaults returns a copy of Config with defaults applied and BaseURL normalized.
func (c *Config) WithDefaults() Config {
	cfg := *c
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}
	if cfg.Headers == nil {
		cfg.Headers = func() (map[string]string, error) { return nil, nil }
	}
	return cfg
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}
