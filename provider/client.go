package provider

import "github.com/undrstnd-labs/undrstnd-go/chat"

// Mistral defaults used by Client.
const (
	MistralBaseURL        = "https://api.mistral.ai/v1"
	MistralAPIKeyEnv      = "MISTRAL_API_KEY"
	MistralChatProviderID = "mistral.chat"
)

// Client is the older facade that targets the Mistral endpoint.
//
// Deprecated: Use New.
type Client struct {
	p *Provider
}

// NewClient returns a Client. It reads MISTRAL_API_KEY and defaults to the Mistral base URL.
//
// Deprecated: Use New.
func NewClient(opts ...Option) *Client {
	p := &Provider{providerID: MistralChatProviderID, baseURL: MistralBaseURL, apiKeyEnv: MistralAPIKeyEnv}
	for _, opt := range opts {
		opt(p)
	}
	p.normalize(MistralBaseURL)
	return &Client{p: p}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.p.baseURL }

// Chat creates a chat model for modelID.
func (c *Client) Chat(modelID ModelID, settings ...ChatSettings) (*chat.Model, error) {
	return c.p.Chat(modelID, settings...)
}
