package undrstnd

import (
	"maps"
	"slices"
)

// CallOption configures a Call (functional options pattern).
type CallOption func(*Call)

// NewCall builds a Call with defensive copies of messages and option values.
func NewCall(messages []ChatMessage, opts ...CallOption) *Call {
	c := &Call{Messages: slices.Clone(messages)}
	for _, opt := range opts {
		opt(c)
	}
	if c.ModelConfig != nil {
		c.ModelConfig = maps.Clone(c.ModelConfig)
	}
	if c.Headers != nil {
		c.Headers = maps.Clone(c.Headers)
	}
	return c
}

// regular returns the call's RegularMode, or a zero one when the call is in another mode.
func (c *Call) regular() RegularMode {
	if m, ok := c.Mode.(RegularMode); ok {
		return m
	}
	return RegularMode{}
}

// WithTools sets the tools of a regular-mode call.
func WithTools(tools ...Tool) CallOption {
	return func(c *Call) {
		m := c.regular()
		m.Tools = slices.Clone(tools)
		c.Mode = m
	}
}

// WithToolChoice sets the tool-choice policy of a regular-mode call.
func WithToolChoice(choice ToolChoice) CallOption {
	return func(c *Call) {
		m := c.regular()
		m.ToolChoice = choice
		c.Mode = m
	}
}

// WithMode replaces the call mode.
func WithMode(mode Mode) CallOption {
	return func(c *Call) {
		c.Mode = mode
	}
}

// WithConfig sets model config (e.g. temperature, max_tokens).
func WithConfig(config map[string]any) CallOption {
	return func(c *Call) {
		c.ModelConfig = config
	}
}

// WithResponseFormat sets the requested response format.
func WithResponseFormat(rf *ResponseFormat) CallOption {
	return func(c *Call) {
		c.ResponseFormat = rf
	}
}

// WithHeaders sets extra HTTP headers sent with this call.
func WithHeaders(h map[string]string) CallOption {
	return func(c *Call) {
		c.Headers = h
	}
}
