package adapter

import (
	"context"
	"fmt"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/internal/cast"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

// Adapter implements ProviderAdapter for the Undrstnd chat-completion API.
type Adapter struct {
	modelID    string
	safePrompt bool
}

// Option configures an Adapter (e.g. WithSafePrompt).
type Option func(*Adapter)

// WithSafePrompt makes every request ask the API to prepend its safety prompt.
func WithSafePrompt(on bool) Option {
	return func(a *Adapter) { a.safePrompt = on }
}

// New returns an Adapter for modelID. A "model" string in Call.ModelConfig overrides it.
func New(modelID string, opts ...Option) *Adapter {
	a := &Adapter{modelID: modelID}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ModelID returns the default model id.
func (a *Adapter) ModelID() string { return a.modelID }

// Translate converts call into a request body. It panics with an error wrapping
// undrstnd.ErrUnsupportedMode or undrstnd.ErrUnsupportedToolChoice when call
// carries a Mode or ToolChoice this adapter does not know.
func (a *Adapter) Translate(ctx context.Context, call *undrstnd.Call) (*Request, error) {
	if call == nil {
		return nil, ErrNilCall
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prompt, prefix, err := ConvertPrompt(call.Messages)
	if err != nil {
		return nil, err
	}
	req := &Request{
		Body: wire.ChatRequest{
			Model:      a.modelID,
			Messages:   prompt,
			SafePrompt: a.safePrompt,
		},
		Prefix: prefix,
	}
	if m, ok := cast.ToString(call.ModelConfig["model"]); ok {
		req.Body.Model = m
	}
	if sp, ok := cast.ToBool(call.ModelConfig["safe_prompt"]); ok {
		req.Body.SafePrompt = sp
	}

	mp := ExtractModelConfig(call.ModelConfig)
	req.Body.MaxTokens = mp.MaxTokens
	req.Body.Temperature = mp.Temperature
	req.Body.TopP = mp.TopP
	req.Body.RandomSeed = mp.Seed
	if mp.TopK != nil {
		req.warn("topK", "")
	}
	if mp.FrequencyPenalty != nil {
		req.warn("frequencyPenalty", "")
	}
	if mp.PresencePenalty != nil {
		req.warn("presencePenalty", "")
	}
	if len(mp.Stop) > 0 {
		req.warn("stopSequences", "")
	}

	if rf := call.ResponseFormat; rf != nil && rf.Type == undrstnd.ResponseFormatJSON {
		if rf.Schema != nil {
			req.warn("responseFormat", "JSON response format schema is not supported")
		}
		req.Body.ResponseFormat = &wire.ResponseFormat{Type: wire.ResponseFormatJSONObject}
	}

	switch m := derefMode(call.Mode).(type) {
	case nil:
	case undrstnd.RegularMode:
		pt := PrepareTools(m.Tools, m.ToolChoice)
		req.Body.Tools = pt.Tools
		req.Body.ToolChoice = pt.ToolChoice
		req.Warnings = append(req.Warnings, pt.Warnings...)
	case undrstnd.ObjectJSONMode:
		req.Body.ResponseFormat = &wire.ResponseFormat{Type: wire.ResponseFormatJSONObject}
	case undrstnd.ObjectToolMode:
		req.Body.Tools = []wire.Tool{functionTool(m.Tool)}
		req.Body.ToolChoice = wire.ToolChoiceAny
	default:
		panic(fmt.Errorf("%w: %T", undrstnd.ErrUnsupportedMode, call.Mode))
	}
	return req, nil
}

func (r *Request) warn(setting, details string) {
	r.Warnings = append(r.Warnings, undrstnd.UnsupportedSettingWarning{Setting: setting, Details: details})
}

// derefMode turns pointers to the known modes into values. A nil pointer is an
// absent mode.
func derefMode(mode undrstnd.Mode) undrstnd.Mode {
	switch m := mode.(type) {
	case *undrstnd.RegularMode:
		if m != nil {
			return *m
		}
		return nil
	case *undrstnd.ObjectJSONMode:
		if m != nil {
			return *m
		}
		return nil
	case *undrstnd.ObjectToolMode:
		if m != nil {
			return *m
		}
		return nil
	default:
		return mode
	}
}
