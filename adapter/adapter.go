package adapter

import (
	"context"
	"errors"
	"strings"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/internal/cast"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

// ProviderAdapter maps a Call to a wire request and parses wire responses back.
// *Adapter is the only implementation; chat.Model depends on this interface.
type ProviderAdapter interface {
	// Translate converts a Call into the request body plus non-fatal warnings.
	Translate(ctx context.Context, call *undrstnd.Call) (*Request, error)
	// ParseResponse converts a non-streamed response body into a GenerateResult.
	ParseResponse(ctx context.Context, body []byte, req *Request) (*undrstnd.GenerateResult, error)
	// ParseStreamChunk converts one SSE data payload into stream parts, updating state.
	ParseStreamChunk(ctx context.Context, state *StreamState, data []byte) ([]undrstnd.StreamPart, error)
}

// ErrNilCall is returned when Translate receives a nil call.
var ErrNilCall = errors.New("adapter: call must not be nil")

// Request is a translated call ready to be sent.
type Request struct {
	Body     wire.ChatRequest
	Warnings []undrstnd.CallWarning
	// Prefix is the text of a trailing assistant message sent with prefix=true.
	// Responses that echo it have it stripped.
	Prefix string
}

// ModelParams holds well-known model config keys extracted from Call.ModelConfig.
// Use ExtractModelConfig to populate from map[string]any.
type ModelParams struct {
	Temperature      *float64
	MaxTokens        *int64
	TopP             *float64
	TopK             *int64
	Seed             *int64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Stop             []string
}

// TextFromParts extracts concatenated text from []ContentPart, ignoring non-text parts.
func TextFromParts(parts []undrstnd.ContentPart) string {
	var b strings.Builder
	for _, p := range parts {
		if t, ok := p.(undrstnd.TextPart); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// ExtractModelConfig reads well-known keys from ModelConfig and returns typed ModelParams.
// Values of the wrong type are ignored.
func ExtractModelConfig(cfg map[string]any) ModelParams {
	var out ModelParams
	if cfg == nil {
		return out
	}
	floatKey := func(key string, dst **float64) {
		if v, ok := cfg[key]; ok {
			if f, ok := cast.ToFloat64(v); ok {
				*dst = &f
			}
		}
	}
	intKey := func(key string, dst **int64) {
		if v, ok := cfg[key]; ok {
			if i, ok := cast.ToInt64(v); ok {
				*dst = &i
			}
		}
	}
	floatKey("temperature", &out.Temperature)
	intKey("max_tokens", &out.MaxTokens)
	floatKey("top_p", &out.TopP)
	intKey("top_k", &out.TopK)
	intKey("seed", &out.Seed)
	floatKey("frequency_penalty", &out.FrequencyPenalty)
	floatKey("presence_penalty", &out.PresencePenalty)
	if v, ok := cfg["stop"]; ok {
		if ss, ok := cast.ToStringSlice(v); ok {
			out.Stop = ss
		}
	}
	return out
}
