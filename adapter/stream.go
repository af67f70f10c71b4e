package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

// StreamState carries what ParseStreamChunk needs across chunks of one stream.
// It is not safe for concurrent use.
type StreamState struct {
	prefix       string
	trimmed      bool
	started      bool
	finishReason undrstnd.FinishReason
	usage        undrstnd.Usage
}

// NewStreamState returns the state for a stream started by req.
func NewStreamState(req *Request) *StreamState {
	s := &StreamState{finishReason: undrstnd.FinishReasonUnknown}
	if req != nil {
		s.prefix = req.Prefix
	}
	s.trimmed = s.prefix == ""
	return s
}

// Finish returns the closing part of the stream.
func (s *StreamState) Finish() undrstnd.FinishPart {
	return undrstnd.FinishPart{FinishReason: s.finishReason, Usage: s.usage}
}

// ParseStreamChunk decodes one SSE data payload. The first chunk also yields a
// ResponseMetadataPart. Tool calls arrive whole and are reported as a
// ToolCallDeltaPart carrying the full arguments followed by a ToolCallStreamPart.
func (a *Adapter) ParseStreamChunk(ctx context.Context, state *StreamState, data []byte) ([]undrstnd.StreamPart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var chunk wire.StreamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, fmt.Errorf("%w: %w", undrstnd.ErrInvalidResponse, err)
	}

	var parts []undrstnd.StreamPart
	if !state.started {
		state.started = true
		parts = append(parts, undrstnd.ResponseMetadataPart{Response: responseMetadata(chunk.ID, chunk.Model, chunk.Created)})
	}
	if chunk.Usage != nil {
		state.usage = undrstnd.Usage{PromptTokens: chunk.Usage.PromptTokens, CompletionTokens: chunk.Usage.CompletionTokens}
	}
	if len(chunk.Choices) == 0 {
		return parts, nil
	}
	choice := chunk.Choices[0]
	if choice.FinishReason != nil {
		state.finishReason = MapFinishReason(choice.FinishReason)
	}

	if c := choice.Delta.Content; c != nil && *c != "" {
		text := *c
		if !state.trimmed {
			text = state.trim(text)
		}
		if text != "" {
			parts = append(parts, undrstnd.TextDeltaPart{Delta: text})
		}
	}
	for _, tc := range choice.Delta.ToolCalls {
		parts = append(parts,
			undrstnd.ToolCallDeltaPart{ID: tc.ID, Name: tc.Function.Name, ArgsDelta: tc.Function.Arguments},
			undrstnd.ToolCallStreamPart{ToolCall: undrstnd.ToolCall{ID: tc.ID, Name: tc.Function.Name, Args: tc.Function.Arguments}},
		)
	}
	return parts, nil
}

// trim removes the echoed prefix from the leading text deltas.
func (s *StreamState) trim(text string) string {
	switch {
	case strings.HasPrefix(text, s.prefix):
		s.trimmed = true
		return text[len(s.prefix):]
	case strings.HasPrefix(s.prefix, text):
		s.prefix = s.prefix[len(text):]
		return ""
	default:
		s.trimmed = true
		return text
	}
}
