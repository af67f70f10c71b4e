package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

// MapFinishReason maps a wire finish_reason to the neutral FinishReason.
func MapFinishReason(reason *string) undrstnd.FinishReason {
	if reason == nil {
		return undrstnd.FinishReasonUnknown
	}
	switch *reason {
	case "stop":
		return undrstnd.FinishReasonStop
	case "length", "model_length":
		return undrstnd.FinishReasonLength
	case "tool_calls":
		return undrstnd.FinishReasonToolCalls
	default:
		return undrstnd.FinishReasonUnknown
	}
}

// ParseResponse decodes a non-streamed chat completion body.
func (a *Adapter) ParseResponse(ctx context.Context, body []byte, req *Request) (*undrstnd.GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var resp wire.ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", undrstnd.ErrInvalidResponse, err)
	}
	if len(resp.Choices) == 0 {
		return nil, undrstnd.ErrEmptyResponse
	}
	choice := resp.Choices[0]

	out := &undrstnd.GenerateResult{
		FinishReason: MapFinishReason(choice.FinishReason),
		Response:     responseMetadata(resp.ID, resp.Model, resp.Created),
	}
	if req != nil {
		out.Warnings = req.Warnings
	}
	if resp.Usage != nil {
		out.Usage = undrstnd.Usage{PromptTokens: resp.Usage.PromptTokens, CompletionTokens: resp.Usage.CompletionTokens}
	}
	if c := choice.Message.Content; c != nil {
		text := *c
		if req != nil && req.Prefix != "" {
			text = strings.TrimPrefix(text, req.Prefix)
		}
		out.Text = &text
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, undrstnd.ToolCall{ID: tc.ID, Name: tc.Function.Name, Args: tc.Function.Arguments})
	}
	return out, nil
}

func responseMetadata(id, model string, created int64) undrstnd.ResponseMetadata {
	md := undrstnd.ResponseMetadata{ID: id, ModelID: model}
	if created > 0 {
		md.Timestamp = time.Unix(created, 0).UTC()
	}
	return md
}
