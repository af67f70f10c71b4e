package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undrstnd-labs/undrstnd-go"
)

func parseAll(t *testing.T, req *Request, chunks ...string) ([]undrstnd.StreamPart, *StreamState) {
	t.Helper()
	a := New("m")
	state := NewStreamState(req)
	var parts []undrstnd.StreamPart
	for _, c := range chunks {
		p, err := a.ParseStreamChunk(context.Background(), state, []byte(c))
		require.NoError(t, err)
		parts = append(parts, p...)
	}
	return parts, state
}

func TestAdapter_ParseStreamChunk(t *testing.T) {
	t.Parallel()
	parts, state := parseAll(t, nil,
		`{"id":"s1","model":"open-mistral-7b","created":0,"choices":[{"index":0,"delta":{"role":"assistant","content":""},"finish_reason":null}]}`,
		`{"id":"s1","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":null}]}`,
		`{"id":"s1","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}]}`,
		`{"id":"s1","choices":[{"index":0,"delta":{"content":null,"tool_calls":[{"id":"c1","type":"function","function":{"name":"f","arguments":"{}"}}]},"finish_reason":"tool_calls"}],"usage":{"prompt_tokens":3,"completion_tokens":5,"total_tokens":8}}`,
	)
	assert.Equal(t, []undrstnd.StreamPart{
		undrstnd.ResponseMetadataPart{Response: undrstnd.ResponseMetadata{ID: "s1", ModelID: "open-mistral-7b"}},
		undrstnd.TextDeltaPart{Delta: "Hel"},
		undrstnd.TextDeltaPart{Delta: "lo"},
		undrstnd.ToolCallDeltaPart{ID: "c1", Name: "f", ArgsDelta: "{}"},
		undrstnd.ToolCallStreamPart{ToolCall: undrstnd.ToolCall{ID: "c1", Name: "f", Args: "{}"}},
	}, parts)
	assert.Equal(t, undrstnd.FinishPart{
		FinishReason: undrstnd.FinishReasonToolCalls,
		Usage:        undrstnd.Usage{PromptTokens: 3, CompletionTokens: 5},
	}, state.Finish())
}

func TestAdapter_ParseStreamChunkStripsPrefix(t *testing.T) {
	t.Parallel()
	parts, _ := parseAll(t, &Request{Prefix: "Once upon"},
		`{"id":"s","choices":[{"delta":{"content":"Once "}}]}`,
		`{"id":"s","choices":[{"delta":{"content":"upon a"}}]}`,
		`{"id":"s","choices":[{"delta":{"content":" time"}}]}`,
	)
	require.Len(t, parts, 3)
	assert.Equal(t, undrstnd.TextDeltaPart{Delta: " a"}, parts[1])
	assert.Equal(t, undrstnd.TextDeltaPart{Delta: " time"}, parts[2])
}

func TestAdapter_ParseStreamChunkInvalid(t *testing.T) {
	t.Parallel()
	_, err := New("m").ParseStreamChunk(context.Background(), NewStreamState(nil), []byte(`{`))
	require.ErrorIs(t, err, undrstnd.ErrInvalidResponse)
}

func TestStreamState_DefaultFinish(t *testing.T) {
	t.Parallel()
	assert.Equal(t, undrstnd.FinishPart{FinishReason: undrstnd.FinishReasonUnknown}, NewStreamState(nil).Finish())
}
