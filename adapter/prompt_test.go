package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

func TestConvertPrompt(t *testing.T) {
	t.Parallel()
	msgs := []undrstnd.ChatMessage{
		undrstnd.SystemMessage("be terse"),
		undrstnd.UserMessage(
			undrstnd.TextPart{Text: "describe"},
			undrstnd.ImagePart{URL: "https://example.com/cat.png"},
			undrstnd.ImagePart{Data: []byte("hi")},
			undrstnd.ImagePart{Data: []byte("hi"), MIMEType: "image/png"},
		),
		undrstnd.AssistantMessage(
			undrstnd.TextPart{Text: "calling"},
			undrstnd.ToolCallPart{ID: "c1", Name: "search", Args: `{"q":"cats"}`},
			undrstnd.ToolCallPart{ID: "c2", Name: "lookup"},
		),
		undrstnd.ToolMessage(
			undrstnd.ToolResultPart{ToolCallID: "c1", Name: "search", Result: map[string]any{"hits": 3}},
			undrstnd.ToolResultPart{ToolCallID: "c2", Name: "lookup", Result: "ok"},
		),
		undrstnd.UserMessage(undrstnd.TextPart{Text: "thanks"}),
	}
	prompt, prefix, err := ConvertPrompt(msgs)
	require.NoError(t, err)
	assert.Empty(t, prefix)
	assert.Equal(t, wire.Prompt{
		wire.SystemMessage{Content: "be terse"},
		wire.UserMessage{Content: []wire.UserContent{
			wire.TextContent{Text: "describe"},
			wire.ImageURLContent{ImageURL: "https://example.com/cat.png"},
			wire.ImageURLContent{ImageURL: "data:image/jpeg;base64,aGk="},
			wire.ImageURLContent{ImageURL: "data:image/png;base64,aGk="},
		}},
		wire.AssistantMessage{Content: "calling", ToolCalls: []wire.ToolCall{
			wire.NewToolCall("c1", "search", `{"q":"cats"}`),
			wire.NewToolCall("c2", "lookup", ""),
		}},
		wire.ToolMessage{Name: "search", Content: `{"hits":3}`, ToolCallID: "c1"},
		wire.ToolMessage{Name: "lookup", Content: `"ok"`, ToolCallID: "c2"},
		wire.UserMessage{Content: []wire.UserContent{wire.TextContent{Text: "thanks"}}},
	}, prompt)
}

func TestConvertPrompt_TrailingAssistantIsPrefix(t *testing.T) {
	t.Parallel()
	prompt, prefix, err := ConvertPrompt([]undrstnd.ChatMessage{
		undrstnd.UserMessage(undrstnd.TextPart{Text: "count"}),
		undrstnd.AssistantMessage(undrstnd.TextPart{Text: "1, 2,"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "1, 2,", prefix)
	require.Len(t, prompt, 2)
	assert.Equal(t, wire.AssistantMessage{Content: "1, 2,", Prefix: true}, prompt[1])
}

func TestConvertPrompt_ToolCallArgsAreOpaque(t *testing.T) {
	t.Parallel()
	for _, args := range []string{"", "{not json", `{ "a" : 1 }`, "[1,2]"} {
		prompt, _, err := ConvertPrompt([]undrstnd.ChatMessage{
			undrstnd.AssistantMessage(undrstnd.ToolCallPart{ID: "1", Name: "f", Args: args}),
			undrstnd.UserMessage(undrstnd.TextPart{Text: "go on"}),
		})
		require.NoError(t, err, args)
		am, ok := prompt[0].(wire.AssistantMessage)
		require.True(t, ok)
		require.Len(t, am.ToolCalls, 1)
		assert.Equal(t, args, am.ToolCalls[0].Function.Arguments)
	}
}

func TestConvertPrompt_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		msgs    []undrstnd.ChatMessage
		wantErr error
	}{
		{"empty", nil, undrstnd.ErrEmptyPrompt},
		{"unknown role", []undrstnd.ChatMessage{{Role: "developer"}}, undrstnd.ErrUnsupportedRole},
		{"image in system", []undrstnd.ChatMessage{{Role: undrstnd.RoleSystem, Content: []undrstnd.ContentPart{undrstnd.ImagePart{URL: "u"}}}}, undrstnd.ErrUnsupportedContentType},
		{"tool call in user", []undrstnd.ChatMessage{undrstnd.UserMessage(undrstnd.ToolCallPart{ID: "1"})}, undrstnd.ErrUnsupportedContentType},
		{"empty image", []undrstnd.ChatMessage{undrstnd.UserMessage(undrstnd.ImagePart{})}, undrstnd.ErrUnsupportedContentType},
		{"unencodable result", []undrstnd.ChatMessage{undrstnd.ToolMessage(undrstnd.ToolResultPart{ToolCallID: "1", Result: make(chan int)})}, undrstnd.ErrMalformedResult},
		{"text in tool message", []undrstnd.ChatMessage{{Role: undrstnd.RoleTool, Content: []undrstnd.ContentPart{undrstnd.TextPart{Text: "x"}}}}, undrstnd.ErrUnsupportedContentType},
		{"tool message without results", []undrstnd.ChatMessage{undrstnd.ToolMessage()}, undrstnd.ErrUnsupportedContentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := ConvertPrompt(tt.msgs)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
