package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPrompt_RoundTrip(t *testing.T) {
	t.Parallel()
	in := Prompt{
		SystemMessage{Content: "be terse"},
		UserMessage{Content: []UserContent{
			TextContent{Text: "what is this?"},
			ImageURLContent{ImageURL: "data:image/png;base64,AAAA"},
		}},
		AssistantMessage{Content: "", ToolCalls: []ToolCall{NewToolCall("c1", "lookup", `{"q":"x"}`)}},
		ToolMessage{Name: "lookup", Content: `{"hits":1}`, ToolCallID: "c1"},
		AssistantMessage{Content: "It is", Prefix: true},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Prompt
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestAssistantMessage_RoundTripKeepsToolCalls(t *testing.T) {
	t.Parallel()
	in := AssistantMessage{Content: "checking", ToolCalls: []ToolCall{
		NewToolCall("c1", "lookup", `{"q":"x"}`),
		NewToolCall("c2", "weather", `{"a": 1,  "city" : "Paris"}`),
	}}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := UnmarshalMessage(data)
	require.NoError(t, err)
	got, ok := out.(AssistantMessage)
	require.True(t, ok)
	assert.Equal(t, in, got)
	require.Len(t, got.ToolCalls, 2)
	assert.Equal(t, "c1", got.ToolCalls[0].ID)
	assert.Equal(t, "c2", got.ToolCalls[1].ID)
	assert.Equal(t, `{"a": 1,  "city" : "Paris"}`, got.ToolCalls[1].Function.Arguments)
}

func TestMessage_MarshalShape(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"system", SystemMessage{Content: "hi"}, `{"role":"system","content":"hi"}`},
		{"user text", UserMessage{Content: []UserContent{TextContent{Text: "hello"}}},
			`{"role":"user","content":[{"type":"text","text":"hello"}]}`},
		{"user nil content", UserMessage{}, `{"role":"user","content":[]}`},
		{"user image", UserMessage{Content: []UserContent{ImageURLContent{ImageURL: "https://x/y.png"}}},
			`{"role":"user","content":[{"type":"image_url","image_url":"https://x/y.png"}]}`},
		{"assistant empty content kept", AssistantMessage{}, `{"role":"assistant","content":""}`},
		{"assistant prefix", AssistantMessage{Content: "a", Prefix: true},
			`{"role":"assistant","content":"a","prefix":true}`},
		{"assistant tool call", AssistantMessage{ToolCalls: []ToolCall{NewToolCall("1", "f", "{}")}},
			`{"role":"assistant","content":"","tool_calls":[{"id":"1","type":"function","function":{"name":"f","arguments":"{}"}}]}`},
		{"tool", ToolMessage{Name: "f", Content: "42", ToolCallID: "1"},
			`{"role":"tool","name":"f","content":"42","tool_call_id":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestUnmarshalMessage_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unknown role", `{"role":"developer","content":"x"}`, ErrUnknownRole},
		{"missing role", `{"content":"x"}`, ErrUnknownRole},
		{"unknown content type", `{"role":"user","content":[{"type":"audio","data":"x"}]}`, ErrUnknownContentType},
		{"part without text or image_url", `{"role":"user","content":[{"foo":"bar"}]}`, ErrUnknownContentType},
		{"text part without text", `{"role":"user","content":[{"type":"text"}]}`, ErrMissingField},
		{"image part without url", `{"role":"user","content":[{"type":"image_url"}]}`, ErrMissingField},
		{"non-function tool call", `{"role":"assistant","content":"","tool_calls":[{"id":"1","type":"retrieval","function":{"name":"f","arguments":"{}"}}]}`, ErrUnknownContentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := UnmarshalMessage([]byte(tt.data))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPrompt_UnmarshalReportsIndex(t *testing.T) {
	t.Parallel()
	var p Prompt
	err := json.Unmarshal([]byte(`[{"role":"system","content":"a"},{"role":"robot","content":"b"}]`), &p)
	require.ErrorIs(t, err, ErrUnknownRole)
	assert.Contains(t, err.Error(), "messages[1]")
}

func TestChatRequest_OmitsEmptyTools(t *testing.T) {
	t.Parallel()
	req := ChatRequest{
		Model:    "open-mistral-7b",
		Messages: Prompt{UserMessage{Content: []UserContent{TextContent{Text: "hi"}}}},
		Tools:    []Tool{},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"tools"`)
	assert.NotContains(t, string(data), `"tool_choice"`)

	req.Tools = []Tool{NewFunctionTool("f", "", map[string]any{"type": "object"})}
	req.ToolChoice = ToolChoiceAny
	data, err = json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"model":"open-mistral-7b",
		"messages":[{"role":"user","content":[{"type":"text","text":"hi"}]}],
		"tools":[{"type":"function","function":{"name":"f","parameters":{"type":"object"}}}],
		"tool_choice":"any"
	}`, string(data))
}
