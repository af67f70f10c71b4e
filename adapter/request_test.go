package adapter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

type unknownMode struct{ undrstnd.RegularMode }

func userHi() []undrstnd.ChatMessage {
	return []undrstnd.ChatMessage{undrstnd.UserMessage(undrstnd.TextPart{Text: "hi"})}
}

func TestAdapter_TranslateBody(t *testing.T) {
	t.Parallel()
	a := New("open-mistral-7b", WithSafePrompt(true))
	call := undrstnd.NewCall(userHi(),
		undrstnd.WithConfig(map[string]any{"temperature": 0.3, "max_tokens": 64, "top_p": 0.9, "seed": 7}),
		undrstnd.WithTools(searchTool),
		undrstnd.WithToolChoice(undrstnd.ToolChoiceRequired{}),
	)
	req, err := a.Translate(context.Background(), call)
	require.NoError(t, err)
	assert.Empty(t, req.Warnings)

	data, err := json.Marshal(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"model":"open-mistral-7b",
		"messages":[{"role":"user","content":[{"type":"text","text":"hi"}]}],
		"max_tokens":64,
		"temperature":0.3,
		"top_p":0.9,
		"random_seed":7,
		"safe_prompt":true,
		"tools":[{"type":"function","function":{"name":"search","description":"web search","parameters":{"type":"object"}}}],
		"tool_choice":"any"
	}`, string(data))
}

func TestAdapter_TranslateModelOverride(t *testing.T) {
	t.Parallel()
	req, err := New("a").Translate(context.Background(), undrstnd.NewCall(userHi(),
		undrstnd.WithConfig(map[string]any{"model": "b", "safe_prompt": true})))
	require.NoError(t, err)
	assert.Equal(t, "b", req.Body.Model)
	assert.True(t, req.Body.SafePrompt)
}

func TestAdapter_TranslateUnsupportedSettings(t *testing.T) {
	t.Parallel()
	call := undrstnd.NewCall(userHi(),
		undrstnd.WithConfig(map[string]any{
			"top_k": 3, "frequency_penalty": 0.1, "presence_penalty": 0.2, "stop": []string{"END"},
		}),
		undrstnd.WithResponseFormat(&undrstnd.ResponseFormat{Type: undrstnd.ResponseFormatJSON, Schema: map[string]any{"type": "object"}}),
	)
	req, err := New("m").Translate(context.Background(), call)
	require.NoError(t, err)
	var settings []string
	for _, w := range req.Warnings {
		sw, ok := w.(undrstnd.UnsupportedSettingWarning)
		require.True(t, ok)
		settings = append(settings, sw.Setting)
	}
	assert.Equal(t, []string{"topK", "frequencyPenalty", "presencePenalty", "stopSequences", "responseFormat"}, settings)
	assert.Equal(t, &wire.ResponseFormat{Type: wire.ResponseFormatJSONObject}, req.Body.ResponseFormat)
}

func TestAdapter_TranslateModes(t *testing.T) {
	t.Parallel()
	a := New("m")

	req, err := a.Translate(context.Background(), undrstnd.NewCall(userHi(), undrstnd.WithMode(undrstnd.ObjectJSONMode{})))
	require.NoError(t, err)
	assert.Equal(t, &wire.ResponseFormat{Type: wire.ResponseFormatJSONObject}, req.Body.ResponseFormat)
	assert.Nil(t, req.Body.Tools)

	req, err = a.Translate(context.Background(), undrstnd.NewCall(userHi(), undrstnd.WithMode(undrstnd.ObjectToolMode{Tool: lookupTool})))
	require.NoError(t, err)
	require.Len(t, req.Body.Tools, 1)
	assert.Equal(t, "lookup", req.Body.Tools[0].Function.Name)
	assert.Equal(t, wire.ToolChoiceAny, req.Body.ToolChoice)

	req, err = a.Translate(context.Background(), undrstnd.NewCall(userHi(),
		undrstnd.WithTools(), undrstnd.WithToolChoice(undrstnd.ToolChoiceAuto{})))
	require.NoError(t, err)
	data, err := json.Marshal(req.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "tool")
}

func TestAdapter_TranslatePointerModes(t *testing.T) {
	t.Parallel()
	a := New("m")
	req, err := a.Translate(context.Background(), undrstnd.NewCall(userHi(), undrstnd.WithMode(&undrstnd.ObjectJSONMode{})))
	require.NoError(t, err)
	require.NotNil(t, req.Body.ResponseFormat)
	assert.Equal(t, wire.ResponseFormatJSONObject, req.Body.ResponseFormat.Type)

	req, err = a.Translate(context.Background(), undrstnd.NewCall(userHi(),
		undrstnd.WithMode(&undrstnd.RegularMode{Tools: []undrstnd.Tool{undrstnd.FunctionTool{Name: "f"}}, ToolChoice: undrstnd.ToolChoiceRequired{}})))
	require.NoError(t, err)
	assert.Len(t, req.Body.Tools, 1)
	assert.Equal(t, wire.ToolChoiceAny, req.Body.ToolChoice)

	var nilMode *undrstnd.ObjectToolMode
	req, err = a.Translate(context.Background(), undrstnd.NewCall(userHi(), undrstnd.WithMode(nilMode)))
	require.NoError(t, err)
	assert.Empty(t, req.Body.Tools)
}

func TestAdapter_TranslateUnknownModePanics(t *testing.T) {
	t.Parallel()
	assert.PanicsWithError(t, "undrstnd: unsupported call mode: adapter.unknownMode", func() {
		_, _ = New("m").Translate(context.Background(), undrstnd.NewCall(userHi(), undrstnd.WithMode(unknownMode{})))
	})
}

func TestAdapter_TranslateErrors(t *testing.T) {
	t.Parallel()
	_, err := New("m").Translate(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilCall)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New("m").Translate(ctx, undrstnd.NewCall(userHi()))
	require.ErrorIs(t, err, context.Canceled)

	_, err = New("m").Translate(context.Background(), undrstnd.NewCall(nil))
	require.ErrorIs(t, err, undrstnd.ErrEmptyPrompt)
}

var _ ProviderAdapter = (*Adapter)(nil)
