package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/undrstnd-labs/undrstnd-go"
)

// errBadRequest marks request bodies the proxy cannot map to a call.
var errBadRequest = errors.New("server: bad request")

// generateRequest is the JSON body of /v1/generate and /v1/stream.
type generateRequest struct {
	Model          string                   `json:"model"`
	Messages       []messageDTO             `json:"messages"`
	Tools          []toolDTO                `json:"tools,omitempty"`
	ToolChoice     *toolChoiceDTO           `json:"tool_choice,omitempty"`
	Mode           *modeDTO                 `json:"mode,omitempty"`
	ModelConfig    map[string]any           `json:"model_config,omitempty"`
	ResponseFormat *undrstnd.ResponseFormat `json:"response_format,omitempty"`
}

type messageDTO struct {
	Role    undrstnd.Role `json:"role"`
	Content []partDTO     `json:"content"`
}

// Part types.
const (
	partText       = "text"
	partImage      = "image"
	partToolCall   = "tool-call"
	partToolResult = "tool-result"
)

type partDTO struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	URL        string          `json:"url,omitempty"`
	MIMEType   string          `json:"mime_type,omitempty"`
	Data       []byte          `json:"data,omitempty"` // base64 in JSON
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolName   string          `json:"tool_name,omitempty"`
	Args       json.RawMessage `json:"args,omitempty"`
	Result     any             `json:"result,omitempty"`
	IsError    bool            `json:"is_error,omitempty"`
}

type toolDTO struct {
	Type        string         `json:"type"` // "function" or "provider-defined"
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Args        map[string]any `json:"args,omitempty"`
}

type toolChoiceDTO struct {
	Type     string `json:"type"` // auto, none, required, tool
	ToolName string `json:"tool_name,omitempty"`
}

type modeDTO struct {
	Type        string         `json:"type"` // regular, object-json, object-tool
	Tool        *toolDTO       `json:"tool,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// toCall maps the body to a Call. Unknown discriminators are client errors.
func (r *generateRequest) toCall() (*undrstnd.Call, error) {
	msgs := make([]undrstnd.ChatMessage, 0, len(r.Messages))
	for i, m := range r.Messages {
		parts := make([]undrstnd.ContentPart, 0, len(m.Content))
		for j, p := range m.Content {
			part, err := p.toPart()
			if err != nil {
				return nil, fmt.Errorf("messages[%d].content[%d]: %w", i, j, err)
			}
			parts = append(parts, part)
		}
		msgs = append(msgs, undrstnd.ChatMessage{Role: m.Role, Content: parts})
	}

	opts := []undrstnd.CallOption{undrstnd.WithConfig(r.ModelConfig), undrstnd.WithResponseFormat(r.ResponseFormat)}
	if len(r.Tools) > 0 {
		tools := make([]undrstnd.Tool, 0, len(r.Tools))
		for i, t := range r.Tools {
			tool, err := t.toTool()
			if err != nil {
				return nil, fmt.Errorf("tools[%d]: %w", i, err)
			}
			tools = append(tools, tool)
		}
		opts = append(opts, undrstnd.WithTools(tools...))
	}
	if r.ToolChoice != nil {
		choice, err := r.ToolChoice.toChoice()
		if err != nil {
			return nil, err
		}
		opts = append(opts, undrstnd.WithToolChoice(choice))
	}
	if r.Mode != nil {
		mode, err := r.Mode.toMode()
		if err != nil {
			return nil, err
		}
		if mode != nil {
			opts = append(opts, undrstnd.WithMode(mode))
		}
	}
	return undrstnd.NewCall(msgs, opts...), nil
}

func (p partDTO) toPart() (undrstnd.ContentPart, error) {
	switch p.Type {
	case partText:
		return undrstnd.TextPart{Text: p.Text}, nil
	case partImage:
		return undrstnd.ImagePart{URL: p.URL, MIMEType: p.MIMEType, Data: p.Data}, nil
	case partToolCall:
		args := p.argsText()
		if args != "" && !json.Valid([]byte(args)) {
			return nil, fmt.Errorf("%w: tool call %q", undrstnd.ErrMalformedArgs, p.ToolCallID)
		}
		return undrstnd.ToolCallPart{ID: p.ToolCallID, Name: p.ToolName, Args: args}, nil
	case partToolResult:
		return undrstnd.ToolResultPart{ToolCallID: p.ToolCallID, Name: p.ToolName, Result: p.Result, IsError: p.IsError}, nil
	default:
		return nil, badRequest("unknown part type %q", p.Type)
	}
}

// argsText accepts args as a JSON object or as a string holding JSON text.
func (p partDTO) argsText() string {
	var s string
	if len(p.Args) > 0 && p.Args[0] == '"' && json.Unmarshal(p.Args, &s) == nil {
		return s
	}
	return string(p.Args)
}

func (t toolDTO) toTool() (undrstnd.Tool, error) {
	switch t.Type {
	case "function", "":
		if t.Name == "" {
			return nil, badRequest("function tool needs a name")
		}
		return undrstnd.FunctionTool{Name: t.Name, Description: t.Description, Parameters: t.Parameters}, nil
	case "provider-defined":
		return undrstnd.ProviderDefinedTool{ID: t.ID, Name: t.Name, Args: t.Args}, nil
	default:
		return nil, badRequest("unknown tool type %q", t.Type)
	}
}

func (c toolChoiceDTO) toChoice() (undrstnd.ToolChoice, error) {
	switch c.Type {
	case "auto":
		return undrstnd.ToolChoiceAuto{}, nil
	case "none":
		return undrstnd.ToolChoiceNone{}, nil
	case "required":
		return undrstnd.ToolChoiceRequired{}, nil
	case "tool":
		return undrstnd.ToolChoiceTool{ToolName: c.ToolName}, nil
	default:
		return nil, badRequest("unknown tool_choice type %q", c.Type)
	}
}

// toMode returns nil for "regular" so tools and tool_choice stay in effect.
func (m modeDTO) toMode() (undrstnd.Mode, error) {
	switch m.Type {
	case "regular", "":
		return nil, nil
	case "object-json":
		return undrstnd.ObjectJSONMode{Schema: m.Schema, Name: m.Name, Description: m.Description}, nil
	case "object-tool":
		if m.Tool == nil || m.Tool.Name == "" {
			return nil, badRequest("object-tool mode needs a named tool")
		}
		return undrstnd.ObjectToolMode{Tool: undrstnd.FunctionTool{
			Name: m.Tool.Name, Description: m.Tool.Description, Parameters: m.Tool.Parameters,
		}}, nil
	default:
		return nil, badRequest("unknown mode type %q", m.Type)
	}
}

// generateResponse is the JSON body returned by /v1/generate.
type generateResponse struct {
	Text         *string                   `json:"text"`
	ToolCalls    []undrstnd.ToolCall       `json:"tool_calls,omitempty"`
	FinishReason undrstnd.FinishReason     `json:"finish_reason"`
	Usage        undrstnd.Usage            `json:"usage"`
	Response     undrstnd.ResponseMetadata `json:"response"`
	Warnings     []warningDTO              `json:"warnings,omitempty"`
}

type warningDTO struct {
	Type    string `json:"type"`
	Setting string `json:"setting,omitempty"`
	Tool    string `json:"tool,omitempty"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

func warningsDTO(ws []undrstnd.CallWarning) []warningDTO {
	out := make([]warningDTO, 0, len(ws))
	for _, w := range ws {
		d := warningDTO{Type: w.Type()}
		switch x := w.(type) {
		case undrstnd.UnsupportedSettingWarning:
			d.Setting, d.Details = x.Setting, x.Details
		case undrstnd.UnsupportedToolWarning:
			if x.Tool != nil {
				d.Tool = x.Tool.ToolName()
			}
			d.Details = x.Details
		case undrstnd.OtherWarning:
			d.Message = x.Message
		}
		out = append(out, d)
	}
	return out
}

func newGenerateResponse(r *undrstnd.GenerateResult) generateResponse {
	return generateResponse{
		Text:         r.Text,
		ToolCalls:    r.ToolCalls,
		FinishReason: r.FinishReason,
		Usage:        r.Usage,
		Response:     r.Response,
		Warnings:     warningsDTO(r.Warnings),
	}
}

// streamEvent maps a stream part to its SSE event name and payload.
func streamEvent(p undrstnd.StreamPart) (string, any) {
	switch x := p.(type) {
	case undrstnd.TextDeltaPart:
		return "text-delta", map[string]string{"delta": x.Delta}
	case undrstnd.ToolCallDeltaPart:
		return "tool-call-delta", map[string]string{"id": x.ID, "name": x.Name, "args_delta": x.ArgsDelta}
	case undrstnd.ToolCallStreamPart:
		return "tool-call", x.ToolCall
	case undrstnd.ResponseMetadataPart:
		return "response-metadata", x.Response
	case undrstnd.FinishPart:
		return "finish", map[string]any{"finish_reason": x.FinishReason, "usage": x.Usage}
	case undrstnd.ErrorPart:
		return "error", map[string]string{"error": x.Err.Error()}
	default:
		return "unknown", nil
	}
}
