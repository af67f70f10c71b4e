package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Role is the wire "role" discriminator.
type Role string

// Wire roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Content part discriminators.
const (
	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

// ToolTypeFunction is the only tool and tool call type the API knows.
const ToolTypeFunction = "function"

var (
	// ErrUnknownRole is returned when a message role is not one of the four wire roles.
	ErrUnknownRole = errors.New("wire: unknown message role")
	// ErrUnknownContentType is returned for user content parts or tool calls with an unknown type.
	ErrUnknownContentType = errors.New("wire: unknown content type")
	// ErrMissingField is returned when a discriminated value lacks its required field.
	ErrMissingField = errors.New("wire: missing required field")
)

// Prompt is the ordered message list sent as "messages".
type Prompt []Message

// Message is a sealed interface over SystemMessage, UserMessage, AssistantMessage and ToolMessage.
type Message interface {
	MessageRole() Role
	isMessage()
}

// SystemMessage is a system instruction.
type SystemMessage struct {
	Content string `json:"content"`
}

// UserMessage is a user turn of interleaved text and image parts.
type UserMessage struct {
	Content []UserContent `json:"content"`
}

// AssistantMessage is a model turn. Prefix marks a partial message the model continues.
type AssistantMessage struct {
	Content   string     `json:"content"`
	Prefix    bool       `json:"prefix,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolMessage carries the result of the tool call identified by ToolCallID.
type ToolMessage struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id"`
}

// ToolCall is a function call emitted by the assistant. Function.Arguments is opaque.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the function and carries its serialized arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewToolCall returns a function ToolCall.
func NewToolCall(id, name, arguments string) ToolCall {
	return ToolCall{ID: id, Type: ToolTypeFunction, Function: FunctionCall{Name: name, Arguments: arguments}}
}

func (SystemMessage) MessageRole() Role    { return RoleSystem }
func (UserMessage) MessageRole() Role      { return RoleUser }
func (AssistantMessage) MessageRole() Role { return RoleAssistant }
func (ToolMessage) MessageRole() Role      { return RoleTool }

func (SystemMessage) isMessage()    {}
func (UserMessage) isMessage()      {}
func (AssistantMessage) isMessage() {}
func (ToolMessage) isMessage()      {}

// MarshalJSON adds the role discriminator.
func (m SystemMessage) MarshalJSON() ([]byte, error) {
	type alias SystemMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{RoleSystem, alias(m)})
}

// MarshalJSON adds the role discriminator.
func (m UserMessage) MarshalJSON() ([]byte, error) {
	type alias UserMessage
	if m.Content == nil {
		m.Content = []UserContent{}
	}
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{RoleUser, alias(m)})
}

// MarshalJSON adds the role discriminator.
func (m AssistantMessage) MarshalJSON() ([]byte, error) {
	type alias AssistantMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{RoleAssistant, alias(m)})
}

// MarshalJSON adds the role discriminator.
func (m ToolMessage) MarshalJSON() ([]byte, error) {
	type alias ToolMessage
	return json.Marshal(struct {
		Role Role `json:"role"`
		alias
	}{RoleTool, alias(m)})
}

// UnmarshalJSON decodes every message by its role.
func (p *Prompt) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Prompt, 0, len(raw))
	for i, r := range raw {
		m, err := UnmarshalMessage(r)
		if err != nil {
			return fmt.Errorf("messages[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	*p = out
	return nil
}

// UnmarshalMessage decodes a single wire message, dispatching on "role".
func UnmarshalMessage(data []byte) (Message, error) {
	var head struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Role {
	case RoleSystem:
		var m SystemMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case RoleUser:
		var body struct {
			Content []json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, err
		}
		m := UserMessage{Content: make([]UserContent, 0, len(body.Content))}
		for i, raw := range body.Content {
			c, err := UnmarshalUserContent(raw)
			if err != nil {
				return nil, fmt.Errorf("content[%d]: %w", i, err)
			}
			m.Content = append(m.Content, c)
		}
		return m, nil
	case RoleAssistant:
		var m AssistantMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		for i, tc := range m.ToolCalls {
			if tc.Type != ToolTypeFunction {
				return nil, fmt.Errorf("tool_calls[%d]: %w: %q", i, ErrUnknownContentType, tc.Type)
			}
		}
		return m, nil
	case RoleTool:
		var m ToolMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, head.Role)
	}
}
