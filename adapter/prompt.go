package adapter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

const defaultImageMIMEType = "image/jpeg"

// ConvertPrompt converts neutral messages into the wire prompt.
// A trailing assistant message is sent with prefix=true; its text is returned as prefix.
func ConvertPrompt(messages []undrstnd.ChatMessage) (prompt wire.Prompt, prefix string, err error) {
	if len(messages) == 0 {
		return nil, "", undrstnd.ErrEmptyPrompt
	}
	prompt = make(wire.Prompt, 0, len(messages))
	for i, msg := range messages {
		last := i == len(messages)-1
		switch msg.Role {
		case undrstnd.RoleSystem:
			m, err := systemMessage(msg.Content)
			if err != nil {
				return nil, "", fmt.Errorf("message %d: %w", i, err)
			}
			prompt = append(prompt, m)
		case undrstnd.RoleUser:
			m, err := userMessage(msg.Content)
			if err != nil {
				return nil, "", fmt.Errorf("message %d: %w", i, err)
			}
			prompt = append(prompt, m)
		case undrstnd.RoleAssistant:
			m, err := assistantMessage(msg.Content)
			if err != nil {
				return nil, "", fmt.Errorf("message %d: %w", i, err)
			}
			if last {
				m.Prefix = true
				prefix = m.Content
			}
			prompt = append(prompt, m)
		case undrstnd.RoleTool:
			ms, err := toolMessages(msg.Content)
			if err != nil {
				return nil, "", fmt.Errorf("message %d: %w", i, err)
			}
			prompt = append(prompt, ms...)
		default:
			return nil, "", fmt.Errorf("message %d: %w: %q", i, undrstnd.ErrUnsupportedRole, msg.Role)
		}
	}
	return prompt, prefix, nil
}

func systemMessage(parts []undrstnd.ContentPart) (wire.SystemMessage, error) {
	for _, p := range parts {
		if _, ok := p.(undrstnd.TextPart); !ok {
			return wire.SystemMessage{}, fmt.Errorf("%w: system message accepts text only, got %T", undrstnd.ErrUnsupportedContentType, p)
		}
	}
	return wire.SystemMessage{Content: TextFromParts(parts)}, nil
}

func userMessage(parts []undrstnd.ContentPart) (wire.UserMessage, error) {
	content := make([]wire.UserContent, 0, len(parts))
	for _, p := range parts {
		switch x := p.(type) {
		case undrstnd.TextPart:
			content = append(content, wire.TextContent{Text: x.Text})
		case undrstnd.ImagePart:
			url, err := imageURL(x)
			if err != nil {
				return wire.UserMessage{}, err
			}
			content = append(content, wire.ImageURLContent{ImageURL: url})
		default:
			return wire.UserMessage{}, fmt.Errorf("%w: user message cannot carry %T", undrstnd.ErrUnsupportedContentType, p)
		}
	}
	return wire.UserMessage{Content: content}, nil
}

func imageURL(p undrstnd.ImagePart) (string, error) {
	if len(p.Data) > 0 {
		mime := p.MIMEType
		if mime == "" {
			mime = defaultImageMIMEType
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Data), nil
	}
	if p.URL == "" {
		return "", fmt.Errorf("%w: image part has neither URL nor data", undrstnd.ErrUnsupportedContentType)
	}
	return p.URL, nil
}

func assistantMessage(parts []undrstnd.ContentPart) (wire.AssistantMessage, error) {
	var b strings.Builder
	var calls []wire.ToolCall
	for _, p := range parts {
		switch x := p.(type) {
		case undrstnd.TextPart:
			b.WriteString(x.Text)
		case undrstnd.ToolCallPart:
			// Arguments are opaque here and sent byte for byte.
			calls = append(calls, wire.NewToolCall(x.ID, x.Name, x.Args))
		default:
			return wire.AssistantMessage{}, fmt.Errorf("%w: assistant message cannot carry %T", undrstnd.ErrUnsupportedContentType, p)
		}
	}
	return wire.AssistantMessage{Content: b.String(), ToolCalls: calls}, nil
}

func toolMessages(parts []undrstnd.ContentPart) ([]wire.Message, error) {
	out := make([]wire.Message, 0, len(parts))
	for _, p := range parts {
		tr, ok := p.(undrstnd.ToolResultPart)
		if !ok {
			return nil, fmt.Errorf("%w: tool message cannot carry %T", undrstnd.ErrUnsupportedContentType, p)
		}
		content, err := json.Marshal(tr.Result)
		if err != nil {
			return nil, fmt.Errorf("%w: tool call %q: %w", undrstnd.ErrMalformedResult, tr.ToolCallID, err)
		}
		out = append(out, wire.ToolMessage{Name: tr.Name, Content: string(content), ToolCallID: tr.ToolCallID})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: tool message has no results", undrstnd.ErrUnsupportedContentType)
	}
	return out, nil
}
