package undrstnd

// Role is the message role in a chat (system, user, assistant, tool).
type Role string

// Chat message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentPart is a sealed interface for message parts. Only package types implement it via isContentPart().
type ContentPart interface {
	isContentPart()
}

// TextPart holds plain text content.
type TextPart struct {
	Text string
}

func (TextPart) isContentPart() {}

// ImagePart holds an image either by URL or as inline bytes.
// When Data is set it takes precedence over URL.
type ImagePart struct {
	URL      string
	MIMEType string // used only with Data; defaults to image/jpeg
	Data     []byte
}

func (ImagePart) isContentPart() {}

// ToolCallPart represents a model request to call a function (in assistant message).
type ToolCallPart struct {
	ID   string
	Name string
	Args string // JSON string of arguments
}

func (ToolCallPart) isContentPart() {}

// ToolResultPart is the result of a tool call (in message with Role "tool").
// Result is JSON-encoded before it is sent.
type ToolResultPart struct {
	ToolCallID string
	Name       string
	Result     any
	IsError    bool
}

func (ToolResultPart) isContentPart() {}

// ChatMessage is a single message with role and content parts (supports multimodal).
type ChatMessage struct {
	Role    Role
	Content []ContentPart
}

// SystemMessage is a shorthand for a system message with one text part.
func SystemMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: []ContentPart{TextPart{Text: text}}}
}

// UserMessage is a shorthand for a user message built from parts.
func UserMessage(parts ...ContentPart) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: parts}
}

// AssistantMessage is a shorthand for an assistant message built from parts.
func AssistantMessage(parts ...ContentPart) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: parts}
}

// ToolMessage is a shorthand for a tool message carrying one or more results.
func ToolMessage(results ...ToolResultPart) ChatMessage {
	parts := make([]ContentPart, 0, len(results))
	for _, r := range results {
		parts = append(parts, r)
	}
	return ChatMessage{Role: RoleTool, Content: parts}
}
