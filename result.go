package undrstnd

import "time"

// FinishReason tells why generation stopped.
type FinishReason string

// Finish reasons.
const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonContentFilter FinishReason = "content-filter"
	FinishReasonToolCalls     FinishReason = "tool-calls"
	FinishReasonError         FinishReason = "error"
	FinishReasonOther         FinishReason = "other"
	FinishReasonUnknown       FinishReason = "unknown"
)

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args string `json:"args"` // JSON string, passed through as received
}

// ResponseMetadata identifies the upstream response.
type ResponseMetadata struct {
	ID        string    `json:"id,omitempty"`
	ModelID   string    `json:"model_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// GenerateResult is the outcome of a non-streamed call.
// Text is nil when the provider returned no content.
type GenerateResult struct {
	Text         *string
	ToolCalls    []ToolCall
	FinishReason FinishReason
	Usage        Usage
	Response     ResponseMetadata
	Warnings     []CallWarning
	RawRequest   []byte // request body as sent
}

// StreamPart is a sealed interface for the parts of a streamed call.
type StreamPart interface {
	isStreamPart()
}

// TextDeltaPart is a chunk of generated text.
type TextDeltaPart struct {
	Delta string
}

// ToolCallDeltaPart is a chunk of tool call arguments.
type ToolCallDeltaPart struct {
	ID        string
	Name      string
	ArgsDelta string
}

// ToolCallStreamPart is a complete tool call.
type ToolCallStreamPart struct {
	ToolCall ToolCall
}

// ResponseMetadataPart is emitted once, from the first chunk.
type ResponseMetadataPart struct {
	Response ResponseMetadata
}

// FinishPart is the last part of a successful stream.
type FinishPart struct {
	FinishReason FinishReason
	Usage        Usage
}

// ErrorPart reports a failure while reading the stream.
type ErrorPart struct {
	Err error
}

func (TextDeltaPart) isStreamPart()        {}
func (ToolCallDeltaPart) isStreamPart()    {}
func (ToolCallStreamPart) isStreamPart()   {}
func (ResponseMetadataPart) isStreamPart() {}
func (FinishPart) isStreamPart()           {}
func (ErrorPart) isStreamPart()            {}
