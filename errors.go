package undrstnd

import "errors"

// Sentinel errors for prompt validation and response handling.
// All use prefix "undrstnd:" for identification. Callers should use errors.Is.
var (
	ErrEmptyPrompt            = errors.New("undrstnd: prompt must contain at least one message")
	ErrUnsupportedRole        = errors.New("undrstnd: unsupported message role")
	ErrUnsupportedContentType = errors.New("undrstnd: unsupported content part for this role")
	ErrMalformedArgs          = errors.New("undrstnd: tool call args are not valid JSON") // proxy input only
	ErrMalformedResult        = errors.New("undrstnd: tool result cannot be encoded as JSON")
	ErrInvalidResponse        = errors.New("undrstnd: response has unexpected shape")
	ErrEmptyResponse          = errors.New("undrstnd: response contains no choices")
)

// Contract violations. Translating a call with an unknown Mode or ToolChoice
// implementation panics with an error wrapping one of these.
var (
	ErrUnsupportedMode       = errors.New("undrstnd: unsupported call mode")
	ErrUnsupportedToolChoice = errors.New("undrstnd: unsupported tool choice")
)
