package undrstnd

// Mode is a sealed interface selecting how a call is generated.
// A nil Mode behaves like RegularMode{}. Modes are value types; pointers to them
// are accepted as the same mode.
type Mode interface {
	isMode()
}

// RegularMode is free-form generation with optional tools.
type RegularMode struct {
	Tools      []Tool
	ToolChoice ToolChoice // nil leaves the choice to the provider
}

// ObjectJSONMode asks for a JSON object response.
// Schema, Name and Description are informational; the provider only enforces "some JSON object".
type ObjectJSONMode struct {
	Schema      map[string]any
	Name        string
	Description string
}

// ObjectToolMode forces a call of Tool and uses its arguments as the structured output.
type ObjectToolMode struct {
	Tool FunctionTool
}

func (RegularMode) isMode()    {}
func (ObjectJSONMode) isMode() {}
func (ObjectToolMode) isMode() {}

// Response format types.
const (
	ResponseFormatText = "text"
	ResponseFormatJSON = "json"
)

// ResponseFormat requests a response format. Schema is only honored by providers that support it.
type ResponseFormat struct {
	Type        string         `json:"type"`
	Schema      map[string]any `json:"schema,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
}

// Call is one generation request in vendor-neutral form; treat it as immutable after NewCall.
//
// ModelConfig well-known keys: "temperature", "max_tokens", "top_p", "top_k", "seed",
// "frequency_penalty", "presence_penalty", "stop".
type Call struct {
	Messages       []ChatMessage
	Mode           Mode
	ModelConfig    map[string]any
	ResponseFormat *ResponseFormat
	Headers        map[string]string // extra HTTP headers for this call only
}
