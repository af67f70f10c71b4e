package wire

// Tool is a function tool entry of the request "tools" array.
type Tool struct {
	Type     string       `json:"type"`
	Function FunctionSpec `json:"function"`
}

// FunctionSpec describes a callable function. Parameters is a JSON schema object.
type FunctionSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters"`
}

// NewFunctionTool returns a Tool of type "function".
func NewFunctionTool(name, description string, parameters any) Tool {
	return Tool{
		Type:     ToolTypeFunction,
		Function: FunctionSpec{Name: name, Description: description, Parameters: parameters},
	}
}

// ToolChoice is the request "tool_choice" value. The zero value means absent.
type ToolChoice string

// Tool choices accepted by the API. "any" forces the model to call some tool.
const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
	ToolChoiceAny  ToolChoice = "any"
)
