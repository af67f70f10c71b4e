package undrstnd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Tool is a sealed interface for tool definitions passed with a call.
// FunctionTool is sent to the model; ProviderDefinedTool is a vendor built-in
// that this provider does not support and is reported as a warning instead.
type Tool interface {
	isTool()
	ToolName() string
}

// FunctionTool is a caller-declared function the model may call.
// JSON tags are used when tools are echoed in warnings or proxied.
type FunctionTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"` // JSON Schema for parameters
}

func (FunctionTool) isTool() {}

// ToolName returns the function name.
func (t FunctionTool) ToolName() string { return t.Name }

// ProviderDefinedTool is a built-in tool of some other provider (e.g. "openai.web_search").
type ProviderDefinedTool struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

func (ProviderDefinedTool) isTool() {}

// ToolName returns the tool name.
func (t ProviderDefinedTool) ToolName() string { return t.Name }

// NewFunctionTool builds a FunctionTool whose parameters schema is reflected from params,
// which should be a struct or a pointer to one. Field json tags name the properties and
// jsonschema tags add descriptions and constraints.
func NewFunctionTool(name, description string, params any) (FunctionTool, error) {
	tool := FunctionTool{Name: name, Description: description}
	if params == nil {
		return tool, nil
	}
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	b, err := json.Marshal(r.Reflect(params))
	if err != nil {
		return FunctionTool{}, fmt.Errorf("undrstnd: reflect parameters for %q: %w", name, err)
	}
	var schema map[string]any
	if err := json.Unmarshal(b, &schema); err != nil {
		return FunctionTool{}, fmt.Errorf("undrstnd: decode parameters schema for %q: %w", name, err)
	}
	delete(schema, "$schema")
	tool.Parameters = schema
	return tool, nil
}

// ToolChoice is a sealed interface for the tool-choice policy of a call.
// The choices are value types; pointers to them are accepted as the same choice.
type ToolChoice interface {
	isToolChoice()
}

// ToolChoiceAuto lets the model decide whether to call a tool.
type ToolChoiceAuto struct{}

// ToolChoiceNone forbids tool calls.
type ToolChoiceNone struct{}

// ToolChoiceRequired requires the model to call some tool.
type ToolChoiceRequired struct{}

// ToolChoiceTool requires the model to call the named tool.
type ToolChoiceTool struct {
	ToolName string
}

func (ToolChoiceAuto) isToolChoice()     {}
func (ToolChoiceNone) isToolChoice()     {}
func (ToolChoiceRequired) isToolChoice() {}
func (ToolChoiceTool) isToolChoice()     {}
