package adapter

import (
	"fmt"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/wire"
)

// PreparedTools is the tool part of a request. A nil Tools slice and an empty
// ToolChoice mean the fields are omitted from the body.
type PreparedTools struct {
	Tools      []wire.Tool
	ToolChoice wire.ToolChoice
	Warnings   []undrstnd.CallWarning
}

// PrepareTools maps neutral tools and tool choice onto the wire vocabulary.
//
// No tools (nil or empty) yields an empty result whatever the choice. Provider-defined
// tools produce one UnsupportedToolWarning each and no wire entry; when that leaves
// no wire tools, auto, none and required are not sent. ToolChoiceTool always sends
// "any". Pointers to the choice types are accepted like their values. Any other
// ToolChoice implementation panics with an error wrapping ErrUnsupportedToolChoice.
func PrepareTools(tools []undrstnd.Tool, choice undrstnd.ToolChoice) PreparedTools {
	if len(tools) == 0 {
		return PreparedTools{}
	}
	choice = derefChoice(choice)

	var out PreparedTools
	for _, t := range tools {
		switch x := t.(type) {
		case undrstnd.FunctionTool:
			out.Tools = append(out.Tools, functionTool(x))
		case undrstnd.ProviderDefinedTool:
			out.Warnings = append(out.Warnings, undrstnd.UnsupportedToolWarning{Tool: x})
		default:
			out.Warnings = append(out.Warnings, undrstnd.UnsupportedToolWarning{Tool: t})
		}
	}

	switch c := choice.(type) {
	case nil:
	case undrstnd.ToolChoiceAuto:
		out.ToolChoice = wire.ToolChoiceAuto
	case undrstnd.ToolChoiceNone:
		out.ToolChoice = wire.ToolChoiceNone
	case undrstnd.ToolChoiceRequired:
		out.ToolChoice = wire.ToolChoiceAny
	case undrstnd.ToolChoiceTool:
		var narrowed []wire.Tool
		for _, t := range out.Tools {
			if t.Function.Name == c.ToolName {
				narrowed = append(narrowed, t)
			}
		}
		out.Tools = narrowed
		out.ToolChoice = wire.ToolChoiceAny
	default:
		panic(fmt.Errorf("%w: %T", undrstnd.ErrUnsupportedToolChoice, choice))
	}
	if _, named := choice.(undrstnd.ToolChoiceTool); len(out.Tools) == 0 && !named {
		out.ToolChoice = ""
	}
	return out
}

// derefChoice turns pointers to the known choices into values. A nil pointer is
// an absent choice.
func derefChoice(choice undrstnd.ToolChoice) undrstnd.ToolChoice {
	switch c := choice.(type) {
	case *undrstnd.ToolChoiceAuto:
		return deref(c)
	case *undrstnd.ToolChoiceNone:
		return deref(c)
	case *undrstnd.ToolChoiceRequired:
		return deref(c)
	case *undrstnd.ToolChoiceTool:
		return deref(c)
	default:
		return choice
	}
}

func deref[T undrstnd.ToolChoice](p *T) undrstnd.ToolChoice {
	if p == nil {
		return nil
	}
	return *p
}

func functionTool(t undrstnd.FunctionTool) wire.Tool {
	var params any = t.Parameters
	if t.Parameters == nil {
		params = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return wire.NewFunctionTool(t.Name, t.Description, params)
}
