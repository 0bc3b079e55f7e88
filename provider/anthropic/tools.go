package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/troupe-dev/troupe"
)

// toolInput lifts a JSON Schema document into the SDK's input schema param.
// The Messages API wants properties and required as separate fields rather
// than one schema blob.
func toolInput(params json.RawMessage) anthropic.ToolInputSchemaParam {
	var doc struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if len(params) > 0 {
		json.Unmarshal(params, &doc)
	}
	return anthropic.ToolInputSchemaParam{
		Properties: doc.Properties,
		Required:   doc.Required,
	}
}

// convertTools declares the registry's tools in Anthropic's format.
func convertTools(tools []troupe.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		out[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: toolInput(t.Parameters),
			},
		}
	}
	return out
}

// convertToolChoice maps the portable tool-choice modes onto the SDK unions.
// Required maps to "any", Anthropic's name for forcing some tool call.
func convertToolChoice(choice troupe.ToolChoice) anthropic.ToolChoiceUnionParam {
	switch choice {
	case troupe.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
	case troupe.ToolChoiceRequired:
		return anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}
	default:
		return anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}
}

// extractToolCalls pulls tool_use blocks out of a response, preserving the
// model's raw argument JSON.
func extractToolCalls(content []anthropic.ContentBlockUnion) []troupe.ToolCall {
	var calls []troupe.ToolCall
	for _, block := range content {
		if block.Type != "tool_use" {
			continue
		}
		calls = append(calls, troupe.ToolCall{
			ID:        block.ID,
			Name:      block.Name,
			Arguments: string(block.Input),
		})
	}
	return calls
}
