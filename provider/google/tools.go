package google

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/troupe-dev/troupe"
)

// convertTools maps tool declarations onto Gemini function declarations.
// The API takes them nested under a single Tool entry.
func convertTools(tools []troupe.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		decls[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toGenaiSchema(t.Parameters),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// convertToolChoice maps our tool-use modes onto Gemini's function calling
// config. ToolChoiceRequired becomes mode ANY, the closest the API gets to
// "must call a tool".
func convertToolChoice(choice troupe.ToolChoice) *genai.ToolConfig {
	mode := genai.FunctionCallingConfigModeAuto
	switch choice {
	case troupe.ToolChoiceNone:
		mode = genai.FunctionCallingConfigModeNone
	case troupe.ToolChoiceRequired:
		mode = genai.FunctionCallingConfigModeAny
	}
	return &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: mode},
	}
}

// extractToolCalls pulls FunctionCall parts out of a response. Gemini does
// not assign call IDs, so one is synthesized from the part index and the
// function name; functionNameFromCallID reverses this when tool results are
// sent back.
func extractToolCalls(parts []*genai.Part) []troupe.ToolCall {
	var calls []troupe.ToolCall
	for i, part := range parts {
		if part.FunctionCall == nil {
			continue
		}
		args, _ := json.Marshal(part.FunctionCall.Args)
		calls = append(calls, troupe.ToolCall{
			ID:        fmt.Sprintf("call_%d_%s", i, part.FunctionCall.Name),
			Name:      part.FunctionCall.Name,
			Arguments: string(args),
		})
	}
	return calls
}
