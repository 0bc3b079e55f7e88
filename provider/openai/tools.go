package openai

import (
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/troupe-dev/troupe"
)

// convertTools maps tool declarations onto the SDK's function-call params.
func convertTools(tools []troupe.Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		out[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  functionParameters(t.Parameters),
			},
		}
	}
	return out
}

// functionParameters decodes a raw JSON Schema into the map the SDK wants.
// Schemas are validated when the tool is built, so a decode failure here
// leaves the parameters empty instead of failing the request.
func functionParameters(schema json.RawMessage) shared.FunctionParameters {
	if len(schema) == 0 {
		return nil
	}
	var params shared.FunctionParameters
	json.Unmarshal(schema, &params)
	return params
}

// convertToolChoice maps our tool-use modes onto the API's string form.
func convertToolChoice(choice troupe.ToolChoice) openai.ChatCompletionToolChoiceOptionUnionParam {
	mode := "auto"
	switch choice {
	case troupe.ToolChoiceNone:
		mode = "none"
	case troupe.ToolChoiceRequired:
		mode = "required"
	}
	return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String(mode)}
}

// toolCallsOut converts the SDK's tool calls into ours. Arguments stay as
// the raw JSON string the model produced; the dispatcher decodes them.
func toolCallsOut(calls []openai.ChatCompletionMessageToolCall) []troupe.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]troupe.ToolCall, len(calls))
	for i, tc := range calls {
		out[i] = troupe.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return out
}
