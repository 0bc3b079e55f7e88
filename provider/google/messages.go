package google

import (
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/troupe-dev/troupe"
)

// geminiRole maps a conversation role onto the two roles Gemini knows.
// The API has no system or tool slot at the content level: system text and
// tool results both travel as user-role content.
func geminiRole(role troupe.Role) string {
	if role == troupe.RoleAssistant {
		return "model"
	}
	return "user"
}

// convertMessages maps conversation messages onto Gemini content. Messages
// that contribute no parts (empty text, no calls, no results) are dropped.
func convertMessages(messages []troupe.Message) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range messages {
		var parts []*genai.Part
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}
		for _, tc := range msg.ToolCalls {
			parts = append(parts, functionCallPart(tc))
		}
		for _, tr := range msg.ToolResults {
			parts = append(parts, functionResponsePart(tr))
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{
				Role:  geminiRole(msg.Role),
				Parts: parts,
			})
		}
	}

	return contents
}

// functionCallPart replays a tool call the model issued on an earlier turn.
func functionCallPart(tc troupe.ToolCall) *genai.Part {
	var args map[string]any
	json.Unmarshal([]byte(tc.Arguments), &args)
	return &genai.Part{
		FunctionCall: &genai.FunctionCall{
			Name: tc.Name,
			Args: args,
		},
	}
}

// functionResponsePart wraps a tool result for the model. The API wants a
// JSON object; results that are not one already are wrapped under a
// "result" key.
func functionResponsePart(tr troupe.ToolResult) *genai.Part {
	var response map[string]any
	if err := json.Unmarshal([]byte(tr.Content), &response); err != nil {
		response = map[string]any{"result": tr.Content}
	}
	return &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			Name:     functionNameFromCallID(tr.ToolCallID),
			Response: response,
		},
	}
}

// functionNameFromCallID recovers the function name from a call ID
// synthesized by extractToolCalls ("call_<index>_<name>"). Gemini matches
// FunctionResponse parts by function name, not by ID. IDs that did not come
// from this package pass through unchanged.
func functionNameFromCallID(id string) string {
	parts := strings.SplitN(id, "_", 3)
	if len(parts) == 3 && parts[0] == "call" {
		return parts[2]
	}
	return id
}
