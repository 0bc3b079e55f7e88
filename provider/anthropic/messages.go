package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/troupe-dev/troupe"
)

// convertMessages maps conversation messages onto the Anthropic wire format.
// System text is returned separately because the Messages API carries it in
// a dedicated field, not in the message list. Empty content is dropped
// throughout; the API rejects empty text blocks.
func convertMessages(messages []troupe.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var params []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		switch msg.Role {
		case troupe.RoleSystem:
			if msg.Content != "" {
				system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			}
		case troupe.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				params = append(params, assistantWithCalls(msg))
			} else if msg.Content != "" {
				params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			}
		case troupe.RoleTool:
			if p, ok := toolResultTurn(msg); ok {
				params = append(params, p)
			}
		default:
			// User text, and anything unrecognized rides along as user text.
			if msg.Content != "" {
				params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
			}
		}
	}

	return params, system
}

// assistantWithCalls builds an assistant turn whose content mixes optional
// text with tool_use blocks.
func assistantWithCalls(msg troupe.Message) anthropic.MessageParam {
	var blocks []anthropic.ContentBlockParamUnion
	if msg.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		var input any
		json.Unmarshal([]byte(tc.Arguments), &input)
		blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
	}
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleAssistant,
		Content: blocks,
	}
}

// toolResultTurn sends tool outputs back as a user turn of tool_result
// blocks, which is how the Messages API expects them.
func toolResultTurn(msg troupe.Message) (anthropic.MessageParam, bool) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, tr := range msg.ToolResults {
		blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, tr.IsError))
	}
	if len(blocks) == 0 {
		return anthropic.MessageParam{}, false
	}
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleUser,
		Content: blocks,
	}, true
}
