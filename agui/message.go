package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/troupe-dev/troupe"
)

// Role constants matching AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ToMessages converts AG-UI messages to troupe messages.
func ToMessages(msgs []events.Message) []troupe.Message {
	result := make([]troupe.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToMessage(msg))
	}
	return result
}

// ToMessage converts a single AG-UI message to a troupe message.
func ToMessage(msg events.Message) troupe.Message {
	m := troupe.Message{
		Role: toRole(msg.Role),
	}

	if msg.Content != nil {
		m.Content = *msg.Content
	}

	// Tool calls appear on assistant messages
	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]troupe.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = troupe.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
		}
	}

	// Tool results appear on tool messages
	if msg.ToolCallID != nil && msg.Content != nil {
		m.ToolResults = []troupe.ToolResult{{
			ToolCallID: *msg.ToolCallID,
			Content:    *msg.Content,
		}}
	}

	return m
}

// FromMessages converts troupe messages to AG-UI messages.
func FromMessages(msgs []troupe.Message) []events.Message {
	result := make([]events.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, FromMessage(msg))
	}
	return result
}

// FromMessage converts a single troupe message to an AG-UI message.
// A fresh message ID is generated for each conversion.
func FromMessage(msg troupe.Message) events.Message {
	m := events.Message{
		ID:   events.GenerateMessageID(),
		Role: fromRole(msg.Role),
	}

	if msg.Content != "" {
		m.Content = &msg.Content
	}

	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]events.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = events.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: events.Function{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			}
		}
	}

	// AG-UI tool messages carry a single result
	if len(msg.ToolResults) == 1 {
		m.ToolCallID = &msg.ToolResults[0].ToolCallID
		m.Content = &msg.ToolResults[0].Content
	}

	return m
}

// toRole converts an AG-UI role string to a troupe Role.
func toRole(role string) troupe.Role {
	switch role {
	case RoleUser:
		return troupe.RoleUser
	case RoleAssistant:
		return troupe.RoleAssistant
	case RoleSystem:
		return troupe.RoleSystem
	case RoleTool:
		return troupe.RoleTool
	default:
		return troupe.RoleUser
	}
}

// fromRole converts a troupe Role to an AG-UI role string.
func fromRole(role troupe.Role) string {
	switch role {
	case troupe.RoleUser:
		return RoleUser
	case troupe.RoleAssistant:
		return RoleAssistant
	case troupe.RoleSystem:
		return RoleSystem
	case troupe.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}
