package troupe

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies a message's sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message represents a single entry in a conversation history.
// Canonical history recorded by a Pool contains only user and assistant
// messages; system and tool messages are assembled transiently inside an
// agent turn and never appended to State.
type Message struct {
	// ID correlates a message across streams and the AG-UI bridge. The
	// constructors fill it in; zero is fine for transient messages.
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// Agent names the agent that produced an assistant message.
	// Empty for user messages.
	Agent string `json:"agent,omitempty"`
	// Timestamp records when the message was appended.
	Timestamp time.Time `json:"timestamp,omitzero"`
	// ToolCalls carries an assistant message's tool invocation requests.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolResults carries a tool message's execution outcomes.
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// NewUserMessage creates a user message with a fresh ID and timestamp.
func NewUserMessage(content string) Message {
	return Message{
		ID:        GenerateMessageID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message attributed to an agent,
// with a fresh ID and timestamp.
func NewAssistantMessage(agent, content string) Message {
	return Message{
		ID:        GenerateMessageID(),
		Role:      RoleAssistant,
		Content:   content,
		Agent:     agent,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage creates a system message. System messages are used for
// prompt assembly and are not recorded in canonical history.
func NewSystemMessage(content string) Message {
	return Message{
		Role:    RoleSystem,
		Content: content,
	}
}

// NewToolResultMessage creates a tool message carrying execution results.
// Like system messages, tool messages live only inside an agent turn.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{
		Role:        RoleTool,
		ToolResults: results,
	}
}

// Usage counts the tokens a request consumed.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Response is a complete, non-streaming answer from a chat provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
	// ToolCalls holds the model's tool invocation requests. A non-empty
	// slice means the turn wants tools dispatched before it can finish.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// StreamEvent is one increment of a streaming response. Text arrives in
// Delta; the final event sets Done with the assembled Response, or Err
// when the stream failed.
type StreamEvent struct {
	Delta    string
	Done     bool
	Response *Response
	Err      error
}
