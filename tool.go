package troupe

import "encoding/json"

// Tool declares a function the model can request. This is the wire-level
// declaration handed to chat providers; execution policy (timeout, retries,
// error mode) lives on tool.Tool in the tool package.
type Tool struct {
	Name string
	// Description tells the model what the tool does and when to reach
	// for it.
	Description string
	// Parameters is a JSON Schema object describing the arguments.
	Parameters json.RawMessage
}

// ToolCall is a model-issued request to invoke one tool. Arguments arrive
// as the raw JSON string the model produced; validation happens at
// execution time.
type ToolCall struct {
	// ID ties the eventual ToolResult back to this call.
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResult is the outcome of one tool call, sent back to the model on
// the next turn.
type ToolResult struct {
	// ToolCallID matches the ID of the originating ToolCall.
	ToolCallID string `json:"toolCallId"`
	Content    string `json:"content"`
	// IsError marks a failure the model should read and react to.
	IsError bool `json:"isError,omitempty"`
}

// ToolChoice controls whether the model may, must, or must not use tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide (the default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces the model to call some tool.
	ToolChoiceRequired ToolChoice = "required"
)
