// Package event provides a unified event stream for observing pool runs:
// run and turn lifecycle, streamed message content, tool calls, and routing
// decisions. The event types map 1:1 onto the AG-UI protocol via the agui
// package.
package event

import (
	"time"

	"github.com/troupe-dev/troupe"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a pool run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a pool run completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when a run aborts with an unrecoverable error.
	RunError Type = "run_error"
)

// Turn lifecycle events
const (
	// TurnStart fires when an agent takes a turn.
	TurnStart Type = "turn_start"

	// TurnEnd fires when an agent's turn completes.
	TurnEnd Type = "turn_end"
)

// Message lifecycle events
const (
	// MessageStart fires when an assistant message begins.
	MessageStart Type = "message_start"

	// MessageDelta fires for each streamed content fragment.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when an assistant message completes.
	MessageEnd Type = "message_end"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when a tool call begins executing.
	ToolCallStart Type = "tool_call_start"

	// ToolCallEnd fires when a tool call completes, carrying its result.
	ToolCallEnd Type = "tool_call_end"
)

// Routing events
const (
	// RouteDecision fires when the router selects the next agent.
	RouteDecision Type = "route_decision"
)

// Event is one observable occurrence during a pool run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID correlates all events of one pool run.
	RunID string

	// Agent names the agent this event belongs to, when any.
	Agent string

	// Turn is the 1-indexed turn number within the run.
	Turn int

	// MessageID correlates MessageStart/Delta/End sequences.
	MessageID string

	// Delta carries streamed content for MessageDelta events.
	Delta string

	// Response carries the completed response for MessageEnd and TurnEnd.
	Response *troupe.Response

	// ToolCall carries the call for ToolCallStart and ToolCallEnd.
	ToolCall *troupe.ToolCall

	// ToolResult carries the result for ToolCallEnd.
	ToolResult *troupe.ToolResult

	// Output carries the turn output for TurnEnd and the final output for
	// RunEnd.
	Output string

	// Error carries the failure for RunError events.
	Error error

	// Message carries additional context, such as a stop reason.
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit stamps and sends an event without blocking. Events are dropped when
// the channel is full: observation must never stall a run. An already
// stamped timestamp is kept, so the same event sent to several channels
// carries one timestamp.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case ch <- e:
	default:
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}

// Text reduces an event stream to its message content deltas. The returned
// channel closes when the source closes.
func Text(events <-chan Event) <-chan string {
	out := make(chan string, cap(events))
	go func() {
		defer close(out)
		for e := range events {
			if e.Type == MessageDelta && e.Delta != "" {
				out <- e.Delta
			}
		}
	}()
	return out
}
