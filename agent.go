package troupe

import "context"

// Agent is a named unit that consumes shared state and produces one textual
// output per invocation, possibly after invoking tools. The concrete
// model-backed implementation lives in the agent package; pools accept any
// implementation of this interface.
type Agent interface {
	// Name returns the agent's unique registry key.
	Name() string

	// Description returns a short capability summary. Routers that select by
	// meaning (semantic or model-backed routing) read it; it may be empty.
	Description() string

	// Run executes one agent turn: consume input and state, produce output.
	// toolsUsed lists the names of tools invoked during the turn in
	// invocation order.
	Run(ctx context.Context, input string, st *State) (output string, toolsUsed []string, err error)
}

// LastResult summarizes the most recently completed agent turn. It is
// recomputed every iteration of a pool run and handed to the router's next
// decision; it is nil for the first decision of a run.
type LastResult struct {
	// Agent is the name of the agent that produced the turn.
	Agent string `json:"agent"`
	// Output is the turn's textual output.
	Output string `json:"output"`
	// ToolsUsed lists tool names invoked during the turn, in order.
	ToolsUsed []string `json:"tools_used"`
}
