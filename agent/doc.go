// Package agent provides the named, persona-driven worker unit of the troupe library.
//
// An agent bundles a persona (its system prompt), a model reference, a chat
// provider, and a set of tools. One call to Run is one turn: the agent
// assembles a prompt from its persona, the shared state's history view, and
// the turn input, calls the model, dispatches any requested tool calls in
// order, and loops until the model produces plain text.
//
// # Basic Usage
//
//	researcher := agent.New("researcher",
//	    agent.WithDescription("Finds facts on the web"),
//	    agent.WithPersona("You are a meticulous researcher. Cite sources."),
//	    agent.WithModel("claude-sonnet-4-5"),
//	    agent.WithProvider(client),
//	    agent.WithTools(tool.WebSearch(), tool.HTTP()),
//	)
//
//	st := troupe.NewState()
//	output, toolsUsed, err := researcher.Run(ctx, "Who wrote The Go Programming Language?", st)
//
// Agents are usually not run directly but assembled into a pool, which
// routes turns between them and records history. An agent constructed
// without a provider, model, or tracing setting adopts the pool's defaults
// at assembly time; explicit settings always win.
//
// # Tool Dispatch
//
// When the model requests tool calls, the agent executes them strictly in
// request order and feeds the results back for a follow-up call. The
// number of these cycles per turn is bounded by WithMaxToolRounds
// (default 5); at the bound the turn ends with whatever content the model
// last produced. Recoverable tool failures are folded into results the
// model can read; tools configured to raise end the turn with an error.
//
// # Observation
//
// Run consults its context for an event stream (see the event package).
// When one is attached the model call streams, emitting MessageStart,
// MessageDelta, and MessageEnd events, and tool dispatch emits
// ToolCallStart and ToolCallEnd. Without a stream the agent uses plain
// calls and emits nothing.
package agent
