// Package pool provides the orchestrator that drives a set of agents
// through multi-turn runs.
//
// A pool owns the shared conversation state, the agent registry, and a
// router. One Run appends the input to history, then loops: the router
// picks the next agent (or stops), the agent takes a turn with the
// previous turn's output as its input, and the turn's output is appended
// to history. The loop ends when the router stops or after maxIter turns,
// and the run returns the last agent's output.
//
// # Basic Usage
//
//	p := pool.New(
//	    pool.WithAgents(researcher, writer),
//	    pool.WithRouter(router.NewRoundRobin("researcher", "writer")),
//	    pool.WithProvider(client),
//	    pool.WithModel("claude-sonnet-4-5"),
//	    pool.WithMaxIter(4),
//	)
//
//	res, err := p.Run(ctx, "Explain how tides work, then write it up.")
//	fmt.Println(res.Output)
//
// Agents constructed without a provider, model, or tracing setting adopt
// the pool's defaults when the pool assembles; explicit settings win.
// State survives across runs: history accumulates, and a second Run sees
// everything the first appended.
//
// # Observation
//
//	for e := range p.RunStream(ctx, input) {
//	    switch e.Type {
//	    case event.MessageDelta:
//	        fmt.Print(e.Delta)
//	    case event.RunEnd:
//	        fmt.Println()
//	    }
//	}
//
// RunStream emits the run's full event stream and closes the channel when
// the run finishes; the final event is RunEnd with the output, or RunError
// with the failure. WithEvents installs a persistent channel observing
// every run the same way.
//
// # Failure
//
// A router decision naming an agent absent from the registry aborts the
// run with *troupe.RoutingError. Agent and tool failures configured to
// raise abort it likewise. History keeps everything appended before the
// failure; nothing is rolled back.
package pool
