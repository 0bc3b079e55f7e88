package main

import (
	"context"
	"fmt"

	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/client"
	"github.com/troupe-dev/troupe/event"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
)

// demoStreaming prints a run's event stream as it happens: routing
// decisions, message deltas, and tool calls.
func demoStreaming(ctx context.Context, c *client.Client) {
	section("Event streaming")

	p := pool.New(
		pool.WithAgents(
			agent.New("drafter",
				agent.WithDescription("Writes a first draft."),
				agent.WithPersona("Write a first draft answering the request. Three sentences."),
			),
			agent.New("editor",
				agent.WithDescription("Tightens a draft."),
				agent.WithPersona("Rewrite the previous draft tighter. Keep it to two sentences."),
			),
		),
		pool.WithRouter(router.NewRoundRobin("drafter", "editor")),
		pool.WithMaxIter(2),
		pool.WithProvider(c),
	)

	for e := range p.RunStream(ctx, "Explain what a race condition is.") {
		switch e.Type {
		case event.RouteDecision:
			fmt.Printf("\n→ turn %d: %s\n", e.Turn, e.Agent)
		case event.MessageDelta:
			fmt.Print(e.Delta)
		case event.ToolCallStart:
			fmt.Printf("\n  ⚙ %s(%s)\n", e.ToolCall.Name, e.ToolCall.Arguments)
		case event.RunError:
			fmt.Println("\n✗", e.Error)
		case event.RunEnd:
			fmt.Println()
		}
	}
}
