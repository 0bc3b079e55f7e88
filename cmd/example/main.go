// Command example is the smallest useful troupe wiring: two agents, a
// round-robin router, one pool run, and a streamed follow-up.
//
// It needs one provider API key in the environment (or a .env file):
// ANTHROPIC_API_KEY, OPENAI_API_KEY, or GOOGLE_API_KEY.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/client"
	"github.com/troupe-dev/troupe/event"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
)

func main() {
	ctx := context.Background()

	c, err := client.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "example:", err)
		os.Exit(1)
	}

	p := pool.New(
		pool.WithAgents(
			agent.New("optimist",
				agent.WithDescription("Argues the upside."),
				agent.WithPersona("You see the upside of everything. Answer in two sentences."),
			),
			agent.New("skeptic",
				agent.WithDescription("Argues the downside."),
				agent.WithPersona("You question everything. Answer in two sentences."),
			),
		),
		pool.WithRouter(router.NewRoundRobin("optimist", "skeptic")),
		pool.WithMaxIter(2),
		pool.WithProvider(c),
	)

	// One complete run: optimist answers, then the skeptic responds to it.
	res, err := p.Run(ctx, "Should every service be rewritten as microservices?")
	if err != nil {
		fmt.Fprintln(os.Stderr, "example:", err)
		os.Exit(1)
	}
	for _, msg := range p.State().History() {
		if msg.Role == troupe.RoleAssistant {
			fmt.Printf("[%s] %s\n\n", msg.Agent, msg.Content)
		}
	}
	fmt.Printf("(%d turns)\n\n", res.Turns)

	// A streamed follow-up on the same pool: history carries over.
	fmt.Println("--- streaming follow-up ---")
	events := p.RunStream(ctx, "Summarize your disagreement in one sentence each.")
	for chunk := range event.Text(events) {
		fmt.Print(chunk)
	}
	fmt.Println()
}
