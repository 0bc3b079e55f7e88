package main

import (
	"context"
	"fmt"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/client"
	"github.com/troupe-dev/troupe/history"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
)

// demoPoolRun drives a two-agent debate through a round-robin rotation and
// prints the transcript. The history manager caps what each agent sees so
// the debate can run long without growing the prompt unboundedly.
func demoPoolRun(ctx context.Context, c *client.Client) {
	section("Pool run")

	p := pool.New(
		pool.WithAgents(
			agent.New("optimist",
				agent.WithDescription("Argues the upside."),
				agent.WithPersona("You argue the upside of whatever is being discussed. Two sentences."),
			),
			agent.New("skeptic",
				agent.WithDescription("Argues the downside."),
				agent.WithPersona("You argue the downside of whatever was just said. Two sentences."),
			),
		),
		pool.WithRouter(router.NewRoundRobin("optimist", "skeptic")),
		pool.WithMaxIter(4),
		pool.WithProvider(c),
		pool.WithHistory(history.New(
			history.WithMaxContextMessages(6),
			history.WithStrategy(history.StrategyTruncateOldest),
		)),
	)

	res, err := p.Run(ctx, "Every team should adopt a four-day work week.")
	if err != nil {
		fmt.Println("✗", err)
		return
	}

	for _, msg := range p.State().History() {
		if msg.Role == troupe.RoleAssistant {
			fmt.Printf("[%s] %s\n\n", msg.Agent, msg.Content)
		}
	}
	fmt.Printf("%d turns, last word to %s\n", res.Turns, res.Last.Agent)
}
