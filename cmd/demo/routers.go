package main

import (
	"context"
	"fmt"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/client"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
)

// triageAgents is the support roster both router demos dispatch over.
func triageAgents() []troupe.Agent {
	return []troupe.Agent{
		agent.New("billing",
			agent.WithDescription("Handles invoices, charges, and refunds."),
			agent.WithPersona("You are billing support. Resolve the request in two sentences."),
		),
		agent.New("tech",
			agent.WithDescription("Handles outages, errors, and debugging."),
			agent.WithPersona("You are technical support. Resolve the request in two sentences."),
		),
		agent.New("concierge",
			agent.WithDescription("Handles everything that is neither billing nor technical."),
			agent.WithPersona("You are general support. Resolve the request in two sentences."),
		),
	}
}

var triageQuestions = []string{
	"I was charged twice for March.",
	"The dashboard returns a 502 since this morning.",
}

// demoAgentRouter lets a model pick the agent for each request and stop the
// run once the request is handled.
func demoAgentRouter(ctx context.Context, c *client.Client) {
	section("Model-backed router")

	rt := router.NewAgent("triage", c, nil,
		router.WithPersona("Route each support request to the right team. Answer STOP once the request has been handled."))

	for _, q := range triageQuestions {
		p := pool.New(
			pool.WithAgents(triageAgents()...),
			pool.WithRouter(rt),
			pool.WithMaxIter(3),
			pool.WithProvider(c),
		)
		runTriage(ctx, p, q)
	}
}

// demoSemanticRouter routes by embedding similarity between the request and
// each agent's description; a decision costs one embedding call instead of
// a generation call.
func demoSemanticRouter(ctx context.Context, c *client.Client) {
	section("Semantic router")

	agents := triageAgents()
	infos := make([]troupe.AgentInfo, 0, len(agents))
	for _, a := range agents {
		infos = append(infos, troupe.AgentInfo{Name: a.Name(), Description: a.Description()})
	}

	rt, err := router.NewSemantic(ctx, "triage", c, infos, router.WithMinScore(0.2))
	if err != nil {
		fmt.Println("✗", err)
		return
	}

	for _, q := range triageQuestions {
		p := pool.New(
			pool.WithAgents(agents...),
			pool.WithRouter(rt),
			pool.WithMaxIter(1),
			pool.WithProvider(c),
		)
		runTriage(ctx, p, q)
	}
}

func runTriage(ctx context.Context, p *pool.Pool, q string) {
	res, err := p.Run(ctx, q)
	if err != nil {
		fmt.Println("✗", err)
		return
	}
	if res.Last == nil {
		fmt.Printf("%q\n  → router stopped without dispatching\n\n", q)
		return
	}
	fmt.Printf("%q\n  → %s: %s\n\n", q, res.Last.Agent, res.Output)
}
