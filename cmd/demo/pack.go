package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/client"
	"github.com/troupe-dev/troupe/pack"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
	"github.com/troupe-dev/troupe/tool"
)

// MottoArgs are the arguments for the team_motto tool.
type MottoArgs struct {
	Team string `json:"team" desc:"Team name" required:"true"`
}

// demoPack captures a live pool into its serialized document, prints it,
// and rebuilds a working pool from the document plus fresh bindings.
func demoPack(ctx context.Context, c *client.Client) {
	section("Pool serialization")

	motto := tool.MustFunc("team_motto", "Look up a team's motto",
		func(ctx context.Context, args MottoArgs) (any, error) {
			return mottoFor(args.Team), nil
		})

	original := pool.New(
		pool.WithAgents(
			agent.New("herald",
				agent.WithDescription("Announces teams."),
				agent.WithPersona("Announce the team in one dramatic sentence, quoting its motto via team_motto."),
				agent.WithTools(motto),
			),
		),
		pool.WithRouter(router.NewRoundRobin("herald")),
		pool.WithMaxIter(1),
	)

	doc := pack.FromPool(original)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Println("✗", err)
		return
	}
	fmt.Println(string(data))

	// Handlers and providers do not serialize; rebinding supplies them.
	rebuilt, err := pack.Build(ctx, doc,
		pack.WithProvider(c),
		pack.WithHandler("team_motto", func(ctx context.Context, args map[string]any) (any, error) {
			team, _ := args["team"].(string)
			return mottoFor(team), nil
		}),
	)
	if err != nil {
		fmt.Println("✗", err)
		return
	}

	res, err := rebuilt.Run(ctx, "Introduce the Crimson Otters.")
	if err != nil {
		fmt.Println("✗", err)
		return
	}
	fmt.Println()
	fmt.Println(res.Output)
}

func mottoFor(team string) string {
	if team == "" {
		return "Fortune favors the bold."
	}
	return fmt.Sprintf("%s: swift, silent, unstoppable.", team)
}
