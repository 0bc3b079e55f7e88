package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/client"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
	"github.com/troupe-dev/troupe/tool"
)

// RollArgs are the arguments for the roll_dice tool.
type RollArgs struct {
	Count int `json:"count" desc:"Number of dice to roll" required:"true"`
	Sides int `json:"sides" desc:"Sides per die" default:"6"`
}

// demoTools gives one agent the builtin tools plus a local dice roller and
// lets the model drive them.
func demoTools(ctx context.Context, c *client.Client) {
	section("Tool runtime")

	roll := tool.MustFunc("roll_dice", "Roll dice and report each result",
		func(ctx context.Context, args RollArgs) (any, error) {
			if args.Count < 1 || args.Count > 100 {
				return nil, fmt.Errorf("count must be between 1 and 100, got %d", args.Count)
			}
			sides := args.Sides
			if sides < 2 {
				sides = 6
			}
			rolls := make([]int, args.Count)
			total := 0
			for i := range rolls {
				rolls[i] = rand.Intn(sides) + 1
				total += rolls[i]
			}
			return map[string]any{"rolls": rolls, "total": total}, nil
		})

	registry := tool.NewRegistry().Add(tool.Builtins()...).Add(roll)
	fmt.Println("Tools:", strings.Join(registry.Names(), ", "))

	p := pool.New(
		pool.WithAgents(
			agent.New("gamemaster",
				agent.WithDescription("Resolves game actions with dice."),
				agent.WithPersona("You narrate a dice game. Use roll_dice for every roll; never make up numbers."),
				agent.WithRegistry(registry),
			),
		),
		pool.WithRouter(router.NewRoundRobin("gamemaster")),
		pool.WithMaxIter(1),
		pool.WithProvider(c),
	)

	res, err := p.Run(ctx, "Roll 3d6 for my strength check and tell me how I did.")
	if err != nil {
		fmt.Println("✗", err)
		return
	}

	fmt.Println()
	fmt.Println(res.Output)
	if res.Last != nil && len(res.Last.ToolsUsed) > 0 {
		fmt.Println("\ntools used:", strings.Join(res.Last.ToolsUsed, ", "))
	}
}
