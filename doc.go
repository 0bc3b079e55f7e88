// Package troupe orchestrates pools of AI agents over a shared conversation.
//
// The root package defines the vocabulary the rest of the module speaks:
// messages and roles, the shared [State], the provider-neutral tool types,
// the [Agent] and [Router] contracts, and the error taxonomy. The packages
// underneath wire that vocabulary into a working engine.
//
// # Core Contracts
//
//   - [ChatProvider]: send a conversation, get text back (streaming included)
//   - [EmbeddingProvider]: turn text into vectors
//   - [Agent]: one named participant taking turns against the shared state
//   - [Router]: decides which agent acts next, and when a run stops
//
// # Basic Usage
//
// Wire a pool from agents, a router, and a provider, then run it:
//
//	c, err := client.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p := pool.New(
//	    pool.WithAgents(
//	        agent.New("researcher", agent.WithPersona("Dig up the facts.")),
//	        agent.New("writer", agent.WithPersona("Write the answer.")),
//	    ),
//	    pool.WithRouter(router.NewRoundRobin("researcher", "writer")),
//	    pool.WithProvider(c),
//	)
//
//	res, err := p.Run(ctx, "What changed in HTTP/3?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Output)
//
// # Streaming
//
// RunStream surfaces the run as it happens; event.Text reduces the stream
// to plain output chunks:
//
//	for chunk := range event.Text(p.RunStream(ctx, "Go on.")) {
//	    fmt.Print(chunk)
//	}
//
// # Direct Provider Calls
//
// The client package also works without a pool:
//
//	messages := []troupe.Message{troupe.NewUserMessage("What is the capital of France?")}
//
//	resp, err := c.Chat(ctx, messages,
//	    troupe.WithModel(models.DefaultClaudeModel),
//	    troupe.WithMaxTokens(1000),
//	    troupe.WithTemperature(0.7),
//	)
//
// # Tools
//
// Tools declare JSON-schema parameters and run under a timeout/retry
// policy. Derive the schema from a struct and hand tools to an agent:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" desc:"City name" required:"true"`
//	}
//
//	weather := tool.MustFunc("get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (any, error) {
//	        return lookup(args.Location)
//	    })
//
//	a := agent.New("assistant", agent.WithTools(weather))
//
// # Packages
//
//   - [github.com/troupe-dev/troupe/pool]: the orchestration loop
//   - [github.com/troupe-dev/troupe/agent]: turn-taking tool-calling agents
//   - [github.com/troupe-dev/troupe/router]: round-robin, model-backed, and semantic routing
//   - [github.com/troupe-dev/troupe/tool]: tool runtime, registry, builtins
//   - [github.com/troupe-dev/troupe/client]: unified multi-provider client
//   - [github.com/troupe-dev/troupe/event]: run event stream
//   - [github.com/troupe-dev/troupe/history]: context windowing and summarization
//   - [github.com/troupe-dev/troupe/pack]: pool serialization
//   - [github.com/troupe-dev/troupe/mcp]: MCP server and remote tools
//   - [github.com/troupe-dev/troupe/agui]: AG-UI protocol bridge
package troupe
