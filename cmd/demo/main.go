// Command demo is an interactive tour of the troupe orchestration engine:
// pool runs, event streaming, the three routers, the tool runtime, and pool
// serialization.
//
// It needs at least one provider API key in the environment (or a .env
// file): ANTHROPIC_API_KEY, OPENAI_API_KEY, or GOOGLE_API_KEY. The semantic
// router demo additionally needs a provider with embedding support.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/troupe-dev/troupe/client"
)

var reader = bufio.NewReader(os.Stdin)

func main() {
	godotenv.Load()
	ctx := context.Background()

	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║       troupe - Agent Pool Demo         ║")
	fmt.Println("╚════════════════════════════════════════╝")
	fmt.Println()

	c, err := client.FromEnv()
	if err != nil {
		fmt.Println("✗", err)
		return
	}

	fmt.Println("Supported features:")
	fmt.Println("  Chat:       ✓")
	if c.SupportsFeature(client.FeatureEmbedding) {
		fmt.Println("  Embeddings: ✓")
	} else {
		fmt.Println("  Embeddings: ✗")
	}
	fmt.Println()

	if askYesNo("Demo a pool run (two agents, round-robin)?") {
		demoPoolRun(ctx, c)
	}

	if askYesNo("Demo event streaming?") {
		demoStreaming(ctx, c)
	}

	if askYesNo("Demo the model-backed router?") {
		demoAgentRouter(ctx, c)
	}

	if c.SupportsFeature(client.FeatureEmbedding) {
		if askYesNo("Demo the semantic router?") {
			demoSemanticRouter(ctx, c)
		}
	}

	if askYesNo("Demo the tool runtime?") {
		demoTools(ctx, c)
	}

	if askYesNo("Demo pool serialization (pack)?") {
		demoPack(ctx, c)
	}

	fmt.Println("\n✨ Demo complete!")
}

func askYesNo(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func section(title string) {
	fmt.Println()
	fmt.Printf("─── %s %s\n\n", title, strings.Repeat("─", max(0, 34-len(title))))
}
