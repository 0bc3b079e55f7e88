// Command mcp is a reference MCP server exposing a troupe tool registry
// over stdio.
//
// It serves the builtin tool set plus two local demo tools backed by
// in-memory data, so any MCP client can discover and call them without
// further setup:
//
//	go run ./cmd/mcp
//
// To register the server with an MCP client such as Claude Desktop, add it
// to the client's server configuration:
//
//	{
//	    "mcpServers": {
//	        "troupe-tools": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp"],
//	            "cwd": "/path/to/troupe"
//	        }
//	    }
//	}
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/troupe-dev/troupe/mcp"
	"github.com/troupe-dev/troupe/tool"
)

func main() {
	registry := tool.NewRegistry().
		Add(tool.Builtins()...).
		Add(
			tool.MustFunc("lookup_order", "Look up the status of an order by ID", lookupOrder),
			tool.MustFunc("shipping_quote", "Quote shipping cost for a package", shippingQuote),
		)

	// The stdio transport owns stdout; anything fatal goes to stderr.
	if err := mcp.ServeStdio(registry,
		mcp.WithName("troupe-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}

// orders is the demo data the lookup_order tool serves.
var orders = map[string]struct {
	Status string
	ETA    string
}{
	"A-100": {Status: "shipped", ETA: "2 days"},
	"A-101": {Status: "processing", ETA: "5 days"},
	"B-200": {Status: "delivered", ETA: "arrived"},
}

// LookupOrderArgs are the arguments for the lookup_order tool.
type LookupOrderArgs struct {
	OrderID string `json:"order_id" desc:"Order identifier, e.g. A-100" required:"true"`
}

func lookupOrder(ctx context.Context, args LookupOrderArgs) (any, error) {
	order, ok := orders[args.OrderID]
	if !ok {
		return nil, fmt.Errorf("no order %q", args.OrderID)
	}
	return fmt.Sprintf("order %s: %s, ETA %s", args.OrderID, order.Status, order.ETA), nil
}

// ShippingQuoteArgs are the arguments for the shipping_quote tool.
type ShippingQuoteArgs struct {
	WeightKg float64 `json:"weight_kg" desc:"Package weight in kilograms" required:"true"`
	Speed    string  `json:"speed" desc:"Delivery speed" enum:"standard,express" default:"standard"`
}

func shippingQuote(ctx context.Context, args ShippingQuoteArgs) (any, error) {
	if args.WeightKg <= 0 {
		return nil, fmt.Errorf("weight must be positive, got %v", args.WeightKg)
	}
	rate := 2.50
	if args.Speed == "express" {
		rate = 6.00
	}
	return fmt.Sprintf("$%.2f (%s)", 5.00+rate*args.WeightKg, args.Speed), nil
}
