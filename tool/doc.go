// Package tool implements the tool runtime: declaring tools, registering
// them, and executing model-issued tool calls under a per-tool policy of
// timeouts, retries, and error handling.
//
// # Declaring Tools
//
// A Tool couples a wire-level declaration (name, description, parameter
// schema) with a handler and an execution policy. Build the schema with the
// schema package:
//
//	params := schema.Object().
//		Field("city", schema.String().Desc("City name.").Required()).
//		MustBuild()
//
//	weather := tool.New("get_weather", "Look up current weather.", params,
//		func(ctx context.Context, args map[string]any) (any, error) {
//			return lookup(ctx, args["city"].(string))
//		},
//		tool.WithTimeout(10*time.Second),
//	)
//
// Func derives the schema from a struct type instead, so the handler gets
// typed arguments:
//
//	type weatherArgs struct {
//		City string `json:"city" desc:"City name." required:"true"`
//	}
//
//	weather, err := tool.Func("get_weather", "Look up current weather.",
//		func(ctx context.Context, args weatherArgs) (any, error) {
//			return lookup(ctx, args.City)
//		})
//
// # Execution Policy
//
// Run validates arguments once, then executes the handler. Validation
// failures are final and never retried. Execution failures are retried up
// to MaxRetries times with the already-validated arguments, waiting
// RetryDelay between attempts (doubling when RetryBackoff is set). Each
// attempt runs under its own Timeout; a handler that ignores its context is
// still cut off at the deadline.
//
// OnError decides how a final failure is surfaced. ModeRaise returns the
// error to the caller. ModeReturn folds it into a Result with Success=false
// so the model can read the message and try something else.
//
// # The Registry
//
// A Registry holds the tools available to an agent and executes model-issued
// calls:
//
//	reg := tool.NewRegistry().Add(tool.Builtins()...)
//	result, err := reg.Execute(ctx, call)
//
// Execute folds recoverable failures into the ToolResult with IsError set;
// only ModeRaise tools and unknown tool names surface as errors.
//
// # Builtins
//
// Three builtins ship with the package: HTTP for web requests (with a
// private-address guard), WebSearch for DuckDuckGo queries, and Calculator
// for arithmetic. None of them are registered implicitly.
package tool
