// Package anthropic adapts the official Anthropic Go SDK to the
// [troupe.ChatProvider] interface.
//
// The adapter covers blocking chat, streaming chat, and tool calling.
// Anthropic has no embedding endpoint; pools that need a semantic router
// pair this provider with the openai or google package.
//
// A client defaults to [DefaultChatModel]; pick another at construction or
// per call:
//
//	claude := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"),
//	    anthropic.WithModel(anthropic.ClaudeOpus45))
//
//	resp, err := claude.Chat(ctx, []troupe.Message{
//	    troupe.NewUserMessage("Summarize this ticket in two sentences."),
//	}, troupe.WithModel(anthropic.ClaudeHaiku45.String()))
//
// Streaming delivers the same response incrementally:
//
//	events, err := claude.ChatStream(ctx, messages)
//	if err != nil {
//	    return err
//	}
//	for ev := range events {
//	    switch {
//	    case ev.Err != nil:
//	        return ev.Err
//	    case ev.Done:
//	        usage = ev.Response.Usage
//	    default:
//	        fmt.Print(ev.Delta)
//	    }
//	}
//
// When the model asks for tools, the response carries ToolCalls and the
// conversation continues with [troupe.NewToolResultMessage] turns; the
// agent package runs that loop.
//
// API failures surface as [*troupe.ModelError] with the HTTP status and any
// Retry-After hint. Calls are not retried here; wrap the client with
// retry.Chat to opt in.
package anthropic
