// Package openai adapts the official OpenAI Go SDK to the troupe provider
// interfaces.
//
// The adapter serves two roles: [troupe.ChatProvider] (blocking and
// streaming, with tool calling) and [troupe.EmbeddingProvider]. A single
// client can back an agent's conversations and the pool's semantic router
// at the same time.
//
// A client defaults to [DefaultChatModel]; pick another at construction or
// per call:
//
//	gpt := openai.New(os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel(openai.GPT52Pro))
//
//	resp, err := gpt.Chat(ctx, []troupe.Message{
//	    troupe.NewSystemMessage("You are a support dispatcher."),
//	    troupe.NewUserMessage("Where is order A-100?"),
//	}, troupe.WithModel(openai.GPT51Mini.String()))
//
// Embeddings default to [DefaultEmbeddingModel]. The text-embedding-3
// family also accepts shortened output:
//
//	vecs, err := gpt.Embed(ctx, []string{"billing question", "shipping delay"},
//	    troupe.WithEmbeddingModel(openai.TextEmbedding3Large.String()),
//	    troupe.WithEmbeddingDimensions(1024),
//	)
//
// Constants here are identifiers only. Pricing and metadata live in the
// models package catalog, keyed by the same strings:
//
//	if m, ok := models.ChatByID(openai.GPT52.String()); ok {
//	    fmt.Println(m.Pricing().InputPerMillion)
//	}
//
// API failures surface as [*troupe.ModelError] with the HTTP status and any
// Retry-After hint. Calls are not retried here; wrap the client with
// retry.Chat or retry.Embedder to opt in.
package openai
