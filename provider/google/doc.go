// Package google adapts Google's GenAI SDK (the Gemini API) to the troupe
// provider interfaces.
//
// Like the openai package, the adapter covers both roles: [troupe.ChatProvider]
// (blocking and streaming, with tool calling) and [troupe.EmbeddingProvider].
// Unlike the other providers, the SDK constructor needs a context and can
// fail, so New returns an error:
//
//	gemini, err := google.New(ctx, os.Getenv("GOOGLE_API_KEY"),
//	    google.WithModel(google.Gemini3Pro))
//	if err != nil {
//	    return err
//	}
//
//	resp, err := gemini.Chat(ctx, []troupe.Message{
//	    troupe.NewUserMessage("Triage this bug report."),
//	}, troupe.WithModel(google.Gemini25FlashLite.String()))
//
// Gemini does not assign IDs to function calls, so this adapter synthesizes
// one from the part index and function name. Tool results sent back through
// the conversation are matched to their function by name again; callers
// never see the difference.
//
// A request Gemini refuses on safety grounds ends without an API error; the
// adapter turns the block reason into a [*troupe.ModelError] so callers
// handle it like any other failure.
//
// Embeddings default to [DefaultEmbeddingModel] and come back as 3072
// dimension vectors. Pricing and metadata live in the models package
// catalog, keyed by the same identifiers; Gemini models carry tiered rates
// for contexts beyond 200K tokens:
//
//	if m, ok := models.ChatByID(google.Gemini25Pro.String()); ok && m.Pricing().HasLongContextPricing() {
//	    fmt.Printf("Long context: $%.2f/M in\n", m.Pricing().InputPerMillionLong)
//	}
package google
