// Package client routes chat and embedding calls across the provider
// adapters behind a single [troupe.ChatProvider] and
// [troupe.EmbeddingProvider].
//
// Every model identifier in the models catalog names its provider, so a
// request routes by model alone. One client configured with several API
// keys can serve every agent in a pool, each talking to a different
// backend, and back the pool's semantic router besides:
//
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{
//	        Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
//	        OpenAI:    os.Getenv("OPENAI_API_KEY"),
//	    },
//	    Defaults: client.Defaults{Chat: models.ClaudeSonnet45},
//	})
//
//	// Default model, served by Anthropic.
//	resp, err := c.Chat(ctx, messages)
//
//	// Same client, same conversation, served by OpenAI.
//	resp, err = c.Chat(ctx, messages, troupe.WithModel(models.GPT52.String()))
//
// [FromEnv] builds the same thing from environment variables, reading a
// .env file when one is present.
//
// Backends dial lazily: a provider's SDK client is built on the first call
// that routes to it, so a missing or bad key surfaces as an error on that
// call rather than at construction. Anthropic has no embedding endpoint;
// [Client.SupportsFeature] reports what the configured keys can serve, and
// an embedding request routed to Anthropic fails with
// [ErrFeatureNotSupported].
//
// Model calls are unretried by default. Setting Config.Retry wraps every
// backend with the retry package's backoff, honoring server Retry-After
// hints:
//
//	cfg := retry.DefaultConfig()
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    Retry:   &cfg,
//	})
package client
