// Package models provides model constants for all supported AI providers.
//
// This package exposes typed model constants with pricing information.
// Models know their provider, which is what lets the client package route
// a request to the right backend from a bare model string.
//
// # Chat Models
//
// Use chat models with troupe.WithModel() or as client defaults:
//
//	import (
//	    "github.com/troupe-dev/troupe"
//	    "github.com/troupe-dev/troupe/client"
//	    "github.com/troupe-dev/troupe/models"
//	)
//
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{
//	        Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
//	        OpenAI:    os.Getenv("OPENAI_API_KEY"),
//	    },
//	    Defaults: client.Defaults{
//	        Chat: models.ClaudeSonnet45,
//	    },
//	})
//
//	// Override with a different model (routes to OpenAI)
//	resp, err := c.Chat(ctx, messages, troupe.WithModel(models.GPT52.String()))
//
// # Embedding Models
//
// Use embedding models for vector embeddings and semantic routing:
//
//	resp, err := c.Embed(ctx, texts,
//	    troupe.WithEmbeddingModel(models.TextEmbedding3Small.String()),
//	)
//
// # Model Lookup
//
// Agent definitions carry models as plain strings; resolve them with
// [ChatByID], [EmbeddingByID], or [ProviderOf]:
//
//	if provider := models.ProviderOf("claude-haiku-4-5"); provider != "" {
//	    // routes to Anthropic
//	}
//
// # Pricing Information
//
// All models include pricing methods for cost estimation:
//
//	cost := models.GPT52.Cost(resp.Usage)
//
// Some pricing fields are provider-specific. Use helper methods to check
// availability:
//
//	pricing := models.GPT52.Pricing()
//	if pricing.HasCachedPricing() {
//	    // OpenAI models support cached input pricing
//	}
//	if pricing.HasLongContextPricing() {
//	    // Google models have tiered pricing for >200K token contexts
//	}
package models
