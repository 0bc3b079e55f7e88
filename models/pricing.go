package models

import "github.com/troupe-dev/troupe"

// ChatPricing holds per-million-token rates in USD for a chat model.
// Providers price differently, so some fields only apply to some models:
// cached-input rates are an OpenAI feature, long-context tiers a Google one.
// A zero field means the rate does not exist for that model.
type ChatPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64

	// CachedInputPerMillion applies to prompt-cached input tokens.
	// Zero for models without a cache discount.
	CachedInputPerMillion float64

	// InputPerMillionLong and OutputPerMillionLong apply once the context
	// exceeds 200K tokens. Zero for models without tiered rates.
	InputPerMillionLong  float64
	OutputPerMillionLong float64
}

// Cost returns the dollar cost of the given usage at standard rates.
// Cache discounts and long-context tiers are not applied; usage reports
// do not distinguish those token classes.
func (p ChatPricing) Cost(usage troupe.Usage) float64 {
	in := float64(usage.InputTokens) / 1_000_000 * p.InputPerMillion
	out := float64(usage.OutputTokens) / 1_000_000 * p.OutputPerMillion
	return in + out
}

// HasCachedPricing reports whether the model discounts cached input tokens.
func (p ChatPricing) HasCachedPricing() bool {
	return p.CachedInputPerMillion > 0
}

// HasLongContextPricing reports whether rates change beyond 200K context.
func (p ChatPricing) HasLongContextPricing() bool {
	return p.InputPerMillionLong > 0 || p.OutputPerMillionLong > 0
}

// EmbeddingPricing holds the per-million-token rate in USD for an
// embedding model.
type EmbeddingPricing struct {
	PerMillion float64
}

// Cost returns the dollar cost of embedding the given number of tokens.
func (p EmbeddingPricing) Cost(tokens int) float64 {
	return float64(tokens) / 1_000_000 * p.PerMillion
}
