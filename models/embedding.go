package models

import "github.com/troupe-dev/troupe"

// EmbeddingModel is a catalog entry for an embedding model: its wire
// identifier, the provider that serves it, its output width, and its rate.
type EmbeddingModel struct {
	id         string
	provider   troupe.Provider
	dimensions int
	pricing    EmbeddingPricing
}

// String returns the identifier the provider API expects.
func (m EmbeddingModel) String() string { return m.id }

// Provider reports which backend serves this model.
func (m EmbeddingModel) Provider() troupe.Provider { return m.provider }

// Dimensions returns the width of the vectors the model produces.
func (m EmbeddingModel) Dimensions() int { return m.dimensions }

// Pricing returns the model's rate card.
func (m EmbeddingModel) Pricing() EmbeddingPricing { return m.pricing }

// Cost returns the dollar cost of embedding the given token count.
func (m EmbeddingModel) Cost(tokens int) float64 {
	return m.pricing.Cost(tokens)
}

// OpenAI embedding models. Rates verified 2026-08-18.
var (
	TextEmbedding3Large = EmbeddingModel{id: "text-embedding-3-large", provider: troupe.ProviderOpenAI, dimensions: 3072, pricing: EmbeddingPricing{PerMillion: 0.13}}
	TextEmbedding3Small = EmbeddingModel{id: "text-embedding-3-small", provider: troupe.ProviderOpenAI, dimensions: 1536, pricing: EmbeddingPricing{PerMillion: 0.02}}

	// DefaultOpenAIEmbeddingModel is the recommended default OpenAI embedding model.
	DefaultOpenAIEmbeddingModel = TextEmbedding3Small
)

// Google embedding models. Rates verified 2026-08-18.
var (
	GeminiEmbedding001 = EmbeddingModel{id: "gemini-embedding-001", provider: troupe.ProviderGoogle, dimensions: 3072, pricing: EmbeddingPricing{PerMillion: 0.15}}

	// DefaultGoogleEmbeddingModel is the recommended default Google embedding model.
	DefaultGoogleEmbeddingModel = GeminiEmbedding001
)
