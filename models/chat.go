package models

import "github.com/troupe-dev/troupe"

// ChatModel is a catalog entry for a chat model: its wire identifier, the
// provider that serves it, and its rate.
type ChatModel struct {
	id       string
	provider troupe.Provider
	pricing  ChatPricing
}

// String returns the identifier the provider API expects.
func (m ChatModel) String() string { return m.id }

// Provider reports which backend serves this model.
func (m ChatModel) Provider() troupe.Provider { return m.provider }

// Pricing returns the model's rate card.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost returns the dollar cost of the given usage at this model's rates.
func (m ChatModel) Cost(usage troupe.Usage) float64 {
	return m.pricing.Cost(usage)
}

// Anthropic chat models. Rates verified 2026-08-18.
var (
	// Aliases that track the latest 4.5 snapshot
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: troupe.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: troupe.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: troupe.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}

	// Dated snapshots for deployments that pin
	ClaudeOpus45_20251101   = ChatModel{id: "claude-opus-4-5-20251101", provider: troupe.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}
	ClaudeSonnet45_20250929 = ChatModel{id: "claude-sonnet-4-5-20250929", provider: troupe.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45_20251001  = ChatModel{id: "claude-haiku-4-5-20251001", provider: troupe.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI chat models. Rates verified 2026-08-18.
var (
	// GPT-5.2
	GPT52    = ChatModel{id: "gpt-5.2", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.75, OutputPerMillion: 14.00, CachedInputPerMillion: 0.175}}
	GPT52Pro = ChatModel{id: "gpt-5.2-pro", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 3.50, OutputPerMillion: 28.00, CachedInputPerMillion: 0.35}}

	// GPT-5.1
	GPT51      = ChatModel{id: "gpt-5.1", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00, CachedInputPerMillion: 0.125}}
	GPT51Mini  = ChatModel{id: "gpt-5.1-mini", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.30, OutputPerMillion: 1.25, CachedInputPerMillion: 0.03}}
	GPT51Codex = ChatModel{id: "gpt-5.1-codex", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00, CachedInputPerMillion: 0.125}}

	// GPT-5
	GPT5     = ChatModel{id: "gpt-5", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00, CachedInputPerMillion: 0.125}}
	GPT5Mini = ChatModel{id: "gpt-5-mini", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.25, OutputPerMillion: 1.00, CachedInputPerMillion: 0.025}}
	GPT5Nano = ChatModel{id: "gpt-5-nano", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.10, OutputPerMillion: 0.40, CachedInputPerMillion: 0.01}}
	GPT5Pro  = ChatModel{id: "gpt-5-pro", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.50, OutputPerMillion: 20.00, CachedInputPerMillion: 0.25}}

	// o-series reasoning models
	O3     = ChatModel{id: "o3", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.00, OutputPerMillion: 16.00, CachedInputPerMillion: 0.20}}
	O3Mini = ChatModel{id: "o3-mini", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.50, OutputPerMillion: 2.00, CachedInputPerMillion: 0.05}}
	O4Mini = ChatModel{id: "o4-mini", provider: troupe.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.50, OutputPerMillion: 2.00, CachedInputPerMillion: 0.05}}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT52
)

// Google chat models. Rates verified 2026-08-18.
var (
	// Gemini 3.0
	Gemini3Pro       = ChatModel{id: "gemini-3.0-pro", provider: troupe.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 2.00, OutputPerMillion: 12.00, InputPerMillionLong: 4.00, OutputPerMillionLong: 18.00}}
	Gemini3DeepThink = ChatModel{id: "gemini-3.0-deep-think", provider: troupe.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 4.00, OutputPerMillion: 24.00, InputPerMillionLong: 8.00, OutputPerMillionLong: 36.00}}

	// Gemini 2.5
	Gemini25Pro       = ChatModel{id: "gemini-2.5-pro", provider: troupe.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00, InputPerMillionLong: 2.50, OutputPerMillionLong: 15.00}}
	Gemini25Flash     = ChatModel{id: "gemini-2.5-flash", provider: troupe.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60, InputPerMillionLong: 0.15, OutputPerMillionLong: 0.60}}
	Gemini25FlashLite = ChatModel{id: "gemini-2.5-flash-lite", provider: troupe.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.075, OutputPerMillion: 0.30, InputPerMillionLong: 0.075, OutputPerMillionLong: 0.30}}

	// DefaultGeminiModel is the recommended default Google model.
	DefaultGeminiModel = Gemini25Flash
)
