package models

import (
	"strings"

	"github.com/troupe-dev/troupe"
)

// chatCatalog lists every cataloged chat model for lookup by ID.
var chatCatalog = []ChatModel{
	ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
	ClaudeOpus45_20251101, ClaudeSonnet45_20250929, ClaudeHaiku45_20251001,
	GPT52, GPT52Pro,
	GPT51, GPT51Mini, GPT51Codex,
	GPT5, GPT5Mini, GPT5Nano, GPT5Pro,
	O3, O3Mini, O4Mini,
	Gemini3Pro, Gemini3DeepThink,
	Gemini25Pro, Gemini25Flash, Gemini25FlashLite,
}

var embeddingCatalog = []EmbeddingModel{
	TextEmbedding3Large, TextEmbedding3Small,
	GeminiEmbedding001,
}

// ChatByID looks up a cataloged chat model by its API identifier.
func ChatByID(id string) (ChatModel, bool) {
	for _, m := range chatCatalog {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}

// EmbeddingByID looks up a cataloged embedding model by its API identifier.
func EmbeddingByID(id string) (EmbeddingModel, bool) {
	for _, m := range embeddingCatalog {
		if m.id == id {
			return m, true
		}
	}
	return EmbeddingModel{}, false
}

// ProviderOf resolves which provider serves the given model identifier.
// Cataloged models answer exactly; unknown identifiers fall back to prefix
// conventions so newly released models route without a catalog update.
// Returns the empty Provider when the identifier matches nothing.
func ProviderOf(id string) troupe.Provider {
	if m, ok := ChatByID(id); ok {
		return m.provider
	}
	if m, ok := EmbeddingByID(id); ok {
		return m.provider
	}

	switch {
	case strings.HasPrefix(id, "claude-"):
		return troupe.ProviderAnthropic
	case strings.HasPrefix(id, "gpt-"), strings.HasPrefix(id, "o1"),
		strings.HasPrefix(id, "o3"), strings.HasPrefix(id, "o4"),
		strings.HasPrefix(id, "text-embedding-"):
		return troupe.ProviderOpenAI
	case strings.HasPrefix(id, "gemini-"), strings.HasPrefix(id, "models/gemini-"):
		return troupe.ProviderGoogle
	}
	return ""
}
