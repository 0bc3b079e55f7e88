package client

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/troupe-dev/troupe/models"
)

// ErrNoAPIKeys is returned by FromEnv when no provider key is present in
// the environment.
var ErrNoAPIKeys = errors.New("no API keys found in environment")

// FromEnv creates a client configured from the environment. A .env file in
// the working directory is loaded first when present, then ANTHROPIC_API_KEY,
// OPENAI_API_KEY, and GOOGLE_API_KEY select the available providers.
//
// Default models are filled in for whichever providers have keys (Anthropic
// preferred for chat, OpenAI for embeddings), so the client is usable
// immediately. Use New for explicit control over defaults.
func FromEnv(opts ...ClientOption) (*Client, error) {
	godotenv.Load()

	cfg := Config{
		APIKeys: APIKeys{
			Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
			OpenAI:    os.Getenv("OPENAI_API_KEY"),
			Google:    os.Getenv("GOOGLE_API_KEY"),
		},
	}
	if cfg.APIKeys.Anthropic == "" && cfg.APIKeys.OpenAI == "" && cfg.APIKeys.Google == "" {
		return nil, ErrNoAPIKeys
	}

	switch {
	case cfg.APIKeys.Anthropic != "":
		cfg.Defaults.Chat = models.DefaultClaudeModel
	case cfg.APIKeys.OpenAI != "":
		cfg.Defaults.Chat = models.DefaultGPTModel
	case cfg.APIKeys.Google != "":
		cfg.Defaults.Chat = models.DefaultGeminiModel
	}
	switch {
	case cfg.APIKeys.OpenAI != "":
		cfg.Defaults.Embedding = models.DefaultOpenAIEmbeddingModel
	case cfg.APIKeys.Google != "":
		cfg.Defaults.Embedding = models.DefaultGoogleEmbeddingModel
	}

	return New(cfg, opts...), nil
}
