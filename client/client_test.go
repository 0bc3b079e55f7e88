package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/models"
	"github.com/troupe-dev/troupe/retry"
)

func TestFeatureConstants(t *testing.T) {
	assert.Equal(t, Feature("chat"), FeatureChat)
	assert.Equal(t, Feature("embedding"), FeatureEmbedding)
}

func TestErrFeatureNotSupported(t *testing.T) {
	err := &ErrFeatureNotSupported{
		Provider: "anthropic",
		Feature:  "embedding",
	}
	assert.Equal(t, "anthropic has no embedding endpoint", err.Error())
}

func TestErrMissingAPIKey(t *testing.T) {
	t.Run("with model", func(t *testing.T) {
		err := &ErrMissingAPIKey{Provider: "anthropic", Model: "claude-sonnet-4-5"}
		assert.Equal(t, `model "claude-sonnet-4-5" needs an API key for anthropic`, err.Error())
	})

	t.Run("without model", func(t *testing.T) {
		err := &ErrMissingAPIKey{Provider: "openai"}
		assert.Equal(t, "no API key for openai", err.Error())
	})
}

func TestErrNoModel(t *testing.T) {
	t.Run("known operation includes hint", func(t *testing.T) {
		err := &ErrNoModel{Operation: "chat"}
		assert.Equal(t, "chat needs a model: set Defaults.Chat or pass troupe.WithModel", err.Error())
	})

	t.Run("unknown operation", func(t *testing.T) {
		err := &ErrNoModel{Operation: "transcribe"}
		assert.Equal(t, "transcribe needs a model and no default is configured", err.Error())
	})
}

func TestErrUnknownModel(t *testing.T) {
	err := &ErrUnknownModel{Model: "mystery-9000"}
	assert.Equal(t, `cannot resolve a provider for model "mystery-9000"`, err.Error())
}

func TestNew(t *testing.T) {
	t.Run("creates client with API keys", func(t *testing.T) {
		c := New(Config{
			APIKeys: APIKeys{
				Anthropic: "test-anthropic-key",
				OpenAI:    "test-openai-key",
			},
		})
		assert.NotNil(t, c)
	})

	t.Run("creates client with defaults", func(t *testing.T) {
		c := New(Config{
			APIKeys:  APIKeys{Anthropic: "test-key"},
			Defaults: Defaults{Chat: models.ClaudeSonnet45},
		})
		assert.NotNil(t, c)
	})

	t.Run("copies the retry config", func(t *testing.T) {
		cfg := retry.DefaultConfig()
		c := New(Config{
			APIKeys: APIKeys{OpenAI: "key"},
			Retry:   &cfg,
		})
		cfg.MaxRetries = 99
		assert.NotEqual(t, 99, c.retryCfg.MaxRetries)
	})
}

func TestChatErrors(t *testing.T) {
	ctx := context.Background()
	messages := []troupe.Message{{Role: troupe.RoleUser, Content: "hi"}}

	t.Run("no model and no default", func(t *testing.T) {
		c := New(Config{APIKeys: APIKeys{Anthropic: "key"}})

		_, err := c.Chat(ctx, messages)
		var noModel *ErrNoModel
		require.ErrorAs(t, err, &noModel)
		assert.Equal(t, "chat", noModel.Operation)
	})

	t.Run("stream reports its own operation", func(t *testing.T) {
		c := New(Config{APIKeys: APIKeys{Anthropic: "key"}})

		_, err := c.ChatStream(ctx, messages)
		var noModel *ErrNoModel
		require.ErrorAs(t, err, &noModel)
		assert.Equal(t, "chat_stream", noModel.Operation)
	})

	t.Run("missing key for the model's provider", func(t *testing.T) {
		c := New(Config{
			APIKeys:  APIKeys{OpenAI: "key"},
			Defaults: Defaults{Chat: models.ClaudeSonnet45},
		})

		_, err := c.Chat(ctx, messages)
		var missing *ErrMissingAPIKey
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "anthropic", missing.Provider)
	})

	t.Run("unresolvable model", func(t *testing.T) {
		c := New(Config{APIKeys: APIKeys{OpenAI: "key"}})

		_, err := c.Chat(ctx, messages, troupe.WithModel("mystery-9000"))
		var unknown *ErrUnknownModel
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "mystery-9000", unknown.Model)
	})

	t.Run("per-request model overrides the default", func(t *testing.T) {
		// Default routes to OpenAI, override routes to Anthropic which has
		// no key; the override must win for this error to surface.
		c := New(Config{
			APIKeys:  APIKeys{OpenAI: "key"},
			Defaults: Defaults{Chat: models.GPT52},
		})

		_, err := c.Chat(ctx, messages, troupe.WithModel(models.ClaudeSonnet45.String()))
		var missing *ErrMissingAPIKey
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "anthropic", missing.Provider)
	})
}

func TestEmbedErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no model and no default", func(t *testing.T) {
		c := New(Config{APIKeys: APIKeys{OpenAI: "key"}})

		_, err := c.Embed(ctx, []string{"text"})
		var noModel *ErrNoModel
		require.ErrorAs(t, err, &noModel)
		assert.Equal(t, "embedding", noModel.Operation)
	})

	t.Run("provider without embedding support", func(t *testing.T) {
		c := New(Config{APIKeys: APIKeys{Anthropic: "key"}})

		_, err := c.Embed(ctx, []string{"text"}, troupe.WithEmbeddingModel("claude-sonnet-4-5"))
		var unsupported *ErrFeatureNotSupported
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "anthropic", unsupported.Provider)
		assert.Equal(t, "embedding", unsupported.Feature)
	})

	t.Run("missing key for the model's provider", func(t *testing.T) {
		c := New(Config{
			APIKeys:  APIKeys{Anthropic: "key"},
			Defaults: Defaults{Embedding: models.TextEmbedding3Small},
		})

		_, err := c.Embed(ctx, []string{"text"})
		var missing *ErrMissingAPIKey
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "openai", missing.Provider)
	})
}

func TestSupportsFeature(t *testing.T) {
	t.Run("chat supported with any API key", func(t *testing.T) {
		c := New(Config{APIKeys: APIKeys{Anthropic: "key"}})
		assert.True(t, c.SupportsFeature(FeatureChat))
	})

	t.Run("embedding supported with OpenAI or Google", func(t *testing.T) {
		c1 := New(Config{APIKeys: APIKeys{OpenAI: "key"}})
		assert.True(t, c1.SupportsFeature(FeatureEmbedding))

		c2 := New(Config{APIKeys: APIKeys{Google: "key"}})
		assert.True(t, c2.SupportsFeature(FeatureEmbedding))

		c3 := New(Config{APIKeys: APIKeys{Anthropic: "key"}})
		assert.False(t, c3.SupportsFeature(FeatureEmbedding))
	})

	t.Run("unknown feature not supported", func(t *testing.T) {
		c := New(Config{
			APIKeys: APIKeys{OpenAI: "key", Anthropic: "key", Google: "key"},
		})
		assert.False(t, c.SupportsFeature(Feature("unknown")))
	})
}

func TestCapabilities(t *testing.T) {
	assert.True(t, supports(troupe.ProviderAnthropic, FeatureChat))
	assert.False(t, supports(troupe.ProviderAnthropic, FeatureEmbedding))

	assert.True(t, supports(troupe.ProviderOpenAI, FeatureEmbedding))
	assert.True(t, supports(troupe.ProviderGoogle, FeatureEmbedding))

	assert.False(t, supports(troupe.Provider("azure"), FeatureChat))
}

func TestFromEnv(t *testing.T) {
	clearKeys := func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "")
	}

	t.Run("no keys", func(t *testing.T) {
		clearKeys(t)

		_, err := FromEnv()
		assert.ErrorIs(t, err, ErrNoAPIKeys)
	})

	t.Run("anthropic key sets chat default", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("ANTHROPIC_API_KEY", "test-key")

		c, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, models.DefaultClaudeModel, c.defaults.Chat)
		assert.True(t, c.SupportsFeature(FeatureChat))
		assert.False(t, c.SupportsFeature(FeatureEmbedding))
	})

	t.Run("openai key sets chat and embedding defaults", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("OPENAI_API_KEY", "test-key")

		c, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, models.DefaultGPTModel, c.defaults.Chat)
		assert.Equal(t, models.DefaultOpenAIEmbeddingModel, c.defaults.Embedding)
	})

	t.Run("anthropic chat wins but embedding falls to google", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("ANTHROPIC_API_KEY", "test-key")
		t.Setenv("GOOGLE_API_KEY", "test-key")

		c, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, models.DefaultClaudeModel, c.defaults.Chat)
		assert.Equal(t, models.DefaultGoogleEmbeddingModel, c.defaults.Embedding)
	})
}
