package retry

import (
	"context"

	"github.com/troupe-dev/troupe"
)

// Chat wraps p so every Chat and ChatStream call runs under cfg. Stream
// retries cover connection establishment only; once a stream is handed out,
// its failures pass through untouched.
func Chat(p troupe.ChatProvider, cfg Config) troupe.ChatProvider {
	return &chatProvider{inner: p, cfg: cfg}
}

type chatProvider struct {
	inner troupe.ChatProvider
	cfg   Config
}

func (c *chatProvider) Chat(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (*troupe.Response, error) {
	return Do(ctx, c.cfg, func() (*troupe.Response, error) {
		return c.inner.Chat(ctx, messages, opts...)
	})
}

func (c *chatProvider) ChatStream(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (<-chan troupe.StreamEvent, error) {
	return DoStream(ctx, c.cfg, func() (<-chan troupe.StreamEvent, error) {
		return c.inner.ChatStream(ctx, messages, opts...)
	})
}

// Embedder wraps p so every Embed call runs under cfg.
func Embedder(p troupe.EmbeddingProvider, cfg Config) troupe.EmbeddingProvider {
	return &embeddingProvider{inner: p, cfg: cfg}
}

type embeddingProvider struct {
	inner troupe.EmbeddingProvider
	cfg   Config
}

func (e *embeddingProvider) Embed(ctx context.Context, texts []string, opts ...troupe.EmbeddingOption) (*troupe.EmbeddingResponse, error) {
	return Do(ctx, e.cfg, func() (*troupe.EmbeddingResponse, error) {
		return e.inner.Embed(ctx, texts, opts...)
	})
}

var (
	_ troupe.ChatProvider      = (*chatProvider)(nil)
	_ troupe.EmbeddingProvider = (*embeddingProvider)(nil)
)
