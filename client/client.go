package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/models"
	"github.com/troupe-dev/troupe/provider/anthropic"
	"github.com/troupe-dev/troupe/provider/google"
	"github.com/troupe-dev/troupe/provider/openai"
	"github.com/troupe-dev/troupe/retry"
)

// Feature names a capability a backend may or may not serve.
type Feature string

const (
	FeatureChat      Feature = "chat"
	FeatureEmbedding Feature = "embedding"
)

// capabilities lists the providers able to serve each feature. Chat is
// universal; embeddings are not, since Anthropic has no embedding endpoint.
var capabilities = map[Feature][]troupe.Provider{
	FeatureChat:      {troupe.ProviderAnthropic, troupe.ProviderOpenAI, troupe.ProviderGoogle},
	FeatureEmbedding: {troupe.ProviderOpenAI, troupe.ProviderGoogle},
}

func supports(p troupe.Provider, f Feature) bool {
	for _, candidate := range capabilities[f] {
		if candidate == p {
			return true
		}
	}
	return false
}

// APIKeys carries one key per provider. Leave providers you do not use empty;
// a backend without a key fails with ErrMissingAPIKey only when a model
// actually routes to it.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Defaults supplies fallback models for requests that name none. Each
// model's identifier decides which backend serves it.
type Defaults struct {
	Chat      models.ChatModel
	Embedding models.EmbeddingModel
}

// Config configures New.
type Config struct {
	APIKeys  APIKeys
	Defaults Defaults

	// Retry opts in to automatic retries of transient provider failures
	// (rate limits, server errors, network timeouts). Nil leaves model
	// calls unretried, which is the orchestration default.
	Retry *retry.Config
}

// ErrFeatureNotSupported reports a request routed to a provider that has no
// API for the requested feature.
type ErrFeatureNotSupported struct {
	Provider string
	Feature  string
}

func (e *ErrFeatureNotSupported) Error() string {
	return fmt.Sprintf("%s has no %s endpoint", e.Provider, e.Feature)
}

// ErrMissingAPIKey reports a model routing to a provider whose key was left
// empty in the client configuration.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("model %q needs an API key for %s", e.Model, e.Provider)
	}
	return fmt.Sprintf("no API key for %s", e.Provider)
}

// ErrNoModel reports a request that named no model on a client with no
// default for the operation.
type ErrNoModel struct {
	Operation string
}

func (e *ErrNoModel) Error() string {
	switch e.Operation {
	case "chat", "chat_stream":
		return fmt.Sprintf("%s needs a model: set Defaults.Chat or pass troupe.WithModel", e.Operation)
	case "embedding":
		return "embedding needs a model: set Defaults.Embedding or pass troupe.WithEmbeddingModel"
	}
	return fmt.Sprintf("%s needs a model and no default is configured", e.Operation)
}

// ErrUnknownModel is returned when a model identifier cannot be resolved to
// any supported provider.
type ErrUnknownModel struct {
	Model string
}

func (e *ErrUnknownModel) Error() string {
	return fmt.Sprintf("cannot resolve a provider for model %q", e.Model)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature seeds every chat request with a temperature.
// Explicit per-request options still win.
func WithDefaultTemperature(t float64) ClientOption {
	return WithDefaultChatOptions(troupe.WithTemperature(t))
}

// WithDefaultMaxTokens seeds every chat request with a completion budget.
func WithDefaultMaxTokens(n int) ClientOption {
	return WithDefaultChatOptions(troupe.WithMaxTokens(n))
}

// WithDefaultChatOptions appends options applied before each chat request's
// own, so the per-request options override these.
func WithDefaultChatOptions(opts ...troupe.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// lazy memoizes a backend constructor. Errors are sticky: keys are fixed at
// New, so an init that failed once cannot succeed later.
type lazy[C any] struct {
	once   sync.Once
	client C
	err    error
}

func (l *lazy[C]) get(dial func() (C, error)) (C, error) {
	l.once.Do(func() { l.client, l.err = dial() })
	return l.client, l.err
}

// Client is a unified interface to all configured providers. It implements
// troupe.ChatProvider and troupe.EmbeddingProvider, so it plugs directly
// into agents, pools, and routers; requests route to the backend that
// serves the requested model.
//
// Backends dial lazily, at most once each, when a model first routes to them.
type Client struct {
	apiKeys         APIKeys
	defaults        Defaults
	retryCfg        *retry.Config
	defaultChatOpts []troupe.Option

	anthropicClient lazy[*anthropic.Client]
	openaiClient    lazy[*openai.Client]
	googleClient    lazy[*google.Client]
}

// New creates a unified client. Optional ClientOption arguments install
// default request behaviors like temperature.
func New(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		apiKeys:  cfg.APIKeys,
		defaults: cfg.Defaults,
	}
	if cfg.Retry != nil {
		rc := *cfg.Retry
		c.retryCfg = &rc
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) anthropicBackend() (*anthropic.Client, error) {
	return c.anthropicClient.get(func() (*anthropic.Client, error) {
		if c.apiKeys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: "anthropic"}
		}
		return anthropic.New(c.apiKeys.Anthropic), nil
	})
}

func (c *Client) openaiBackend() (*openai.Client, error) {
	return c.openaiClient.get(func() (*openai.Client, error) {
		if c.apiKeys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: "openai"}
		}
		return openai.New(c.apiKeys.OpenAI), nil
	})
}

// googleBackend initializes under the first caller's context.
func (c *Client) googleBackend(ctx context.Context) (*google.Client, error) {
	return c.googleClient.get(func() (*google.Client, error) {
		if c.apiKeys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: "google"}
		}
		client, err := google.New(ctx, c.apiKeys.Google)
		if err != nil {
			return nil, fmt.Errorf("initializing google backend: %w", err)
		}
		return client, nil
	})
}

// chatBackend returns the chat provider serving the given model, wrapped
// with the retry policy when one is configured.
func (c *Client) chatBackend(ctx context.Context, model string) (troupe.ChatProvider, error) {
	var p troupe.ChatProvider
	var err error

	switch models.ProviderOf(model) {
	case troupe.ProviderAnthropic:
		p, err = c.anthropicBackend()
	case troupe.ProviderOpenAI:
		p, err = c.openaiBackend()
	case troupe.ProviderGoogle:
		p, err = c.googleBackend(ctx)
	default:
		return nil, &ErrUnknownModel{Model: model}
	}
	if err != nil {
		return nil, err
	}

	if c.retryCfg != nil {
		p = retry.Chat(p, *c.retryCfg)
	}
	return p, nil
}

// embeddingBackend returns the embedding provider serving the given model,
// wrapped with the retry policy when one is configured.
func (c *Client) embeddingBackend(ctx context.Context, model string) (troupe.EmbeddingProvider, error) {
	provider := models.ProviderOf(model)
	if provider == "" {
		return nil, &ErrUnknownModel{Model: model}
	}
	if !supports(provider, FeatureEmbedding) {
		return nil, &ErrFeatureNotSupported{Provider: provider.String(), Feature: "embedding"}
	}

	var p troupe.EmbeddingProvider
	var err error

	switch provider {
	case troupe.ProviderOpenAI:
		p, err = c.openaiBackend()
	case troupe.ProviderGoogle:
		p, err = c.googleBackend(ctx)
	default:
		return nil, &ErrFeatureNotSupported{Provider: provider.String(), Feature: "embedding"}
	}
	if err != nil {
		return nil, err
	}

	if c.retryCfg != nil {
		p = retry.Embedder(p, *c.retryCfg)
	}
	return p, nil
}

// resolveChat merges the client's default chat options with the request's
// own and settles on a model: the request wins, then Defaults.Chat. When the
// default fills in, a WithModel option is prepended so the backend sees it.
func (c *Client) resolveChat(op string, opts []troupe.Option) (string, []troupe.Option, error) {
	merged := append(append([]troupe.Option{}, c.defaultChatOpts...), opts...)

	model := troupe.ApplyOptions(merged...).Model
	if model == "" {
		if model = c.defaults.Chat.String(); model == "" {
			return "", nil, &ErrNoModel{Operation: op}
		}
		merged = append([]troupe.Option{troupe.WithModel(model)}, merged...)
	}
	return model, merged, nil
}

// Chat sends a conversation to whichever backend serves the requested model
// and returns the complete response. Name a model with troupe.WithModel or
// rely on Defaults.Chat.
func (c *Client) Chat(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (*troupe.Response, error) {
	model, merged, err := c.resolveChat("chat", opts)
	if err != nil {
		return nil, err
	}

	backend, err := c.chatBackend(ctx, model)
	if err != nil {
		return nil, err
	}
	return backend.Chat(ctx, messages, merged...)
}

// ChatStream is Chat's streaming form: it returns a channel of events from
// whichever backend serves the requested model. When a retry policy is
// configured it covers establishing the stream, not individual chunks.
func (c *Client) ChatStream(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (<-chan troupe.StreamEvent, error) {
	model, merged, err := c.resolveChat("chat_stream", opts)
	if err != nil {
		return nil, err
	}

	backend, err := c.chatBackend(ctx, model)
	if err != nil {
		return nil, err
	}
	return backend.ChatStream(ctx, messages, merged...)
}

// Embed generates embeddings for the provided texts. Name a model with
// troupe.WithEmbeddingModel or rely on Defaults.Embedding; models routing
// to a provider without an embedding API fail with ErrFeatureNotSupported.
func (c *Client) Embed(ctx context.Context, texts []string, opts ...troupe.EmbeddingOption) (*troupe.EmbeddingResponse, error) {
	model := troupe.ApplyEmbeddingOptions(opts...).Model
	if model == "" {
		if model = c.defaults.Embedding.String(); model == "" {
			return nil, &ErrNoModel{Operation: "embedding"}
		}
		opts = append([]troupe.EmbeddingOption{troupe.WithEmbeddingModel(model)}, opts...)
	}

	backend, err := c.embeddingBackend(ctx, model)
	if err != nil {
		return nil, err
	}
	return backend.Embed(ctx, texts, opts...)
}

// SupportsFeature reports whether any provider with a configured key can
// serve the feature.
func (c *Client) SupportsFeature(f Feature) bool {
	for _, p := range capabilities[f] {
		if c.keyFor(p) != "" {
			return true
		}
	}
	return false
}

func (c *Client) keyFor(p troupe.Provider) string {
	switch p {
	case troupe.ProviderAnthropic:
		return c.apiKeys.Anthropic
	case troupe.ProviderOpenAI:
		return c.apiKeys.OpenAI
	case troupe.ProviderGoogle:
		return c.apiKeys.Google
	}
	return ""
}

var (
	_ troupe.ChatProvider      = (*Client)(nil)
	_ troupe.EmbeddingProvider = (*Client)(nil)
)
