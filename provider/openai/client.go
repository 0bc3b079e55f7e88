package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/troupe-dev/troupe"
)

// Client adapts the OpenAI SDK to troupe.ChatProvider and
// troupe.EmbeddingProvider.
type Client struct {
	client *openai.Client
	model  ChatModel
}

// New builds a client around the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures a Client during New.
type ClientOption func(*Client)

// WithModel sets the chat model used when a call names none.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// buildParams assembles the completion request shared by Chat and ChatStream.
func (c *Client) buildParams(messages []troupe.Message, options *troupe.Options) openai.ChatCompletionNewParams {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	params := openai.ChatCompletionNewParams{
		Model:    model.String(),
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params
}

// responseFrom converts a completion, fresh or accumulated from a stream,
// into ours. Errors when the completion carries no choices.
func responseFrom(resp *openai.ChatCompletion) (*troupe.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, &troupe.ModelError{
			Provider: troupe.ProviderOpenAI,
			Err:      errors.New("completion carried no choices"),
		}
	}

	choice := resp.Choices[0]
	return &troupe.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: troupe.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: toolCallsOut(choice.Message.ToolCalls),
	}, nil
}

// Chat runs one blocking completion request.
func (c *Client) Chat(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (*troupe.Response, error) {
	options := troupe.ApplyOptions(opts...)

	resp, err := c.client.Chat.Completions.New(ctx, c.buildParams(messages, options))
	if err != nil {
		return nil, wrapError(err)
	}
	return responseFrom(resp)
}

// ChatStream opens a streaming completion. Content deltas arrive as they are
// generated; the channel closes after a final event carrying the accumulated
// response, with usage included since stream_options requests it.
func (c *Client) ChatStream(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (<-chan troupe.StreamEvent, error) {
	options := troupe.ApplyOptions(opts...)
	params := c.buildParams(messages, options)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	ch := make(chan troupe.StreamEvent)

	go func() {
		defer close(ch)
		var acc openai.ChatCompletionAccumulator

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				ch <- troupe.StreamEvent{Delta: delta}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- troupe.StreamEvent{Err: wrapError(err)}
			return
		}

		final, err := responseFrom(&acc.ChatCompletion)
		if err != nil {
			ch <- troupe.StreamEvent{Err: err}
			return
		}
		ch <- troupe.StreamEvent{Done: true, Response: final}
	}()

	return ch, nil
}

var (
	_ troupe.ChatProvider      = (*Client)(nil)
	_ troupe.EmbeddingProvider = (*Client)(nil)
)
