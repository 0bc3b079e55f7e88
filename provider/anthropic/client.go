package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/troupe-dev/troupe"
)

// defaultMaxTokens applies when the caller sets no limit; the Messages API
// requires max_tokens on every request.
const defaultMaxTokens = 4096

// Client adapts Anthropic's Messages API to troupe.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  ChatModel
}

// New builds a client for the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption adjusts a Client at construction.
type ClientOption func(*Client)

// WithModel sets the model used when a call names none.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// buildParams assembles the message request shared by Chat and ChatStream.
func (c *Client) buildParams(messages []troupe.Message, options *troupe.Options) anthropic.MessageNewParams {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	turns, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model.String()),
		MaxTokens: maxTokens,
		Messages:  turns,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params
}

// textContent joins the text blocks of a response, skipping tool use blocks.
func textContent(blocks []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// responseFrom converts a complete SDK message, fresh or accumulated from a
// stream, into ours.
func responseFrom(msg *anthropic.Message) *troupe.Response {
	return &troupe.Response{
		Content:      textContent(msg.Content),
		FinishReason: string(msg.StopReason),
		Usage: troupe.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		ToolCalls: extractToolCalls(msg.Content),
	}
}

// Chat runs one blocking round trip against the Messages API.
func (c *Client) Chat(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (*troupe.Response, error) {
	options := troupe.ApplyOptions(opts...)

	resp, err := c.client.Messages.New(ctx, c.buildParams(messages, options))
	if err != nil {
		return nil, wrapError(err)
	}
	return responseFrom(resp), nil
}

// ChatStream opens a streaming request. Text deltas arrive as they are
// generated; the channel closes after a final event carrying either the
// accumulated response or the stream's error.
func (c *Client) ChatStream(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (<-chan troupe.StreamEvent, error) {
	options := troupe.ApplyOptions(opts...)

	stream := c.client.Messages.NewStreaming(ctx, c.buildParams(messages, options))
	ch := make(chan troupe.StreamEvent)

	go func() {
		defer close(ch)
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			if event.Type != "content_block_delta" {
				continue
			}
			if d := event.AsContentBlockDelta().Delta.AsTextDelta(); d.Type == "text_delta" && d.Text != "" {
				ch <- troupe.StreamEvent{Delta: d.Text}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- troupe.StreamEvent{Err: wrapError(err)}
			return
		}

		ch <- troupe.StreamEvent{Done: true, Response: responseFrom(&acc)}
	}()

	return ch, nil
}

var _ troupe.ChatProvider = (*Client)(nil)
