package google

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/troupe-dev/troupe"
)

// Client adapts the Google GenAI SDK to troupe.ChatProvider and
// troupe.EmbeddingProvider.
type Client struct {
	client *genai.Client
	model  ChatModel
}

// New builds a client for the Gemini API with the given key. Unlike the
// other providers, the SDK constructor can fail, so New returns an error.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption adjusts a Client during New.
type ClientOption func(*Client)

// WithModel sets the model used when a call names none.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// buildRequest resolves the model and assembles the generation config shared
// by Chat and ChatStream.
func (c *Client) buildRequest(options *troupe.Options) (ChatModel, *genai.GenerateContentConfig) {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return model, config
}

// candidateParts returns the parts of the response's first candidate.
// Gemini returns exactly one candidate unless more are requested.
func candidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

// joinText concatenates the text parts of a candidate. Function call parts
// carry no text and contribute nothing.
func joinText(parts []*genai.Part) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Chat runs one blocking generateContent call.
func (c *Client) Chat(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (*troupe.Response, error) {
	options := troupe.ApplyOptions(opts...)
	model, config := c.buildRequest(options)

	resp, err := c.client.Models.GenerateContent(ctx, model.String(), convertMessages(messages), config)
	if err != nil {
		return nil, wrapError(err)
	}
	// A safety block comes back as a response with no candidates, not an error.
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, wrapError(&BlockedError{Reason: string(fb.BlockReason)})
	}

	parts := candidateParts(resp)
	out := &troupe.Response{
		Content:   joinText(parts),
		ToolCalls: extractToolCalls(parts),
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if md := resp.UsageMetadata; md != nil {
		out.Usage = troupe.Usage{
			InputTokens:  int(md.PromptTokenCount),
			OutputTokens: int(md.CandidatesTokenCount),
		}
	}
	return out, nil
}

// ChatStream opens a streaming generateContent call. Text deltas arrive as
// they are generated; the channel closes after a final event carrying the
// accumulated response, or the error that cut the stream short.
func (c *Client) ChatStream(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (<-chan troupe.StreamEvent, error) {
	options := troupe.ApplyOptions(opts...)
	model, config := c.buildRequest(options)
	contents := convertMessages(messages)

	ch := make(chan troupe.StreamEvent)

	go func() {
		defer close(ch)

		final := &troupe.Response{}
		var parts []*genai.Part
		sawChunk := false

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model.String(), contents, config) {
			sawChunk = true
			if err != nil {
				ch <- troupe.StreamEvent{Err: wrapError(err)}
				return
			}

			// A safety block ends the stream without a Go-level error.
			if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
				ch <- troupe.StreamEvent{
					Err: wrapError(&BlockedError{Reason: string(fb.BlockReason)}),
				}
				return
			}

			for _, part := range candidateParts(resp) {
				parts = append(parts, part)
				if part.Text != "" {
					ch <- troupe.StreamEvent{Delta: part.Text}
				}
			}
			if len(resp.Candidates) > 0 {
				final.FinishReason = string(resp.Candidates[0].FinishReason)
			}
			if md := resp.UsageMetadata; md != nil {
				final.Usage = troupe.Usage{
					InputTokens:  int(md.PromptTokenCount),
					OutputTokens: int(md.CandidatesTokenCount),
				}
			}
		}

		if !sawChunk {
			ch <- troupe.StreamEvent{Err: wrapError(errEmptyStream)}
			return
		}

		final.Content = joinText(parts)
		final.ToolCalls = extractToolCalls(parts)
		ch <- troupe.StreamEvent{Done: true, Response: final}
	}()

	return ch, nil
}

var (
	_ troupe.ChatProvider      = (*Client)(nil)
	_ troupe.EmbeddingProvider = (*Client)(nil)
)
