package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/troupe-dev/troupe"
)

// Embed converts texts into vectors with Gemini's embedContent endpoint.
// Vectors come back one per input, in input order.
func (c *Client) Embed(ctx context.Context, texts []string, opts ...troupe.EmbeddingOption) (*troupe.EmbeddingResponse, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: embed called with no texts", troupe.ErrEmptyInput)
	}

	options := troupe.ApplyEmbeddingOptions(opts...)

	model := DefaultEmbeddingModel
	if options.Model != "" {
		model = EmbeddingModel(options.Model)
	}

	config := &genai.EmbedContentConfig{}
	if options.Dimensions > 0 {
		dims := int32(options.Dimensions)
		config.OutputDimensionality = &dims
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		}
	}

	resp, err := c.client.Models.EmbedContent(ctx, model.String(), contents, config)
	if err != nil {
		return nil, wrapError(err)
	}

	// genai hands back float32 values; widen to the float64 the rest of the
	// module works in.
	embeddings := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		embeddings[i] = make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			embeddings[i][j] = float64(v)
		}
	}

	return &troupe.EmbeddingResponse{
		Embeddings: embeddings,
		// Gemini's embedding API reports no token usage.
	}, nil
}
