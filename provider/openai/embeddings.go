package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/troupe-dev/troupe"
)

// Embed converts texts into vectors with OpenAI's embeddings endpoint.
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

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(model.String()),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	}

	// Only the text-embedding-3 family accepts shortened output.
	if options.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(options.Dimensions))
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}

	return &troupe.EmbeddingResponse{
		Embeddings: embeddings,
		// Embeddings bill prompt tokens only.
		Usage: troupe.Usage{InputTokens: int(resp.Usage.PromptTokens)},
	}, nil
}
