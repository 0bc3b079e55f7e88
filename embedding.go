package troupe

import "context"

// EmbeddingProvider generates vector embeddings. The semantic router scores
// agent descriptions against run input with these; any backend that can turn
// text into vectors qualifies.
type EmbeddingProvider interface {
	// Embed returns one vector per input text, in input order. Empty input
	// is an error.
	Embed(ctx context.Context, texts []string, opts ...EmbeddingOption) (*EmbeddingResponse, error)
}

// EmbeddingResponse carries the vectors for one Embed call.
type EmbeddingResponse struct {
	// Embeddings holds one vector per input text, in input order.
	Embeddings [][]float64
	Usage      Usage
}

// EmbeddingOptions collects per-request embedding settings.
type EmbeddingOptions struct {
	Model      string
	Dimensions int
}

// EmbeddingOption is a functional option for a single Embed call.
type EmbeddingOption func(*EmbeddingOptions)

// WithEmbeddingModel overrides the provider's default embedding model.
func WithEmbeddingModel(model string) EmbeddingOption {
	return func(o *EmbeddingOptions) {
		o.Model = model
	}
}

// WithEmbeddingDimensions requests reduced output dimensions. Models without
// dimension reduction ignore it.
func WithEmbeddingDimensions(dims int) EmbeddingOption {
	return func(o *EmbeddingOptions) {
		o.Dimensions = dims
	}
}

// ApplyEmbeddingOptions folds options into a settings struct for provider
// adapters.
func ApplyEmbeddingOptions(opts ...EmbeddingOption) *EmbeddingOptions {
	o := &EmbeddingOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
