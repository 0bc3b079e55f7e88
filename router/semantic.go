package router

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/log"
)

// Semantic is an embedding-based router. Candidate descriptions are
// embedded once up front; each decision embeds the current instruction and
// picks the highest cosine-similarity candidate, with no generation call.
type Semantic struct {
	name     string
	provider troupe.EmbeddingProvider
	model    string
	minScore float64

	mu         sync.Mutex
	candidates []semanticCandidate
	explicit   bool
}

type semanticCandidate struct {
	name   string
	text   string
	vector []float64
}

// SemanticOption configures a semantic router.
type SemanticOption func(*Semantic)

// WithMinScore sets the similarity floor: when the best candidate scores
// below it the router stops. The zero value accepts any non-negative
// similarity.
func WithMinScore(score float64) SemanticOption {
	return func(r *Semantic) { r.minScore = score }
}

// WithEmbeddingModel sets the model reference for embedding calls.
func WithEmbeddingModel(model string) SemanticOption {
	return func(r *Semantic) { r.model = model }
}

// NewSemantic creates a semantic router and embeds the given candidates'
// descriptions in one warm-up call. agents restricts the candidate set;
// pass nil to adopt the pool's registry at assembly time, in which case the
// warm-up happens on the first decision instead.
func NewSemantic(ctx context.Context, name string, provider troupe.EmbeddingProvider, agents []troupe.AgentInfo, opts ...SemanticOption) (*Semantic, error) {
	r := &Semantic{
		name:       name,
		provider:   provider,
		candidates: toCandidates(agents),
		explicit:   len(agents) > 0,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.warm(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Name returns the router's name, used in trace output.
func (r *Semantic) Name() string { return r.name }

// Model returns the embedding model reference, empty for the provider
// default.
func (r *Semantic) Model() string { return r.model }

// MinScore returns the similarity floor.
func (r *Semantic) MinScore() float64 { return r.minScore }

// Candidates returns the names of the explicit candidate roster given at
// construction, nil for a router that adopts the pool registry.
func (r *Semantic) Candidates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.explicit {
		return nil
	}
	names := make([]string, len(r.candidates))
	for i, c := range r.candidates {
		names[i] = c.name
	}
	return names
}

// SetAgents installs the pool's registry contents as candidates. An
// explicit candidate list given at construction wins. Newly installed
// candidates are embedded on the first decision.
func (r *Semantic) SetAgents(agents []troupe.AgentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.explicit {
		return
	}
	r.candidates = toCandidates(agents)
}

// Decide embeds the current instruction and picks the closest candidate.
func (r *Semantic) Decide(ctx context.Context, st *troupe.State, callCount int, last *troupe.LastResult) (string, error) {
	if err := r.warm(ctx); err != nil {
		return "", err
	}

	r.mu.Lock()
	candidates := make([]semanticCandidate, len(r.candidates))
	copy(candidates, r.candidates)
	r.mu.Unlock()

	if len(candidates) == 0 {
		return "", nil
	}
	query := instruction(st, last)
	if query == "" {
		return "", nil
	}

	vectors, err := r.embed(ctx, []string{query})
	if err != nil {
		return "", err
	}

	best := ""
	bestScore := math.Inf(-1)
	for _, c := range candidates {
		score := cosineSimilarity(vectors[0], c.vector)
		if score > bestScore {
			best = c.name
			bestScore = score
		}
	}
	if bestScore < r.minScore {
		log.Debugf("router: %s: best score %.3f below floor %.3f, stopping", r.name, bestScore, r.minScore)
		return "", nil
	}
	return best, nil
}

// warm embeds every candidate that does not have a vector yet, in one
// batched call.
func (r *Semantic) warm(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []int
	var texts []string
	for i, c := range r.candidates {
		if c.vector == nil {
			pending = append(pending, i)
			texts = append(texts, c.text)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	vectors, err := r.embed(ctx, texts)
	if err != nil {
		return err
	}
	for n, i := range pending {
		r.candidates[i].vector = vectors[n]
	}
	return nil
}

func (r *Semantic) embed(ctx context.Context, texts []string) ([][]float64, error) {
	var opts []troupe.EmbeddingOption
	if r.model != "" {
		opts = append(opts, troupe.WithEmbeddingModel(r.model))
	}
	resp, err := r.provider.Embed(ctx, texts, opts...)
	if err != nil {
		var re troupe.RetryableError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, &troupe.ModelError{Err: err}
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &troupe.ModelError{Err: fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(texts), len(resp.Embeddings))}
	}
	return resp.Embeddings, nil
}

// toCandidates keys each candidate by its description, falling back to the
// name when an agent has none.
func toCandidates(agents []troupe.AgentInfo) []semanticCandidate {
	out := make([]semanticCandidate, 0, len(agents))
	for _, a := range agents {
		text := a.Description
		if text == "" {
			text = a.Name
		}
		out = append(out, semanticCandidate{name: a.Name, text: text})
	}
	return out
}

// cosineSimilarity returns the cosine of the angle between two vectors, or
// zero on mismatched or empty input.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var (
	_ troupe.Router        = (*Semantic)(nil)
	_ troupe.RegistryAware = (*Semantic)(nil)
)
