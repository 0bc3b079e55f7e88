package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troupe-dev/troupe"
)

// fakeEmbedder returns fixture vectors keyed by input text, recording the
// batches it received.
type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
	batches [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string, opts ...troupe.EmbeddingOption) (*troupe.EmbeddingResponse, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no fixture vector for %q", text)
		}
		out[i] = v
	}
	return &troupe.EmbeddingResponse{Embeddings: out}, nil
}

func newFixtureEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float64{
		"Expert in mathematics and calculation.": {1, 0},
		"Creative writer and poet.":              {0, 1},
		"What is the square root of 144?":        {0.9, 0.1},
		"Write a poem about the sea.":            {0.1, 0.9},
		"WriterAgent":                            {0, 1},
	}}
}

func mathQuery() *troupe.State {
	st := troupe.NewState()
	st.Append(troupe.NewUserMessage("What is the square root of 144?"))
	return st
}

func TestSemanticWarmUpAtConstruction(t *testing.T) {
	embedder := newFixtureEmbedder()

	_, err := NewSemantic(context.Background(), "dispatcher", embedder, roster)

	require.NoError(t, err)
	// One batched call covering every candidate description.
	require.Len(t, embedder.batches, 1)
	assert.ElementsMatch(t, []string{
		"Expert in mathematics and calculation.",
		"Creative writer and poet.",
	}, embedder.batches[0])
}

func TestSemanticPicksClosest(t *testing.T) {
	embedder := newFixtureEmbedder()
	r, err := NewSemantic(context.Background(), "dispatcher", embedder, roster)
	require.NoError(t, err)

	got, err := r.Decide(context.Background(), mathQuery(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "MathAgent", got)

	st := troupe.NewState()
	st.Append(troupe.NewUserMessage("Write a poem about the sea."))
	got, err = r.Decide(context.Background(), st, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "WriterAgent", got)

	// Warm-up plus one query embedding per decision, no other calls.
	assert.Len(t, embedder.batches, 3)
}

func TestSemanticMinScore(t *testing.T) {
	embedder := newFixtureEmbedder()
	r, err := NewSemantic(context.Background(), "dispatcher", embedder, roster,
		WithMinScore(0.99))
	require.NoError(t, err)

	// The best match scores well below the floor, so the router stops.
	got, err := r.Decide(context.Background(), mathQuery(), 0, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSemanticAdoptsRegistry(t *testing.T) {
	embedder := newFixtureEmbedder()
	r, err := NewSemantic(context.Background(), "dispatcher", embedder, nil)
	require.NoError(t, err)
	assert.Empty(t, embedder.batches, "nothing to warm up yet")

	r.SetAgents(roster)

	got, err := r.Decide(context.Background(), mathQuery(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "MathAgent", got)
	// Deferred warm-up on first decision, then the query embedding.
	require.Len(t, embedder.batches, 2)
	assert.Len(t, embedder.batches[0], 2)
	assert.Equal(t, []string{"What is the square root of 144?"}, embedder.batches[1])
}

func TestSemanticExplicitCandidatesWin(t *testing.T) {
	embedder := newFixtureEmbedder()
	restricted := []troupe.AgentInfo{{Name: "WriterAgent", Description: "Creative writer and poet."}}
	r, err := NewSemantic(context.Background(), "dispatcher", embedder, restricted)
	require.NoError(t, err)

	r.SetAgents(roster)

	// MathAgent was injected but the explicit set does not contain it.
	got, err := r.Decide(context.Background(), mathQuery(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "WriterAgent", got)
}

func TestSemanticNoCandidatesStops(t *testing.T) {
	embedder := newFixtureEmbedder()
	r, err := NewSemantic(context.Background(), "dispatcher", embedder, nil)
	require.NoError(t, err)

	got, err := r.Decide(context.Background(), mathQuery(), 0, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, embedder.batches, "no candidates means no embedding calls")
}

func TestSemanticEmptyInstructionStops(t *testing.T) {
	embedder := newFixtureEmbedder()
	r, err := NewSemantic(context.Background(), "dispatcher", embedder, roster)
	require.NoError(t, err)

	got, err := r.Decide(context.Background(), troupe.NewState(), 0, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, embedder.batches, 1, "warm-up only, no query embedding")
}

func TestSemanticNamelessDescriptionFallsBack(t *testing.T) {
	embedder := newFixtureEmbedder()
	bare := []troupe.AgentInfo{{Name: "WriterAgent"}}

	_, err := NewSemantic(context.Background(), "dispatcher", embedder, bare)

	require.NoError(t, err)
	assert.Equal(t, []string{"WriterAgent"}, embedder.batches[0])
}

func TestSemanticWrapsEmbedError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("quota exhausted")}

	_, err := NewSemantic(context.Background(), "dispatcher", embedder, roster)

	var modelErr *troupe.ModelError
	require.ErrorAs(t, err, &modelErr)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float64{1, 0}, []float64{1}), "mismatched dimensions")
	assert.Zero(t, cosineSimilarity(nil, nil), "empty input")
	assert.Zero(t, cosineSimilarity([]float64{0, 0}, []float64{1, 0}), "zero norm")
}
