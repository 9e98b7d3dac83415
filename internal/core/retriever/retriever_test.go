package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eumalin/ai-knowledge-hub/internal/core/chunker"
	"github.com/eumalin/ai-knowledge-hub/internal/core/document"
	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 2, 3}, []float32{-1, -2, -3}, -1},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	_, err := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidVector)

	_, err = Cosine([]float32{1, 2, 3}, []float32{0, 0, 0})
	require.ErrorIs(t, err, ErrInvalidVector)
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func newTestRetriever() *Retriever {
	return New(chunker.NewSplitter(500, 50, 0.5))
}

func TestRetrieve_RanksByScore(t *testing.T) {
	stub := &llm.StubClient{Vectors: map[string][]float32{
		"what is alpha": {1, 0},
		"alpha content": {1, 0},
		"beta content":  {0, 1},
	}}
	docs := []document.Document{
		{ID: "1", Title: "Beta", Content: "beta content"},
		{ID: "2", Title: "Alpha", Content: "alpha content"},
	}

	hits, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "what is alpha", 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Alpha", hits[0].Title)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, "Beta", hits[1].Title)
	assert.InDelta(t, 0.0, hits[1].Score, 1e-9)
}

func TestRetrieve_StableOrderOnTies(t *testing.T) {
	// One shared vector gives every chunk the same score; flatten order wins.
	stub := &llm.StubClient{Vector: []float32{0.1, 0.2, 0.3}}
	docs := []document.Document{
		{ID: "1", Title: "First", Content: "aaa"},
		{ID: "2", Title: "Second", Content: "bbb"},
		{ID: "3", Title: "Third", Content: "ccc"},
	}

	hits, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "q", 3)

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "First", hits[0].Title)
	assert.Equal(t, "Second", hits[1].Title)
	assert.Equal(t, "Third", hits[2].Title)
}

func TestRetrieve_FewerChunksThanTopK(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1, 2}}
	docs := []document.Document{
		{ID: "1", Title: "Only", Content: "short"},
		{ID: "2", Title: "Other", Content: "text"},
	}

	hits, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "q", 5)

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestRetrieve_NoDocumentsSkipsEmbedding(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1}}

	hits, err := newTestRetriever().Retrieve(context.Background(), stub, nil, "q", 3)

	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 0, stub.EmbedCalls)
}

func TestRetrieve_EmptyContentSkipsEmbedding(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1}}
	docs := []document.Document{{ID: "1", Title: "Blank", Content: "   "}}

	hits, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "q", 3)

	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 0, stub.EmbedCalls)
}

func TestRetrieve_TwoEmbeddingCalls(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1, 0}}
	docs := []document.Document{
		{ID: "1", Title: "A", Content: "one"},
		{ID: "2", Title: "B", Content: "two"},
		{ID: "3", Title: "C", Content: "three"},
	}

	_, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "q", 3)

	require.NoError(t, err)
	require.Equal(t, 2, stub.EmbedCalls)
	assert.Equal(t, []string{"q"}, stub.EmbedInputs[0])
	assert.Equal(t, []string{"one", "two", "three"}, stub.EmbedInputs[1])
}

func TestRetrieve_EmbedError(t *testing.T) {
	wantErr := errors.New("boom")
	stub := &llm.StubClient{EmbedErr: wantErr}
	docs := []document.Document{{ID: "1", Title: "A", Content: "one"}}

	_, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "q", 3)

	require.ErrorIs(t, err, wantErr)
}

func TestRetrieve_ZeroVectorFails(t *testing.T) {
	stub := &llm.StubClient{Vectors: map[string][]float32{
		"q":   {1, 0},
		"one": {0, 0},
	}}
	docs := []document.Document{{ID: "1", Title: "A", Content: "one"}}

	_, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "q", 3)

	require.ErrorIs(t, err, ErrInvalidVector)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1, 0}}
	docs := []document.Document{
		{ID: "1", Title: "A", Content: "one"},
		{ID: "2", Title: "B", Content: "two"},
		{ID: "3", Title: "C", Content: "three"},
		{ID: "4", Title: "D", Content: "four"},
	}

	hits, err := newTestRetriever().Retrieve(context.Background(), stub, docs, "q", 0)

	require.NoError(t, err)
	assert.Len(t, hits, DefaultTopK)
}
