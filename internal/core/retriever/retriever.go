package retriever

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/eumalin/ai-knowledge-hub/internal/core/chunker"
	"github.com/eumalin/ai-knowledge-hub/internal/core/document"
	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
)

const DefaultTopK = 3

// ErrInvalidVector reports a zero-magnitude embedding; cosine similarity is
// undefined for it and must not silently produce NaN.
var ErrInvalidVector = errors.New("invalid embedding: zero magnitude vector")

// ScoredChunk is a chunk ranked against the question.
type ScoredChunk struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Retriever chunks documents and ranks the chunks by embedding similarity
// to a question. It holds no mutable state and is safe for concurrent use.
type Retriever struct {
	splitter chunker.Splitter
}

func New(splitter chunker.Splitter) *Retriever {
	return &Retriever{splitter: splitter}
}

// Retrieve returns up to topK chunks sorted by descending similarity, ties
// keeping their flatten order. The question and the chunks are embedded in
// two calls total, never one call per chunk. With no chunks to rank the
// embedder is not called at all.
func (r *Retriever) Retrieve(ctx context.Context, emb llm.Embedder, docs []document.Document, question string, topK int) ([]ScoredChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var titles, texts []string
	for _, doc := range docs {
		for _, piece := range r.splitter.Split(doc.Content) {
			titles = append(titles, doc.Title)
			texts = append(texts, piece)
		}
	}
	if len(texts) == 0 {
		return []ScoredChunk{}, nil
	}

	questionVecs, err := emb.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(questionVecs) == 0 {
		return nil, errors.New("no embedding returned for question")
	}
	questionVec := questionVecs[0]

	chunkVecs, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(chunkVecs) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(chunkVecs), len(texts))
	}

	scored := make([]ScoredChunk, len(texts))
	for i := range texts {
		score, err := Cosine(questionVec, chunkVecs[i])
		if err != nil {
			return nil, err
		}
		scored[i] = ScoredChunk{Title: titles[i], Content: texts[i], Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// Cosine is the normalized dot product of two vectors; scale-invariant, so
// embedding magnitude never affects ranking.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, ErrInvalidVector
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
