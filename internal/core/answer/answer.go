package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/core/document"
	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
	"github.com/eumalin/ai-knowledge-hub/internal/core/retriever"
	"github.com/eumalin/ai-knowledge-hub/pkg/logger"
)

const systemPrompt = "You are a helpful assistant that answers questions based on the provided document excerpts. " +
	"Only use information from the provided context to answer questions."

// Returned without calling the generator when retrieval produced nothing.
const noContextAnswer = "Not enough evidence in the provided documents to answer."

// Result is the generated answer plus the titles of the documents whose
// chunks were used as context, deduplicated.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Service runs the full flow: retrieve top chunks, build the prompt, call
// the generation collaborator, collect sources.
type Service struct {
	retriever *retriever.Retriever
	topK      int
}

func NewService(r *retriever.Retriever, topK int) *Service {
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	return &Service{retriever: r, topK: topK}
}

func (s *Service) Ask(ctx context.Context, client llm.Client, docs []document.Document, question string) (Result, error) {
	hits, err := s.retriever.Retrieve(ctx, client, docs, question, s.topK)
	if err != nil {
		logger.Error(err, "%v: retrieve failed", config.ModuleAsk)
		return Result{}, err
	}
	if len(hits) == 0 {
		return Result{Answer: noContextAnswer, Sources: []string{}}, nil
	}

	userPrompt := BuildUserPrompt(question, hits)
	generated, err := client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		logger.Error(err, "%v: generation failed", config.ModuleAsk)
		return Result{}, err
	}

	return Result{Answer: generated, Sources: SourceTitles(hits)}, nil
}

// BuildUserPrompt lists every retrieved chunk under its source title,
// followed by the question.
func BuildUserPrompt(question string, hits []retriever.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("From '%s':\n%s", h.Title, h.Content))
	}
	b.WriteString(fmt.Sprintf("\n\nQuestion: %s\n\n", question))
	b.WriteString("Please answer the question based only on the context provided above.")
	return b.String()
}

// SourceTitles deduplicates chunk titles, keeping first-seen order.
func SourceTitles(hits []retriever.ScoredChunk) []string {
	seen := make(map[string]struct{}, len(hits))
	titles := make([]string, 0, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.Title]; ok {
			continue
		}
		seen[h.Title] = struct{}{}
		titles = append(titles, h.Title)
	}
	return titles
}
