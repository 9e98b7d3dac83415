package llm

import (
	"context"
)

// StubClient is an in-memory Client for tests. Embed returns Vectors[text]
// when set, else Vector; Complete returns Answer. Calls and prompts are
// recorded so tests can assert on them.
type StubClient struct {
	Vector  []float32
	Vectors map[string][]float32
	Answer  string

	EmbedErr    error
	CompleteErr error

	EmbedCalls    int
	EmbedInputs   [][]string
	CompleteCalls int
	LastSystem    string
	LastUser      string
}

func (s *StubClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.EmbedCalls++
	s.EmbedInputs = append(s.EmbedInputs, texts)
	if s.EmbedErr != nil {
		return nil, s.EmbedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.Vectors[t]; ok {
			out[i] = v
			continue
		}
		out[i] = s.Vector
	}
	return out, nil
}

func (s *StubClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.CompleteCalls++
	s.LastSystem = systemPrompt
	s.LastUser = userPrompt
	if s.CompleteErr != nil {
		return "", s.CompleteErr
	}
	return s.Answer, nil
}
