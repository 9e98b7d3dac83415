package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Batch at most this many inputs per embeddings request.
const embedBatchSize = 100

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// OpenAIClient implements Embedder and Generator against the OpenAI API.
// One client is built per request from the caller's API key; retries are
// disabled, retry policy belongs to the caller.
type OpenAIClient struct {
	client         openai.Client
	model          string
	embeddingModel string
	maxTokens      int
	temperature    float64
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	cfg := config.Cfg.OpenAI
	return &OpenAIClient{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		maxTokens:      cfg.MaxTokens,
		temperature:    cfg.Temperature,
	}
}

// OpenAIFactory is the production Factory.
func OpenAIFactory(apiKey string) Client {
	return NewOpenAIClient(apiKey)
}

// Embed calls the embeddings endpoint, sub-batching large inputs.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += embedBatchSize {
		j := i + embedBatchSize
		if j > len(texts) {
			j = len(texts)
		}
		batch := texts[i:j]
		logger.WithFields(map[string]interface{}{
			"model":       c.embeddingModel,
			"batch_start": i,
			"batch_size":  len(batch),
		}).Debug("openai: embedding batch")

		vectors, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, wrapErr(OpEmbedding, err)
		}
		all = append(all, vectors...)
	}
	return all, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	req := embeddingRequest{Model: c.embeddingModel, Input: batch}
	var out embeddingResponse
	if err := c.client.Post(ctx, "/embeddings", req, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, errors.New(out.Error.Message)
	}
	if len(out.Data) != len(batch) {
		return nil, errors.New("embedding count does not match input count")
	}

	vectors := make([][]float32, len(batch))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(batch) {
			return nil, errors.New("embedding index out of range")
		}
		vec := make([]float32, len(d.Embedding))
		for k := range d.Embedding {
			vec[k] = float32(d.Embedding[k])
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}

// Complete calls the chat completions endpoint.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	var out chatResponse
	if err := c.client.Post(ctx, "/chat/completions", req, &out); err != nil {
		return "", wrapErr(OpGeneration, err)
	}
	if len(out.Choices) == 0 {
		return "", wrapErr(OpGeneration, errors.New("no choices returned"))
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// classifyAPIError maps the SDK's structured error to a Kind using its
// status code and error type fields.
func classifyAPIError(err error) (Kind, bool) {
	var apierr *openai.Error
	if !errors.As(err, &apierr) {
		return KindUnknown, false
	}
	switch {
	case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
		return KindAuth, true
	case apierr.StatusCode == http.StatusTooManyRequests:
		if apierr.Type == "insufficient_quota" {
			return KindQuota, true
		}
		return KindRateLimit, true
	case apierr.StatusCode == http.StatusBadRequest:
		return KindBadRequest, true
	case apierr.StatusCode >= 500:
		return KindTransport, true
	}
	return KindUnknown, true
}
