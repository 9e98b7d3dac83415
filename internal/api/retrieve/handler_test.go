package retrieve

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
	"github.com/eumalin/ai-knowledge-hub/internal/core/retriever"
	"github.com/eumalin/ai-knowledge-hub/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

type retrieveEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Chunks []retriever.ScoredChunk `json:"chunks"`
	} `json:"data"`
}

func postRetrieve(t *testing.T, stub *llm.StubClient, payload any) (int, []byte) {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app, NewHandler(func(apiKey string) llm.Client { return stub }))

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/retrieve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.APIKeyHeader, "sk-test")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestHandleRetrieve_RanksChunks(t *testing.T) {
	stub := &llm.StubClient{Vectors: map[string][]float32{
		"what is alpha": {1, 0},
		"alpha content": {1, 0},
		"beta content":  {0, 1},
	}}

	code, body := postRetrieve(t, stub, fiber.Map{
		"documents": []fiber.Map{
			{"id": "1", "title": "Beta", "content": "beta content"},
			{"id": "2", "title": "Alpha", "content": "alpha content"},
		},
		"question": "what is alpha",
		"top_k":    1,
	})

	require.Equal(t, fiber.StatusOK, code)
	var env retrieveEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.Len(t, env.Data.Chunks, 1)
	assert.Equal(t, "Alpha", env.Data.Chunks[0].Title)
	assert.InDelta(t, 1.0, env.Data.Chunks[0].Score, 1e-9)
}

func TestHandleRetrieve_TopKOutOfRangeFallsBackToDefault(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1, 0}}
	docs := []fiber.Map{
		{"id": "1", "title": "A", "content": "one"},
		{"id": "2", "title": "B", "content": "two"},
		{"id": "3", "title": "C", "content": "three"},
		{"id": "4", "title": "D", "content": "four"},
	}

	code, body := postRetrieve(t, stub, fiber.Map{
		"documents": docs,
		"question":  "q",
		"top_k":     1000,
	})

	require.Equal(t, fiber.StatusOK, code)
	var env retrieveEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Len(t, env.Data.Chunks, 3)
}

func TestHandleRetrieve_EmptyQuestion(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1}}

	code, body := postRetrieve(t, stub, fiber.Map{"question": ""})

	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(body), "question is empty")
}

func TestHandleRetrieve_NoDocuments(t *testing.T) {
	stub := &llm.StubClient{Vector: []float32{1}}

	code, body := postRetrieve(t, stub, fiber.Map{"question": "q"})

	require.Equal(t, fiber.StatusOK, code)
	var env retrieveEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Empty(t, env.Data.Chunks)
	assert.Equal(t, 0, stub.EmbedCalls)
}
