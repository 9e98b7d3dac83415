package retrieve

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/api/httperr"
	"github.com/eumalin/ai-knowledge-hub/internal/core/chunker"
	"github.com/eumalin/ai-knowledge-hub/internal/core/document"
	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
	"github.com/eumalin/ai-knowledge-hub/internal/core/retriever"
	"github.com/eumalin/ai-knowledge-hub/internal/middleware"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

const (
	requestTimeout = 15 * time.Second
	maxTopK        = 64
)

type retrieveRequest struct {
	Documents []document.Document `json:"documents"`
	Question  string              `json:"question"`
	TopK      int                 `json:"top_k"`
}

type retrieveResponse struct {
	Chunks []retriever.ScoredChunk `json:"chunks"`
}

// Handler exposes retrieval on its own, without the generation step.
type Handler struct {
	retriever *retriever.Retriever
	topK      int
	clients   llm.Factory
}

func NewHandler(clients llm.Factory) *Handler {
	cfg := config.Cfg.Retrieval
	splitter := chunker.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, cfg.BoundaryFraction)
	return &Handler{
		retriever: retriever.New(splitter),
		topK:      cfg.TopK,
		clients:   clients,
	}
}

func (h *Handler) HandleRetrieve(c fiber.Ctx) error {
	trackingID := c.Get(middleware.RequestIDHeader)

	var req retrieveRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleRetrieve, c, status.InvalidRequestBody, err.Error())
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return apperror.BadRequest(config.ModuleRetrieve, c, status.MissingParams, "question is empty")
	}
	topK := req.TopK
	if topK <= 0 || topK > maxTopK {
		topK = h.topK
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	docs, err := document.ResolveContent(ctx, req.Documents)
	if err != nil {
		return apperror.BadRequest(config.ModuleRetrieve, c, status.InvalidRequestBody, err.Error())
	}

	client := h.clients(middleware.APIKey(c))
	chunks, err := h.retriever.Retrieve(ctx, client, docs, req.Question, topK)
	if err != nil {
		return httperr.WriteCoreError(config.ModuleRetrieve, c, err)
	}

	return apperror.Success(config.ModuleRetrieve, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "retrieve ok",
		TrackingID: trackingID,
		Data:       retrieveResponse{Chunks: chunks},
	})
}
