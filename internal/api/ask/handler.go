package ask

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/api/httperr"
	"github.com/eumalin/ai-knowledge-hub/internal/core/answer"
	"github.com/eumalin/ai-knowledge-hub/internal/core/chunker"
	"github.com/eumalin/ai-knowledge-hub/internal/core/document"
	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
	"github.com/eumalin/ai-knowledge-hub/internal/core/retriever"
	"github.com/eumalin/ai-knowledge-hub/internal/middleware"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

// Both external calls happen within this budget.
const requestTimeout = 30 * time.Second

type askRequest struct {
	Documents []document.Document `json:"documents"`
	Question  string              `json:"question"`
}

// Handler answers questions against caller-supplied documents.
type Handler struct {
	service *answer.Service
	clients llm.Factory
}

// NewHandler builds a Handler from the retrieval configuration; clients
// creates the per-request collaborator from the caller's API key.
func NewHandler(clients llm.Factory) *Handler {
	cfg := config.Cfg.Retrieval
	splitter := chunker.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, cfg.BoundaryFraction)
	return &Handler{
		service: answer.NewService(retriever.New(splitter), cfg.TopK),
		clients: clients,
	}
}

func (h *Handler) HandleAsk(c fiber.Ctx) error {
	trackingID := c.Get(middleware.RequestIDHeader)

	var req askRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleAsk, c, status.InvalidRequestBody, err.Error())
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return apperror.BadRequest(config.ModuleAsk, c, status.MissingParams, "question is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	docs, err := document.ResolveContent(ctx, req.Documents)
	if err != nil {
		return apperror.BadRequest(config.ModuleAsk, c, status.InvalidRequestBody, err.Error())
	}

	client := h.clients(middleware.APIKey(c))
	result, err := h.service.Ask(ctx, client, docs, req.Question)
	if err != nil {
		return httperr.WriteCoreError(config.ModuleAsk, c, err)
	}

	return apperror.Success(config.ModuleAsk, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "ask ok",
		TrackingID: trackingID,
		Data:       result,
	})
}
