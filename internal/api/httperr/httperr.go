package httperr

import (
	"errors"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
	"github.com/eumalin/ai-knowledge-hub/internal/core/retriever"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

// WriteCoreError maps typed core errors to HTTP responses. The core itself
// never formats user-facing output; this is the boundary's translation.
func WriteCoreError(module config.Module, c fiber.Ctx, err error) error {
	if errors.Is(err, retriever.ErrInvalidVector) {
		return apperror.WriteError(module, c, fiber.StatusInternalServerError, status.AskInvalidVector, err.Error())
	}

	var svcErr *llm.ServiceError
	if errors.As(err, &svcErr) {
		opCode := status.AskEmbeddingFailed
		if svcErr.Op == llm.OpGeneration {
			opCode = status.AskGenerationFailed
		}
		switch svcErr.Kind {
		case llm.KindAuth:
			return apperror.WriteError(module, c, fiber.StatusUnauthorized, status.AskUpstreamAuth, "Invalid OpenAI API key")
		case llm.KindRateLimit, llm.KindQuota:
			return apperror.WriteError(module, c, fiber.StatusTooManyRequests, status.AskUpstreamRateLimit, err.Error())
		case llm.KindTimeout:
			return apperror.WriteError(module, c, fiber.StatusGatewayTimeout, status.AskUpstreamTimeout, err.Error())
		case llm.KindBadRequest:
			return apperror.WriteError(module, c, fiber.StatusBadRequest, opCode, err.Error())
		default:
			return apperror.WriteError(module, c, fiber.StatusBadGateway, opCode, err.Error())
		}
	}

	return apperror.InternalError(module, c, err)
}
