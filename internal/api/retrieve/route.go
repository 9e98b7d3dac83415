package retrieve

import (
	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router, h *Handler) {
	r.Post("/retrieve", h.HandleRetrieve, middleware.RequireAPIKey(config.ModuleRetrieve))
}
