package ask

import (
	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router, h *Handler) {
	r.Post("/ask", h.HandleAsk, middleware.RequireAPIKey(config.ModuleAsk))
}
