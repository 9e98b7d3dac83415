package healthcheck

import (
	"net/http"
	"time"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror"

	"github.com/gofiber/fiber/v3"
)

func Root(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "ai-knowledge-hub api"})
}

func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func ApiHealthCheck(c fiber.Ctx) error {
	return c.SendString("ok")
}

// OpenAIHealthCheck probes provider reachability. Any HTTP response counts;
// an unauthenticated 401 still proves the endpoint is reachable.
func OpenAIHealthCheck(c fiber.Ctx) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get("https://api.openai.com/v1/models")
	if err != nil {
		return apperror.InternalError(config.ModuleHealth, c, err)
	}
	resp.Body.Close()
	return c.SendString("ok")
}
