package middleware

import (
	"strings"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

const (
	APIKeyHeader = "X-API-Key"
	apiKeyLocal  = "api_key"
)

// RequireAPIKey validates the caller's provider API key header and stashes
// it in the request locals for handlers.
func RequireAPIKey(module config.Module) fiber.Handler {
	return func(c fiber.Ctx) error {
		key := c.Get(APIKeyHeader)
		if key == "" {
			return apperror.BadRequest(module, c, status.MissingAPIKey, "X-API-Key header is required")
		}
		if !strings.HasPrefix(key, "sk-") {
			return apperror.BadRequest(module, c, status.InvalidAPIKeyFormat, "Invalid API key format. Must start with 'sk-'")
		}
		c.Locals(apiKeyLocal, key)
		return c.Next()
	}
}

// APIKey returns the key stored by RequireAPIKey.
func APIKey(c fiber.Ctx) string {
	key, _ := c.Locals(apiKeyLocal).(string)
	return key
}
