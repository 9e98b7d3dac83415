package healthcheck

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	r.Get("/", Root)
	r.Get("/health", Health)

	grp := r.Group("/health")
	grp.Get("/api", ApiHealthCheck)
	grp.Get("/openai", OpenAIHealthCheck)
}

// IsHealthPath reports whether path belongs to the health endpoints: /health
// itself or anything under /health/. Other paths starting with "health" do
// not count.
func IsHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}
