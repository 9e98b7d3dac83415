package main

import (
	"fmt"
	"time"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/api/ask"
	"github.com/eumalin/ai-knowledge-hub/internal/api/extract"
	"github.com/eumalin/ai-knowledge-hub/internal/api/healthcheck"
	"github.com/eumalin/ai-knowledge-hub/internal/api/retrieve"
	"github.com/eumalin/ai-knowledge-hub/internal/core/llm"
	"github.com/eumalin/ai-knowledge-hub/internal/middleware"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror/status"
	"github.com/eumalin/ai-knowledge-hub/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
)

func main() {
	config.Init("config.yaml")
	if err := logger.SetLevel(string(config.Cfg.LogLevel)); err != nil {
		logger.Warn("invalid log_level %q, keeping default", config.Cfg.LogLevel)
	}

	app := fiber.New(fiber.Config{
		AppName:     config.Cfg.Server.AppName,
		BodyLimit:   config.Cfg.Server.BodyLimit,
		Concurrency: config.Cfg.Server.Concurrency,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.PanicRecovery())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.Cfg.Cors.AllowOrigins,
		AllowMethods: config.Cfg.Cors.AllowMethods,
		AllowHeaders: config.Cfg.Cors.AllowHeaders,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        config.Cfg.Limiter.RequestsPerWindow,
		Expiration: time.Duration(config.Cfg.Limiter.WindowSeconds) * time.Second,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return apperror.TooManyRequests(config.ModuleLimiter, c, status.RateLimited,
				"Too many requests. Please try again later.")
		},
		Next: func(c fiber.Ctx) bool {
			return healthcheck.IsHealthPath(c.Path())
		},
	}))
	app.Use(middleware.ConnectionLimit(middleware.NewConnectionLimiter(config.Cfg.Limiter.MaxConnections)))

	// routes
	healthcheck.RegisterRoutes(app)
	ask.RegisterRoutes(app, ask.NewHandler(llm.OpenAIFactory))
	retrieve.RegisterRoutes(app, retrieve.NewHandler(llm.OpenAIFactory))
	extract.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	logger.Info("%v: listening on %s", config.ModuleServer, addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal(err, "%v: server error", config.ModuleServer)
	}
}
