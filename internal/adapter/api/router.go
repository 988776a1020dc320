package api

import (
	"log/slog"

	"claims-triage/internal/domain/repository"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type BuildInfo struct {
	Version string
	Env     string
}

// NewApp returns a fiber app wired with the JSON codec and error renderer.
func NewApp(appName string, log *slog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: ErrorHandler(log),
	})
}

// SetupRouter registers middleware and routes. limiter may be nil, which
// leaves generation unthrottled.
func SetupRouter(app *fiber.App, handler *ClaimsHandler, limiter repository.RateLimiter, info BuildInfo, log *slog.Logger) {
	// Middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": info.Version,
			"env":     info.Env,
		})
	})

	claims := app.Group("/claims")
	claims.Post("/", handler.CreateClaim)
	claims.Get("/", handler.ListClaims)
	claims.Get("/:id", handler.GetClaim)
	claims.Get("/:id/ai", handler.GetAiHistory)

	generate := []fiber.Handler{handler.GenerateAiVersion}
	if limiter != nil {
		generate = append([]fiber.Handler{GenerationLimit(limiter, log)}, generate...)
	}
	claims.Post(`/:id/ai\:generate`, generate...)
}
