package api

import (
	"log/slog"

	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/repository"

	"github.com/gofiber/fiber/v2"
)

// GenerationLimit throttles AI generation per client IP. A limiter error
// lets the request through.
func GenerationLimit(limiter repository.RateLimiter, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.WarnContext(c.UserContext(), "rate limiter unavailable, allowing request", "error", err)
			return c.Next()
		}
		if !allowed {
			return entity.NewRateLimitedError()
		}
		return c.Next()
	}
}
