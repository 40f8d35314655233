package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Pinger is a dependency the service needs before it can serve.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Register mounts /health/live, /health/ready and /health/startup.
func Register(router fiber.Router, deps ...Pinger) {
	router.Get("/health/live", LivenessProbe)
	router.Get("/health/ready", ReadinessProbe(deps...))
	router.Get("/health/startup", StartupProbe)
}

// LivenessProbe reports that the process is running.
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe pings every dependency and answers 503 on the first failure.
func ReadinessProbe(deps ...Pinger) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		for _, dep := range deps {
			if err := dep.PingContext(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
