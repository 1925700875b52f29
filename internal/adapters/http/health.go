package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"uptime": time.Since(startedAt).String(),
			"source": deps.Source,
		})
	}
}

// ReadyHandler checks that the feature source answers and that the
// configured backends are reachable. Backends that are not configured do
// not fail readiness.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true

		if _, err := deps.Features.Features(ctx); err != nil {
			checks["features"] = "error: " + err.Error()
			allOK = false
		} else {
			checks["features"] = "ok"
		}

		for name, p := range map[string]Pinger{"database": deps.DB, "cache": deps.Cache} {
			if p == nil {
				checks[name] = "not configured"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				allOK = false
				continue
			}
			checks[name] = "ok"
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
