package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Pinger - зависимость, без которой шлюз не готов принимать запросы.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe готов, когда отвечает сервис планировщика.
func ReadinessProbe(planner Pinger) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := planner.Ping(ctx); err != nil {
			log.Printf("[GATEWAY] Planner not ready: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "not ready",
				"planner": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":  "ready",
			"planner": "ok",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
