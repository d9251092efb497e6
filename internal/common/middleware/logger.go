package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет строку access log на запрос: сервис, статус, задержка, путь
// и id сессии редактора, если хендлер положил его в locals.
func Logger(service string) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] " + service + " ${status} - ${latency} ${method} ${path} | session: ${locals:session} ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
