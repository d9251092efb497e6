package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS открывает API планировщика для клиента карты с перечисленных origins.
// "*" в списке разрешает любой origin без credentials.
func CORS(origins []string) fiber.Handler {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodDelete, fiber.MethodOptions},
		AllowHeaders: []string{fiber.HeaderContentType, fiber.HeaderAccept},
		MaxAge:       600,
	})
}
