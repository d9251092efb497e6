package handlers

import (
	"fmt"
	"html"
	"os"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs
// ============================================================

// SwaggerSpec отдаёт OpenAPI YAML API планировщика.
func SwaggerSpec(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "openapi document not found"})
		}
		c.Type("yaml")
		return c.Send(data)
	}
}

const swaggerPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>%[1]s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%[2]s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      tryItOutEnabled: true,
      docExpansion: 'list',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`

// SwaggerUI отдаёт страницу Swagger UI для документа по specURL.
// Запросы "Try it out" идут через шлюз (servers в документе).
func SwaggerUI(title, specURL string) fiber.Handler {
	page := fmt.Sprintf(swaggerPage, html.EscapeString(title), html.EscapeString(specURL))
	return func(c fiber.Ctx) error {
		c.Type("html")
		return c.SendString(page)
	}
}
