package main

import (
	"fmt"
	"log"
	"time"

	"mission-planner/internal/common/config"
	"mission-planner/internal/common/logging"
	"mission-planner/internal/common/middleware"
	"mission-planner/internal/gateway/handlers"
	"mission-planner/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()
	logging.Setup("gateway", cfg.LogLevel, cfg.LogFile)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	planner := proxy.NewUpstream(cfg.PlannerURL, time.Duration(cfg.WriteTimeout)*time.Second)

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("gateway"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(planner))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI("Mission Planner API", "/docs/openapi.yaml"))
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec("docs/planner.openapi.yaml"))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "API Gateway v1",
			"status":  "ok",
		})
	})

	// Mission Planner Service
	api.All("/planner/*", planner.Handler("/api/v1/planner"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /api/v1/planner to %s", cfg.PlannerURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
