package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"mission-planner/internal/common/config"
	"mission-planner/internal/common/logging"
	"mission-planner/internal/common/middleware"
	"mission-planner/internal/planner/editor"
	"mission-planner/internal/planner/handlers"
	"mission-planner/internal/planner/repository"
	"mission-planner/internal/planner/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Mission Planner Service
// ============================================================

func main() {
	defaults := config.Defaults()
	defaults.Port = "3003"
	cfg := config.LoadWith(defaults)
	logging.Setup("planner", cfg.LogLevel, cfg.LogFile)

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	sessions := service.NewSessionManager(cfg.MaxSessions, cfg.SessionLifetime(), editor.Config{
		CommitKey: cfg.CommitKey,
	})
	fileStorage := service.NewFileStorage(cfg.ExportDir)
	plannerHandler := handlers.NewPlannerHandler(sessions, repo, fileStorage)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Mission Planner",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("planner"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.Routes(app, plannerHandler)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Mission Planner on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Sessions: max %d, ttl %s; exports in %s", cfg.MaxSessions, cfg.SessionLifetime(), cfg.ExportDir)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
