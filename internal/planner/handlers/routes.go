package handlers

import "github.com/gofiber/fiber/v3"

// Routes регистрирует маршруты планировщика.
func Routes(app fiber.Router, h *PlannerHandler) {
	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)

	// ============================================================
	// Editing Sessions
	// ============================================================

	app.Post("/sessions", h.CreateSession)
	app.Get("/sessions/:id", h.GetSession)
	app.Delete("/sessions/:id", h.DeleteSession)

	app.Post("/sessions/:id/draw", h.ToggleDraw)
	app.Post("/sessions/:id/click", h.Click)
	app.Post("/sessions/:id/key", h.Key)
	app.Post("/sessions/:id/polygon", h.BeginPolygon)
	app.Post("/sessions/:id/polygon/commit", h.CommitPolygon)
	app.Post("/sessions/:id/polygon/cancel", h.CancelPolygon)
	app.Delete("/sessions/:id/points", h.ClearPoints)
	app.Post("/sessions/:id/generate", h.Generate)

	app.Get("/sessions/:id/render.svg", h.RenderSVG)
	app.Get("/sessions/:id/geojson", h.SessionGeoJSON)

	// ============================================================
	// Mission Archive
	// ============================================================

	app.Get("/missions", h.ListMissions)
	app.Get("/missions/:id", h.GetMission)
	app.Get("/missions/:id/geojson", h.MissionGeoJSON)
}
