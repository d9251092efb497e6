package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"mission-planner/internal/planner/editor"
	"mission-planner/internal/planner/mission"
	"mission-planner/internal/planner/models"
	"mission-planner/internal/planner/render"
	"mission-planner/internal/planner/repository"
	"mission-planner/internal/planner/service"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ============================================================
// Generate Data
// ============================================================

type generateRequest struct {
	Name string `json:"name"`
}

// Generate завершает рисование, сохраняет миссию в архив и пишет GeoJSON экспорт.
func (h *PlannerHandler) Generate(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}

	var req generateRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	var entries []mission.Entry
	view, err := s.Update(func(e *editor.Editor) error {
		var err error
		entries, err = e.Generate()
		return err
	})
	if err != nil {
		log.Printf("[PLANNER] Generate %s: %v", s.ID, err)
		return failure(c, err, view)
	}

	stored, err := h.archive(context.Background(), s.ID, req.Name, entries)
	if err != nil {
		log.Printf("[PLANNER] Archive error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store mission"})
	}
	log.Printf("[PLANNER] Mission %s generated: %d waypoints, %d polygons", stored.ID, stored.Waypoints, stored.Polygons)

	n := editor.Generated()
	return c.JSON(actionResponse{
		Result:       stored,
		Snapshot:     view.Snapshot,
		Frame:        view.Frame,
		Notification: &n,
	})
}

func (h *PlannerHandler) archive(ctx context.Context, sessionID, name string, entries []mission.Entry) (*models.StoredMission, error) {
	payload, err := service.EncodeMission(entries)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if name == "" {
		name = fmt.Sprintf("mission-%s", id[:8])
	}
	waypoints, polygons := mission.Counts(entries)

	stored := &models.StoredMission{
		ID:        id,
		SessionID: sessionID,
		Name:      name,
		Waypoints: waypoints,
		Polygons:  polygons,
		Distance:  mission.TotalDistance(entries),
		Entries:   entries,
	}
	if err := h.repo.Save(ctx, stored, payload); err != nil {
		return nil, err
	}

	data, err := render.GeoJSON(entries).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	path, err := h.storage.SaveGeoJSON(sessionID, id, data)
	if err != nil {
		// архив уже записан, экспорт можно получить через /missions/:id/geojson
		log.Printf("[PLANNER] Export error: %v", err)
	} else {
		log.Printf("[PLANNER] Export written to %s", path)
	}

	return stored, nil
}

// ============================================================
// Mission archive
// ============================================================

// ListMissions - последние сохранённые миссии (?session=...&limit=...).
func (h *PlannerHandler) ListMissions(c fiber.Ctx) error {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = v
	}

	missions, err := h.repo.List(context.Background(), c.Query("session"), limit)
	if err != nil {
		log.Printf("[PLANNER] List missions error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list missions"})
	}
	return c.JSON(missions)
}

func (h *PlannerHandler) GetMission(c fiber.Ctx) error {
	stored, err := h.loadMission(c.Params("id"))
	if err != nil {
		return missionError(c, err)
	}
	return c.JSON(stored)
}

func (h *PlannerHandler) MissionGeoJSON(c fiber.Ctx) error {
	stored, err := h.loadMission(c.Params("id"))
	if err != nil {
		return missionError(c, err)
	}
	return sendGeoJSON(c, stored.Entries)
}

func (h *PlannerHandler) loadMission(id string) (*models.StoredMission, error) {
	stored, payload, err := h.repo.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	entries, err := service.DecodeMission(payload)
	if err != nil {
		return nil, err
	}
	stored.Entries = entries
	return stored, nil
}

func missionError(c fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "mission not found"})
	}
	log.Printf("[PLANNER] Load mission error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load mission"})
}

// ============================================================
// Health
// ============================================================

func (h *PlannerHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready проверяет доступность базы.
func (h *PlannerHandler) Ready(c fiber.Ctx) error {
	if err := h.repo.Ping(context.Background()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ready", "sessions": h.sessions.Len()})
}
