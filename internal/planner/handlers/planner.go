package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mission-planner/internal/planner/editor"
	"mission-planner/internal/planner/mission"
	"mission-planner/internal/planner/render"
	"mission-planner/internal/planner/repository"
	"mission-planner/internal/planner/service"

	"github.com/gofiber/fiber/v3"
	"github.com/paulmach/orb"
)

// ============================================================
// Planner Handler
// ============================================================

type PlannerHandler struct {
	sessions *service.SessionManager
	repo     *repository.Repository
	storage  *service.FileStorage
	renderer *render.Renderer
}

func NewPlannerHandler(sessions *service.SessionManager, repo *repository.Repository, storage *service.FileStorage) *PlannerHandler {
	return &PlannerHandler{
		sessions: sessions,
		repo:     repo,
		storage:  storage,
		renderer: render.NewRenderer(),
	}
}

type createSessionRequest struct {
	Drawing *bool `json:"drawing"`
}

type clickRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type polygonRequest struct {
	Index *int   `json:"index"`
	Side  string `json:"side"`
}

type keyRequest struct {
	Key string `json:"key"`
}

type actionResponse struct {
	Result       any                  `json:"result,omitempty"`
	Snapshot     editor.Snapshot      `json:"snapshot"`
	Frame        render.Frame         `json:"frame"`
	Notification *editor.Notification `json:"notification,omitempty"`
}

// ============================================================
// Sessions
// ============================================================

// CreateSession открывает новую сессию редактора. По умолчанию рисование включено.
func (h *PlannerHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}
	drawing := req.Drawing == nil || *req.Drawing

	s := h.sessions.Issue(!drawing)
	c.Locals("session", s.ID)
	log.Printf("[PLANNER] Session %s created (drawing: %v)", s.ID, drawing)

	view := s.View()
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":       s.ID,
		"snapshot": view.Snapshot,
		"frame":    view.Frame,
	})
}

// GetSession отдаёт текущее состояние сессии.
func (h *PlannerHandler) GetSession(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	view := s.View()
	return c.JSON(actionResponse{Snapshot: view.Snapshot, Frame: view.Frame})
}

func (h *PlannerHandler) DeleteSession(c fiber.Ctx) error {
	if !h.sessions.Drop(c.Params("id")) {
		return sessionNotFound(c)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Editing actions
// ============================================================

// ToggleDraw включает/выключает рисование маршрута.
func (h *PlannerHandler) ToggleDraw(c fiber.Ctx) error {
	return h.update(c, func(e *editor.Editor) (any, *editor.Notification, error) {
		return nil, nil, e.ToggleDraw()
	})
}

// Click принимает клик по карте в координатах проекции (EPSG:3857).
func (h *PlannerHandler) Click(c fiber.Ctx) error {
	var req clickRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.X == nil || req.Y == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "x and y required"})
	}

	return h.update(c, func(e *editor.Editor) (any, *editor.Notification, error) {
		return e.Click(orb.Point{*req.X, *req.Y}), nil, nil
	})
}

// BeginPolygon - пункт меню "Insert Polygon before/after" у точки index.
func (h *PlannerHandler) BeginPolygon(c fiber.Ctx) error {
	var req polygonRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Index == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "index required"})
	}
	side, err := editor.ParseSide(req.Side)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return h.update(c, func(e *editor.Editor) (any, *editor.Notification, error) {
		return nil, nil, e.BeginPolygon(*req.Index, side)
	})
}

func (h *PlannerHandler) CommitPolygon(c fiber.Ctx) error {
	return h.update(c, func(e *editor.Editor) (any, *editor.Notification, error) {
		poly, err := e.Commit()
		if err != nil {
			return nil, nil, err
		}
		n := editor.PolygonAdded()
		return poly, &n, nil
	})
}

func (h *PlannerHandler) CancelPolygon(c fiber.Ctx) error {
	return h.update(c, func(e *editor.Editor) (any, *editor.Notification, error) {
		return nil, nil, e.Cancel()
	})
}

// Key - событие клавиатуры. Клавиша коммита завершает полигон.
func (h *PlannerHandler) Key(c fiber.Ctx) error {
	var req keyRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	return h.update(c, func(e *editor.Editor) (any, *editor.Notification, error) {
		handled, err := e.Key(req.Key)
		if err != nil {
			return nil, nil, err
		}
		var n *editor.Notification
		if handled {
			added := editor.PolygonAdded()
			n = &added
		}
		return fiber.Map{"handled": handled}, n, nil
	})
}

func (h *PlannerHandler) ClearPoints(c fiber.Ctx) error {
	return h.update(c, func(e *editor.Editor) (any, *editor.Notification, error) {
		return nil, nil, e.Clear()
	})
}

// ============================================================
// Views
// ============================================================

// RenderSVG отдаёт SVG превью текущего кадра.
func (h *PlannerHandler) RenderSVG(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}

	svg, err := h.renderer.Render(s.View().Frame)
	if err != nil {
		log.Printf("[PLANNER] Render error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// SessionGeoJSON отдаёт текущую (несохранённую) миссию как GeoJSON.
func (h *PlannerHandler) SessionGeoJSON(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	return sendGeoJSON(c, s.View().Snapshot.Entries)
}

// ============================================================
// Helpers
// ============================================================

type action func(e *editor.Editor) (any, *editor.Notification, error)

func (h *PlannerHandler) update(c fiber.Ctx, fn action) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}

	var (
		result any
		note   *editor.Notification
	)
	view, err := s.Update(func(e *editor.Editor) error {
		var err error
		result, note, err = fn(e)
		return err
	})
	if err != nil {
		log.Printf("[PLANNER] Session %s: %v", s.ID, err)
		return failure(c, err, view)
	}

	return c.JSON(actionResponse{
		Result:       result,
		Snapshot:     view.Snapshot,
		Frame:        view.Frame,
		Notification: note,
	})
}

func (h *PlannerHandler) session(c fiber.Ctx) (*service.Session, bool) {
	id := c.Params("id")
	if id == "" {
		return nil, false
	}
	s, ok := h.sessions.Resolve(id)
	if ok {
		c.Locals("session", id)
	}
	return s, ok
}

// failure отдаёт ошибку вместе с сообщением для toast и неизменённым состоянием.
func failure(c fiber.Ctx, err error, view service.View) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error":        err.Error(),
		"notification": editor.Describe(err),
		"snapshot":     view.Snapshot,
		"frame":        view.Frame,
	})
}

func sessionNotFound(c fiber.Ctx) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, editor.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, mission.ErrInvalidIndex),
		errors.Is(err, editor.ErrInsufficientVertices),
		errors.Is(err, editor.ErrEmptyMission):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func sendGeoJSON(c fiber.Ctx, entries []mission.Entry) error {
	data, err := render.GeoJSON(entries).MarshalJSON()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode geojson"})
	}
	c.Set("Content-Type", "application/geo+json")
	return c.Send(data)
}
