package editor

import (
	"errors"

	"mission-planner/internal/planner/mission"
)

// ============================================================
// Notifications
// ============================================================

type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Notification - сообщение для слоя уведомлений (toast).
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Describe переводит ошибку редактора в сообщение для пользователя.
func Describe(err error) Notification {
	switch {
	case errors.Is(err, ErrInsufficientVertices):
		return Notification{LevelError, "There should be minimum 2 points to create a Polygon"}
	case errors.Is(err, mission.ErrInvalidIndex):
		return Notification{LevelError, "Invalid insertion index"}
	case errors.Is(err, ErrInvalidStateTransition):
		return Notification{LevelError, "This action is not available in the current mode"}
	case errors.Is(err, ErrEmptyMission):
		return Notification{LevelError, "Place at least one point before generating data"}
	}
	return Notification{LevelError, err.Error()}
}

func Generated() Notification {
	return Notification{LevelSuccess, "Mission data generated successfully"}
}

func PolygonAdded() Notification {
	return Notification{LevelSuccess, "Polygon added to the mission"}
}
