package models

import "mission-planner/internal/planner/mission"

// ============================================================
// Stored Mission Model
// ============================================================

type StoredMission struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Name      string          `json:"name"`
	Waypoints int             `json:"waypoints"`
	Polygons  int             `json:"polygons"`
	Distance  float64         `json:"distance"`
	CreatedAt string          `json:"created_at"`
	Entries   []mission.Entry `json:"entries,omitempty"`
}
