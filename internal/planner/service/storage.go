package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// Export Storage
// ============================================================

type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

func (s *FileStorage) GeoJSONPath(sessionID, missionID string) string {
	return filepath.Join(s.SessionDir(sessionID), missionID+".geojson")
}

func (s *FileStorage) EnsureDir(sessionID string) error {
	path := s.SessionDir(sessionID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir session dir: %w", err)
	}
	return nil
}

// SaveGeoJSON пишет экспорт миссии и возвращает путь к файлу.
func (s *FileStorage) SaveGeoJSON(sessionID, missionID string, data []byte) (string, error) {
	if err := s.EnsureDir(sessionID); err != nil {
		return "", err
	}
	target := s.GeoJSONPath(sessionID, missionID)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write geojson: %w", err)
	}
	return target, nil
}
