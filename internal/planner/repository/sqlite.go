package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mission-planner/internal/planner/models"
)

var ErrNotFound = errors.New("not found")

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Save сохраняет сгенерированную миссию. payload - закодированные элементы.
func (r *Repository) Save(ctx context.Context, m *models.StoredMission, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO missions (id, session_id, name, waypoints, polygons, distance, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, m.ID, m.SessionID, m.Name, m.Waypoints, m.Polygons, m.Distance, payload)
	if err != nil {
		return fmt.Errorf("insert mission: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `SELECT created_at FROM missions WHERE id = ?`, m.ID)
	return row.Scan(&m.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.StoredMission, []byte, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, session_id, name, waypoints, polygons, distance, created_at, payload
        FROM missions
        WHERE id = ?
    `, id)

	var m models.StoredMission
	var payload []byte
	if err := row.Scan(&m.ID, &m.SessionID, &m.Name, &m.Waypoints, &m.Polygons, &m.Distance, &m.CreatedAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("mission %s: %w", id, ErrNotFound)
		}
		return nil, nil, err
	}
	return &m, payload, nil
}

// List возвращает последние миссии без payload. sessionID может быть пустым.
func (r *Repository) List(ctx context.Context, sessionID string, limit int) ([]models.StoredMission, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, session_id, name, waypoints, polygons, distance, created_at
        FROM missions
        WHERE ? = '' OR session_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `, sessionID, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	missions := []models.StoredMission{}
	for rows.Next() {
		var m models.StoredMission
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Name, &m.Waypoints, &m.Polygons, &m.Distance, &m.CreatedAt); err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
