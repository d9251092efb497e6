package service

import (
	"log/slog"
	"sync"
	"time"

	"mission-planner/internal/planner/editor"
	"mission-planner/internal/planner/render"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ============================================================
// Editing Session
// ============================================================

// Session - сессия редактора одного пользователя. Все изменения идут под mu,
// поэтому клики одной сессии обрабатываются строго по очереди.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	editor   *editor.Editor
	snapshot editor.Snapshot
	frame    render.Frame
}

// View - состояние сессии для ответа клиенту.
type View struct {
	Snapshot editor.Snapshot `json:"snapshot"`
	Frame    render.Frame    `json:"frame"`
}

func newSession(cfg editor.Config) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		editor:    editor.New(cfg),
	}
	s.apply(s.editor.Snapshot())

	s.editor.Subscribe(s.apply)
	s.editor.Subscribe(func(snap editor.Snapshot) {
		slog.Debug("mission changed",
			slog.String("session", s.ID),
			slog.String("mode", snap.Mode.String()),
			slog.Int("entries", len(snap.Entries)),
			slog.Int("staged", len(snap.Staging)))
	})
	return s
}

func (s *Session) apply(snap editor.Snapshot) {
	s.snapshot = snap
	s.frame = render.Build(snap)
}

// Update выполняет fn над редактором и возвращает состояние после него.
func (s *Session) Update(fn func(e *editor.Editor) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.editor)
	return View{Snapshot: s.snapshot, Frame: s.frame}, err
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{Snapshot: s.snapshot, Frame: s.frame}
}

// ============================================================
// Session Manager
// ============================================================

type SessionManager struct {
	sessions *expirable.LRU[string, *Session]
	cfg      editor.Config
}

// NewSessionManager хранит не более size сессий (вытесняются самые старые
// по использованию), каждая живёт ttl с момента создания. ttl <= 0 - без истечения.
func NewSessionManager(size int, ttl time.Duration, cfg editor.Config) *SessionManager {
	onEvict := func(id string, _ *Session) {
		slog.Info("session evicted", slog.String("session", id))
	}
	return &SessionManager{
		sessions: expirable.NewLRU[string, *Session](size, onEvict, ttl),
		cfg:      cfg,
	}
}

func (m *SessionManager) Issue(startIdle bool) *Session {
	cfg := m.cfg
	cfg.StartIdle = startIdle

	s := newSession(cfg)
	m.sessions.Add(s.ID, s)
	return s
}

func (m *SessionManager) Resolve(id string) (*Session, bool) {
	return m.sessions.Get(id)
}

func (m *SessionManager) Drop(id string) bool {
	return m.sessions.Remove(id)
}

func (m *SessionManager) Len() int {
	return m.sessions.Len()
}
