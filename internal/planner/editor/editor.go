package editor

import (
	"fmt"

	"mission-planner/internal/planner/geodesy"
	"mission-planner/internal/planner/mission"

	"github.com/brunoga/deep"
	"github.com/paulmach/orb"
)

// ============================================================
// Editor
// ============================================================

// MinStagedVertices - якорь + минимум две вершины.
const MinStagedVertices = 3

const DefaultCommitKey = "Enter"

type Config struct {
	CommitKey string
	StartIdle bool
}

// Listener вызывается синхронно после каждого изменения модели.
type Listener func(Snapshot)

// Editor - модель редактора миссии: список миссии, буфер полигона и режим.
// Не потокобезопасен; вызывающий сериализует доступ.
type Editor struct {
	state     State
	entries   []mission.Entry
	staging   []mission.Waypoint
	commitKey string

	listeners map[int]Listener
	nextID    int
}

func New(cfg Config) *Editor {
	key := cfg.CommitKey
	if key == "" {
		key = DefaultCommitKey
	}

	e := &Editor{
		commitKey: key,
		listeners: make(map[int]Listener),
	}
	if !cfg.StartIdle {
		e.state = State{mode: ModeLine}
	}
	return e
}

// Subscribe регистрирует слушателя изменений и возвращает функцию отписки.
func (e *Editor) Subscribe(l Listener) func() {
	id := e.nextID
	e.nextID++
	e.listeners[id] = l
	return func() { delete(e.listeners, id) }
}

func (e *Editor) changed() {
	if len(e.listeners) == 0 {
		return
	}
	snap := e.Snapshot()
	for i := 0; i < e.nextID; i++ {
		if l, ok := e.listeners[i]; ok {
			l(snap)
		}
	}
}

func (e *Editor) Mode() Mode { return e.state.Mode() }

// ============================================================
// Input
// ============================================================

type ClickTarget string

const (
	TargetNone    ClickTarget = "none"
	TargetMission ClickTarget = "mission"
	TargetStaging ClickTarget = "staging"
)

type ClickResult struct {
	Target   ClickTarget       `json:"target"`
	Waypoint *mission.Waypoint `json:"waypoint,omitempty"`
}

func (r ClickResult) Ignored() bool { return r.Target == TargetNone }

// Click обрабатывает клик по карте (координата проекции). В Idle клик игнорируется.
func (e *Editor) Click(projected orb.Point) ClickResult {
	lonLat := geodesy.ToGeographic(projected)

	switch e.state.Mode() {
	case ModeLine:
		var wp mission.Waypoint
		e.entries, wp = mission.Append(e.entries, lonLat, mission.KindLine)
		e.changed()
		return ClickResult{Target: TargetMission, Waypoint: &wp}

	case ModePolygon:
		var wp mission.Waypoint
		e.staging, wp = mission.AppendVertex(e.staging, lonLat, mission.KindPoly)
		e.changed()
		return ClickResult{Target: TargetStaging, Waypoint: &wp}
	}

	return ClickResult{Target: TargetNone}
}

// Key обрабатывает нажатие клавиши. Клавиша коммита в режиме полигона
// завершает полигон, остальные нажатия игнорируются.
func (e *Editor) Key(key string) (bool, error) {
	if key != e.commitKey || e.state.Mode() != ModePolygon {
		return false, nil
	}
	if _, err := e.Commit(); err != nil {
		return true, err
	}
	return true, nil
}

// ============================================================
// Mode transitions
// ============================================================

func (e *Editor) ToggleDraw() error {
	next, err := e.state.ToggleDraw()
	if err != nil {
		return err
	}
	e.state = next
	e.changed()
	return nil
}

// BeginPolygon переводит редактор в режим полигона у точки маршрута index
// (0-based). Буфер начинается с копии координат этой точки.
func (e *Editor) BeginPolygon(index int, side Side) error {
	ins := Insertion{Index: index, Side: side}
	next, err := e.state.EnterPolygon(ins)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(e.entries) {
		return fmt.Errorf("start polygon at %d of %d: %w", index, len(e.entries), mission.ErrInvalidIndex)
	}
	wp, ok := e.entries[index].(mission.Waypoint)
	if !ok {
		return fmt.Errorf("start polygon at %d: entry is not a waypoint: %w", index, mission.ErrInvalidIndex)
	}

	e.staging, _ = mission.AppendVertex(nil, wp.Point(), mission.KindPoly)
	e.state = next
	e.changed()
	return nil
}

// Commit вставляет буфер в миссию как PolygonBlock. При любой ошибке
// ни миссия, ни буфер, ни режим не меняются.
func (e *Editor) Commit() (mission.PolygonBlock, error) {
	ins, ok := e.state.Insertion()
	if !ok {
		return mission.PolygonBlock{}, fmt.Errorf("commit in %s mode: %w", e.state.Mode(), ErrInvalidStateTransition)
	}
	if len(e.staging) < MinStagedVertices {
		return mission.PolygonBlock{}, fmt.Errorf("commit %d staged vertices: %w", len(e.staging)-1, ErrInsufficientVertices)
	}

	poly := mission.PolygonBlock{Vertices: deep.MustCopy(e.staging)}
	entries, err := mission.InsertPolygon(e.entries, ins.Position(), poly)
	if err != nil {
		return mission.PolygonBlock{}, err
	}
	next, err := e.state.LeavePolygon()
	if err != nil {
		return mission.PolygonBlock{}, err
	}

	e.entries = entries
	e.staging = nil
	e.state = next
	e.changed()

	return entries[ins.Position()].(mission.PolygonBlock), nil
}

// Cancel выбрасывает буфер полигона.
func (e *Editor) Cancel() error {
	next, err := e.state.LeavePolygon()
	if err != nil {
		return err
	}
	e.staging = nil
	e.state = next
	e.changed()
	return nil
}

// Clear очищает список миссии. Режим не меняется.
func (e *Editor) Clear() error {
	if e.state.Mode() == ModePolygon {
		return fmt.Errorf("clear points in %s mode: %w", e.state.Mode(), ErrInvalidStateTransition)
	}
	e.entries = nil
	e.changed()
	return nil
}

// Generate завершает рисование и возвращает копию миссии.
func (e *Editor) Generate() ([]mission.Entry, error) {
	if len(e.entries) == 0 {
		return nil, fmt.Errorf("generate: %w", ErrEmptyMission)
	}
	next, err := e.state.Stop()
	if err != nil {
		return nil, err
	}
	e.state = next
	e.changed()
	return copyEntries(e.entries), nil
}

// ============================================================
// Snapshots
// ============================================================

type Snapshot struct {
	Mode       Mode               `json:"mode"`
	LineActive bool               `json:"lineActive"`
	PolyActive bool               `json:"polyActive"`
	Insertion  *Insertion         `json:"insertion"`
	Entries    []mission.Entry    `json:"entries"`
	Staging    []mission.Waypoint `json:"staging"`
}

// Snapshot возвращает копию состояния, не разделяющую память с редактором.
func (e *Editor) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:       e.state.Mode(),
		LineActive: e.state.LineActive(),
		PolyActive: e.state.PolyActive(),
		Entries:    copyEntries(e.entries),
		Staging:    []mission.Waypoint{},
	}
	if ins, ok := e.state.Insertion(); ok {
		snap.Insertion = &ins
	}
	if len(e.staging) > 0 {
		snap.Staging = deep.MustCopy(e.staging)
	}
	return snap
}

func copyEntries(entries []mission.Entry) []mission.Entry {
	out := make([]mission.Entry, 0, len(entries))
	for _, entry := range entries {
		switch v := entry.(type) {
		case mission.Waypoint:
			out = append(out, deep.MustCopy(v))
		case mission.PolygonBlock:
			v.Vertices = deep.MustCopy(v.Vertices)
			out = append(out, v)
		}
	}
	return out
}
