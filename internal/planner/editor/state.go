package editor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInsufficientVertices   = errors.New("insufficient polygon vertices")
	ErrEmptyMission           = errors.New("mission has no points")
)

// ============================================================
// Edit modes
// ============================================================

type Mode int

const (
	ModeIdle Mode = iota
	ModeLine
	ModePolygon
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeLine:
		return "line"
	case ModePolygon:
		return "polygon"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Side - с какой стороны от точки маршрута вставлять полигон.
type Side int

const (
	SideBefore Side = iota
	SideAfter
)

func (s Side) String() string {
	if s == SideBefore {
		return "before"
	}
	return "after"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "before":
		return SideBefore, nil
	case "after":
		return SideAfter, nil
	}
	return SideAfter, fmt.Errorf("unknown side %q", s)
}

// Insertion - куда вставить полигон при коммите.
type Insertion struct {
	Index int  `json:"index"`
	Side  Side `json:"side"`
}

// Position - итоговый индекс вставки в список миссии.
func (i Insertion) Position() int {
	if i.Side == SideBefore {
		return i.Index
	}
	return i.Index + 1
}

// ============================================================
// State machine
// ============================================================

// State - Idle, LineEditing или PolygonEditing. Insertion существует только
// в PolygonEditing, поэтому "висящий" индекс после выхода из режима невозможен.
type State struct {
	mode      Mode
	insertion *Insertion
}

func (s State) Mode() Mode { return s.mode }

func (s State) Insertion() (Insertion, bool) {
	if s.insertion == nil {
		return Insertion{}, false
	}
	return *s.insertion, true
}

// LineActive / PolyActive - флаги в терминах панели редактора.
func (s State) LineActive() bool { return s.mode != ModeIdle }
func (s State) PolyActive() bool { return s.mode == ModePolygon }

// ToggleDraw: Idle <-> LineEditing.
func (s State) ToggleDraw() (State, error) {
	switch s.mode {
	case ModeIdle:
		return State{mode: ModeLine}, nil
	case ModeLine:
		return State{mode: ModeIdle}, nil
	}
	return s, fmt.Errorf("toggle draw in %s mode: %w", s.mode, ErrInvalidStateTransition)
}

// EnterPolygon: LineEditing -> PolygonEditing.
func (s State) EnterPolygon(ins Insertion) (State, error) {
	if s.mode != ModeLine {
		return s, fmt.Errorf("start polygon in %s mode: %w", s.mode, ErrInvalidStateTransition)
	}
	return State{mode: ModePolygon, insertion: &ins}, nil
}

// LeavePolygon: PolygonEditing -> LineEditing (commit или cancel).
func (s State) LeavePolygon() (State, error) {
	if s.mode != ModePolygon {
		return s, fmt.Errorf("leave polygon in %s mode: %w", s.mode, ErrInvalidStateTransition)
	}
	return State{mode: ModeLine}, nil
}

// Stop завершает рисование (Generate Data): LineEditing/Idle -> Idle.
func (s State) Stop() (State, error) {
	if s.mode == ModePolygon {
		return s, fmt.Errorf("stop drawing in %s mode: %w", s.mode, ErrInvalidStateTransition)
	}
	return State{mode: ModeIdle}, nil
}
