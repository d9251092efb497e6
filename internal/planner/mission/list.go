package mission

import (
	"fmt"

	"mission-planner/internal/planner/geodesy"

	"github.com/paulmach/orb"
)

// ============================================================
// Point list operations
// ============================================================

// Все операции возвращают новый срез; входной срез не изменяется.

// Append добавляет точку маршрута в конец. Расстояние считается только
// от предыдущей точки маршрута: после PolygonBlock оно остаётся nil.
func Append(seq []Entry, p orb.Point, kind Kind) ([]Entry, Waypoint) {
	wp := Waypoint{
		Number:    len(seq) + 1,
		Longitude: p[0],
		Latitude:  p[1],
		Kind:      kind,
	}
	if len(seq) > 0 {
		if prev, ok := seq[len(seq)-1].(Waypoint); ok {
			wp.DistanceFromPrevious = distance(prev.Point(), p)
		}
	}

	out := make([]Entry, len(seq), len(seq)+1)
	copy(out, seq)
	return append(out, wp), wp
}

// AppendVertex добавляет вершину в последовательность из одних Waypoint
// (буфер полигона).
func AppendVertex(buf []Waypoint, p orb.Point, kind Kind) ([]Waypoint, Waypoint) {
	wp := Waypoint{
		Number:    len(buf) + 1,
		Longitude: p[0],
		Latitude:  p[1],
		Kind:      kind,
	}
	if len(buf) > 0 {
		wp.DistanceFromPrevious = distance(buf[len(buf)-1].Point(), p)
	}

	out := make([]Waypoint, len(buf), len(buf)+1)
	copy(out, buf)
	return append(out, wp), wp
}

// InsertPolygon вставляет полигон на позицию index (0..len) и перенумеровывает
// все последующие элементы. При ошибке возвращается исходный seq.
func InsertPolygon(seq []Entry, index int, poly PolygonBlock) ([]Entry, error) {
	if index < 0 || index > len(seq) {
		return seq, fmt.Errorf("insert polygon at %d of %d: %w", index, len(seq), ErrInvalidIndex)
	}

	out := make([]Entry, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, poly)
	out = append(out, seq[index:]...)

	renumber(out, index)
	return out, nil
}

// renumber выставляет номер = позиция+1 начиная с from. Полная перенумерация
// хвоста при каждой вставке.
func renumber(seq []Entry, from int) {
	for i := from; i < len(seq); i++ {
		switch e := seq[i].(type) {
		case Waypoint:
			e.Number = i + 1
			seq[i] = e
		case PolygonBlock:
			e.Number = i + 1
			seq[i] = e
		default:
			panic(fmt.Sprintf("mission: unexpected entry %T", e))
		}
	}
}

// Validate проверяет, что номер i-го элемента равен i+1.
func Validate(seq []Entry) error {
	for i, e := range seq {
		if e.SequenceNumber() != i+1 {
			return fmt.Errorf("entry %d has number %d: %w", i, e.SequenceNumber(), ErrBadNumbering)
		}
	}
	return nil
}

// ============================================================
// Summary helpers
// ============================================================

// Counts возвращает число точек маршрута и полигонов.
func Counts(seq []Entry) (waypoints, polygons int) {
	for _, e := range seq {
		switch e.(type) {
		case Waypoint:
			waypoints++
		case PolygonBlock:
			polygons++
		}
	}
	return waypoints, polygons
}

// TotalDistance суммирует известные расстояния между точками маршрута.
func TotalDistance(seq []Entry) float64 {
	var total float64
	for _, e := range seq {
		if wp, ok := e.(Waypoint); ok && wp.DistanceFromPrevious != nil {
			total += *wp.DistanceFromPrevious
		}
	}
	return total
}

func distance(a, b orb.Point) *float64 {
	d := geodesy.DistanceMeters(a, b)
	return &d
}
