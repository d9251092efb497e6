package mission

import (
	"encoding/json"

	"github.com/paulmach/orb"
)

// ============================================================
// Mission entries
// ============================================================

// Kind помечает, в каком режиме была поставлена точка. На геометрию не влияет.
type Kind string

const (
	KindLine    Kind = "LINE"
	KindPoly    Kind = "POLY"
	KindPolygon Kind = "POLYGON"
)

// Entry - элемент миссии: Waypoint или PolygonBlock.
type Entry interface {
	SequenceNumber() int
	entry()
}

type Waypoint struct {
	Number               int      `json:"number" msgpack:"number"`
	Longitude            float64  `json:"longitude" msgpack:"longitude"`
	Latitude             float64  `json:"latitude" msgpack:"latitude"`
	DistanceFromPrevious *float64 `json:"distanceFromPrevious" msgpack:"distance"`
	Kind                 Kind     `json:"type" msgpack:"kind"`
}

func (w Waypoint) SequenceNumber() int { return w.Number }

func (w Waypoint) Point() orb.Point {
	return orb.Point{w.Longitude, w.Latitude}
}

func (Waypoint) entry() {}

// PolygonBlock - замкнутый полигон, вставленный в маршрут. Vertices[0] - якорь
// (копия точки маршрута, от которой начали рисовать), он не нумеруется при выводе.
type PolygonBlock struct {
	Number   int        `json:"number" msgpack:"number"`
	Vertices []Waypoint `json:"vertices" msgpack:"vertices"`
}

func (p PolygonBlock) SequenceNumber() int { return p.Number }

func (PolygonBlock) entry() {}

// Anchor возвращает якорную вершину.
func (p PolygonBlock) Anchor() (Waypoint, bool) {
	if len(p.Vertices) == 0 {
		return Waypoint{}, false
	}
	return p.Vertices[0], true
}

// Ring - вершины полигона как замкнутое кольцо.
func (p PolygonBlock) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		ring = append(ring, v.Point())
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

func (p PolygonBlock) MarshalJSON() ([]byte, error) {
	type block PolygonBlock
	return json.Marshal(struct {
		Type Kind `json:"type"`
		block
	}{KindPolygon, block(p)})
}
