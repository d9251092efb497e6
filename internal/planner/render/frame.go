package render

import (
	"fmt"
	"math"

	"mission-planner/internal/planner/editor"
	"mission-planner/internal/planner/geodesy"
	"mission-planner/internal/planner/mission"

	"github.com/paulmach/orb"
)

// ============================================================
// Render commands
// ============================================================

// Marker - точка на карте. Position в координатах проекции.
type Marker struct {
	Label     string    `json:"label"`
	Number    int       `json:"number"`
	Position  orb.Point `json:"position"`
	Highlight bool      `json:"highlight"`
	Polygon   int       `json:"polygon,omitempty"` // номер PolygonBlock, 0 для маршрута
	Staged    bool      `json:"staged,omitempty"`
}

// Segment - отрезок линии со стрелкой направления в середине.
type Segment struct {
	From     orb.Point `json:"from"`
	To       orb.Point `json:"to"`
	Midpoint orb.Point `json:"midpoint"`
	Rotation float64   `json:"rotation"`
	Dashed   bool      `json:"dashed"`
}

// Area - контур вставленного полигона.
type Area struct {
	Number int         `json:"number"`
	Ring   []orb.Point `json:"ring"`
}

// Row - строка таблицы точек в панели редактора.
type Row struct {
	Label       string `json:"label"`
	Coordinates string `json:"coordinates"`
	Distance    string `json:"distance"`
	Type        string `json:"type"`
}

type Frame struct {
	Mode        editor.Mode `json:"mode"`
	Markers     []Marker    `json:"markers"`
	Segments    []Segment   `json:"segments"`
	Areas       []Area      `json:"areas"`
	Rows        []Row       `json:"rows"`
	StagingRows []Row       `json:"stagingRows"`
}

// Build строит команды отрисовки из снимка редактора. Чистая функция.
func Build(snap editor.Snapshot) Frame {
	f := Frame{
		Mode:        snap.Mode,
		Markers:     []Marker{},
		Segments:    []Segment{},
		Areas:       []Area{},
		Rows:        []Row{},
		StagingRows: []Row{},
	}

	f.buildRoute(snap.Entries)
	if snap.Mode == editor.ModePolygon {
		f.buildStaging(snap.Staging)
	}
	return f
}

func (f *Frame) buildRoute(entries []mission.Entry) {
	// первая и последняя точки маршрута, полигоны не в счёт
	firstWaypoint, lastWaypoint := -1, -1
	for i, e := range entries {
		if _, ok := e.(mission.Waypoint); ok {
			if firstWaypoint < 0 {
				firstWaypoint = i
			}
			lastWaypoint = i
		}
	}

	var prev *orb.Point
	for i, e := range entries {
		switch e := e.(type) {
		case mission.Waypoint:
			pos := geodesy.ToProjected(e.Point())
			f.Markers = append(f.Markers, Marker{
				Label:     label(e.Number),
				Number:    e.Number,
				Position:  pos,
				Highlight: i == firstWaypoint || i == lastWaypoint,
			})
			if prev != nil {
				f.Segments = append(f.Segments, segment(*prev, pos, false))
			}
			prev = &pos
			f.Rows = append(f.Rows, Row{
				Label:       label(i + 1),
				Coordinates: coordinates(e),
				Distance:    distance(e.DistanceFromPrevious),
				Type:        string(e.Kind),
			})

		case mission.PolygonBlock:
			area := Area{Number: e.Number}
			for _, v := range e.Ring() {
				area.Ring = append(area.Ring, geodesy.ToProjected(v))
			}
			f.Areas = append(f.Areas, area)

			// якорь (индекс 0) не выводится как пронумерованная точка
			for j := 1; j < len(e.Vertices); j++ {
				f.Markers = append(f.Markers, Marker{
					Label:    label(j + 1),
					Number:   j + 1,
					Position: geodesy.ToProjected(e.Vertices[j].Point()),
					Polygon:  e.Number,
				})
			}
			f.Rows = append(f.Rows, Row{
				Label:       label(i + 1),
				Coordinates: fmt.Sprintf("polygon, %d vertices", max(len(e.Vertices)-1, 0)),
				Distance:    "--",
				Type:        string(mission.KindPolygon),
			})
		}
	}
}

func (f *Frame) buildStaging(staging []mission.Waypoint) {
	for i := 1; i < len(staging); i++ {
		prev := geodesy.ToProjected(staging[i-1].Point())
		pos := geodesy.ToProjected(staging[i].Point())
		f.Segments = append(f.Segments, segment(prev, pos, true))

		f.Markers = append(f.Markers, Marker{
			Label:     label(i + 1),
			Number:    i + 1,
			Position:  pos,
			Highlight: i == len(staging)-1,
			Staged:    true,
		})
		f.StagingRows = append(f.StagingRows, Row{
			Label:       label(i + 1),
			Coordinates: coordinates(staging[i]),
			Distance:    distance(staging[i].DistanceFromPrevious),
			Type:        string(staging[i].Kind),
		})
	}
}

// ============================================================
// Helpers
// ============================================================

func segment(from, to orb.Point, dashed bool) Segment {
	mid, rotation := geodesy.SegmentMidpointAndRotation(from, to)
	return Segment{From: from, To: to, Midpoint: mid, Rotation: rotation, Dashed: dashed}
}

func label(n int) string {
	return fmt.Sprintf("%02d", n)
}

func coordinates(wp mission.Waypoint) string {
	return fmt.Sprintf("%.8f, %.8f", wp.Longitude, wp.Latitude)
}

func distance(d *float64) string {
	if d == nil {
		return "--"
	}
	return fmt.Sprintf("%d", int64(math.Round(*d)))
}
