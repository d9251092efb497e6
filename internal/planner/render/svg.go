package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ============================================================
// SVG Renderer
// ============================================================

const (
	routeColor     = "#0066cc"
	markerColor    = "blue"
	highlightColor = "green"
	areaColor      = "#d62728"
)

type Renderer struct {
	// Padding - поля вокруг содержимого, доля от размера.
	Padding float64
}

func NewRenderer() *Renderer {
	return &Renderer{Padding: 0.1}
}

// Render собирает SVG превью кадра. Ось Y проекции направлена вверх,
// в SVG - вниз, поэтому y инвертируется.
func (r *Renderer) Render(frame Frame) (string, error) {
	minX, minY, width, height := r.viewBox(frame)
	scale := math.Max(width, height)

	var elements []string
	elements = append(elements, r.renderAreas(frame.Areas)...)
	elements = append(elements, r.renderSegments(frame.Segments, scale)...)
	elements = append(elements, r.renderMarkers(frame.Markers, scale)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" data-mode="%s">`,
		formatFloat(minX), formatFloat(minY), formatFloat(width), formatFloat(height), frame.Mode))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// View box
// ============================================================

func (r *Renderer) viewBox(frame Frame) (float64, float64, float64, float64) {
	bound := orb.MultiPoint{}
	for _, m := range frame.Markers {
		bound = append(bound, flip(m.Position))
	}
	for _, a := range frame.Areas {
		for _, p := range a.Ring {
			bound = append(bound, flip(p))
		}
	}
	if len(bound) == 0 {
		return 0, 0, 1000, 1000
	}

	b := bound.Bound()
	width := b.Max[0] - b.Min[0]
	height := b.Max[1] - b.Min[1]
	size := math.Max(width, height)
	if size == 0 {
		size = 1000
	}

	pad := size * r.Padding
	return b.Min[0] - pad, b.Min[1] - pad, width + 2*pad, height + 2*pad
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderAreas(areas []Area) []string {
	var out []string

	for _, area := range areas {
		if len(area.Ring) < 3 {
			continue
		}

		var path strings.Builder
		path.WriteString(`<path id="polygon-`)
		path.WriteString(strconv.Itoa(area.Number))
		path.WriteString(`" d="M `)
		path.WriteString(formatPoint(flip(area.Ring[0])))
		for _, p := range area.Ring[1:] {
			path.WriteString(" L ")
			path.WriteString(formatPoint(flip(p)))
		}
		path.WriteString(` Z" fill="` + areaColor + `" fill-opacity="0.15" stroke="` + areaColor + `" vector-effect="non-scaling-stroke" />`)

		out = append(out, path.String())
	}

	return out
}

func (r *Renderer) renderSegments(segments []Segment, scale float64) []string {
	var out []string
	fontSize := scale / 40

	for _, s := range segments {
		from, to, mid := flip(s.From), flip(s.To), flip(s.Midpoint)

		dash := ""
		if s.Dashed {
			dash = ` stroke-dasharray="6 4"`
		}
		out = append(out, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"%s vector-effect="non-scaling-stroke" />`,
			formatFloat(from[0]), formatFloat(from[1]), formatFloat(to[0]), formatFloat(to[1]), routeColor, dash))

		// стрелка ">" в середине, rotation по часовой стрелке
		deg := s.Rotation * 180 / math.Pi
		out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="central" transform="rotate(%s %s %s)">&gt;</text>`,
			formatFloat(mid[0]), formatFloat(mid[1]), formatFloat(fontSize), routeColor,
			formatFloat(deg), formatFloat(mid[0]), formatFloat(mid[1])))
	}

	return out
}

func (r *Renderer) renderMarkers(markers []Marker, scale float64) []string {
	var out []string
	radius := scale / 200

	for _, m := range markers {
		color := markerColor
		if m.Highlight {
			color = highlightColor
		}
		p := flip(m.Position)
		out = append(out, fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" data-label="%s" />`,
			formatFloat(p[0]), formatFloat(p[1]), formatFloat(radius), color, m.Label))
	}

	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func flip(p orb.Point) orb.Point {
	return orb.Point{p[0], -p[1]}
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p orb.Point) string {
	return formatFloat(p[0]) + " " + formatFloat(p[1])
}
