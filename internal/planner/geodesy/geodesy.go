package geodesy

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/project"
)

// ============================================================
// Coordinate transforms
// ============================================================

// Проекция карты - EPSG:3857 (web mercator), географические координаты - EPSG:4326.

// ToGeographic переводит точку проекции карты в (lon, lat).
func ToGeographic(p orb.Point) orb.Point {
	return project.Mercator.ToWGS84(p)
}

// ToProjected переводит (lon, lat) в координаты проекции карты.
func ToProjected(p orb.Point) orb.Point {
	return project.WGS84.ToMercator(p)
}

// ============================================================
// Distances
// ============================================================

// earthRadius - средний радиус Земли (IUGG), как у карты в браузере.
// orb считает на экваториальном радиусе WGS84.
const earthRadius = 6371008.8

// DistanceMeters - расстояние по большому кругу в метрах (haversine).
func DistanceMeters(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) * earthRadius / orb.EarthRadius
}

// ============================================================
// Segment glyphs
// ============================================================

// SegmentMidpointAndRotation возвращает середину отрезка в координатах проекции
// и угол поворота стрелки направления. Для вырожденного отрезка угол 0.
func SegmentMidpointAndRotation(p1, p2 orb.Point) (orb.Point, float64) {
	mid := orb.Point{(p1[0] + p2[0]) / 2, (p1[1] + p2[1]) / 2}

	dx := p2[0] - p1[0]
	// -(y2-y1), без отрицательного нуля
	dy := p1[1] - p2[1]
	if dx == 0 && dy == 0 {
		return mid, 0
	}
	return mid, math.Atan2(dy, dx)
}
