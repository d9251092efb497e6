package render

import (
	"mission-planner/internal/planner/mission"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// GeoJSON export
// ============================================================

// GeoJSON собирает FeatureCollection миссии в EPSG:4326: точки маршрута,
// линию маршрута и полигоны.
func GeoJSON(entries []mission.Entry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var route orb.LineString
	for _, e := range entries {
		switch e := e.(type) {
		case mission.Waypoint:
			feature := geojson.NewFeature(e.Point())
			feature.Properties["number"] = e.Number
			feature.Properties["type"] = string(e.Kind)
			if e.DistanceFromPrevious != nil {
				feature.Properties["distanceFromPrevious"] = *e.DistanceFromPrevious
			} else {
				feature.Properties["distanceFromPrevious"] = nil
			}
			fc.Append(feature)
			route = append(route, e.Point())

		case mission.PolygonBlock:
			feature := geojson.NewFeature(orb.Polygon{e.Ring()})
			feature.Properties["number"] = e.Number
			feature.Properties["type"] = string(mission.KindPolygon)
			feature.Properties["vertices"] = max(len(e.Vertices)-1, 0)
			fc.Append(feature)
		}
	}

	if len(route) > 1 {
		feature := geojson.NewFeature(route)
		feature.Properties["type"] = "ROUTE"
		feature.Properties["distance"] = mission.TotalDistance(entries)
		fc.Append(feature)
	}

	return fc
}
