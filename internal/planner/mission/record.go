package mission

import "fmt"

// ============================================================
// Storage records
// ============================================================

// Record - плоское представление Entry для сериализации (msgpack).
type Record struct {
	Type     Kind          `msgpack:"type"`
	Waypoint *Waypoint     `msgpack:"waypoint,omitempty"`
	Polygon  *PolygonBlock `msgpack:"polygon,omitempty"`
}

func ToRecords(seq []Entry) []Record {
	records := make([]Record, 0, len(seq))
	for _, e := range seq {
		switch e := e.(type) {
		case Waypoint:
			records = append(records, Record{Type: e.Kind, Waypoint: &e})
		case PolygonBlock:
			records = append(records, Record{Type: KindPolygon, Polygon: &e})
		}
	}
	return records
}

func FromRecords(records []Record) ([]Entry, error) {
	seq := make([]Entry, 0, len(records))
	for i, r := range records {
		switch {
		case r.Type == KindPolygon && r.Polygon != nil:
			seq = append(seq, *r.Polygon)
		case (r.Type == KindLine || r.Type == KindPoly) && r.Waypoint != nil:
			seq = append(seq, *r.Waypoint)
		default:
			return nil, fmt.Errorf("record %d: unknown entry type %q", i, r.Type)
		}
	}
	if err := Validate(seq); err != nil {
		return nil, err
	}
	return seq, nil
}
