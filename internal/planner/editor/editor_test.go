package editor

import (
	"errors"
	"math"
	"testing"

	"mission-planner/internal/planner/geodesy"
	"mission-planner/internal/planner/mission"

	"github.com/paulmach/orb"
)

func clickGeo(t *testing.T, e *Editor, lon, lat float64) ClickResult {
	t.Helper()
	return e.Click(geodesy.ToProjected(orb.Point{lon, lat}))
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// три клика в режиме линии: (10,10), (10,20), (10,30)
func threePointMission(t *testing.T) *Editor {
	t.Helper()
	e := New(Config{})
	for _, lat := range []float64{10, 20, 30} {
		if r := clickGeo(t, e, 10, lat); r.Target != TargetMission {
			t.Fatalf("click routed to %s", r.Target)
		}
	}
	return e
}

func TestLineClicks(t *testing.T) {
	e := threePointMission(t)
	snap := e.Snapshot()

	if len(snap.Entries) != 3 {
		t.Fatalf("entries = %d", len(snap.Entries))
	}
	want := []orb.Point{{10, 10}, {10, 20}, {10, 30}}
	for i, entry := range snap.Entries {
		wp := entry.(mission.Waypoint)
		if wp.Number != i+1 {
			t.Errorf("entry %d number = %d", i, wp.Number)
		}
		if !near(wp.Longitude, want[i][0]) || !near(wp.Latitude, want[i][1]) {
			t.Errorf("entry %d at %v, want %v", i, wp.Point(), want[i])
		}
		if wp.Kind != mission.KindLine {
			t.Errorf("entry %d kind = %s", i, wp.Kind)
		}
	}

	if snap.Entries[0].(mission.Waypoint).DistanceFromPrevious != nil {
		t.Errorf("first waypoint has distance")
	}
	d12 := snap.Entries[1].(mission.Waypoint).DistanceFromPrevious
	if d12 == nil || math.Abs(*d12-geodesy.DistanceMeters(orb.Point{10, 10}, orb.Point{10, 20})) > 1e-3 {
		t.Errorf("dist12 = %v", d12)
	}
	d23 := snap.Entries[2].(mission.Waypoint).DistanceFromPrevious
	if d23 == nil || math.Abs(*d23-geodesy.DistanceMeters(orb.Point{10, 20}, orb.Point{10, 30})) > 1e-3 {
		t.Errorf("dist23 = %v", d23)
	}
}

func TestIdleClickIgnored(t *testing.T) {
	e := New(Config{StartIdle: true})
	if r := clickGeo(t, e, 1, 1); !r.Ignored() {
		t.Errorf("idle click routed to %s", r.Target)
	}
	if n := len(e.Snapshot().Entries); n != 0 {
		t.Errorf("entries = %d", n)
	}

	if err := e.ToggleDraw(); err != nil {
		t.Fatal(err)
	}
	if r := clickGeo(t, e, 1, 1); r.Target != TargetMission {
		t.Errorf("line click routed to %s", r.Target)
	}

	// выключение рисования не очищает миссию
	if err := e.ToggleDraw(); err != nil {
		t.Fatal(err)
	}
	if n := len(e.Snapshot().Entries); n != 1 {
		t.Errorf("entries after draw off = %d", n)
	}
}

func TestInsertPolygonAfterPoint2(t *testing.T) {
	e := threePointMission(t)

	// "insert polygon after point 2"
	if err := e.BeginPolygon(1, SideAfter); err != nil {
		t.Fatal(err)
	}
	if e.Mode() != ModePolygon {
		t.Fatalf("mode = %s", e.Mode())
	}
	if r := clickGeo(t, e, 11, 20); r.Target != TargetStaging {
		t.Fatalf("click routed to %s", r.Target)
	}
	clickGeo(t, e, 11, 21)

	poly, err := e.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if poly.Number != 3 || len(poly.Vertices) != 3 {
		t.Errorf("polygon = #%d with %d vertices", poly.Number, len(poly.Vertices))
	}

	snap := e.Snapshot()
	if snap.Mode != ModeLine || snap.Insertion != nil || len(snap.Staging) != 0 {
		t.Errorf("after commit: mode=%s insertion=%v staging=%d", snap.Mode, snap.Insertion, len(snap.Staging))
	}
	if len(snap.Entries) != 4 {
		t.Fatalf("entries = %d", len(snap.Entries))
	}
	if err := mission.Validate(snap.Entries); err != nil {
		t.Error(err)
	}

	if wp := snap.Entries[1].(mission.Waypoint); !near(wp.Latitude, 20) {
		t.Errorf("entry 2 = %v", wp.Point())
	}
	block, ok := snap.Entries[2].(mission.PolygonBlock)
	if !ok {
		t.Fatalf("entry 3 is %T", snap.Entries[2])
	}
	anchor, _ := block.Anchor()
	if !near(anchor.Longitude, 10) || !near(anchor.Latitude, 20) {
		t.Errorf("anchor = %v", anchor.Point())
	}
	if !near(block.Vertices[1].Longitude, 11) || !near(block.Vertices[2].Latitude, 21) {
		t.Errorf("vertices = %+v", block.Vertices)
	}
	last := snap.Entries[3].(mission.Waypoint)
	if last.Number != 4 || !near(last.Latitude, 30) {
		t.Errorf("last = #%d at %v", last.Number, last.Point())
	}
}

func TestInsertPolygonBeforeFirst(t *testing.T) {
	e := threePointMission(t)
	if err := e.BeginPolygon(0, SideBefore); err != nil {
		t.Fatal(err)
	}
	clickGeo(t, e, 9, 9)
	clickGeo(t, e, 9, 11)

	if _, err := e.Commit(); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if _, ok := snap.Entries[0].(mission.PolygonBlock); !ok {
		t.Errorf("entry 1 is %T", snap.Entries[0])
	}
	if err := mission.Validate(snap.Entries); err != nil {
		t.Error(err)
	}
}

func TestCommitInsufficientVertices(t *testing.T) {
	e := threePointMission(t)
	if err := e.BeginPolygon(1, SideAfter); err != nil {
		t.Fatal(err)
	}
	clickGeo(t, e, 11, 20)

	before := e.Snapshot()
	if _, err := e.Commit(); !errors.Is(err, ErrInsufficientVertices) {
		t.Fatalf("err = %v, want ErrInsufficientVertices", err)
	}
	after := e.Snapshot()
	if after.Mode != ModePolygon || len(after.Staging) != 2 || len(after.Entries) != len(before.Entries) {
		t.Errorf("state changed on failed commit: %+v", after)
	}

	clickGeo(t, e, 11, 21)
	if _, err := e.Commit(); err != nil {
		t.Errorf("commit with anchor + 2 vertices: %v", err)
	}
}

func TestCancelPolygon(t *testing.T) {
	e := threePointMission(t)
	before := e.Snapshot()

	if err := e.BeginPolygon(1, SideAfter); err != nil {
		t.Fatal(err)
	}
	clickGeo(t, e, 11, 20)
	clickGeo(t, e, 11, 21)

	if err := e.Cancel(); err != nil {
		t.Fatal(err)
	}
	after := e.Snapshot()
	if after.Mode != ModeLine || len(after.Staging) != 0 || after.Insertion != nil {
		t.Errorf("after cancel: %+v", after)
	}
	if len(after.Entries) != len(before.Entries) {
		t.Fatalf("entries = %d", len(after.Entries))
	}
	for i := range before.Entries {
		b := before.Entries[i].(mission.Waypoint)
		a := after.Entries[i].(mission.Waypoint)
		if a.Number != b.Number || a.Point() != b.Point() || *orZero(a.DistanceFromPrevious) != *orZero(b.DistanceFromPrevious) {
			t.Errorf("entry %d changed: %+v -> %+v", i, b, a)
		}
	}
}

func orZero(p *float64) *float64 {
	if p == nil {
		z := 0.0
		return &z
	}
	return p
}

func TestBeginPolygonErrors(t *testing.T) {
	e := threePointMission(t)

	for _, idx := range []int{-1, 3} {
		if err := e.BeginPolygon(idx, SideAfter); !errors.Is(err, mission.ErrInvalidIndex) {
			t.Errorf("index %d: err = %v", idx, err)
		}
		if e.Mode() != ModeLine {
			t.Errorf("index %d: mode = %s", idx, e.Mode())
		}
	}

	if err := e.BeginPolygon(0, SideAfter); err != nil {
		t.Fatal(err)
	}
	if err := e.BeginPolygon(1, SideAfter); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("second BeginPolygon: err = %v", err)
	}
	if ins, _ := e.state.Insertion(); ins.Index != 0 {
		t.Errorf("insertion overwritten: %+v", ins)
	}
}

func TestBeginPolygonOnPolygonEntry(t *testing.T) {
	e := threePointMission(t)
	e.BeginPolygon(0, SideAfter)
	clickGeo(t, e, 1, 1)
	clickGeo(t, e, 1, 2)
	if _, err := e.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := e.BeginPolygon(1, SideAfter); !errors.Is(err, mission.ErrInvalidIndex) {
		t.Errorf("err = %v", err)
	}
}

func TestCommitAndCancelOutsidePolygon(t *testing.T) {
	e := threePointMission(t)
	if _, err := e.Commit(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("commit: %v", err)
	}
	if err := e.Cancel(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("cancel: %v", err)
	}
}

func TestCommitKey(t *testing.T) {
	e := New(Config{CommitKey: "c"})
	clickGeo(t, e, 0, 0)

	if handled, err := e.Key("c"); handled || err != nil {
		t.Errorf("key in line mode: %v %v", handled, err)
	}

	e.BeginPolygon(0, SideAfter)
	clickGeo(t, e, 0, 1)

	if handled, err := e.Key("Enter"); handled || err != nil {
		t.Errorf("other key: %v %v", handled, err)
	}
	if handled, err := e.Key("c"); !handled || !errors.Is(err, ErrInsufficientVertices) {
		t.Errorf("commit key with one vertex: %v %v", handled, err)
	}

	clickGeo(t, e, 1, 1)
	if handled, err := e.Key("c"); !handled || err != nil {
		t.Errorf("commit key: %v %v", handled, err)
	}
	if e.Mode() != ModeLine {
		t.Errorf("mode = %s", e.Mode())
	}
}

func TestClear(t *testing.T) {
	e := threePointMission(t)
	e.BeginPolygon(0, SideAfter)
	if err := e.Clear(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("clear in polygon mode: %v", err)
	}
	e.Cancel()

	if err := e.Clear(); err != nil {
		t.Fatal(err)
	}
	if n := len(e.Snapshot().Entries); n != 0 {
		t.Errorf("entries = %d", n)
	}
	if r := clickGeo(t, e, 5, 5); r.Waypoint.Number != 1 || r.Waypoint.DistanceFromPrevious != nil {
		t.Errorf("first click after clear = %+v", r.Waypoint)
	}
}

func TestGenerate(t *testing.T) {
	e := New(Config{})
	if _, err := e.Generate(); !errors.Is(err, ErrEmptyMission) {
		t.Errorf("empty: %v", err)
	}

	clickGeo(t, e, 0, 0)
	entries, err := e.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || e.Mode() != ModeIdle {
		t.Errorf("entries=%d mode=%s", len(entries), e.Mode())
	}
}

func TestSubscribe(t *testing.T) {
	e := New(Config{})
	var got []Snapshot
	unsubscribe := e.Subscribe(func(s Snapshot) { got = append(got, s) })

	clickGeo(t, e, 0, 0)
	clickGeo(t, e, 0, 1)
	e.BeginPolygon(1, SideBefore)

	if len(got) != 3 {
		t.Fatalf("notifications = %d", len(got))
	}
	if got[2].Mode != ModePolygon || len(got[2].Staging) != 1 {
		t.Errorf("last snapshot = %+v", got[2])
	}

	unsubscribe()
	clickGeo(t, e, 0, 2)
	if len(got) != 3 {
		t.Errorf("listener called after unsubscribe")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	e := threePointMission(t)
	snap := e.Snapshot()
	*snap.Entries[1].(mission.Waypoint).DistanceFromPrevious = -1

	d := e.Snapshot().Entries[1].(mission.Waypoint).DistanceFromPrevious
	if *d < 0 {
		t.Errorf("snapshot aliases editor state")
	}
}

func TestDescribe(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{ErrInsufficientVertices, "There should be minimum 2 points to create a Polygon"},
		{mission.ErrInvalidIndex, "Invalid insertion index"},
	} {
		n := Describe(tc.err)
		if n.Level != LevelError || n.Message != tc.want {
			t.Errorf("Describe(%v) = %+v", tc.err, n)
		}
	}
	if n := Generated(); n.Level != LevelSuccess {
		t.Errorf("Generated level = %s", n.Level)
	}
}
