package geodesy

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestProjectionRoundTrip(t *testing.T) {
	for _, p := range []orb.Point{
		{0, 0},
		{10, 10},
		{80, 20},
		{-122.4194, 37.7749},
		{179.5, -60},
	} {
		back := ToGeographic(ToProjected(p))
		if math.Abs(back[0]-p[0]) > 1e-9 || math.Abs(back[1]-p[1]) > 1e-9 {
			t.Errorf("round trip %v -> %v", p, back)
		}
	}
}

func TestToProjectedOrigin(t *testing.T) {
	p := ToProjected(orb.Point{0, 0})
	if math.Abs(p[0]) > 1e-6 || math.Abs(p[1]) > 1e-6 {
		t.Errorf("origin projected to %v", p)
	}
}

func TestDistanceMeters(t *testing.T) {
	a := orb.Point{10, 10}
	b := orb.Point{10, 20}
	c := orb.Point{10, 30}

	if d := DistanceMeters(a, a); d != 0 {
		t.Errorf("distance to self = %f", d)
	}
	if DistanceMeters(a, b) != DistanceMeters(b, a) {
		t.Errorf("distance not symmetric: %f vs %f", DistanceMeters(a, b), DistanceMeters(b, a))
	}

	// 10 degrees along a meridian on the mean-radius sphere
	if d := DistanceMeters(a, b); math.Abs(d-1111950.8) > 0.5 {
		t.Errorf("10 degrees of latitude = %f m, want 1111950.8", d)
	}

	if DistanceMeters(a, c) <= DistanceMeters(a, b) {
		t.Errorf("distance should grow with separation")
	}
}

func TestSegmentMidpointAndRotation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		p1, p2 orb.Point
		mid    orb.Point
		angle  float64
	}{
		{"east", orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{5, 0}, 0},
		{"north", orb.Point{0, 0}, orb.Point{0, 10}, orb.Point{0, 5}, -math.Pi / 2},
		{"south", orb.Point{0, 10}, orb.Point{0, 0}, orb.Point{0, 5}, math.Pi / 2},
		{"west", orb.Point{10, 0}, orb.Point{0, 0}, orb.Point{5, 0}, math.Pi},
		{"degenerate", orb.Point{3, 4}, orb.Point{3, 4}, orb.Point{3, 4}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mid, angle := SegmentMidpointAndRotation(tc.p1, tc.p2)
			if mid != tc.mid {
				t.Errorf("mid = %v, want %v", mid, tc.mid)
			}
			if math.Abs(angle-tc.angle) > 1e-12 {
				t.Errorf("angle = %f, want %f", angle, tc.angle)
			}
		})
	}
}
