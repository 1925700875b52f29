package geospatial_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samirrijal/coverage-area/internal/pkg/geospatial"
)

func TestDistance_OneDegreeOfLatitude(t *testing.T) {
	d := geospatial.Distance(orb.Point{10, 50}, orb.Point{10, 51})
	want := geospatial.EarthRadius * math.Pi / 180
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("expected %.3f m, got %.3f m", want, d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := orb.Point{-2.935, 43.263}
	b := orb.Point{13.405, 52.52}
	if d1, d2 := geospatial.Distance(a, b), geospatial.Distance(b, a); math.Abs(d1-d2) > 1e-6 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
	if geospatial.Distance(a, a) != 0 {
		t.Error("expected zero distance for identical points")
	}
}

func TestDistanceToLine_Degenerate(t *testing.T) {
	l := orb.Point{8, 50}
	p := orb.Point{8.5, 50.5}
	if got, want := geospatial.DistanceToLine(l, l, p), geospatial.Distance(l, p); got != want {
		t.Errorf("expected point distance %f, got %f", want, got)
	}
}

func TestDistanceToLine_ClampsToSegment(t *testing.T) {
	l1 := orb.Point{0, 0}
	l2 := orb.Point{1, 0}

	// beyond l2: closest point is l2 itself
	p := orb.Point{2, 0}
	if got, want := geospatial.DistanceToLine(l1, l2, p), geospatial.Distance(l2, p); math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %f, got %f", want, got)
	}

	// perpendicular foot inside the segment
	q := orb.Point{0.5, 0.1}
	if got, want := geospatial.DistanceToLine(l1, l2, q), geospatial.Distance(orb.Point{0.5, 0}, q); math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestBoundingBox(t *testing.T) {
	ring := orb.Ring{{5, 47}, {15, 47.5}, {14, 55}, {6, 54}, {5, 47}}
	b := geospatial.BoundingBox(ring)
	if b.Min != (orb.Point{5, 47}) || b.Max != (orb.Point{15, 55}) {
		t.Errorf("unexpected bounding box %v", b)
	}
}

func TestBoundingBox_EmptyRingKeepsSentinels(t *testing.T) {
	b := geospatial.BoundingBox(nil)
	if b.Min != (orb.Point{180, 90}) || b.Max != (orb.Point{-180, -90}) {
		t.Errorf("expected sentinels, got %v", b)
	}
}

func TestBoundingRing(t *testing.T) {
	ring := geospatial.BoundingRing(orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{3, 4}})
	if len(ring) != 5 {
		t.Fatalf("expected 5 points, got %d", len(ring))
	}
	if !ring.Closed() {
		t.Error("expected closed ring")
	}
	if ring[2] != (orb.Point{3, 4}) {
		t.Errorf("expected max corner at index 2, got %v", ring[2])
	}
}
