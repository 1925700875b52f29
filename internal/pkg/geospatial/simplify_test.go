package geospatial_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samirrijal/coverage-area/internal/pkg/geospatial"
)

// wigglyRing is a closed, roughly circular ring around (10, 50) with a
// deterministic radial wobble.
func wigglyRing(n int) orb.Ring {
	ring := make(orb.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		r := 1 + 0.05*math.Sin(7*a) + 0.02*math.Cos(23*a)
		ring = append(ring, orb.Point{10 + r*math.Cos(a), 50 + 0.7*r*math.Sin(a)})
	}
	return append(ring, ring[0])
}

func TestDouglasPeucker_ShortInputUnchanged(t *testing.T) {
	ring := orb.Ring{{1, 1}, {2, 2}}
	got := geospatial.DouglasPeucker(ring, 1000)
	if len(got) != 2 || got[0] != ring[0] || got[1] != ring[1] {
		t.Errorf("expected unchanged input, got %v", got)
	}
}

func TestDouglasPeucker_CollinearCollapses(t *testing.T) {
	line := orb.Ring{{0, 0}, {0.1, 0}, {0.2, 0}, {0.3, 0}}
	got := geospatial.DouglasPeucker(line, 1)
	if len(got) != 2 {
		t.Fatalf("expected endpoints only, got %v", got)
	}
	if got[0] != line[0] || got[1] != line[3] {
		t.Errorf("expected endpoints, got %v", got)
	}
}

func TestDouglasPeucker_KeepsFarPoint(t *testing.T) {
	line := orb.Ring{{0, 0}, {0.5, 0.5}, {1, 0}}
	got := geospatial.DouglasPeucker(line, 1000)
	if len(got) != 3 {
		t.Errorf("expected apex to be kept, got %v", got)
	}
}

func TestDouglasPeucker_SubsetWithinThreshold(t *testing.T) {
	ring := wigglyRing(720)
	for _, threshold := range []float64{500, 2000, 5000, 20000} {
		t.Run(fmt.Sprintf("%.0fm", threshold), func(t *testing.T) {
			simplified := geospatial.DouglasPeucker(ring, threshold)
			if len(simplified) >= len(ring) {
				t.Fatalf("expected fewer points, got %d of %d", len(simplified), len(ring))
			}

			// map each kept point back onto its index in the input
			indices := make([]int, 0, len(simplified))
			j := 0
			for _, p := range simplified {
				for j < len(ring) && ring[j] != p {
					j++
				}
				if j == len(ring) {
					t.Fatalf("simplified point %v is not an input point in order", p)
				}
				indices = append(indices, j)
				j++
			}
			if indices[0] != 0 || indices[len(indices)-1] != len(ring)-1 {
				t.Fatalf("endpoints not kept: %v", indices)
			}

			for k := 1; k < len(indices); k++ {
				a, b := indices[k-1], indices[k]
				for i := a + 1; i < b; i++ {
					if d := geospatial.DistanceToLine(ring[a], ring[b], ring[i]); d > threshold+1e-6 {
						t.Errorf("point %d deviates %.1f m > %.0f m", i, d, threshold)
					}
				}
			}
		})
	}
}

func TestDouglasPeucker_Deterministic(t *testing.T) {
	ring := wigglyRing(360)
	a := geospatial.DouglasPeucker(ring, 3000)
	b := geospatial.DouglasPeucker(ring, 3000)
	if fmt.Sprint(a) != fmt.Sprint(b) {
		t.Error("expected identical output for identical input")
	}
}

func TestRoundRing(t *testing.T) {
	ring := orb.Ring{{10.123456, 50.987654}, {-3.14159, 0.005}}
	geospatial.RoundRing(ring, 2)
	for _, p := range ring {
		for _, v := range p {
			s := fmt.Sprint(v)
			if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
				t.Errorf("%s has more than 2 decimals", s)
			}
		}
	}
	if ring[0] != (orb.Point{10.12, 50.99}) {
		t.Errorf("unexpected rounding %v", ring[0])
	}
}
