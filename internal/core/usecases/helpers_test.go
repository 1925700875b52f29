package usecases_test

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/samirrijal/coverage-area/internal/core/domain"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// hexagon is a closed convex ring around (lon, lat) on a 2-decimal grid.
func hexagon(lon, lat, radius float64) domain.Ring {
	ring := make(domain.Ring, 0, 7)
	for k := 0; k < 6; k++ {
		a := float64(k) * math.Pi / 3
		ring = append(ring, domain.Coordinate{round2(lon + radius*math.Cos(a)), round2(lat + radius*math.Sin(a))})
	}
	return append(ring, ring[0])
}

// wobbly is a closed non-convex ring around (10, 50) on a 2-decimal grid.
func wobbly(n int) domain.Ring {
	ring := make(domain.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		r := 1 + 0.08*math.Sin(5*a)
		ring = append(ring, domain.Coordinate{round2(10 + r*math.Cos(a)), round2(50 + 0.7*r*math.Sin(a))})
	}
	return append(ring, ring[0])
}

func assertDecimals(t *testing.T, ring domain.Ring, decimals int) {
	t.Helper()
	for _, p := range ring {
		for _, v := range p {
			s := strconv.FormatFloat(v, 'f', -1, 64)
			if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > decimals {
				t.Errorf("coordinate %s has more than %d decimals", s, decimals)
			}
		}
	}
}

func assertClosed(t *testing.T, ring domain.Ring) {
	t.Helper()
	if len(ring) == 0 || ring[0] != ring[len(ring)-1] {
		t.Errorf("expected closed ring, got %v", ring)
	}
}
