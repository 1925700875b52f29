package geospatial

import (
	"math"

	"github.com/paulmach/orb"
)

// DouglasPeucker simplifies a ring so that no dropped point deviates more
// than threshold meters from the segment replacing it. The result only
// contains points of the input.
func DouglasPeucker(ring orb.Ring, threshold float64) orb.Ring {
	if len(ring) < 3 {
		return ring
	}

	first, last := ring[0], ring[len(ring)-1]
	maxDist := 0.0
	maxIdx := 1
	for i := 1; i < len(ring)-1; i++ {
		if d := DistanceToLine(first, last, ring[i]); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist > threshold {
		// [start, split) and [split, end] share no point
		left := DouglasPeucker(ring[:maxIdx], threshold)
		right := DouglasPeucker(ring[maxIdx:], threshold)
		out := make(orb.Ring, 0, len(left)+len(right))
		out = append(out, left...)
		return append(out, right...)
	}

	return orb.Ring{first, last}
}

// RoundRing rounds every coordinate in place to the given number of decimals.
func RoundRing(ring orb.Ring, decimals int) orb.Ring {
	scale := math.Pow(10, float64(decimals))
	for i, p := range ring {
		ring[i] = orb.Point{math.Round(p[0]*scale) / scale, math.Round(p[1]*scale) / scale}
	}
	return ring
}
