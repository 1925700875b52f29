package geospatial

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadius is the mean Earth radius in meters. Simplification
// thresholds are calibrated against this exact value.
const EarthRadius = 6371000.0

// Distance calculates the great-circle distance in meters between two
// [lon, lat] coordinates.
func Distance(p1, p2 orb.Point) float64 {
	dLat := toRad(p1.Lat() - p2.Lat())
	dLon := toRad(p1.Lon() - p2.Lon())

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(p1.Lat()))*math.Cos(toRad(p2.Lat()))*
			math.Pow(math.Sin(dLon/2), 2)

	return 2 * EarthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceToLine returns the distance in meters from p to the closest point
// of the segment [l1, l2]. The projection is done in coordinate space.
func DistanceToLine(l1, l2, p orb.Point) float64 {
	dx := l2[0] - l1[0]
	dy := l2[1] - l1[1]
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return Distance(l1, p)
	}

	dot := (p[0]-l1[0])*dx + (p[1]-l1[1])*dy
	r := math.Max(0, math.Min(1, dot/lengthSq))
	return Distance(orb.Point{l1[0] + r*dx, l1[1] + r*dy}, p)
}

// BoundingBox returns the min/max corners of the ring. An empty ring yields
// the inverted (180, 90) / (-180, -90) sentinels.
func BoundingBox(ring orb.Ring) orb.Bound {
	b := orb.Bound{Min: orb.Point{180, 90}, Max: orb.Point{-180, -90}}
	for _, p := range ring {
		b.Min = orb.Point{math.Min(b.Min[0], p[0]), math.Min(b.Min[1], p[1])}
		b.Max = orb.Point{math.Max(b.Max[0], p[0]), math.Max(b.Max[1], p[1])}
	}
	return b
}

// BoundingRing returns the closed 5-point rectangle of b.
func BoundingRing(b orb.Bound) orb.Ring {
	return orb.Ring{
		b.Min,
		{b.Max[0], b.Min[1]},
		b.Max,
		{b.Min[0], b.Max[1]},
		b.Min,
	}
}

// Diagonal returns the length in meters of the bounding box diagonal.
func Diagonal(b orb.Bound) float64 {
	return Distance(b.Min, b.Max)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
