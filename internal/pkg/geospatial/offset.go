package geospatial

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ClipperScale converts degrees to Clipper's integer coordinates
// (100 nano-degrees, as in OSM).
const ClipperScale = 10000000

// metersPerDegree along a meridian, the fallback scale for rings without a
// usable width.
const metersPerDegree = EarthRadius * math.Pi / 180

// DegreesForMeters converts a distance in meters to a coordinate-space
// distance using the ring's bounding-box width at its central latitude.
// Rings 180 degrees wide or more are measured with the parallel scale
// instead, since haversine takes the short way round.
func DegreesForMeters(ring orb.Ring, meters float64) float64 {
	b := BoundingBox(ring)
	latCenter := (b.Min.Lat() + b.Max.Lat()) / 2
	widthDegrees := b.Max.Lon() - b.Min.Lon()
	if widthDegrees > 0 && widthDegrees < 180 {
		widthMeters := Distance(orb.Point{b.Min.Lon(), latCenter}, orb.Point{b.Max.Lon(), latCenter})
		if d := widthDegrees / widthMeters * meters; widthMeters > 0 && !math.IsInf(d, 0) && !math.IsNaN(d) {
			return d
		}
	}
	if widthDegrees > 0 {
		if scale := math.Cos(latCenter * math.Pi / 180); scale > 1e-6 {
			return meters / (metersPerDegree * scale)
		}
	}
	return meters / metersPerDegree
}

// OffsetRing grows (positive meters) or shrinks (negative meters) a closed
// ring with mitered joins. The result is closed, or empty when the ring
// collapsed entirely.
func OffsetRing(ring orb.Ring, meters float64) orb.Ring {
	if len(ring) < 3 {
		return nil
	}
	delta := DegreesForMeters(ring, math.Abs(meters)) * ClipperScale
	if meters < 0 {
		delta = -delta
	}

	co := clipper.NewClipperOffset()
	co.AddPath(toClipperPath(counterClockwise(ring)), clipper.JtMiter, clipper.EtClosedPolygon)
	solution := co.Execute(delta)

	var best orb.Ring
	bestArea := 0.0
	for _, path := range solution {
		r := fromClipperPath(path)
		if len(r) < 3 {
			continue
		}
		if a := math.Abs(planar.Area(r)); best == nil || a > bestArea {
			best, bestArea = r, a
		}
	}
	if best == nil {
		return nil
	}
	return closeRing(best)
}

// Union merges overlapping or adjacent polygons with a non-zero fill rule.
// Holes of the union are attached to the outer ring containing them.
func Union(mp orb.MultiPolygon) orb.MultiPolygon {
	c := clipper.NewClipper(0)
	for _, poly := range mp {
		paths := make(clipper.Paths, 0, len(poly))
		for i, ring := range poly {
			r := counterClockwise(ring)
			if i > 0 {
				r = clockwise(ring)
			}
			paths = append(paths, toClipperPath(r))
		}
		c.AddPaths(paths, clipper.PtSubject, true)
	}

	solution, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return mp
	}

	var outers orb.MultiPolygon
	var holes []orb.Ring
	for _, path := range solution {
		r := fromClipperPath(path)
		if len(r) < 3 {
			continue
		}
		r = closeRing(r)
		if r.Orientation() == orb.CW {
			holes = append(holes, r)
			continue
		}
		outers = append(outers, orb.Polygon{r})
	}

	for _, h := range holes {
		for i := range outers {
			if planar.RingContains(outers[i][0], h[0]) {
				outers[i] = append(outers[i], h)
				break
			}
		}
	}
	return outers
}

func toClipperPath(ring orb.Ring) clipper.Path {
	path := make(clipper.Path, 0, len(ring))
	for _, p := range ring {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(p[0] * ClipperScale)),
			Y: clipper.CInt(math.Round(p[1] * ClipperScale)),
		})
	}
	return path
}

func fromClipperPath(path clipper.Path) orb.Ring {
	ring := make(orb.Ring, 0, len(path)+1)
	for _, p := range path {
		ring = append(ring, orb.Point{float64(p.X) / ClipperScale, float64(p.Y) / ClipperScale})
	}
	return ring
}

// closeRing repeats the first point at the end; Clipper returns open paths.
func closeRing(ring orb.Ring) orb.Ring {
	if len(ring) == 0 || ring.Closed() {
		return ring
	}
	return append(ring, ring[0])
}

func counterClockwise(ring orb.Ring) orb.Ring {
	if ring.Orientation() == orb.CW {
		return reversed(ring)
	}
	return ring
}

func clockwise(ring orb.Ring) orb.Ring {
	if ring.Orientation() == orb.CCW {
		return reversed(ring)
	}
	return ring
}

func reversed(ring orb.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}
