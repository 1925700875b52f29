package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Coordinate is a (longitude, latitude) pair in decimal degrees (WGS 84).
type Coordinate = orb.Point

// Ring is a closed sequence of coordinates (first == last).
type Ring = orb.Ring

// Polygon is an outer ring followed by zero or more holes.
type Polygon = orb.Polygon

// MultiPolygon is an ordered sequence of polygons.
type MultiPolygon = orb.MultiPolygon

// BoundingBox is the min/max corner pair of a set of coordinates.
type BoundingBox = orb.Bound

// NewBoundingBoxFilter builds a geographic filter from the
// min-lat, min-lon, max-lat, max-lon order used on the command line.
func NewBoundingBoxFilter(values []float64) (*BoundingBox, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("bounding box needs 4 values (minlat minlon maxlat maxlon), got %d", len(values))
	}
	minLat, minLon, maxLat, maxLon := values[0], values[1], values[2], values[3]
	if minLat > maxLat || minLon > maxLon {
		return nil, fmt.Errorf("bounding box min corner (%g, %g) exceeds max corner (%g, %g)", minLat, minLon, maxLat, maxLon)
	}
	return &BoundingBox{
		Min: orb.Point{minLon, minLat},
		Max: orb.Point{maxLon, maxLat},
	}, nil
}

// SimplifyOptions are the parameters shared by every stage of the
// simplification pipeline.
type SimplifyOptions struct {
	// Threshold is the simplification and offset distance in meters.
	Threshold float64
	// Decimals is the number of digits kept after the decimal point.
	Decimals int
	// BoundingBox drops rings entirely outside of it when set.
	BoundingBox *BoundingBox
	// Merge unites adjacent or overlapping polygons of a classification.
	Merge bool
}

// CacheKey identifies the options in cache keys.
func (o SimplifyOptions) CacheKey() string {
	bbox := "none"
	if o.BoundingBox != nil {
		bbox = fmt.Sprintf("%g,%g,%g,%g", o.BoundingBox.Min.Lat(), o.BoundingBox.Min.Lon(), o.BoundingBox.Max.Lat(), o.BoundingBox.Max.Lon())
	}
	return fmt.Sprintf("%g:%d:%s", o.Threshold, o.Decimals, bbox)
}
