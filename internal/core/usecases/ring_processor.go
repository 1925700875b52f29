package usecases

import (
	"log/slog"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/pkg/geospatial"
	"github.com/samirrijal/coverage-area/internal/pkg/metrics"
)

// RingProcessor filters and simplifies single rings.
type RingProcessor struct {
	opts domain.SimplifyOptions
	log  *slog.Logger
}

// NewRingProcessor creates a RingProcessor. A nil logger uses slog.Default.
func NewRingProcessor(opts domain.SimplifyOptions, log *slog.Logger) *RingProcessor {
	if log == nil {
		log = slog.Default()
	}
	return &RingProcessor{opts: opts, log: log}
}

// Process returns the simplified and rounded ring, or nil when the ring is
// dropped. The input ring is not modified.
func (p *RingProcessor) Process(ring domain.Ring) domain.Ring {
	if len(ring) == 0 {
		return nil
	}
	bbox := geospatial.BoundingBox(ring)

	if p.opts.BoundingBox != nil && !bbox.Intersects(*p.opts.BoundingBox) {
		p.log.Debug("dropping ring outside of bounding box filter", "bbox", bbox)
		metrics.RingsDropped.WithLabelValues(metrics.ReasonOutsideBoundingBox).Inc()
		return nil
	}

	// tiny enclaves and exclaves
	if geospatial.Diagonal(bbox) < p.opts.Threshold {
		p.log.Debug("dropping ring with bounding box below threshold", "bbox", bbox)
		metrics.RingsDropped.WithLabelValues(metrics.ReasonBelowThreshold).Inc()
		return nil
	}

	simplified := geospatial.DouglasPeucker(ring, p.opts.Threshold)
	if len(simplified) < 5 {
		p.log.Debug("ring degenerated, using bounding box instead", "bbox", bbox)
		metrics.RingsDegenerated.Inc()
		simplified = geospatial.BoundingRing(bbox)
	} else {
		removed := len(ring) - len(simplified)
		p.log.Debug("ring simplified", "removed", removed, "points", len(ring))
		metrics.PointsRemoved.Add(float64(removed))
	}

	out := make(domain.Ring, len(simplified))
	copy(out, simplified)
	return geospatial.RoundRing(out, p.opts.Decimals)
}
