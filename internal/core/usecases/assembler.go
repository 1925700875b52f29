package usecases

import (
	"log/slog"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/pkg/geospatial"
	"github.com/samirrijal/coverage-area/internal/pkg/metrics"
)

// Assembler runs every ring of a multi-polygon through the ring processor
// and the offsetter.
//
// Outer rings are grown by the threshold so the simplified shape still
// covers the boundary, holes are shrunk by it.
type Assembler struct {
	rings *RingProcessor
	opts  domain.SimplifyOptions
	log   *slog.Logger
}

// NewAssembler creates an Assembler for one set of options.
func NewAssembler(opts domain.SimplifyOptions, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{rings: NewRingProcessor(opts, log), opts: opts, log: log}
}

// Assemble returns the processed multi-polygon. Polygons whose outer ring
// does not survive are dropped; a lost hole only drops that hole.
func (a *Assembler) Assemble(mp domain.MultiPolygon) domain.MultiPolygon {
	out := make(domain.MultiPolygon, 0, len(mp))
	for _, poly := range mp {
		if len(poly) == 0 {
			continue
		}

		outer := a.rings.Process(poly[0])
		if len(outer) == 0 {
			metrics.PolygonsDropped.Inc()
			continue
		}
		outer = geospatial.OffsetRing(outer, a.opts.Threshold)
		if len(outer) == 0 {
			a.log.Debug("dropping polygon collapsed by offset")
			metrics.RingsDropped.WithLabelValues(metrics.ReasonOffsetCollapsed).Inc()
			metrics.PolygonsDropped.Inc()
			continue
		}

		result := domain.Polygon{geospatial.RoundRing(outer, a.opts.Decimals)}
		for _, hole := range poly[1:] {
			h := a.rings.Process(hole)
			if len(h) == 0 {
				continue
			}
			h = geospatial.OffsetRing(h, -a.opts.Threshold)
			if len(h) == 0 {
				a.log.Debug("dropping hole collapsed by offset")
				metrics.RingsDropped.WithLabelValues(metrics.ReasonOffsetCollapsed).Inc()
				continue
			}
			result = append(result, geospatial.RoundRing(h, a.opts.Decimals))
		}
		out = append(out, result)
	}
	return out
}

// Union merges the polygons of mp and rounds the result again.
func (a *Assembler) Union(mp domain.MultiPolygon) domain.MultiPolygon {
	if len(mp) < 2 {
		return mp
	}
	united := geospatial.Union(mp)
	for _, poly := range united {
		for _, ring := range poly {
			geospatial.RoundRing(ring, a.opts.Decimals)
		}
	}
	return united
}
