package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/core/ports"
	"github.com/samirrijal/coverage-area/internal/pkg/metrics"
	"github.com/samirrijal/coverage-area/internal/pkg/telemetry"
)

// regionCacheTTL bounds how long assembled region geometry is cached. Keys
// carry the boundary dataset version, so a version bump never serves stale
// geometry.
const regionCacheTTL = 24 * 60 * 60

// CoverageService fills missing coverage areas of entity files from
// region boundaries.
type CoverageService struct {
	boundaries ports.BoundaryRepository
	entities   ports.EntityRepository
	cache      ports.CacheService
	events     ports.EventPublisher
	log        *slog.Logger
}

// NewCoverageService creates a new CoverageService. cache and events are optional.
func NewCoverageService(boundaries ports.BoundaryRepository, entities ports.EntityRepository, cache ports.CacheService, events ports.EventPublisher) *CoverageService {
	return &CoverageService{
		boundaries: boundaries,
		entities:   entities,
		cache:      cache,
		events:     events,
		log:        slog.Default(),
	}
}

// Fill computes the area of every classification of the file at path that
// has none yet, or of every classification when force is set, and rewrites
// the file.
func (s *CoverageService) Fill(ctx context.Context, path string, opts domain.SimplifyOptions, force bool) (*domain.Entity, error) {
	ctx, span := telemetry.StartSpan(ctx, "CoverageService.Fill", attribute.String("path", path))
	defer span.End()

	entity, err := s.entities.Load(ctx, path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	assembler := NewAssembler(opts, s.log)
	var filled []string
	polygons := 0
	for i := range entity.Coverage {
		cov := &entity.Coverage[i]
		if cov.HasArea && !force {
			metrics.Classifications.WithLabelValues(metrics.ResultSkipped).Inc()
			continue
		}

		var combined domain.MultiPolygon
		for _, code := range cov.Regions {
			mp, err := s.region(ctx, assembler, code, opts)
			if err != nil {
				span.RecordError(err)
				return nil, fmt.Errorf("%s %s: %w", cov.Classification, code, err)
			}
			combined = append(combined, mp...)
		}
		if opts.Merge {
			combined = assembler.Union(combined)
		}

		if len(combined) == 0 {
			s.log.Info("no area for coverage", "entity", entity.ID, "coverage", cov.Classification)
			metrics.Classifications.WithLabelValues(metrics.ResultEmpty).Inc()
			continue
		}
		cov.Area = combined
		filled = append(filled, cov.Classification)
		polygons += len(combined)
		metrics.Classifications.WithLabelValues(metrics.ResultFilled).Inc()
	}

	if err := s.entities.Save(ctx, entity); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if len(filled) > 0 && s.events != nil {
		event := &domain.CoverageEvent{
			EntityID:        entity.ID,
			Country:         entity.Country,
			Path:            entity.Path,
			Classifications: filled,
			Polygons:        polygons,
			FilledAt:        time.Now().UTC(),
		}
		if err := s.events.PublishCoverageFilled(ctx, event); err != nil {
			s.log.Warn("publish coverage event failed", "entity", entity.ID, "error", err)
		}
	}

	return entity, nil
}

// region resolves and assembles one region code, going through the cache
// when one is configured.
func (s *CoverageService) region(ctx context.Context, assembler *Assembler, code domain.RegionCode, opts domain.SimplifyOptions) (domain.MultiPolygon, error) {
	ctx, span := telemetry.StartSpan(ctx, "CoverageService.region", attribute.String("region", string(code)))
	defer span.End()

	cacheKey := fmt.Sprintf("coverage:region:%s:%s:%s", s.boundaries.Version(), code, opts.CacheKey())
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			if g, err := geojson.UnmarshalGeometry(data); err == nil {
				if mp, ok := g.Geometry().(domain.MultiPolygon); ok {
					metrics.CacheHits.Inc()
					return mp, nil
				}
			}
		}
		metrics.CacheMisses.Inc()
	}

	boundary, found, err := s.boundaries.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if !found {
		s.log.Warn("no boundary for region", "region", code)
		return nil, nil
	}

	mp := assembler.Assemble(boundary)

	if s.cache != nil {
		if data, err := json.Marshal(geojson.NewGeometry(mp)); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, regionCacheTTL)
		}
	}
	return mp, nil
}
