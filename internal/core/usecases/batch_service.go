package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/core/ports"
	"github.com/samirrijal/coverage-area/internal/pkg/telemetry"
)

// BatchOptions control a refresh of a whole data directory.
type BatchOptions struct {
	Threshold float64
	Decimals  int
	// BoundingAreas maps a country directory to its bounding box filter
	// (minlat minlon maxlat maxlon).
	BoundingAreas map[string][]float64
	Force         bool
	Merge         bool
}

// SimplifyOptions returns the pipeline options for files of a country.
func (o BatchOptions) SimplifyOptions(country string) (domain.SimplifyOptions, error) {
	bbox, err := domain.NewBoundingBoxFilter(o.BoundingAreas[country])
	if err != nil {
		return domain.SimplifyOptions{}, fmt.Errorf("bounding area %s: %w", country, err)
	}
	return domain.SimplifyOptions{
		Threshold:   o.Threshold,
		Decimals:    o.Decimals,
		BoundingBox: bbox,
		Merge:       o.Merge,
	}, nil
}

// BatchResult summarises a batch run.
type BatchResult struct {
	Files    int `json:"files"`
	Filled   int `json:"filled"`
	Features int `json:"features"`
}

// BatchService fills, formats and aggregates every file of a data directory.
type BatchService struct {
	coverage *CoverageService
	entities ports.EntityRepository
	log      *slog.Logger
}

// NewBatchService creates a new BatchService.
func NewBatchService(coverage *CoverageService, entities ports.EntityRepository) *BatchService {
	return &BatchService{coverage: coverage, entities: entities, log: slog.Default()}
}

// Files lists the entity files of dir that live in a country directory.
func (s *BatchService) Files(ctx context.Context, dir string) ([]string, error) {
	all, err := s.entities.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(all))
	for _, path := range all {
		if _, country := domain.EntityName(path); country != "" {
			files = append(files, path)
		}
	}
	return files, nil
}

// FillFile fills and pretty-prints one file. It reports whether any
// classification received a new area.
func (s *BatchService) FillFile(ctx context.Context, path string, opts BatchOptions) (bool, error) {
	_, country := domain.EntityName(path)
	simplify, err := opts.SimplifyOptions(country)
	if err != nil {
		return false, err
	}

	s.log.Info("processing", "file", path)
	entity, err := s.coverage.Fill(ctx, path, simplify, opts.Force)
	if err != nil {
		return false, fmt.Errorf("fill %s: %w", path, err)
	}
	if err := s.entities.Prettify(ctx, path); err != nil {
		return false, fmt.Errorf("pretty-print %s: %w", path, err)
	}
	return entity.Updated(), nil
}

// WriteAggregate writes the coverage GeoJSON of dir to output and returns
// the number of features written.
func (s *BatchService) WriteAggregate(ctx context.Context, dir, output string) (int, error) {
	fc, err := NewAggregateService(s.entities, dir).Build(ctx)
	if err != nil {
		return 0, err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return 0, fmt.Errorf("encode coverage: %w", err)
	}
	if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", output, err)
	}
	s.log.Info("coverage written", "output", output, "features", len(fc.Features))
	return len(fc.Features), nil
}

// Run processes every file of dir in order, stopping at the first error,
// then writes the aggregation to output.
func (s *BatchService) Run(ctx context.Context, dir, output string, opts BatchOptions) (*BatchResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "BatchService.Run", attribute.String("dir", dir))
	defer span.End()

	files, err := s.Files(ctx, dir)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Files: len(files)}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		updated, err := s.FillFile(ctx, path, opts)
		if err != nil {
			span.RecordError(err)
			return result, err
		}
		if updated {
			result.Filled++
		}
	}

	if result.Features, err = s.WriteAggregate(ctx, dir, output); err != nil {
		span.RecordError(err)
		return result, err
	}
	return result, nil
}
