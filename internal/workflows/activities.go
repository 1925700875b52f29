package workflows

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/samirrijal/coverage-area/internal/core/usecases"
)

// CoverageActivities holds the activity implementations for the coverage
// refresh workflow.
type CoverageActivities struct {
	Batch *usecases.BatchService
}

// ListFiles returns the entity files of dir in processing order.
func (a *CoverageActivities) ListFiles(ctx context.Context, dir string) ([]string, error) {
	return a.Batch.Files(ctx, dir)
}

// FillFile fills and pretty-prints one entity file and reports whether it
// received a new area.
func (a *CoverageActivities) FillFile(ctx context.Context, path string, opts usecases.BatchOptions) (bool, error) {
	activity.GetLogger(ctx).Info("filling coverage", "file", path)
	return a.Batch.FillFile(ctx, path, opts)
}

// WriteAggregate writes the aggregated GeoJSON and returns its feature count.
func (a *CoverageActivities) WriteAggregate(ctx context.Context, dir, output string) (int, error) {
	return a.Batch.WriteAggregate(ctx, dir, output)
}
