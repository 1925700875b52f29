package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/coverage-area/internal/core/usecases"
)

// RefreshInput is the input for the coverage refresh workflow.
type RefreshInput struct {
	Dir     string
	Output  string
	Options usecases.BatchOptions
}

// CoverageRefreshWorkflow fills every entity file of a data directory one
// after another, then writes the aggregated coverage. The first failing
// file ends the run.
func CoverageRefreshWorkflow(ctx workflow.Context, input RefreshInput) (*usecases.BatchResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting coverage refresh", "dir", input.Dir)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	var files []string
	if err := workflow.ExecuteActivity(ctx, "ListFiles", input.Dir).Get(ctx, &files); err != nil {
		return nil, err
	}

	result := &usecases.BatchResult{Files: len(files)}
	for _, path := range files {
		var updated bool
		if err := workflow.ExecuteActivity(ctx, "FillFile", path, input.Options).Get(ctx, &updated); err != nil {
			logger.Error("coverage refresh failed", "file", path, "error", err)
			return result, err
		}
		if updated {
			result.Filled++
		}
	}

	if err := workflow.ExecuteActivity(ctx, "WriteAggregate", input.Dir, input.Output).Get(ctx, &result.Features); err != nil {
		return result, err
	}

	logger.Info("Coverage refresh complete", "files", result.Files, "filled", result.Filled, "features", result.Features)
	return result, nil
}
