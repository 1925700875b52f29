package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/coverage-area/internal/adapters/entityfile"
	"github.com/samirrijal/coverage-area/internal/bootstrap"
	"github.com/samirrijal/coverage-area/internal/core/usecases"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
	"github.com/samirrijal/coverage-area/internal/workflows"
)

// coverage-worker runs the coverage refresh workflow worker. With --start
// it submits one refresh of the data directory instead and waits for it.
func main() {
	flags := pflag.NewFlagSet("coverage-worker", pflag.ExitOnError)
	config.Flags(flags)
	start := flags.Bool("start", false, "start a refresh workflow and wait for its result")
	_ = flags.Parse(os.Args[1:])

	if err := run(flags, *start); err != nil {
		slog.Error("coverage-worker failed", "error", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet, start bool) error {
	ctx := context.Background()
	cfg, shutdown, err := bootstrap.Init(ctx, "coverage-worker", flags)
	if err != nil {
		return err
	}
	defer shutdown()
	if cfg.Temporal.HostPort == "" {
		return fmt.Errorf("temporal.host_port is not set")
	}

	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
		Logger:   slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	if start {
		return startRefresh(ctx, c, cfg)
	}

	backends := bootstrap.Connect(cfg)
	defer backends.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		// files are rewritten in place, one at a time
		MaxConcurrentActivityExecutionSize: 1,
	})
	w.RegisterWorkflow(workflows.CoverageRefreshWorkflow)
	w.RegisterActivity(&workflows.CoverageActivities{
		Batch: usecases.NewBatchService(bootstrap.CoverageService(cfg, backends), entityfile.NewRepository()),
	})

	slog.Info("coverage worker started", "task_queue", cfg.Temporal.TaskQueue)
	return w.Run(worker.InterruptCh())
}

func startRefresh(ctx context.Context, c client.Client, cfg *config.Config) error {
	if cfg.Data.Dir == "" {
		return fmt.Errorf("--data is required")
	}
	we, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "coverage-refresh",
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.CoverageRefreshWorkflow, workflows.RefreshInput{
		Dir:     cfg.Data.Dir,
		Output:  cfg.Data.Output,
		Options: bootstrap.BatchOptions(cfg),
	})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	slog.Info("refresh started", "workflow_id", we.GetID(), "run_id", we.GetRunID())

	var result usecases.BatchResult
	if err := we.Get(ctx, &result); err != nil {
		return err
	}
	slog.Info("refresh complete", "files", result.Files, "filled", result.Filled, "features", result.Features)
	return nil
}
