package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/samirrijal/coverage-area/internal/adapters/entityfile"
	"github.com/samirrijal/coverage-area/internal/bootstrap"
	"github.com/samirrijal/coverage-area/internal/core/usecases"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
)

func main() {
	flags := pflag.NewFlagSet("build", pflag.ExitOnError)
	config.Flags(flags)
	_ = flags.Parse(os.Args[1:])

	if err := run(flags); err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, shutdown, err := bootstrap.Init(ctx, "build", flags)
	if err != nil {
		return err
	}
	defer shutdown()
	if cfg.Data.Dir == "" {
		return fmt.Errorf("--data is required")
	}

	backends := bootstrap.Connect(cfg)
	defer backends.Close()

	batch := usecases.NewBatchService(bootstrap.CoverageService(cfg, backends), entityfile.NewRepository())
	result, err := batch.Run(ctx, cfg.Data.Dir, cfg.Data.Output, bootstrap.BatchOptions(cfg))
	if err != nil {
		return err
	}
	slog.Info("build complete", "files", result.Files, "filled", result.Filled, "features", result.Features)
	return nil
}
