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
	natsadapter "github.com/samirrijal/coverage-area/internal/adapters/nats"
	"github.com/samirrijal/coverage-area/internal/adapters/postgres"
	"github.com/samirrijal/coverage-area/internal/bootstrap"
	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/core/usecases"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
)

// coverage-sync copies the aggregated coverage of a data directory into
// PostGIS. With --follow it stays subscribed and syncs again whenever a
// file receives new coverage.
func main() {
	flags := pflag.NewFlagSet("coverage-sync", pflag.ExitOnError)
	config.Flags(flags)
	follow := flags.Bool("follow", false, "re-sync on every coverage.filled event")
	_ = flags.Parse(os.Args[1:])

	if err := run(flags, *follow); err != nil {
		slog.Error("coverage-sync failed", "error", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet, follow bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, shutdown, err := bootstrap.Init(ctx, "coverage-sync", flags)
	if err != nil {
		return err
	}
	defer shutdown()
	if cfg.Data.Dir == "" {
		return fmt.Errorf("--data is required")
	}

	db, err := bootstrap.Database(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	sync := usecases.NewSyncService(
		usecases.NewAggregateService(entityfile.NewRepository(), cfg.Data.Dir),
		postgres.NewCoverageRepo(db),
	)

	n, err := sync.Sync(ctx)
	if err != nil {
		return err
	}
	slog.Info("coverage synced", "features", n)

	if !follow {
		return nil
	}
	if cfg.NATS.URL == "" {
		return fmt.Errorf("--follow needs nats.url")
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer sub.Close()

	err = sub.SubscribeCoverageFilled(ctx, "coverage-sync", func(ctx context.Context, event *domain.CoverageEvent) error {
		n, err := sync.Sync(ctx)
		if err != nil {
			slog.Error("coverage sync failed", "entity", event.EntityID, "error", err)
			return err
		}
		slog.Info("coverage synced", "entity", event.EntityID, "features", n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	slog.Info("following coverage events")
	<-ctx.Done()
	return nil
}
