package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"

	httpadapter "github.com/samirrijal/coverage-area/internal/adapters/http"
	"github.com/samirrijal/coverage-area/internal/adapters/entityfile"
	"github.com/samirrijal/coverage-area/internal/adapters/postgres"
	"github.com/samirrijal/coverage-area/internal/bootstrap"
	"github.com/samirrijal/coverage-area/internal/core/usecases"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
)

func main() {
	flags := pflag.NewFlagSet("coverage-server", pflag.ExitOnError)
	config.Flags(flags)
	_ = flags.Parse(os.Args[1:])

	if err := run(flags); err != nil {
		slog.Error("coverage-server failed", "error", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, shutdown, err := bootstrap.Init(ctx, "coverage-server", flags)
	if err != nil {
		return err
	}
	defer shutdown()

	deps := &httpadapter.Dependencies{}

	// Database-backed features when configured, otherwise the data directory.
	if cfg.Database.URL != "" {
		db, err := bootstrap.Database(ctx, cfg)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		deps.Features = postgres.NewCoverageRepo(db)
		deps.Source = "database"
		deps.DB = db
	} else {
		if cfg.Data.Dir == "" {
			return fmt.Errorf("--data or database.url is required")
		}
		deps.Features = usecases.NewAggregateService(entityfile.NewRepository(), cfg.Data.Dir)
		deps.Source = "files"
	}

	backends := bootstrap.Connect(cfg)
	defer backends.Close()
	if backends.Cache != nil {
		deps.Cache = backends.Cache
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             1024 * 1024,
		AppName:               "Coverage Preview",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	httpadapter.SetupRoutes(app, deps)

	errc := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("coverage server starting", "addr", addr, "source", deps.Source)
		errc <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received, draining connections", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
