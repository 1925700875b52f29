package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samirrijal/coverage-area/internal/adapters/postgres"
	"github.com/samirrijal/coverage-area/internal/bootstrap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down>")
		os.Exit(2)
	}

	ctx := context.Background()
	cfg, shutdown, err := bootstrap.Init(ctx, "coverage-migrate", nil)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	defer shutdown()

	db, err := bootstrap.Database(ctx, cfg)
	if err != nil {
		slog.Error("db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		err = runMigrations(ctx, db)
	case "down":
		_, err = db.Pool.Exec(ctx, "DROP TABLE IF EXISTS coverage_areas")
	default:
		err = fmt.Errorf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func runMigrations(ctx context.Context, db *postgres.DB) error {
	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		return err
	}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", f, err)
		}
		slog.Info("migration applied", "file", f)
	}

	slog.Info("all migrations applied", "count", len(files))
	return nil
}
