package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/samirrijal/coverage-area/internal/adapters/entityfile"
	"github.com/samirrijal/coverage-area/internal/bootstrap"
	"github.com/samirrijal/coverage-area/internal/core/usecases"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
)

// coverage-geojson prints the aggregated coverage of a data directory.
func main() {
	flags := pflag.NewFlagSet("coverage-geojson", pflag.ExitOnError)
	config.Flags(flags)
	_ = flags.Parse(os.Args[1:])

	if err := run(flags); err != nil {
		slog.Error("coverage-geojson failed", "error", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet) error {
	ctx := context.Background()
	cfg, shutdown, err := bootstrap.Init(ctx, "coverage-geojson", flags)
	if err != nil {
		return err
	}
	defer shutdown()

	dir := cfg.Data.Dir
	if flags.NArg() > 0 {
		dir = flags.Arg(0)
	}
	if dir == "" {
		return fmt.Errorf("data directory is required")
	}

	fc, err := usecases.NewAggregateService(entityfile.NewRepository(), dir).Build(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(data))
	return err
}
