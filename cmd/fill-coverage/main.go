package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/samirrijal/coverage-area/internal/bootstrap"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
)

func main() {
	flags := pflag.NewFlagSet("fill-coverage", pflag.ExitOnError)
	config.Flags(flags)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: fill-coverage [flags] <file.json>...")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	if err := run(flags); err != nil {
		slog.Error("fill-coverage failed", "error", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet) error {
	ctx := context.Background()
	cfg, shutdown, err := bootstrap.Init(ctx, "fill-coverage", flags)
	if err != nil {
		return err
	}
	defer shutdown()

	opts, err := cfg.Simplify.Options()
	if err != nil {
		return err
	}

	backends := bootstrap.Connect(cfg)
	defer backends.Close()
	svc := bootstrap.CoverageService(cfg, backends)

	for _, path := range flags.Args() {
		slog.Info("processing", "file", path)
		if _, err := svc.Fill(ctx, path, opts, cfg.Simplify.Force); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
