// Package bootstrap wires configuration, logging, tracing and the optional
// integrations shared by the coverage commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/samirrijal/coverage-area/internal/adapters/boundaries"
	"github.com/samirrijal/coverage-area/internal/adapters/entityfile"
	natsadapter "github.com/samirrijal/coverage-area/internal/adapters/nats"
	"github.com/samirrijal/coverage-area/internal/adapters/postgres"
	"github.com/samirrijal/coverage-area/internal/adapters/valkey"
	"github.com/samirrijal/coverage-area/internal/core/ports"
	"github.com/samirrijal/coverage-area/internal/core/usecases"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
	"github.com/samirrijal/coverage-area/internal/pkg/logging"
	"github.com/samirrijal/coverage-area/internal/pkg/telemetry"
)

// Init loads the configuration and installs logging and tracing. The
// returned shutdown flushes pending spans.
func Init(ctx context.Context, service string, flags *pflag.FlagSet) (*config.Config, func(), error) {
	cfg, err := config.Load(service, flags)
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	stop, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		slog.Warn("telemetry init failed", "error", err)
		stop = func(context.Context) error { return nil }
	}

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stop(ctx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}
	return cfg, shutdown, nil
}

// Backends are the optional integrations of a fill run. Fields are nil
// when the integration is off or unreachable.
type Backends struct {
	Cache  *valkey.Cache
	Events *natsadapter.Publisher
}

// Connect opens the configured integrations. Failures are logged and the
// integration is left out.
func Connect(cfg *config.Config) *Backends {
	b := &Backends{}
	if cfg.Valkey.Addr != "" {
		cache, err := valkey.New(cfg.Valkey.Addr, "")
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			b.Cache = cache
		}
	}
	if cfg.NATS.URL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			b.Events = pub
		}
	}
	return b
}

// Close releases the open integrations.
func (b *Backends) Close() {
	if b.Cache != nil {
		b.Cache.Close()
	}
	if b.Events != nil {
		b.Events.Close()
	}
}

// Boundaries returns the boundary repository over the dataset cache.
func Boundaries(cfg *config.Config) *boundaries.Repository {
	return boundaries.NewRepository(boundaries.NewDownloader(boundaries.Config{
		CacheDir: cfg.Boundaries.CacheDir,
		BaseURL:  cfg.Boundaries.BaseURL,
		Version:  cfg.Boundaries.Version,
		Timeout:  time.Duration(cfg.Boundaries.DownloadTimeout) * time.Second,
	}))
}

// CoverageService builds the filler on the entity files and boundary
// datasets, using whichever backends are connected.
func CoverageService(cfg *config.Config, b *Backends) *usecases.CoverageService {
	var cache ports.CacheService
	if b.Cache != nil {
		cache = b.Cache
	}
	var events ports.EventPublisher
	if b.Events != nil {
		events = b.Events
	}
	return usecases.NewCoverageService(Boundaries(cfg), entityfile.NewRepository(), cache, events)
}

// BatchOptions returns the whole-repository options of cfg.
func BatchOptions(cfg *config.Config) usecases.BatchOptions {
	return usecases.BatchOptions{
		Threshold:     cfg.Batch.Threshold,
		Decimals:      cfg.Batch.Decimals,
		BoundingAreas: cfg.Batch.BoundingAreas,
		Force:         cfg.Simplify.Force,
		Merge:         cfg.Simplify.Merge,
	}
}

// Database connects to the coverage store.
func Database(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url is not set")
	}
	return postgres.New(ctx, cfg.Database.URL)
}
