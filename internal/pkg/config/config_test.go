package config_test

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/samirrijal/coverage-area/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("fill-coverage", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simplify.Threshold != 5000 || cfg.Simplify.Decimals != 2 {
		t.Errorf("simplify = %+v", cfg.Simplify)
	}
	if cfg.Boundaries.Version != "2021-08-16" {
		t.Errorf("boundaries.version = %q", cfg.Boundaries.Version)
	}
	if cfg.Boundaries.DownloadTimeout != 0 {
		t.Errorf("boundaries.download_timeout = %d, want no client timeout", cfg.Boundaries.DownloadTimeout)
	}
	if cfg.Data.Output != "coverage.geojson" {
		t.Errorf("data.output = %q", cfg.Data.Output)
	}
	if cfg.Telemetry.ServiceName != "fill-coverage" {
		t.Errorf("telemetry.service_name = %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Temporal.TaskQueue != "coverage-refresh" {
		t.Errorf("temporal.task_queue = %q", cfg.Temporal.TaskQueue)
	}
	box := cfg.Batch.BoundingAreas["de"]
	if len(box) != 4 || box[0] != 36.5 || box[3] != 40 {
		t.Errorf("batch.bounding_areas.de = %v", box)
	}
	if _, ok := cfg.Batch.BoundingAreas["fr"]; ok {
		t.Error("fr should have no bounding area")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("COVERAGE_SIMPLIFY_DECIMALS", "4")
	t.Setenv("COVERAGE_NATS_URL", "nats://localhost:4222")

	cfg, err := config.Load("test", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simplify.Decimals != 4 {
		t.Errorf("decimals = %d, want 4", cfg.Simplify.Decimals)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("nats.url = %q", cfg.NATS.URL)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("COVERAGE_SIMPLIFY_THRESHOLD", "2000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.Flags(flags)
	if err := flags.Parse([]string{"--threshold", "1000", "--merge", "--bounding-box", "36.5,-9,71,40"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("test", flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simplify.Threshold != 1000 {
		t.Errorf("threshold = %g, want 1000", cfg.Simplify.Threshold)
	}
	if !cfg.Simplify.Merge {
		t.Error("merge should be set")
	}

	opts, err := cfg.Simplify.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.BoundingBox == nil || opts.BoundingBox.Min.Lat() != 36.5 || opts.BoundingBox.Max.Lon() != 40 {
		t.Errorf("bounding box = %+v", opts.BoundingBox)
	}
}

func TestLoad_BoundingBoxSeparators(t *testing.T) {
	for _, arg := range []string{"36.5,-9,71,40", "36.5 -9 71 40", "36.5, -9, 71, 40"} {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		config.Flags(flags)
		if err := flags.Parse([]string{"--bounding-box", arg}); err != nil {
			t.Fatalf("parse %q: %v", arg, err)
		}

		cfg, err := config.Load("test", flags)
		if err != nil {
			t.Fatalf("Load %q: %v", arg, err)
		}
		box := cfg.Simplify.BoundingBox
		if len(box) != 4 || box[0] != 36.5 || box[1] != -9 || box[2] != 71 || box[3] != 40 {
			t.Errorf("%q: bounding box = %v", arg, box)
		}
	}
}

func TestFlags_BoundingBoxRejectsNonNumbers(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	config.Flags(flags)
	if err := flags.Parse([]string{"--bounding-box", "36.5 west 71 40"}); err == nil {
		t.Error("expected parse error")
	}
}

func validConfig() config.Config {
	return config.Config{
		Simplify:   config.SimplifyConfig{Threshold: 5000, Decimals: 2},
		Batch:      config.BatchConfig{Threshold: 5000, Decimals: 2},
		Boundaries: config.BoundariesConfig{},
		Server:     config.ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Telemetry:  config.TelemetryConfig{Exporter: "stdout"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Simplify.Threshold = 0
	cfg.Simplify.Decimals = 16
	cfg.Simplify.BoundingBox = []float64{1, 2, 3}
	cfg.Server.Port = 70000
	cfg.Telemetry.Exporter = "jaeger"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{
		"simplify.threshold",
		"simplify.decimals",
		"simplify.bounding_box must have 4 values",
		"server.port",
		"telemetry.exporter",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidate_NegativeDownloadTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Boundaries.DownloadTimeout = -1

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "boundaries.download_timeout") {
		t.Errorf("err = %v", err)
	}
}

func TestValidate_InvertedBoundingArea(t *testing.T) {
	cfg := validConfig()
	cfg.Batch.BoundingAreas = map[string][]float64{"de": {71, 40, 36.5, -9}}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "batch.bounding_areas.de") {
		t.Errorf("err = %v", err)
	}
}
