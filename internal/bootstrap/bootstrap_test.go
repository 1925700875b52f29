package bootstrap_test

import (
	"testing"

	"github.com/samirrijal/coverage-area/internal/bootstrap"
	"github.com/samirrijal/coverage-area/internal/pkg/config"
)

func TestConnect_NothingConfigured(t *testing.T) {
	b := bootstrap.Connect(&config.Config{})
	defer b.Close()

	if b.Cache != nil || b.Events != nil {
		t.Errorf("expected no backends, got %+v", b)
	}
	if svc := bootstrap.CoverageService(&config.Config{}, b); svc == nil {
		t.Error("expected a coverage service")
	}
}

func TestBatchOptions(t *testing.T) {
	cfg := &config.Config{
		Simplify: config.SimplifyConfig{Threshold: 100, Decimals: 5, Force: true, Merge: true},
		Batch: config.BatchConfig{
			Threshold:     5000,
			Decimals:      2,
			BoundingAreas: map[string][]float64{"de": {36.5, -9, 71, 40}},
		},
	}

	opts := bootstrap.BatchOptions(cfg)
	if opts.Threshold != 5000 || opts.Decimals != 2 {
		t.Errorf("batch settings not used: %+v", opts)
	}
	if !opts.Force || !opts.Merge {
		t.Errorf("force/merge not carried: %+v", opts)
	}

	simplify, err := opts.SimplifyOptions("de")
	if err != nil {
		t.Fatal(err)
	}
	if simplify.BoundingBox == nil {
		t.Error("de should have a bounding box")
	}
}

func TestDatabase_RequiresURL(t *testing.T) {
	if _, err := bootstrap.Database(t.Context(), &config.Config{}); err == nil {
		t.Error("expected error without database.url")
	}
}
