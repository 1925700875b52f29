package http

import (
	"context"

	"github.com/samirrijal/coverage-area/internal/core/ports"
)

// Pinger is a backend the readiness check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds everything the preview server handlers need.
type Dependencies struct {
	Features ports.FeatureSource
	// Source names where features come from ("files" or "database").
	Source string
	DB     Pinger
	Cache  Pinger
}
