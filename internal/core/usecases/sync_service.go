package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/coverage-area/internal/core/ports"
)

// SyncService copies aggregated coverage features into a store.
type SyncService struct {
	source ports.FeatureSource
	store  ports.CoverageStore
}

// NewSyncService creates a new SyncService.
func NewSyncService(source ports.FeatureSource, store ports.CoverageStore) *SyncService {
	return &SyncService{source: source, store: store}
}

// Sync upserts every feature of the source and returns how many were written.
func (s *SyncService) Sync(ctx context.Context) (int, error) {
	features, err := s.source.Features(ctx)
	if err != nil {
		return 0, fmt.Errorf("collect features: %w", err)
	}
	if len(features) == 0 {
		return 0, nil
	}
	if err := s.store.UpsertBatch(ctx, features); err != nil {
		return 0, fmt.Errorf("upsert features: %w", err)
	}
	return len(features), nil
}
