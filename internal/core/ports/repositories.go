package ports

import (
	"context"

	"github.com/samirrijal/coverage-area/internal/core/domain"
)

// BoundaryRepository resolves region codes to boundary geometry.
type BoundaryRepository interface {
	// Lookup returns found=false when no feature carries the code.
	Lookup(ctx context.Context, code domain.RegionCode) (domain.MultiPolygon, bool, error)
	// Version names the boundary dataset release the geometry comes from.
	Version() string
}

// EntityRepository reads and rewrites coverage-bearing data files.
type EntityRepository interface {
	// List returns every <dir>/<cc>/<name>.json file in sorted order.
	List(ctx context.Context, dir string) ([]string, error)
	Load(ctx context.Context, path string) (*domain.Entity, error)
	// Save writes the entity back in place, setting the areas computed in Coverage.
	Save(ctx context.Context, entity *domain.Entity) error
	// Areas returns the existing areas of a file in classification order.
	Areas(ctx context.Context, path string) ([]domain.CoverageArea, error)
	Prettify(ctx context.Context, path string) error
}

// FeatureSource serves aggregated coverage features.
type FeatureSource interface {
	Features(ctx context.Context) ([]domain.CoverageFeature, error)
	// Feature returns nil when no feature has the name.
	Feature(ctx context.Context, name string) (*domain.CoverageFeature, error)
}

// CoverageStore persists aggregated coverage features.
type CoverageStore interface {
	FeatureSource
	UpsertBatch(ctx context.Context, features []domain.CoverageFeature) error
}
