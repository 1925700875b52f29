package boundaries

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/pkg/metrics"
)

// ErrDatasetUnavailable is returned when a boundary dataset is not cached,
// typically after a failed download.
var ErrDatasetUnavailable = errors.New("boundary dataset unavailable")

// Repository looks up region boundaries in the cached ISO 3166 datasets.
type Repository struct {
	downloader *Downloader

	mu      sync.Mutex
	indexes map[string]map[string]domain.MultiPolygon
}

// NewRepository creates a Repository over the downloader's cache.
func NewRepository(downloader *Downloader) *Repository {
	return &Repository{
		downloader: downloader,
		indexes:    make(map[string]map[string]domain.MultiPolygon),
	}
}

// Version returns the dataset release the repository reads.
func (r *Repository) Version() string {
	return r.downloader.cfg.Version
}

// Lookup returns the boundary of a country (two-letter code) or
// subdivision code. The returned geometry is shared and must not be modified.
func (r *Repository) Lookup(ctx context.Context, code domain.RegionCode) (domain.MultiPolygon, bool, error) {
	ds := Subdivisions
	if code.IsCountry() {
		ds = Countries
	}

	index, err := r.index(ctx, ds)
	if err != nil {
		return nil, false, err
	}

	mp, ok := index[string(code)]
	if !ok {
		metrics.BoundaryLookups.WithLabelValues(ds.Name, "missing").Inc()
		return nil, false, nil
	}
	metrics.BoundaryLookups.WithLabelValues(ds.Name, "found").Inc()
	return mp, true, nil
}

func (r *Repository) index(ctx context.Context, ds Dataset) (map[string]domain.MultiPolygon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index, ok := r.indexes[ds.Name]; ok {
		return index, nil
	}

	if err := r.downloader.Ensure(ctx, ds); err != nil {
		return nil, err
	}

	path := r.downloader.Path(ds)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	index, err := parseIndex(data, ds.Property)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.indexes[ds.Name] = index
	return index, nil
}

// parseIndex maps region codes to their geometry; the first feature of a
// code wins.
func parseIndex(data []byte, property string) (map[string]domain.MultiPolygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	index := make(map[string]domain.MultiPolygon, len(fc.Features))
	for _, f := range fc.Features {
		code := f.Properties.MustString(property, "")
		if code == "" {
			continue
		}
		if _, dup := index[code]; dup {
			continue
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			index[code] = domain.MultiPolygon{g}
		case orb.MultiPolygon:
			index[code] = g
		}
	}
	return index, nil
}
