package usecases

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/core/ports"
)

// CollectionName names the aggregated feature collection.
const CollectionName = "Transport API Repository Coverage Data"

// AggregateService collects the coverage areas of a data directory.
type AggregateService struct {
	entities ports.EntityRepository
	dir      string
}

// NewAggregateService creates an AggregateService reading dir.
func NewAggregateService(entities ports.EntityRepository, dir string) *AggregateService {
	return &AggregateService{entities: entities, dir: dir}
}

// Features returns one feature per existing area, files in sorted order and
// classifications in output order.
func (s *AggregateService) Features(ctx context.Context) ([]domain.CoverageFeature, error) {
	files, err := s.entities.List(ctx, s.dir)
	if err != nil {
		return nil, err
	}

	var features []domain.CoverageFeature
	for _, path := range files {
		areas, err := s.entities.Areas(ctx, path)
		if err != nil {
			return nil, err
		}
		id, country := domain.EntityName(path)
		for _, area := range areas {
			features = append(features, domain.CoverageFeature{
				Name:     id + "-" + area.Classification,
				EntityID: id,
				Country:  country,
				Geometry: area.Geometry,
			})
		}
	}
	return features, nil
}

// Feature returns the feature with the given name, or nil.
func (s *AggregateService) Feature(ctx context.Context, name string) (*domain.CoverageFeature, error) {
	features, err := s.Features(ctx)
	if err != nil {
		return nil, err
	}
	for i := range features {
		if features[i].Name == name {
			return &features[i], nil
		}
	}
	return nil, nil
}

// Build returns the GeoJSON document of every coverage area.
func (s *AggregateService) Build(ctx context.Context) (*geojson.FeatureCollection, error) {
	features, err := s.Features(ctx)
	if err != nil {
		return nil, err
	}
	return NewFeatureCollection(features)
}

// NewFeatureCollection converts features into a named GeoJSON collection.
func NewFeatureCollection(features []domain.CoverageFeature) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"name": CollectionName}
	for _, f := range features {
		feature, err := NewFeature(f)
		if err != nil {
			return nil, err
		}
		fc.Append(feature)
	}
	return fc, nil
}

// NewFeature converts a coverage feature into a GeoJSON feature named
// after it.
func NewFeature(f domain.CoverageFeature) (*geojson.Feature, error) {
	g, err := geojson.UnmarshalGeometry(f.Geometry)
	if err != nil {
		return nil, fmt.Errorf("%s: geometry: %w", f.Name, err)
	}
	feature := geojson.NewFeature(g.Geometry())
	feature.Properties["name"] = f.Name
	return feature, nil
}
