package usecases_test

import (
	"context"
	"errors"

	"github.com/samirrijal/coverage-area/internal/core/domain"
)

// --- Mock BoundaryRepository ---

type mockBoundaries struct {
	regions map[domain.RegionCode]domain.MultiPolygon
	version string
	calls   int
	err     error
}

func (m *mockBoundaries) Version() string { return m.version }

func (m *mockBoundaries) Lookup(ctx context.Context, code domain.RegionCode) (domain.MultiPolygon, bool, error) {
	m.calls++
	if m.err != nil {
		return nil, false, m.err
	}
	mp, ok := m.regions[code]
	return mp, ok, nil
}

// --- Mock EntityRepository ---

type mockEntities struct {
	listFn     func(ctx context.Context, dir string) ([]string, error)
	loadFn     func(ctx context.Context, path string) (*domain.Entity, error)
	saveFn     func(ctx context.Context, entity *domain.Entity) error
	areasFn    func(ctx context.Context, path string) ([]domain.CoverageArea, error)
	prettifyFn func(ctx context.Context, path string) error
}

func (m *mockEntities) List(ctx context.Context, dir string) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, dir)
	}
	return nil, nil
}

func (m *mockEntities) Load(ctx context.Context, path string) (*domain.Entity, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, path)
	}
	return nil, errors.New("not found")
}

func (m *mockEntities) Save(ctx context.Context, entity *domain.Entity) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, entity)
	}
	return nil
}

func (m *mockEntities) Areas(ctx context.Context, path string) ([]domain.CoverageArea, error) {
	if m.areasFn != nil {
		return m.areasFn(ctx, path)
	}
	return nil, nil
}

func (m *mockEntities) Prettify(ctx context.Context, path string) error {
	if m.prettifyFn != nil {
		return m.prettifyFn(ctx, path)
	}
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	events []*domain.CoverageEvent
	err    error
}

func (m *mockPublisher) PublishCoverageFilled(ctx context.Context, event *domain.CoverageEvent) error {
	m.events = append(m.events, event)
	return m.err
}

// --- Mock CoverageStore ---

type mockStore struct {
	upserted []domain.CoverageFeature
	err      error
}

func (m *mockStore) Features(ctx context.Context) ([]domain.CoverageFeature, error) {
	return m.upserted, nil
}

func (m *mockStore) Feature(ctx context.Context, name string) (*domain.CoverageFeature, error) {
	for i := range m.upserted {
		if m.upserted[i].Name == name {
			return &m.upserted[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpsertBatch(ctx context.Context, features []domain.CoverageFeature) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, features...)
	return nil
}
