package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/pkg/metrics"
)

// CoverageRepo implements ports.CoverageStore on a PostGIS table.
type CoverageRepo struct {
	db *DB
}

// NewCoverageRepo creates a new CoverageRepo.
func NewCoverageRepo(db *DB) *CoverageRepo {
	return &CoverageRepo{db: db}
}

const upsertCoverage = `
	INSERT INTO coverage_areas (name, entity_id, country, geometry, updated_at)
	VALUES ($1, $2, $3, ST_SetSRID(ST_GeomFromGeoJSON($4), 4326), now())
	ON CONFLICT (name) DO UPDATE
	SET entity_id = EXCLUDED.entity_id, country = EXCLUDED.country,
	    geometry = EXCLUDED.geometry, updated_at = now()
`

// UpsertBatch inserts or updates features using pgx.Batch.
func (r *CoverageRepo) UpsertBatch(ctx context.Context, features []domain.CoverageFeature) error {
	defer func() { metrics.UpdateDBPoolMetrics(r.db.Stat()) }()

	batch := &pgx.Batch{}
	for _, f := range features {
		batch.Queue(upsertCoverage, f.Name, f.EntityID, nilEmpty(f.Country), string(f.Geometry))
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for _, f := range features {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert %s: %w", f.Name, err)
		}
	}
	return nil
}

// Features returns every stored feature ordered by name.
func (r *CoverageRepo) Features(ctx context.Context) ([]domain.CoverageFeature, error) {
	defer func() { metrics.UpdateDBPoolMetrics(r.db.Stat()) }()

	rows, err := r.db.Pool.Query(ctx, `
		SELECT name, entity_id, COALESCE(country, ''), ST_AsGeoJSON(geometry)
		FROM coverage_areas
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []domain.CoverageFeature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, *f)
	}
	return features, rows.Err()
}

// Feature returns one feature by name, or nil.
func (r *CoverageRepo) Feature(ctx context.Context, name string) (*domain.CoverageFeature, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT name, entity_id, COALESCE(country, ''), ST_AsGeoJSON(geometry)
		FROM coverage_areas
		WHERE name = $1
	`, name)
	f, err := scanFeature(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func scanFeature(row pgx.Row) (*domain.CoverageFeature, error) {
	var f domain.CoverageFeature
	var geometry string
	if err := row.Scan(&f.Name, &f.EntityID, &f.Country, &geometry); err != nil {
		return nil, err
	}
	f.Geometry = []byte(geometry)
	return &f, nil
}

func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
