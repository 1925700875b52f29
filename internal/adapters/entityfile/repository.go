package entityfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/buger/jsonparser"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/coverage-area/internal/core/domain"
)

var (
	// ErrMissingCoverage is returned for files without a coverage object.
	ErrMissingCoverage = errors.New("missing coverage")
	// ErrMissingRegion is returned for a classification without area that
	// has no region list.
	ErrMissingRegion = errors.New("missing region")
)

// Repository reads and writes Transport API data files on disk.
type Repository struct{}

// NewRepository creates a new Repository.
func NewRepository() *Repository {
	return &Repository{}
}

// List returns every <dir>/<cc>/<name>.json file in sorted order.
func (r *Repository) List(ctx context.Context, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads the coverage classifications of a file in file order.
func (r *Repository) Load(ctx context.Context, path string) (*domain.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	entity, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	entity.ID, entity.Country = domain.EntityName(path)
	entity.Path = path
	return entity, nil
}

// Parse decodes the coverage block of a data file.
func Parse(data []byte) (*domain.Entity, error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON")
	}
	coverage, dt, _, err := jsonparser.Get(data, "coverage")
	if err != nil || dt != jsonparser.Object {
		return nil, ErrMissingCoverage
	}

	entity := &domain.Entity{Raw: data}
	err = jsonparser.ObjectEach(coverage, func(key, value []byte, _ jsonparser.ValueType, _ int) error {
		cov := domain.Coverage{Classification: string(key)}
		_, _, _, err := jsonparser.Get(value, "area")
		cov.HasArea = err == nil

		regions, rt, _, err := jsonparser.Get(value, "region")
		if err != nil || rt != jsonparser.Array {
			if cov.HasArea {
				entity.Coverage = append(entity.Coverage, cov)
				return nil
			}
			return fmt.Errorf("%w in %s", ErrMissingRegion, cov.Classification)
		}

		var parseErr error
		_, err = jsonparser.ArrayEach(regions, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
			if vt != jsonparser.String || parseErr != nil {
				return
			}
			code, err := jsonparser.ParseString(v)
			if err != nil {
				parseErr = err
				return
			}
			cov.Regions = append(cov.Regions, domain.RegionCode(code))
		})
		if err == nil {
			err = parseErr
		}
		if err != nil {
			return fmt.Errorf("region of %s: %w", cov.Classification, err)
		}

		entity.Coverage = append(entity.Coverage, cov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Save sets the computed areas in place, keeping every other member and its
// order, and rewrites the file with two-space indentation.
func (r *Repository) Save(ctx context.Context, entity *domain.Entity) error {
	data, err := Encode(entity)
	if err != nil {
		return fmt.Errorf("%s: %w", entity.Path, err)
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(entity.Path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(entity.Path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", entity.Path, err)
	}
	return nil
}

// Encode returns the indented document of entity with its computed areas.
func Encode(entity *domain.Entity) ([]byte, error) {
	data := entity.Raw
	for _, cov := range entity.Coverage {
		if len(cov.Area) == 0 {
			continue
		}
		area, err := json.Marshal(geojson.NewGeometry(cov.Area))
		if err != nil {
			return nil, fmt.Errorf("encode area of %s: %w", cov.Classification, err)
		}
		if data, err = jsonparser.Set(data, area, "coverage", cov.Classification, "area"); err != nil {
			return nil, fmt.Errorf("set area of %s: %w", cov.Classification, err)
		}
	}
	return Indent(data)
}

// Areas returns the existing areas of a file in classification order.
// Files without coverage have no areas.
func (r *Repository) Areas(ctx context.Context, path string) ([]domain.CoverageArea, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: invalid JSON", path)
	}

	var areas []domain.CoverageArea
	for _, cls := range domain.Classifications {
		area, dt, _, err := jsonparser.Get(data, "coverage", cls, "area")
		if err != nil || dt != jsonparser.Object {
			continue
		}
		areas = append(areas, domain.CoverageArea{
			Classification: cls,
			Geometry:       append(json.RawMessage(nil), area...),
		})
	}
	return areas, nil
}

// Prettify reformats a file in place.
func (r *Repository) Prettify(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	out, err := Prettify(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
