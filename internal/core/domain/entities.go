package domain

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Coverage classifications known to the Transport API repository.
const (
	AnyCoverage      = "anyCoverage"
	RegularCoverage  = "regularCoverage"
	RealtimeCoverage = "realtimeCoverage"
)

// Classifications lists the coverage classifications in output order.
var Classifications = []string{AnyCoverage, RegularCoverage, RealtimeCoverage}

// RegionCode is an ISO 3166-1 alpha-2 country code ("DE") or an
// ISO 3166-2 subdivision code ("DE-BY").
type RegionCode string

// IsCountry reports whether the code resolves against country boundaries.
func (c RegionCode) IsCountry() bool {
	return len(c) == 2
}

// Coverage is one classification of an entity's coverage block.
type Coverage struct {
	Classification string       `json:"classification"`
	Regions        []RegionCode `json:"region"`
	// HasArea is true when the file already carries an area.
	HasArea bool `json:"has_area"`
	// Area is set when a new area was computed for this classification.
	Area MultiPolygon `json:"-"`
}

// Entity is a coverage-bearing Transport API data file.
type Entity struct {
	ID       string     `json:"id"`
	Country  string     `json:"country,omitempty"`
	Path     string     `json:"path"`
	Coverage []Coverage `json:"coverage"`
	// Raw holds the file content as read.
	Raw []byte `json:"-"`
}

// Updated reports whether any classification received a new area.
func (e *Entity) Updated() bool {
	for _, c := range e.Coverage {
		if len(c.Area) > 0 {
			return true
		}
	}
	return false
}

// CoverageArea is an existing area of one classification as stored in a file.
type CoverageArea struct {
	Classification string
	Geometry       json.RawMessage
}

// CoverageFeature is one aggregated classification geometry.
type CoverageFeature struct {
	Name     string          `json:"name"`
	EntityID string          `json:"entity_id"`
	Country  string          `json:"country,omitempty"`
	Geometry json.RawMessage `json:"geometry"`
}

// CoverageEvent is published when an entity file received new areas.
type CoverageEvent struct {
	EntityID        string    `json:"entity_id"`
	Country         string    `json:"country,omitempty"`
	Path            string    `json:"path"`
	Classifications []string  `json:"classifications"`
	Polygons        int       `json:"polygons"`
	FilledAt        time.Time `json:"filled_at"`
}

var entityPathRe = regexp.MustCompile(`/([a-z]{2})/(.*)\.json`)

// EntityName derives the entity id and country from a data file path:
// "<data>/de/db.json" yields ("de-db", "de").
func EntityName(path string) (id, country string) {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	if m := entityPathRe.FindStringSubmatch(slashed); m != nil {
		return m[1] + "-" + m[2], m[1]
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)), ""
}
