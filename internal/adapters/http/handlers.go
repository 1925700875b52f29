package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/coverage-area/internal/core/domain"
	"github.com/samirrijal/coverage-area/internal/core/usecases"
)

// ListCoverageHandler returns every coverage area as a named
// FeatureCollection. ?country=de restricts it to one country directory.
func ListCoverageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		country := strings.ToLower(c.Query("country"))
		if country != "" && !domain.RegionCode(country).IsCountry() {
			return errBadRequest(c, "country must be a two-letter code")
		}

		features, err := deps.Features.Features(c.UserContext())
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("list coverage", "error", err)
			return errInternal(c, "could not load coverage features")
		}
		if country != "" {
			features = filterCountry(features, country)
		}

		fc, err := usecases.NewFeatureCollection(features)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("X-Feature-Source", deps.Source)
		return c.JSON(fc)
	}
}

// GetCoverageHandler returns one feature by name, e.g.
// /v1/coverage/de-db-anyCoverage.
func GetCoverageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		f, err := deps.Features.Feature(c.UserContext(), name)
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("get coverage", "name", name, "error", err)
			return errInternal(c, "could not load coverage feature")
		}
		if f == nil {
			return errNotFound(c, "coverage feature not found: "+name)
		}

		feature, err := usecases.NewFeature(*f)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("X-Feature-Source", deps.Source)
		return c.JSON(feature)
	}
}

func filterCountry(features []domain.CoverageFeature, country string) []domain.CoverageFeature {
	var out []domain.CoverageFeature
	for _, f := range features {
		if f.Country == country {
			out = append(out, f)
		}
	}
	return out
}
