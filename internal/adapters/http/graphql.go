package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/coverage-area/internal/core/domain"
)

// buildSchema creates the GraphQL schema over the feature source.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	featureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CoverageFeature",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"entityId": &graphql.Field{Type: graphql.String},
			"country":  &graphql.Field{Type: graphql.String},
			"geometry": &graphql.Field{
				Type:        graphql.String,
				Description: "GeoJSON geometry",
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"features": &graphql.Field{
				Type:        graphql.NewList(featureType),
				Description: "List coverage features, optionally of one country",
				Args: graphql.FieldConfigArgument{
					"country": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					features, err := deps.Features.Features(p.Context)
					if err != nil {
						return nil, err
					}
					if country, ok := p.Args["country"].(string); ok && country != "" {
						features = filterCountry(features, strings.ToLower(country))
					}
					out := make([]map[string]interface{}, 0, len(features))
					for _, f := range features {
						out = append(out, featureFields(f))
					}
					return out, nil
				},
			},
			"feature": &graphql.Field{
				Type:        featureType,
				Description: "Get a coverage feature by name",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, err := deps.Features.Feature(p.Context, p.Args["name"].(string))
					if err != nil || f == nil {
						return nil, err
					}
					return featureFields(*f), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func featureFields(f domain.CoverageFeature) map[string]interface{} {
	return map[string]interface{}{
		"name":     f.Name,
		"entityId": f.EntityID,
		"country":  f.Country,
		"geometry": string(f.Geometry),
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
