package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

// FacetsRequest represents the incoming API request for facet counts.
type FacetsRequest struct {
	Query string `doc:"Free text the counted servers must match" example:"python" query:"q"`
}

// FacetsResponse represents the wrapped API response for facet counts.
type FacetsResponse struct {
	ErrorType string `header:"Mcpcat-Error-Type"`
	Body      QueryResult[search.Facets]
}

// StatsResponse represents the wrapped API response for catalog statistics.
type StatsResponse struct {
	ErrorType string `header:"Mcpcat-Error-Type"`
	Body      QueryResult[search.Stats]
}

// RegisterCatalogRoutes sets up the endpoints that summarize the catalog.
func RegisterCatalogRoutes(routerAPI huma.API, reg Registry) {
	tags := []string{"Catalog"}

	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "getFacets",
			Method:      http.MethodGet,
			Path:        "/facets",
			Summary:     "Count servers by technology and category",
			Tags:        tags,
		},
		func(ctx context.Context, input *FacetsRequest) (*FacetsResponse, error) {
			return handleFacets(ctx, reg, input.Query)
		},
	)

	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "getStats",
			Method:      http.MethodGet,
			Path:        "/stats",
			Summary:     "Summarize the catalog",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
			return handleStats(ctx, reg)
		},
	)
}

func handleFacets(ctx context.Context, reg Registry, text string) (*FacetsResponse, error) {
	res := reg.Facets(ctx, text, catalog.SearchFilters{})
	if err := resultError(res); err != nil {
		return nil, err
	}

	body := NewQueryResult(res)
	return &FacetsResponse{ErrorType: body.ErrorType(), Body: body}, nil
}

func handleStats(ctx context.Context, reg Registry) (*StatsResponse, error) {
	res := reg.Stats(ctx)
	if err := resultError(res); err != nil {
		return nil, err
	}

	body := NewQueryResult(res)
	return &StatsResponse{ErrorType: body.ErrorType(), Body: body}, nil
}
