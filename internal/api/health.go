package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	ErrorType string `header:"Mcpcat-Error-Type"`
	Body      QueryResult[catalog.Health]
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, reg Registry, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Health"}

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "getCatalogHealth",
			Method:      http.MethodGet,
			Summary:     "Get the health of the catalog service",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
			return handleHealth(ctx, reg)
		},
	)
}

// handleHealth is the handler for the catalog's health.
// A failed check is reported as an unknown status rather than an error response.
func handleHealth(ctx context.Context, reg Registry) (*HealthResponse, error) {
	body := NewQueryResult(reg.Health(ctx))
	if body.Data == nil {
		unknown := catalog.UnknownHealth()
		body.Data = &unknown
	}

	return &HealthResponse{ErrorType: body.ErrorType(), Body: body}, nil
}
