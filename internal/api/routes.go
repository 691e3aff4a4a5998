package api

import (
	"context"
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// Registry answers the catalog queries served by the API.
type Registry interface {
	Browse(ctx context.Context, text string, filters catalog.SearchFilters) cache.Result[catalog.ServerListResult]
	Server(ctx context.Context, id string) cache.Result[catalog.ServerDetail]
	Health(ctx context.Context) cache.Result[catalog.Health]
	Facets(ctx context.Context, text string, filters catalog.SearchFilters) cache.Result[search.Facets]
	Stats(ctx context.Context) cache.Result[search.Stats]
	Clear()
}

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(router huma.API, reg Registry) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if reg == nil || reflect.ValueOf(reg).IsNil() {
		return "", fmt.Errorf("registry cannot be nil")
	}

	// Extract API version from the router's OpenAPI spec.
	apiVersionID := router.OpenAPI().Info.Version

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", apiVersionID)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterHealthRoutes(versionedGroup, reg, "/health")
	RegisterServerRoutes(versionedGroup, reg, "/servers")
	RegisterCatalogRoutes(versionedGroup, reg)
	RegisterCacheRoutes(versionedGroup, reg, "/cache")

	return apiPathPrefix, nil
}
