//go:build docsgen_api
// +build docsgen_api

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpcat/internal/api"
	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/perms"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

// stubRegistry satisfies api.Registry for documentation generation; its handlers are never called.
type stubRegistry struct{}

func (stubRegistry) Browse(context.Context, string, catalog.SearchFilters) cache.Result[catalog.ServerListResult] {
	return cache.Result[catalog.ServerListResult]{}
}

func (stubRegistry) Server(context.Context, string) cache.Result[catalog.ServerDetail] {
	return cache.Result[catalog.ServerDetail]{}
}

func (stubRegistry) Health(context.Context) cache.Result[catalog.Health] {
	return cache.Result[catalog.Health]{}
}

func (stubRegistry) Facets(context.Context, string, catalog.SearchFilters) cache.Result[search.Facets] {
	return cache.Result[search.Facets]{}
}

func (stubRegistry) Stats(context.Context) cache.Result[search.Stats] {
	return cache.Result[search.Stats]{}
}

func (stubRegistry) Clear() {}

// main generates the OpenAPI specification for the mcpcat API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mcpcat.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	// Output path for the OpenAPI spec, relative to the repository root.
	outputPath := "./docs/api/openapi.yaml"

	// Create a chi router (same as the daemon).
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	config := huma.DefaultConfig("mcpcat docs", api.APIVersion)
	router := humachi.New(mux, config)

	apiPathPrefix, err := api.RegisterRoutes(router, &stubRegistry{})
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	logger.Info("Routes registered", "prefix", apiPathPrefix)

	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, perms.RegularDir); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, yamlBytes, perms.RegularFile); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
