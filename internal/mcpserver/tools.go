package mcpserver

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/mcpcat/internal/api"
	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/registry"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

// ServerMatch is a server as returned by search_servers, with its derived labels.
type ServerMatch struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Technology  string `json:"technology"`
	Category    string `json:"category"`
	Version     string `json:"version,omitempty"`
	Repository  string `json:"repository,omitempty"`
}

// SearchResult is the payload of search_servers.
type SearchResult struct {
	Servers    []ServerMatch `json:"servers"`
	Total      *int          `json:"total,omitempty"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Stale      bool          `json:"stale,omitempty"`
}

func (s *Server) handleSearchServers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	filters := catalog.SearchFilters{
		Limit: request.GetInt("limit", 0),
	}
	if v := strings.TrimSpace(request.GetString("language", "")); v != "" {
		filters.Languages = []string{v}
	}
	if v := strings.TrimSpace(request.GetString("category", "")); v != "" {
		filters.Categories = []string{v}
	}

	res := s.registry.Browse(ctx, query, filters)
	if result := toolError(s.logger, request.Params.Name, res); result != nil {
		return result, nil
	}

	list := res.Value()
	out := SearchResult{
		Servers:    make([]ServerMatch, 0, len(list.Servers)),
		NextCursor: list.NextCursor(),
		Stale:      res.IsStale,
	}
	if list.Metadata != nil {
		out.Total = list.Metadata.Total
	}
	for _, srv := range list.Servers {
		out.Servers = append(out.Servers, ServerMatch{
			ID:          srv.ID,
			Name:        srv.Name,
			Description: srv.Description,
			Technology:  search.TechnologyProvider(srv),
			Category:    search.CategoryProvider(srv),
			Version:     srv.VersionDetail.Version,
			Repository:  srv.Repository.URL,
		})
	}

	return jsonResult(out)
}

func (s *Server) handleGetServer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil || strings.TrimSpace(id) == "" {
		return mcp.NewToolResultError("A server id is required"), nil
	}

	res := s.registry.Server(ctx, id)
	if result := toolError(s.logger, request.Params.Name, res); result != nil {
		return result, nil
	}

	return jsonResult(res.Value())
}

func (s *Server) handleCatalogHealth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Health is never an error: a failed check is reported as unknown.
	return jsonResult(registry.HealthOrUnknown(s.registry.Health(ctx)))
}

func (s *Server) handleCatalogStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.registry.Stats(ctx)
	if result := toolError(s.logger, request.Params.Name, res); result != nil {
		return result, nil
	}

	return jsonResult(res.Value())
}

// toolError returns the result a tool should answer with when res cannot be served, or nil.
// Stale data is still served when a refresh failed.
func toolError[T any](logger hclog.Logger, tool string, res cache.Result[T]) *mcp.CallToolResult {
	if res.Error == nil || res.HasData() {
		return nil
	}

	logger.Warn("Catalog query failed", "tool", tool, "error", res.Error)
	return mcp.NewToolResultError(api.NewQueryError(res.Error).Message)
}
