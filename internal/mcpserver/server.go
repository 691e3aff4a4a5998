// Package mcpserver exposes the catalog to MCP clients as a set of tools served over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

const (
	ToolSearchServers = "search_servers"
	ToolGetServer     = "get_server"
	ToolCatalogHealth = "catalog_health"
	ToolCatalogStats  = "catalog_stats"
)

// Registry answers the catalog queries behind the tools.
type Registry interface {
	Browse(ctx context.Context, text string, filters catalog.SearchFilters) cache.Result[catalog.ServerListResult]
	Server(ctx context.Context, id string) cache.Result[catalog.ServerDetail]
	Health(ctx context.Context) cache.Result[catalog.Health]
	Stats(ctx context.Context) cache.Result[search.Stats]
}

// Server serves catalog tools to a single MCP client.
// New should be used to create instances of Server.
type Server struct {
	logger   hclog.Logger
	registry Registry
	mcp      *server.MCPServer
}

// New creates a Server with every catalog tool registered.
func New(logger hclog.Logger, reg Registry, name string, version string) (*Server, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if reg == nil || reflect.ValueOf(reg).IsNil() {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	s := &Server{
		logger:   logger.Named("mcp"),
		registry: reg,
		mcp: server.NewMCPServer(
			name,
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()

	return s, nil
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve answers requests read from in until ctx is canceled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}))

	s.logger.Info("Serving catalog tools over stdio")
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool(
			ToolSearchServers,
			mcp.WithDescription("Search the MCP server catalog by free text, optionally narrowed by technology and category."),
			mcp.WithString("query", mcp.Description("Text matched against server names and descriptions.")),
			mcp.WithString("language", mcp.Description("Only servers built with this technology, e.g. Python.")),
			mcp.WithString("category", mcp.Description("Only servers in this category, e.g. Database.")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of servers to return (1-100)."), mcp.Min(1), mcp.Max(catalog.MaxLimit)),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleSearchServers,
	)

	s.mcp.AddTool(
		mcp.NewTool(
			ToolGetServer,
			mcp.WithDescription("Get the packages, remotes and configuration inputs of a catalog server."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Catalog identifier of the server.")),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleGetServer,
	)

	s.mcp.AddTool(
		mcp.NewTool(
			ToolCatalogHealth,
			mcp.WithDescription("Report whether the catalog service is healthy."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleCatalogHealth,
	)

	s.mcp.AddTool(
		mcp.NewTool(
			ToolCatalogStats,
			mcp.WithDescription("Summarize the catalog by technology and category."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleCatalogStats,
	)
}

// jsonResult renders v as the text content of a successful tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
