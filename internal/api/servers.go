package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

// ServersRequest represents the incoming API request for browsing the catalog.
type ServersRequest struct {
	Query      string   `doc:"Free text matched against server name and description" example:"python"   query:"q"`
	Limit      int      `doc:"Page size, defaults to 20 and is capped at 100"         example:"20"       query:"limit"`
	Cursor     string   `doc:"Cursor returned by a previous page"                     query:"cursor"`
	Languages  []string `doc:"Only servers with one of these technologies"            example:"Python"   query:"language"`
	Categories []string `doc:"Only servers in one of these categories"                example:"Database" query:"category"`
}

// ServersResponse represents the wrapped API response for a page of servers.
type ServersResponse struct {
	ErrorType string `header:"Mcpcat-Error-Type"`
	Body      QueryResult[catalog.ServerListResult]
}

// ServerRequest represents the incoming API request for a single server.
type ServerRequest struct {
	ID string `doc:"Catalog identifier of the server" example:"a5e8a7f0-d4e4-4a1d-b12f-2896a23fd4f1" path:"id"`
}

// ServerResponse represents the wrapped API response for a single server.
type ServerResponse struct {
	ErrorType string `header:"Mcpcat-Error-Type"`
	Body      QueryResult[catalog.ServerDetail]
}

// RegisterServerRoutes sets up server related API endpoints.
func RegisterServerRoutes(routerAPI huma.API, reg Registry, apiPathPrefix string) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	// Add route at the root of the group (no path specified).
	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List or search catalog servers",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServersRequest) (*ServersResponse, error) {
			return handleServers(ctx, reg, input)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServer",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get the details of a server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerRequest) (*ServerResponse, error) {
			return handleServer(ctx, reg, input.ID)
		},
	)
}

// handleServers is the handler for browsing the catalog.
// A blank query lists servers page by page, otherwise the catalog is searched.
func handleServers(ctx context.Context, reg Registry, input *ServersRequest) (*ServersResponse, error) {
	filters := catalog.SearchFilters{
		Languages:  input.Languages,
		Categories: input.Categories,
		Limit:      input.Limit,
		Cursor:     input.Cursor,
	}

	res := reg.Browse(ctx, input.Query, filters)
	if err := resultError(res); err != nil {
		return nil, err
	}

	body := NewQueryResult(res)
	return &ServersResponse{ErrorType: body.ErrorType(), Body: body}, nil
}

// handleServer is the handler for retrieving the details of a server.
func handleServer(ctx context.Context, reg Registry, id string) (*ServerResponse, error) {
	res := reg.Server(ctx, id)
	if err := resultError(res); err != nil {
		return nil, err
	}

	body := NewQueryResult(res)
	return &ServerResponse{ErrorType: body.ErrorType(), Body: body}, nil
}
