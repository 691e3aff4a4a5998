package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterCacheRoutes sets up the endpoints that manage cached catalog data.
func RegisterCacheRoutes(routerAPI huma.API, reg Registry, apiPathPrefix string) {
	cacheAPI := huma.NewGroup(routerAPI, apiPathPrefix)

	huma.Register(
		cacheAPI,
		huma.Operation{
			OperationID:   "clearCache",
			Method:        http.MethodDelete,
			Summary:       "Drop every cached catalog response",
			Tags:          []string{"Cache"},
			DefaultStatus: http.StatusNoContent,
		},
		func(_ context.Context, _ *struct{}) (*struct{}, error) {
			reg.Clear()
			return nil, nil
		},
	)
}
