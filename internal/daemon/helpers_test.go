package daemon

import (
	"context"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/registry"
)

// fakeCatalog is an in-memory catalog service.
type fakeCatalog struct {
	mu        sync.Mutex
	servers   []catalog.ServerSummary
	details   map[string]catalog.ServerDetail
	health    catalog.Health
	healthErr error
	listErr   error
}

func (f *fakeCatalog) ListServers(_ context.Context, filters catalog.SearchFilters) (catalog.ServerListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return catalog.ServerListResult{}, f.listErr
	}

	servers := f.servers
	if filters.Limit > 0 && len(servers) > filters.Limit {
		servers = servers[:filters.Limit]
	}
	return catalog.ServerListResult{
		Servers:  servers,
		Metadata: &catalog.Metadata{Count: catalog.IntPtr(len(servers)), Total: catalog.IntPtr(len(f.servers))},
	}, nil
}

func (f *fakeCatalog) GetServerByID(_ context.Context, id string) (catalog.ServerDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.details[id]
	if !ok {
		return catalog.ServerDetail{}, &catalog.NotFoundError{ID: id}
	}
	return d, nil
}

func (f *fakeCatalog) GetHealth(context.Context) (catalog.Health, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.healthErr != nil {
		return catalog.Health{}, f.healthErr
	}
	return f.health, nil
}

func (f *fakeCatalog) setHealth(h catalog.Health, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.health = h
	f.healthErr = err
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		servers: []catalog.ServerSummary{
			{ID: "py-tools", Name: "py-tools", Description: "Tools for python"},
			{ID: "golang-db", Name: "golang-db", Description: "SQL database access"},
		},
		details: map[string]catalog.ServerDetail{
			"py-tools": {ServerSummary: catalog.ServerSummary{ID: "py-tools", Name: "py-tools"}},
		},
		health: catalog.Health{Status: "ok"},
	}
}

func newTestRegistry(t *testing.T, c registry.Catalog, opts ...cache.Option) *registry.Registry {
	t.Helper()

	opts = append([]cache.Option{cache.WithSweepInterval(0)}, opts...)
	store, err := cache.NewStore(hclog.NewNullLogger(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg, err := registry.New(hclog.NewNullLogger(), c, store)
	require.NoError(t, err)
	return reg
}
