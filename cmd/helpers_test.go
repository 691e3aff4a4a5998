package cmd

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/registry"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

// fakeCatalog is an in-memory catalog service.
type fakeCatalog struct {
	mu        sync.Mutex
	servers   []catalog.ServerSummary
	details   map[string]catalog.ServerDetail
	health    catalog.Health
	healthErr error
	listErr   error
	lists     int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		servers: []catalog.ServerSummary{
			{
				ID:            "python-postgres",
				Name:          "python-postgres",
				Description:   "Query postgres databases",
				VersionDetail: catalog.VersionDetail{Version: "1.0.0", ReleaseDate: "2025-03-01T00:00:00Z"},
			},
			{ID: "golang-files", Name: "golang-files", Description: "Read and write local files"},
			{ID: "py-search", Name: "py-search", Description: "Search the web"},
		},
		details: map[string]catalog.ServerDetail{
			"python-postgres": {
				ServerSummary: catalog.ServerSummary{ID: "python-postgres", Name: "python-postgres"},
				Packages:      []catalog.Package{{RegistryName: "pypi", Name: "python-postgres", Version: "1.0.0"}},
			},
		},
		health: catalog.Health{Status: "ok"},
	}
}

// ListServers pages through the servers using the cursor as an offset.
func (f *fakeCatalog) ListServers(_ context.Context, filters catalog.SearchFilters) (catalog.ServerListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lists++
	if f.listErr != nil {
		return catalog.ServerListResult{}, f.listErr
	}

	start := 0
	if filters.Cursor != "" {
		for i, s := range f.servers {
			if s.ID == filters.Cursor {
				start = i
			}
		}
	}
	end := len(f.servers)
	if filters.Limit > 0 && start+filters.Limit < end {
		end = start + filters.Limit
	}

	out := catalog.ServerListResult{
		Servers:  f.servers[start:end],
		Metadata: &catalog.Metadata{Count: catalog.IntPtr(end - start), Total: catalog.IntPtr(len(f.servers))},
	}
	if end < len(f.servers) {
		out.Metadata.NextCursor = f.servers[end].ID
	}
	return out, nil
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

// fakeBuilder builds registries over a fakeCatalog, recording the settings it was given.
type fakeBuilder struct {
	catalog  *fakeCatalog
	settings config.Settings
	err      error
}

func (b *fakeBuilder) Build(settings config.Settings, opts ...cache.Option) (*registry.Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.settings = settings

	logger := hclog.NewNullLogger()
	store, err := cache.NewStore(logger, append(settings.CacheOptions(), opts...)...)
	if err != nil {
		return nil, err
	}

	return registry.New(logger, b.catalog, store, registry.WithClock(func() time.Time { return testNow }))
}

// emptyLoader stands in for a missing configuration file.
type emptyLoader struct{}

func (emptyLoader) Load(string) (*config.Config, error) {
	return &config.Config{}, nil
}

type newCmdFunc func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error)

// runCmd creates a command over fc, runs it with args and returns its output.
func runCmd(t *testing.T, fn newCmdFunc, fc *fakeCatalog, args ...string) (string, error) {
	t.Helper()

	base := &cmd.BaseCmd{}
	base.SetLogger(hclog.NewNullLogger())

	c, err := fn(
		base,
		cmdopts.WithConfigLoader(emptyLoader{}),
		cmdopts.WithRegistryBuilder(&fakeBuilder{catalog: fc}),
		cmdopts.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	if args == nil {
		// cobra falls back to os.Args when no arguments are set.
		args = []string{}
	}
	c.SetArgs(args)

	err = c.ExecuteContext(context.Background())
	return out.String(), err
}
