package cmd

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/flags"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

func TestListCmd_Text(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewListCmd, newFakeCatalog(), "--limit", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "📚 Catalog servers...")
	assert.Contains(t, out, "🆔 python-postgres")
	assert.Contains(t, out, "🆔 golang-files")
	assert.NotContains(t, out, "py-search")
	assert.Contains(t, out, "📦 Showing 2 servers of 3")
	assert.Contains(t, out, "--cursor py-search")
}

func TestListCmd_CursorAndJSON(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewListCmd, newFakeCatalog(), "--limit=2", "--cursor=py-search", "--format=json")
	require.NoError(t, err)

	var payload output.ResultPayload[catalog.ServerListResult]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Result.Servers, 1)
	require.Equal(t, "py-search", payload.Result.Servers[0].ID)
	require.Empty(t, payload.Result.NextCursor())
}

func TestListCmd_All(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	out, err := runCmd(t, NewListCmd, fc, "--all", "--format=json")
	require.NoError(t, err)

	var payload output.ResultPayload[catalog.ServerListResult]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Result.Servers, 3)
}

func TestListCmd_FacetFilters(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewListCmd, newFakeCatalog(), "--language", "python", "--category", "Database", "--format=json")
	require.NoError(t, err)

	var payload output.ResultPayload[catalog.ServerListResult]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Result.Servers, 1)
	require.Equal(t, "python-postgres", payload.Result.Servers[0].ID)
}

func TestListCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("all and cursor", func(t *testing.T) {
		t.Parallel()

		_, err := runCmd(t, NewListCmd, newFakeCatalog(), "--all", "--cursor", "x")
		require.ErrorContains(t, err, "none of the others can be")
	})

	t.Run("negative limit", func(t *testing.T) {
		t.Parallel()

		_, err := runCmd(t, NewListCmd, newFakeCatalog(), "--limit=-1")
		require.ErrorContains(t, err, "limit must be at least 1")
	})

	t.Run("catalog failure as json", func(t *testing.T) {
		t.Parallel()

		fc := newFakeCatalog()
		fc.listErr = &catalog.RemoteError{StatusCode: http.StatusBadGateway, URL: "http://catalog/v0/servers"}

		out, err := runCmd(t, NewListCmd, fc, "--format=json")
		require.NoError(t, err, "json output reports errors in the payload")

		var payload output.ErrorPayload
		require.NoError(t, json.Unmarshal([]byte(out), &payload))
		require.Contains(t, payload.Error, "HTTP 502")
	})

	t.Run("unknown language", func(t *testing.T) {
		t.Parallel()

		_, err := runCmd(t, NewListCmd, newFakeCatalog(), "--language", "python,rust")
		require.ErrorContains(t, err, "invalid --language: missing values: rust")
		require.ErrorContains(t, err, "Python")
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		_, err := runCmd(t, NewListCmd, newFakeCatalog(), "--format=invalid")
		require.ErrorContains(t, err, "invalid argument \"invalid\"")
		require.ErrorContains(t, err, "must be one of json, text, yaml")
	})
}

func TestListCmd_UnexpectedFormat(t *testing.T) {
	t.Parallel()

	c := &ListCmd{Format: cmd.OutputFormat("bogus")}
	cobraCmd, err := NewListCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	err = c.run(cobraCmd, nil)
	require.EqualError(t, err, "no handler for output format: bogus")
}

func TestSearchCmd(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewSearchCmd, newFakeCatalog(), "POSTGRES")
	require.NoError(t, err)

	assert.Contains(t, out, "🔎 Catalog search results...")
	assert.Contains(t, out, "🆔 python-postgres")
	assert.Contains(t, out, "📦 Found 1 server")
	assert.NotContains(t, out, "golang-files")
}

func TestSearchCmd_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantIDs []string
	}{
		{name: "description match", args: []string{"files"}, wantIDs: []string{"golang-files"}},
		{name: "multiple words", args: []string{"search", "the"}, wantIDs: []string{"py-search"}},
		{name: "language filter", args: []string{"s", "--language", "Python"}, wantIDs: []string{"python-postgres", "py-search"}},
		{name: "limit", args: []string{"s", "--limit", "1"}, wantIDs: []string{"python-postgres"}},
		{name: "no match", args: []string{"kubernetes"}, wantIDs: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := runCmd(t, NewSearchCmd, newFakeCatalog(), append(tc.args, "--format=json")...)
			require.NoError(t, err)

			var payload output.ResultsPayload[catalog.ServerSummary]
			require.NoError(t, json.Unmarshal([]byte(out), &payload))

			var ids []string
			for _, s := range payload.Results {
				ids = append(ids, s.ID)
			}
			require.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestSearchCmd_RequiresText(t *testing.T) {
	t.Parallel()

	_, err := runCmd(t, NewSearchCmd, newFakeCatalog())
	require.ErrorContains(t, err, "requires at least 1 arg")

	_, err = runCmd(t, NewSearchCmd, newFakeCatalog(), "  ")
	require.EqualError(t, err, "search text is required and cannot be empty")
}

func TestSearchCmd_UnknownCategory(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	_, err := runCmd(t, NewSearchCmd, fc, "postgres", "--category", "Spreadsheets")
	require.ErrorContains(t, err, "invalid --category: none of the requested values were found")
	require.ErrorContains(t, err, "Database")
}

func TestShowCmd(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewShowCmd, newFakeCatalog(), "python-postgres", "--format=yaml")
	require.NoError(t, err)

	var payload output.ResultPayload[catalog.ServerDetail]
	require.NoError(t, yaml.Unmarshal([]byte(out), &payload))
	require.Equal(t, "python-postgres", payload.Result.ID)
	require.Len(t, payload.Result.Packages, 1)
	require.Equal(t, "pypi", payload.Result.Packages[0].RegistryName)
}

func TestShowCmd_NotFound(t *testing.T) {
	t.Parallel()

	_, err := runCmd(t, NewShowCmd, newFakeCatalog(), "missing")
	require.EqualError(t, err, "server 'missing' not found in catalog")
}

func TestHealthCmd(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewHealthCmd, newFakeCatalog())
	require.NoError(t, err)
	require.Contains(t, out, "✅ Catalog status: ok")
}

func TestHealthCmd_FailureIsUnknown(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	fc.healthErr = &catalog.RemoteError{StatusCode: http.StatusServiceUnavailable}

	out, err := runCmd(t, NewHealthCmd, fc, "--format=json")
	require.NoError(t, err)

	var payload output.ResultPayload[catalog.Health]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, catalog.UnknownHealth(), payload.Result)
}

func TestHealthCmd_WatchStopsAfterCount(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewHealthCmd, newFakeCatalog(), "--watch", "--count=1")
	require.NoError(t, err)
	require.Contains(t, out, "✅ Catalog status: ok")
}

func TestStatsCmd(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewStatsCmd, newFakeCatalog(), "--format=json")
	require.NoError(t, err)

	var payload output.ResultPayload[search.Stats]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, 3, payload.Result.Total)
	require.Equal(t, 2, payload.Result.Technologies)
	require.Equal(t, 1, payload.Result.RecentlyUpdated)
}

func TestFacetsCmd(t *testing.T) {
	t.Parallel()

	out, err := runCmd(t, NewFacetsCmd, newFakeCatalog(), "--format=json")
	require.NoError(t, err)

	var payload output.ResultPayload[search.Facets]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, []search.FacetCount{
		{Name: "Python", Count: 2},
		{Name: "Go", Count: 1},
	}, stripColors(payload.Result.Technologies))

	out, err = runCmd(t, NewFacetsCmd, newFakeCatalog(), "postgres")
	require.NoError(t, err)
	require.Contains(t, out, "Database")
	require.NotContains(t, out, "File System")
}

func stripColors(counts []search.FacetCount) []search.FacetCount {
	out := make([]search.FacetCount, len(counts))
	for i, c := range counts {
		out[i] = search.FacetCount{Name: c.Name, Count: c.Count}
	}
	return out
}

func TestCommands_BuildFailure(t *testing.T) {
	t.Parallel()

	c, err := NewStatsCmd(
		&cmd.BaseCmd{},
		cmdopts.WithConfigLoader(emptyLoader{}),
		cmdopts.WithRegistryBuilder(&fakeBuilder{err: os.ErrPermission}),
	)
	require.NoError(t, err)
	c.SetArgs([]string{})
	c.SetOut(new(nopWriter))

	err = c.Execute()
	require.ErrorIs(t, err, os.ErrPermission)
	require.ErrorContains(t, err, "error creating catalog registry")
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestInitCmd(t *testing.T) {
	// Not parallel: changes the global config file flag.
	path := filepath.Join(t.TempDir(), "custom.toml")
	old := flags.ConfigFile
	t.Cleanup(func() { flags.ConfigFile = old })
	flags.ConfigFile = path

	out, err := runCmd(t, NewInitCmd, newFakeCatalog())
	require.NoError(t, err)
	require.Contains(t, out, "✅ Config file created: "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[catalog]")

	cfg, err := (&config.DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	_, err = runCmd(t, NewInitCmd, newFakeCatalog())
	require.ErrorContains(t, err, "already exists")
}

func TestNewRootCmd(t *testing.T) {
	// Not parallel: registers the global flags.
	oldConfig, oldLevel, oldPath := flags.ConfigFile, flags.LogLevel, flags.LogPath
	t.Cleanup(func() {
		flags.ConfigFile, flags.LogLevel, flags.LogPath = oldConfig, oldLevel, oldPath
	})

	root, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	require.NoError(t, err)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"init", "list", "search", "show", "health", "stats", "facets", "serve", "mcp"})

	for _, name := range []string{
		flags.FlagNameConfigFile,
		flags.FlagNameLogLevel,
		flags.FlagNameLogPath,
		flags.FlagNameAPIURL,
		flags.FlagNameTimeout,
	} {
		require.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	require.Equal(t, cmd.Version(), root.Version)
}
