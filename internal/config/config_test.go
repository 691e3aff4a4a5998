package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".mcpcat.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ptr[T any](v T) *T {
	return &v
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := (&DefaultLoader{}).Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)
	require.Empty(t, cfg.Path())
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := (&DefaultLoader{}).Load("  ")
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[catalog]
url = "https://catalog.example.com/"
timeout = "3s"
validate_responses = true

[cache]
sweep_interval = "30s"

[cache.policies.health]
refresh_interval = "5s"

[api]
addr = "127.0.0.1:9000"

[api.timeout]
shutdown = "2s"

[api.cors]
allow_origins = ["http://localhost:3000"]
`)

	cfg, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path())

	require.Equal(t, "https://catalog.example.com/", *cfg.Catalog.URL)
	require.Equal(t, Duration(3*time.Second), *cfg.Catalog.Timeout)
	require.True(t, *cfg.Catalog.ValidateResponses)
	require.Equal(t, Duration(30*time.Second), *cfg.Cache.SweepInterval)
	require.Equal(t, Duration(5*time.Second), *cfg.Cache.Policies["health"].RefreshInterval)
	require.Equal(t, "127.0.0.1:9000", *cfg.API.Addr)
	require.Equal(t, Duration(2*time.Second), *cfg.API.Timeout.Shutdown)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.API.CORS.Origins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed toml",
			content: `[catalog`,
			wantErr: "failed to decode config",
		},
		{
			name:    "bad url scheme",
			content: "[catalog]\nurl = \"ftp://catalog\"",
			wantErr: "scheme must be http or https",
		},
		{
			name:    "non-positive timeout",
			content: "[catalog]\ntimeout = \"0s\"",
			wantErr: "catalog timeout must be positive",
		},
		{
			name:    "unknown policy kind",
			content: "[cache.policies.widgets]\nstale_after = \"1m\"",
			wantErr: "cache.policies",
		},
		{
			name:    "policy without eviction",
			content: "[cache.policies.server]\nevict_after = \"0s\"",
			wantErr: "evict after must be positive",
		},
		{
			name:    "bad api address",
			content: "[api]\naddr = \"localhost\"",
			wantErr: "invalid API address",
		},
		{
			name:    "bad cors method",
			content: "[api.cors]\nallow_methods = [\"FETCH\"]",
			wantErr: "not a valid HTTP request method",
		},
		{
			name:    "bad cors origin",
			content: "[api.cors]\nallow_origins = [\"localhost:3000\"]",
			wantErr: "invalid origin",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := (&DefaultLoader{}).Load(writeConfig(t, tc.content))
			require.ErrorIs(t, err, ErrConfigLoadFailed)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".mcpcat.toml")
	loader := &DefaultLoader{}

	require.NoError(t, loader.Init(path))
	require.ErrorContains(t, loader.Init(path), "already exists")

	// The skeleton only contains comments and empty tables, so it resolves to the defaults.
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	s, err := Resolve(cfg, Env{}, Overrides{})
	require.NoError(t, err)
	require.Equal(t, catalog.DefaultBaseURL, s.CatalogURL)
	require.Equal(t, catalog.DefaultTimeout, s.Timeout)
	require.Equal(t, cache.DefaultPolicies(), s.Policies)
}

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Catalog: &CatalogSection{
			URL:     ptr("http://from-file:8080"),
			Timeout: ptr(Duration(5 * time.Second)),
		},
		API: &APISection{Addr: ptr("127.0.0.1:7000")},
	}

	tests := []struct {
		name        string
		env         Env
		overrides   Overrides
		wantURL     string
		wantTimeout time.Duration
		wantAddr    string
	}{
		{
			name:        "file only",
			wantURL:     "http://from-file:8080",
			wantTimeout: 5 * time.Second,
			wantAddr:    "127.0.0.1:7000",
		},
		{
			name:        "environment beats file",
			env:         Env{APIURL: "http://from-env:8080", Timeout: 7 * time.Second, APIAddr: "127.0.0.1:7001"},
			wantURL:     "http://from-env:8080",
			wantTimeout: 7 * time.Second,
			wantAddr:    "127.0.0.1:7001",
		},
		{
			name:        "flags beat environment",
			env:         Env{APIURL: "http://from-env:8080", Timeout: 7 * time.Second},
			overrides:   Overrides{CatalogURL: "http://from-flag:8080", Timeout: time.Second, APIAddr: ":9999"},
			wantURL:     "http://from-flag:8080",
			wantTimeout: time.Second,
			wantAddr:    ":9999",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := Resolve(cfg, tc.env, tc.overrides)
			require.NoError(t, err)
			require.Equal(t, tc.wantURL, s.CatalogURL)
			require.Equal(t, tc.wantTimeout, s.Timeout)
			require.Equal(t, tc.wantAddr, s.API.Addr)
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	t.Parallel()

	s, err := Resolve(nil, Env{}, Overrides{})
	require.NoError(t, err)
	require.Equal(t, catalog.DefaultBaseURL, s.CatalogURL)
	require.Equal(t, 10*time.Second, s.Timeout)
	require.False(t, s.ValidateResponses)
	require.Equal(t, cache.DefaultSweepInterval, s.SweepInterval)
	require.Equal(t, DefaultAPIAddr, s.API.Addr)
	require.False(t, s.API.CORSEnabled)
	require.Len(t, s.CatalogOptions(), 3)
	require.Len(t, s.CacheOptions(), 2)
}

func TestResolve_PolicyOverride(t *testing.T) {
	t.Parallel()

	cfg := &Config{Cache: &CacheSection{Policies: map[string]PolicySection{
		" Health ": {RefreshInterval: ptr(Duration(5 * time.Second))},
	}}}

	s, err := Resolve(cfg, Env{}, Overrides{})
	require.NoError(t, err)

	health := s.Policies[cache.KindHealth]
	require.Equal(t, 5*time.Second, health.RefreshInterval)
	require.Equal(t, 10*time.Second, health.StaleAfter, "unset fields keep the built-in value")
	require.Equal(t, cache.DefaultPolicies()[cache.KindServers], s.Policies[cache.KindServers])
}

func TestResolve_CORS(t *testing.T) {
	t.Parallel()

	cfg := &Config{API: &APISection{CORS: &CORSSection{
		Origins: []string{"https://app.example.com"},
		MaxAge:  ptr(Duration(time.Minute)),
	}}}

	s, err := Resolve(cfg, Env{}, Overrides{})
	require.NoError(t, err)
	require.True(t, s.API.CORSEnabled, "origins imply enabled")
	require.Equal(t, time.Minute, s.API.CORSMaxAge)

	cfg.API.CORS.Enable = ptr(false)
	s, err = Resolve(cfg, Env{}, Overrides{})
	require.NoError(t, err)
	require.False(t, s.API.CORSEnabled)
}

func TestResolve_InvalidOverride(t *testing.T) {
	t.Parallel()

	_, err := Resolve(nil, Env{APIURL: "not a url"}, Overrides{})
	require.Error(t, err)

	_, err = Resolve(nil, Env{}, Overrides{APIAddr: "nope"})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseEnv(t *testing.T) {
	t.Parallel()

	e, err := ParseEnv(map[string]string{
		"NEXT_PUBLIC_API_URL":       "http://catalog:8080",
		"MCPCAT_TIMEOUT":            "2500ms",
		"MCPCAT_VALIDATE_RESPONSES": "true",
		"MCPCAT_API_ADDR":           ":8091",
	})
	require.NoError(t, err)
	require.Equal(t, "http://catalog:8080", e.APIURL)
	require.Equal(t, 2500*time.Millisecond, e.Timeout)
	require.NotNil(t, e.ValidateResponses)
	require.True(t, *e.ValidateResponses)
	require.Equal(t, ":8091", e.APIAddr)

	e, err = ParseEnv(map[string]string{})
	require.NoError(t, err)
	require.Equal(t, Env{}, e)

	_, err = ParseEnv(map[string]string{"MCPCAT_TIMEOUT": "soon"})
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestLoadEnv_DotEnvFile(t *testing.T) {
	// Not parallel: godotenv writes to the process environment.
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MCPCAT_API_ADDR=127.0.0.1:8123\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("MCPCAT_API_ADDR") })

	e, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"), path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8123", e.APIAddr)
}

func TestDuration_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0s"},
		{in: 90 * time.Second, want: "90s"},
		{in: 2 * time.Hour, want: "2h"},
		{in: 1500 * time.Millisecond, want: "1500ms"},
	}

	for _, tc := range tests {
		d := Duration(tc.in)
		require.Equal(t, tc.want, d.String())

		text, err := d.MarshalText()
		require.NoError(t, err)

		var back Duration
		require.NoError(t, back.UnmarshalText(text))
		require.Equal(t, d, back)
	}
}
