package config

import (
	"maps"
	"strings"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

// DefaultAPIAddr is where 'mcpcat serve' listens when nothing else is configured.
const DefaultAPIAddr = "0.0.0.0:8090"

// Overrides holds values supplied on the command line. Zero values mean the flag was not set.
type Overrides struct {
	CatalogURL string
	Timeout    time.Duration
	APIAddr    string
}

// Settings is the effective configuration after the file, environment and flags have been combined.
type Settings struct {
	CatalogURL        string
	Timeout           time.Duration
	ValidateResponses bool

	SweepInterval time.Duration
	Policies      map[cache.Kind]cache.Policy

	API APISettings
}

// APISettings configures the local HTTP API.
type APISettings struct {
	Addr string

	// ShutdownTimeout is zero when not configured, leaving the server's default in place.
	ShutdownTimeout time.Duration

	CORSEnabled     bool
	CORSOrigins     []string
	CORSMethods     []string
	CORSHeaders     []string
	CORSCredentials bool
	CORSMaxAge      time.Duration
}

// Resolve combines cfg, the environment and flags, in increasing order of precedence, with defaults
// for anything none of them set. cfg may be nil.
func Resolve(cfg *Config, e Env, o Overrides) (Settings, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}

	s := Settings{
		CatalogURL:    catalog.DefaultBaseURL,
		Timeout:       catalog.DefaultTimeout,
		SweepInterval: cache.DefaultSweepInterval,
		Policies:      cache.DefaultPolicies(),
		API:           APISettings{Addr: DefaultAPIAddr},
	}

	if c := cfg.Catalog; c != nil {
		if c.URL != nil {
			s.CatalogURL = *c.URL
		}
		if c.Timeout != nil {
			s.Timeout = time.Duration(*c.Timeout)
		}
		if c.ValidateResponses != nil {
			s.ValidateResponses = *c.ValidateResponses
		}
	}

	if c := cfg.Cache; c != nil {
		if c.SweepInterval != nil {
			s.SweepInterval = time.Duration(*c.SweepInterval)
		}
		for name, p := range c.Policies {
			kind := cache.Kind(normalizeKey(name))
			s.Policies[kind] = p.apply(s.Policies[kind])
		}
	}

	if a := cfg.API; a != nil {
		if a.Addr != nil {
			s.API.Addr = *a.Addr
		}
		if a.Timeout != nil && a.Timeout.Shutdown != nil {
			s.API.ShutdownTimeout = time.Duration(*a.Timeout.Shutdown)
		}
		if c := a.CORS; c != nil {
			s.API.CORSEnabled = c.EnableOrDefault(len(c.Origins) > 0)
			s.API.CORSOrigins = c.Origins
			s.API.CORSMethods = c.Methods
			s.API.CORSHeaders = c.Headers
			if c.Credentials != nil {
				s.API.CORSCredentials = *c.Credentials
			}
			if c.MaxAge != nil {
				s.API.CORSMaxAge = time.Duration(*c.MaxAge)
			}
		}
	}

	if v := strings.TrimSpace(e.APIURL); v != "" {
		s.CatalogURL = v
	}
	if e.Timeout > 0 {
		s.Timeout = e.Timeout
	}
	if e.ValidateResponses != nil {
		s.ValidateResponses = *e.ValidateResponses
	}
	if v := strings.TrimSpace(e.APIAddr); v != "" {
		s.API.Addr = v
	}

	if v := strings.TrimSpace(o.CatalogURL); v != "" {
		s.CatalogURL = v
	}
	if o.Timeout > 0 {
		s.Timeout = o.Timeout
	}
	if v := strings.TrimSpace(o.APIAddr); v != "" {
		s.API.Addr = v
	}

	if _, err := catalog.NewOptions(s.CatalogOptions()...); err != nil {
		return Settings{}, err
	}
	if !isValidAddr(s.API.Addr) {
		return Settings{}, NewErrInvalidValue("api.addr", s.API.Addr)
	}

	return s, nil
}

// CatalogOptions converts the settings into catalog client options.
func (s Settings) CatalogOptions() []catalog.Option {
	return []catalog.Option{
		catalog.WithBaseURL(s.CatalogURL),
		catalog.WithTimeout(s.Timeout),
		catalog.WithResponseValidation(s.ValidateResponses),
	}
}

// CacheOptions converts the settings into cache store options.
func (s Settings) CacheOptions() []cache.Option {
	return []cache.Option{
		cache.WithPolicies(maps.Clone(s.Policies)),
		cache.WithSweepInterval(s.SweepInterval),
	}
}
