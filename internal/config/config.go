package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mozilla-ai/mcpcat/internal/perms"
)

// skeleton is written by Init. Every setting is commented out so the defaults stay in effect.
const skeleton = `# mcpcat configuration.
# Environment variables (and a .env file) override these values, and command line flags override both.

[catalog]
# Base URL of the catalog service (env: NEXT_PUBLIC_API_URL).
# url = "http://localhost:8080"

# Per-request timeout (env: MCPCAT_TIMEOUT).
# timeout = "10s"

# Validate catalog responses against the bundled JSON schemas (env: MCPCAT_VALIDATE_RESPONSES).
# validate_responses = false

[cache]
# How often unused entries are evicted.
# sweep_interval = "1m"

# Per-query overrides. Kinds: servers, servers-all, search-servers, server, health.
# [cache.policies.health]
# stale_after = "10s"
# evict_after = "1m"
# refresh_interval = "30s"

[api]
# Address for 'mcpcat serve' (env: MCPCAT_API_ADDR).
# addr = "0.0.0.0:8090"

# [api.timeout]
# shutdown = "5s"

# [api.cors]
# enable = true
# allow_origins = ["http://localhost:3000"]
`

// Init creates the base skeleton configuration file for mcpcat.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(skeleton), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads the configuration file at path.
// A missing file is not an error: an empty Config is returned so that defaults apply.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg.configFilePath = path

	return cfg, nil
}

// Validate orchestrates validation of every configured section.
func (c *Config) Validate() error {
	var errs []error

	if c.Catalog != nil {
		if err := c.Catalog.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("catalog configuration error: %w", err))
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("cache configuration error: %w", err))
		}
	}

	if c.API != nil {
		if err := c.API.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("api configuration error: %w", err))
		}
	}

	return errors.Join(errs...)
}
