package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/flags"
	"github.com/mozilla-ai/mcpcat/internal/perms"
	"github.com/mozilla-ai/mcpcat/internal/registry"
)

// RegistryBuilder creates the query service used by commands.
type RegistryBuilder interface {
	Build(settings config.Settings, opts ...cache.Option) (*registry.Registry, error)
}

var _ RegistryBuilder = (*BaseCmd)(nil)

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command
func (c *BaseCmd) Logger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}

	// Get log level from flags first, then environment, then default
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	// Configure logger output
	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to open log file (%s): %v, logging disabled\n", logPath, err)
		} else {
			output = f
		}
	}

	// Using flags/env for fallback logger
	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   AppName(),
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger
}

// Settings loads the configuration file named by --config-file, any .env file in the working directory
// and the environment, then applies the global catalog flags on top.
func (c *BaseCmd) Settings(loader config.Loader) (config.Settings, error) {
	return c.SettingsWith(loader, config.Overrides{})
}

// SettingsWith is Settings with command specific overrides.
// The global catalog flags fill in any override left unset.
func (c *BaseCmd) SettingsWith(loader config.Loader, o config.Overrides) (config.Settings, error) {
	path := flags.ConfigFile
	if path == "" {
		path = flags.DefaultConfigFile
	}

	cfg, err := loader.Load(path)
	if err != nil {
		return config.Settings{}, err
	}

	e, err := config.LoadEnv(config.DefaultDotEnvFile)
	if err != nil {
		return config.Settings{}, err
	}

	if o.CatalogURL == "" {
		o.CatalogURL = flags.APIURL
	}
	if o.Timeout == 0 {
		o.Timeout = flags.Timeout
	}

	return config.Resolve(cfg, e, o)
}

// Build wires a catalog client and cache store into a Registry.
// The caller owns the store and must close it via Registry.Store().Close().
func (c *BaseCmd) Build(settings config.Settings, opts ...cache.Option) (*registry.Registry, error) {
	logger := c.Logger()

	client, err := catalog.NewClient(logger, settings.CatalogOptions()...)
	if err != nil {
		return nil, err
	}

	store, err := cache.NewStore(logger, append(settings.CacheOptions(), opts...)...)
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(logger, client, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return reg, nil
}
