package cmd

import (
	"context"
	"fmt"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/registry"
)

// catalogCmd is embedded by every command that queries the catalog.
type catalogCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	builder   cmd.RegistryBuilder
}

func newCatalogCmd(baseCmd *cmd.BaseCmd, opts cmdopts.CmdOptions) catalogCmd {
	return catalogCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		builder:   opts.Builder(baseCmd),
	}
}

// openRegistry resolves the effective settings and builds a Registry from them.
// The returned function closes the registry's cache and must always be called.
func (c *catalogCmd) openRegistry(
	o config.Overrides,
	cacheOpts ...cache.Option,
) (*registry.Registry, config.Settings, func(), error) {
	settings, err := c.SettingsWith(c.cfgLoader, o)
	if err != nil {
		return nil, config.Settings{}, nil, fmt.Errorf("error loading configuration: %w", err)
	}

	reg, err := c.builder.Build(settings, cacheOpts...)
	if err != nil {
		return nil, config.Settings{}, nil, fmt.Errorf("error creating catalog registry: %w", err)
	}

	closeFn := func() {
		if err := reg.Store().Close(); err != nil {
			c.Logger().Warn("Failed to close cache", "error", err)
		}
	}

	return reg, settings, closeFn, nil
}

// resultError returns the error of a one-shot query result that carries no data.
func resultError(err error, hasData bool) error {
	if err == nil || hasData {
		return nil
	}
	return err
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
