package options

import (
	"fmt"
	"time"

	"github.com/mozilla-ai/mcpcat/internal/cmd"
	"github.com/mozilla-ai/mcpcat/internal/config"
)

type CmdOption func(*CmdOptions) error

type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer

	// RegistryBuilder is nil unless overridden, in which case commands build through their BaseCmd.
	RegistryBuilder cmd.RegistryBuilder

	// Clock is used when rendering relative times.
	Clock func() time.Time
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
		Clock:             time.Now,
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

// Builder returns the configured RegistryBuilder, falling back to base.
func (o CmdOptions) Builder(base *cmd.BaseCmd) cmd.RegistryBuilder {
	if o.RegistryBuilder != nil {
		return o.RegistryBuilder
	}
	return base
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if l == nil {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		if i == nil {
			return fmt.Errorf("config initializer cannot be nil")
		}
		o.ConfigInitializer = i
		return nil
	}
}

func WithRegistryBuilder(b cmd.RegistryBuilder) CmdOption {
	return func(o *CmdOptions) error {
		o.RegistryBuilder = b
		return nil
	}
}

func WithClock(now func() time.Time) CmdOption {
	return func(o *CmdOptions) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.Clock = now
		return nil
	}
}
