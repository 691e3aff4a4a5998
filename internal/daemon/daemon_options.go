package daemon

import (
	"fmt"
	"time"
)

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// WarmTimeout bounds how long the daemon spends populating the cache at startup.
	WarmTimeout time.Duration

	// SkipWarm disables populating the cache at startup.
	SkipWarm bool
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithWarmTimeout configures how long to spend populating the cache at startup.
func WithWarmTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("warm timeout must be positive, got %v", timeout)
		}
		o.WarmTimeout = timeout
		return nil
	}
}

// WithSkipWarm disables populating the cache at startup.
func WithSkipWarm(skip bool) Option {
	return func(o *Options) error {
		o.SkipWarm = skip
		return nil
	}
}

// DefaultWarmTimeout is the default time spent populating the cache at startup.
func DefaultWarmTimeout() time.Duration {
	return 15 * time.Second
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		WarmTimeout: DefaultWarmTimeout(),
	}
}
