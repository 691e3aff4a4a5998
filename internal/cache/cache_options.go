package cache

import (
	"fmt"
	"maps"
	"time"
)

// DefaultSweepInterval is how often the janitor looks for entries to evict.
const DefaultSweepInterval = time.Minute

// Option defines a functional option for configuring Store.
type Option func(*Options) error

// Options contains optional configuration for the store.
type Options struct {
	// policies holds the freshness and retention rules for each kind of query.
	policies map[Kind]Policy

	// now supplies the current time.
	now func() time.Time

	// sweepInterval is how often unused entries are evicted; zero disables the janitor.
	sweepInterval time.Duration

	// observer is notified of cache events.
	observer Observer
}

// NewOptions returns Options with defaults applied, followed by any supplied options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		policies:      DefaultPolicies(),
		now:           time.Now,
		sweepInterval: DefaultSweepInterval,
		observer:      noopObserver{},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithPolicy overrides the policy for a single kind of query.
func WithPolicy(kind Kind, p Policy) Option {
	return func(o *Options) error {
		if kind == "" {
			return fmt.Errorf("policy kind cannot be empty")
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid policy for '%s': %w", kind, err)
		}
		o.policies[kind] = p
		return nil
	}
}

// WithPolicies overrides the policies for several kinds of query.
func WithPolicies(policies map[Kind]Policy) Option {
	return func(o *Options) error {
		for kind, p := range policies {
			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid policy for '%s': %w", kind, err)
			}
		}
		maps.Copy(o.policies, policies)
		return nil
	}
}

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(o *Options) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// WithSweepInterval sets how often unused entries are evicted.
// Zero disables the background janitor; Sweep can still be called directly.
func WithSweepInterval(d time.Duration) Option {
	return func(o *Options) error {
		if d < 0 {
			return fmt.Errorf("sweep interval cannot be negative, got %v", d)
		}
		o.sweepInterval = d
		return nil
	}
}

// WithObserver sets the receiver of cache events.
func WithObserver(obs Observer) Option {
	return func(o *Options) error {
		if obs == nil {
			return fmt.Errorf("observer cannot be nil")
		}
		o.observer = obs
		return nil
	}
}
