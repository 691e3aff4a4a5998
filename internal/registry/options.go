package registry

import (
	"fmt"
	"time"
)

// DefaultMaxPages bounds how many pages AllServers follows before returning what it has.
const DefaultMaxPages = 50

type Option func(*options) error

type options struct {
	maxPages int
	now      func() time.Time
}

func getDefaultOptions() options {
	return options{
		maxPages: DefaultMaxPages,
		now:      time.Now,
	}
}

func getOpts(opts ...Option) (options, error) {
	opt := getDefaultOptions()
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(&opt); err != nil {
			return options{}, err
		}
	}
	return opt, nil
}

// WithMaxPages sets how many pages AllServers may request.
func WithMaxPages(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return fmt.Errorf("max pages must be at least 1, got %d", n)
		}
		o.maxPages = n
		return nil
	}
}

// WithClock sets the time source used for statistics such as recently updated counts.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.now = now
		return nil
	}
}
