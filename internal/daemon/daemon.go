package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/mcpcat/internal/registry"
)

// Daemon serves the local API and keeps the catalog's health fresh for as long as it runs.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger        hclog.Logger
	registry      *registry.Registry
	apiServer     *APIServer
	healthTracker *HealthTracker
	opts          Options
}

// NewDaemon creates a Daemon from validated dependencies.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid daemon dependencies: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	apiDeps, err := NewAPIDependencies(logger, deps.Registry, deps.APIAddr)
	if err != nil {
		return nil, err
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	healthTracker, err := NewHealthTracker(logger)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		logger:        logger,
		registry:      deps.Registry,
		apiServer:     apiServer,
		healthTracker: healthTracker,
		opts:          opts,
	}, nil
}

// Health returns the last known health of the catalog.
func (d *Daemon) Health() CatalogHealth {
	return d.healthTracker.Status()
}

// StartAndManage runs the API server and the health tracker until ctx is canceled.
// Cancellation is a clean shutdown and is not reported as an error.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if !d.opts.SkipWarm {
		g.Go(func() error {
			d.warm(gctx)
			return nil
		})
	}

	g.Go(func() error {
		return d.healthTracker.Track(gctx, d.registry)
	})

	g.Go(func() error {
		return d.apiServer.Start(gctx)
	})

	err := g.Wait()
	if err != nil && !stdErrors.Is(err, context.Canceled) {
		return err
	}

	d.logger.Info("Daemon stopped")
	return nil
}

// warm populates the cache. Failure only means the first requests fetch on demand.
func (d *Daemon) warm(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.WarmTimeout)
	defer cancel()

	if err := d.registry.Warm(ctx); err != nil {
		d.logger.Warn("Cache warm-up incomplete", "error", err)
		return
	}

	d.logger.Info("Cache warmed")
}
