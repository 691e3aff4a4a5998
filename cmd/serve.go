package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcat/internal/cache"
	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/daemon"
	"github.com/mozilla-ai/mcpcat/internal/flags"
	"github.com/mozilla-ai/mcpcat/internal/metrics"
)

// ServeCmd should be used to represent the 'serve' command.
type ServeCmd struct {
	catalogCmd
	Addr        string
	CORSOrigins []string
	NoWarm      bool
	Dev         bool
}

// NewServeCmd creates a newly configured (Cobra) command.
func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		catalogCmd: newCatalogCmd(baseCmd, opts),
	}

	cobraCommand := &cobra.Command{
		Use:   "serve [--addr] [--cors-origin]",
		Short: "Serves catalog queries over a local HTTP API",
		Long: "Serves catalog queries over a local HTTP API backed by a shared cache.\n\n" +
			"Every response reports whether its data is loading, stale or failed to refresh, " +
			"Prometheus metrics for the cache are exposed at /metrics, " +
			"and the catalog's health is kept current in the background.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		fmt.Sprintf("Address for the API to bind (default %s, env: MCPCAT_API_ADDR)", config.DefaultAPIAddr),
	)

	cobraCommand.Flags().StringSliceVar(
		&c.CORSOrigins,
		"cors-origin",
		nil,
		"Allow cross-origin requests from this origin, enabling CORS (can be repeated)",
	)

	cobraCommand.Flags().BoolVar(
		&c.NoWarm,
		"no-warm",
		false,
		"Do not prefetch health and statistics on startup",
	)

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		"dev",
		false,
		"Print the API and documentation URLs on startup",
	)

	return cobraCommand, nil
}

// run is configured (via NewServeCmd) to be called by the Cobra framework when the command is executed.
func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cacheMetrics, err := metrics.NewCacheMetrics(promReg)
	if err != nil {
		return err
	}

	reg, settings, closeFn, err := c.openRegistry(
		config.Overrides{APIAddr: strings.TrimSpace(c.Addr)},
		cache.WithObserver(cacheMetrics),
	)
	if err != nil {
		return err
	}
	defer closeFn()

	deps, err := daemon.NewDependencies(logger, settings.API.Addr, reg)
	if err != nil {
		return err
	}

	d, err := daemon.NewDaemon(
		deps,
		daemon.WithSkipWarm(c.NoWarm),
		daemon.WithAPIOptions(append(
			c.apiOptions(settings.API),
			daemon.WithMetricsHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})),
		)...),
	)
	if err != nil {
		return fmt.Errorf("failed to create mcpcat daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	ctx, cancel := signal.NotifyContext(
		commandContext(cobraCmd.Context()),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if c.Dev {
		c.printBanner(cobraCmd, settings.API.Addr)
	}

	logger.Info("Starting API server", "addr", settings.API.Addr, "catalog", settings.CatalogURL)
	if err := d.StartAndManage(ctx); err != nil {
		logger.Error("Daemon exited with error", "error", err)
		return err
	}

	return nil
}

// apiOptions converts the configured API settings, and any origins given on the command line, into server options.
func (c *ServeCmd) apiOptions(s config.APISettings) []daemon.APIOption {
	origins := append(append([]string{}, s.CORSOrigins...), c.CORSOrigins...)

	opts := []daemon.APIOption{
		daemon.WithCORSEnabled(s.CORSEnabled || len(c.CORSOrigins) > 0),
		daemon.WithCORSAllowOrigins(origins),
		daemon.WithCORSAllowCredentials(s.CORSCredentials),
	}
	if len(s.CORSMethods) > 0 {
		opts = append(opts, daemon.WithCORSAllowMethods(s.CORSMethods))
	}
	if len(s.CORSHeaders) > 0 {
		opts = append(opts, daemon.WithCORSAllowHeaders(s.CORSHeaders))
	}
	if s.CORSMaxAge > 0 {
		opts = append(opts, daemon.WithCORSMaxAge(s.CORSMaxAge))
	}
	if s.ShutdownTimeout > 0 {
		opts = append(opts, daemon.WithShutdownTimeout(s.ShutdownTimeout))
	}

	return opts
}

func (c *ServeCmd) printBanner(cobraCmd *cobra.Command, addr string) {
	banner := fmt.Sprintf("mcpcat API running.\n\n"+
		"  Local API:\thttp://%s/api/v1\n"+
		"  OpenAPI UI:\thttp://%s/docs\n"+
		"  Metrics:\thttp://%s/metrics\n"+
		"  Config file:\t%s\n",
		addr, addr, addr, flags.ConfigFile)

	if flags.LogPath != "" {
		banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
	}

	banner += "\nPress Ctrl+C to stop.\n\n"
	_, _ = fmt.Fprint(cobraCmd.OutOrStdout(), banner)
}
