package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/printer"
	"github.com/mozilla-ai/mcpcat/internal/registry"
)

// HealthCmd should be used to represent the 'health' command.
type HealthCmd struct {
	catalogCmd
	Watch   bool
	Count   int
	Format  cmd.OutputFormat
	printer output.Printer[catalog.Health]
}

func NewHealthCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &HealthCmd{
		catalogCmd: newCatalogCmd(baseCmd, opts),
		Format:     cmd.FormatText,
		printer:    printer.NewHealthPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "health [--watch]",
		Short: "Reports the health of the catalog service",
		Long: "Reports the health of the catalog service.\n\n" +
			"A failed health check is reported as status 'unknown' rather than as an error. " +
			"With --watch the status is checked again on a timer and each result is printed until interrupted.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCmd.Flags().BoolVar(&c.Watch, "watch", false, "Keep checking the catalog's health")
	cobraCmd.Flags().IntVar(&c.Count, "count", 0, "Stop watching after this many results (0 watches until interrupted)")
	addFormatFlag(cobraCmd, &c.Format)

	return cobraCmd, nil
}

func (c *HealthCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.printer)
	if err != nil {
		return err
	}

	reg, _, closeFn, err := c.openRegistry(config.Overrides{})
	if err != nil {
		return handler.HandleError(err)
	}
	defer closeFn()

	ctx := commandContext(cobraCmd.Context())
	if !c.Watch {
		return handler.HandleResult(registry.HealthOrUnknown(reg.Health(ctx)))
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return c.watch(ctx, reg, handler)
}

func (c *HealthCmd) watch(ctx context.Context, reg *registry.Registry, handler output.Handler[catalog.Health]) error {
	sub := reg.WatchHealth()
	defer sub.Close()

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case res, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			// Only settled results are printed.
			if res.IsFetching {
				continue
			}
			if res.Error != nil {
				c.Logger().Warn("Catalog health check failed", "error", res.Error)
			}
			if err := handler.HandleResult(registry.HealthOrUnknown(res)); err != nil {
				return err
			}

			printed++
			if c.Count > 0 && printed >= c.Count {
				return nil
			}
		}
	}
}
