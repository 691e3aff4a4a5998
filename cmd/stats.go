package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/printer"
	"github.com/mozilla-ai/mcpcat/internal/search"
)

// StatsCmd should be used to represent the 'stats' command.
type StatsCmd struct {
	catalogCmd
	Format  cmd.OutputFormat
	printer output.Printer[search.Stats]
}

func NewStatsCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &StatsCmd{
		catalogCmd: newCatalogCmd(baseCmd, opts),
		Format:     cmd.FormatText,
		printer:    printer.NewStatsPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarizes the catalog by technology and category",
		Long: "Summarizes the first page of the catalog: how many servers it holds, " +
			"how they break down by derived technology and category, and how many were updated in the last 30 days",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	addFormatFlag(cobraCmd, &c.Format)

	return cobraCmd, nil
}

func (c *StatsCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.printer)
	if err != nil {
		return err
	}

	reg, _, closeFn, err := c.openRegistry(config.Overrides{})
	if err != nil {
		return handler.HandleError(err)
	}
	defer closeFn()

	res := reg.Stats(commandContext(cobraCmd.Context()))
	if err := resultError(res.Error, res.HasData()); err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(res.Value())
}

// FacetsCmd should be used to represent the 'facets' command.
type FacetsCmd struct {
	catalogCmd
	Format  cmd.OutputFormat
	printer output.Printer[search.Facets]
}

func NewFacetsCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &FacetsCmd{
		catalogCmd: newCatalogCmd(baseCmd, opts),
		Format:     cmd.FormatText,
		printer:    printer.NewFacetsPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "facets [text]",
		Short: "Counts servers by technology and category",
		Long: "Counts the servers of the first catalog page, or of the search results for the given text, " +
			"by derived technology and category. These are the values accepted by --language and --category.",
		RunE: c.run,
	}

	addFormatFlag(cobraCmd, &c.Format)

	return cobraCmd, nil
}

func (c *FacetsCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.printer)
	if err != nil {
		return err
	}

	reg, _, closeFn, err := c.openRegistry(config.Overrides{})
	if err != nil {
		return handler.HandleError(err)
	}
	defer closeFn()

	text := strings.TrimSpace(strings.Join(args, " "))
	res := reg.Facets(commandContext(cobraCmd.Context()), text, catalog.SearchFilters{})
	if err := resultError(res.Error, res.HasData()); err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(res.Value())
}
