package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/cmd/output"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/printer"
)

type SearchCmd struct {
	catalogCmd
	Limit      int
	Languages  []string
	Categories []string
	Format     cmd.OutputFormat
	printer    output.Printer[catalog.ServerSummary]
}

func NewSearchCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	serverPrinter, err := printer.NewServerPrinter(printer.WithClock(opts.Clock))
	if err != nil {
		return nil, err
	}

	c := &SearchCmd{
		catalogCmd: newCatalogCmd(baseCmd, opts),
		Format:     cmd.FormatText,
		printer:    printer.NewServerResultsPrinter(serverPrinter),
	}

	cobraCommand := &cobra.Command{
		Use:   "search <text>",
		Short: "Searches the catalog for servers matching the given text",
		Long:  c.longDescription(),
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	cobraCommand.Flags().IntVar(
		&c.Limit,
		flagLimit,
		0,
		"Optional, maximum number of results to show",
	)
	addFacetFlags(cobraCommand, &c.Languages, &c.Categories)
	addFormatFlag(cobraCommand, &c.Format)

	return cobraCommand, nil
}

// longDescription returns the long version of the command description.
func (c *SearchCmd) longDescription() string {
	return fmt.Sprintf(
		"Searches the first %d catalog servers for the given text, ignoring case.\n\n"+
			"A server matches when its name or description contains the text. "+
			"Results can be narrowed further by derived technology and category.",
		catalog.SearchFetchLimit,
	)
}

func (c *SearchCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.printer)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return handler.HandleError(fmt.Errorf("search text is required and cannot be empty"))
	}

	if err := validateFacets(c.Languages, c.Categories); err != nil {
		return handler.HandleError(err)
	}

	reg, _, closeFn, err := c.openRegistry(config.Overrides{})
	if err != nil {
		return handler.HandleError(err)
	}
	defer closeFn()

	res := reg.SearchServers(commandContext(cobraCmd.Context()), text, catalog.SearchFilters{
		Languages:  c.Languages,
		Categories: c.Categories,
	})
	if err := resultError(res.Error, res.HasData()); err != nil {
		return handler.HandleError(err)
	}

	servers := res.Value().Servers
	if c.Limit > 0 && len(servers) > c.Limit {
		servers = servers[:c.Limit]
	}

	return handler.HandleResults(servers...)
}
