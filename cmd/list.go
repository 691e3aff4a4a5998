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
	"github.com/mozilla-ai/mcpcat/internal/facets"
	"github.com/mozilla-ai/mcpcat/internal/filter"
	"github.com/mozilla-ai/mcpcat/internal/printer"
)

const (
	flagLimit    = "limit"
	flagCursor   = "cursor"
	flagAll      = "all"
	flagLanguage = "language"
	flagCategory = "category"
	flagFormat   = "format"
)

// ListCmd should be used to represent the 'list' command.
type ListCmd struct {
	catalogCmd
	Limit      int
	Cursor     string
	All        bool
	Languages  []string
	Categories []string
	Format     cmd.OutputFormat
	printer    output.Printer[catalog.ServerListResult]
}

// NewListCmd creates a newly configured (Cobra) command.
func NewListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	serverPrinter, err := printer.NewServerPrinter(printer.WithClock(opts.Clock))
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		catalogCmd: newCatalogCmd(baseCmd, opts),
		Format:     cmd.FormatText,
		printer:    printer.NewServerListPrinter(serverPrinter),
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists servers in the catalog",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().IntVar(
		&c.Limit,
		flagLimit,
		0,
		fmt.Sprintf("Number of servers per page (default %d, at most %d)", catalog.DefaultLimit, catalog.MaxLimit),
	)
	cobraCmd.Flags().StringVar(&c.Cursor, flagCursor, "", "Continue a previous listing from this cursor")
	cobraCmd.Flags().BoolVar(&c.All, flagAll, false, "Follow every page of the catalog")
	addFacetFlags(cobraCmd, &c.Languages, &c.Categories)
	addFormatFlag(cobraCmd, &c.Format)

	cobraCmd.MarkFlagsMutuallyExclusive(flagAll, flagCursor)

	return cobraCmd, nil
}

func (c *ListCmd) longDescription() string {
	return "Lists servers in the catalog one page at a time.\n\n" +
		"Use --cursor with the value printed after a page to read the next one, or --all to read every page.\n" +
		"The --language and --category filters match the technology and category derived from each server."
}

func (c *ListCmd) filters() catalog.SearchFilters {
	return catalog.SearchFilters{
		Languages:  c.Languages,
		Categories: c.Categories,
		Limit:      c.Limit,
		Cursor:     c.Cursor,
	}
}

func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.printer)
	if err != nil {
		return err
	}

	if err := validateFacets(c.Languages, c.Categories); err != nil {
		return handler.HandleError(err)
	}

	reg, _, closeFn, err := c.openRegistry(config.Overrides{})
	if err != nil {
		return handler.HandleError(err)
	}
	defer closeFn()

	ctx := commandContext(cobraCmd.Context())
	res := reg.Servers(ctx, c.filters())
	if c.All {
		res = reg.AllServers(ctx, c.filters())
	}

	if err := resultError(res.Error, res.HasData()); err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(res.Value())
}

// addFacetFlags registers the technology and category filters shared by listing commands.
func addFacetFlags(cobraCmd *cobra.Command, languages *[]string, categories *[]string) {
	cobraCmd.Flags().StringSliceVar(
		languages,
		flagLanguage,
		nil,
		"Only servers built with this technology, e.g. Python (can be repeated)",
	)
	cobraCmd.Flags().StringSliceVar(
		categories,
		flagCategory,
		nil,
		"Only servers in this category, e.g. Database (can be repeated)",
	)
}

// validateFacets rejects technology or category values that no server can be assigned.
func validateFacets(languages []string, categories []string) error {
	checks := []struct {
		flag      string
		requested []string
		available []string
	}{
		{flag: flagLanguage, requested: languages, available: facets.Technologies()},
		{flag: flagCategory, requested: categories, available: facets.Categories()},
	}

	for _, c := range checks {
		if len(c.requested) == 0 {
			continue
		}
		if _, err := filter.MatchRequestedSlice(c.requested, c.available); err != nil {
			return fmt.Errorf("invalid --%s: %w (one of: %s)", c.flag, err, strings.Join(c.available, ", "))
		}
	}

	return nil
}

func addFormatFlag(cobraCmd *cobra.Command, format *cmd.OutputFormat) {
	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		format,
		flagFormat,
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)
}
