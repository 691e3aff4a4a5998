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

// ShowCmd should be used to represent the 'show' command.
type ShowCmd struct {
	catalogCmd
	Format  cmd.OutputFormat
	printer output.Printer[catalog.ServerDetail]
}

func NewShowCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	detailPrinter, err := printer.NewDetailPrinter(printer.WithClock(opts.Clock))
	if err != nil {
		return nil, err
	}

	c := &ShowCmd{
		catalogCmd: newCatalogCmd(baseCmd, opts),
		Format:     cmd.FormatText,
		printer:    detailPrinter,
	}

	cobraCmd := &cobra.Command{
		Use:   "show <server-id>",
		Short: "Shows the packages, remotes and inputs of a catalog server",
		Long:  "Shows a catalog server in full: its repository, version, installable packages and remote endpoints",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	addFormatFlag(cobraCmd, &c.Format)

	return cobraCmd, nil
}

func (c *ShowCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler(c.Format, cobraCmd.OutOrStdout(), c.printer)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(args[0])
	if id == "" {
		return handler.HandleError(fmt.Errorf("server-id is required"))
	}

	reg, _, closeFn, err := c.openRegistry(config.Overrides{})
	if err != nil {
		return handler.HandleError(err)
	}
	defer closeFn()

	res := reg.Server(commandContext(cobraCmd.Context()), id)
	if err := resultError(res.Error, res.HasData()); err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(res.Value())
}
