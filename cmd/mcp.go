package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/config"
	"github.com/mozilla-ai/mcpcat/internal/mcpserver"
)

// MCPCmd should be used to represent the 'mcp' command.
type MCPCmd struct {
	catalogCmd
}

func NewMCPCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &MCPCmd{catalogCmd: newCatalogCmd(baseCmd, opts)}

	cobraCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serves catalog queries as MCP tools over stdio",
		Long: fmt.Sprintf(
			"Runs an MCP server on stdin and stdout so that agents can query the catalog.\n\n"+
				"Tools: %s, %s, %s, %s.\n"+
				"Logs are never written to stdout; use --log-path to capture them.",
			mcpserver.ToolSearchServers,
			mcpserver.ToolGetServer,
			mcpserver.ToolCatalogHealth,
			mcpserver.ToolCatalogStats,
		),
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	return cobraCmd, nil
}

func (c *MCPCmd) run(cobraCmd *cobra.Command, _ []string) error {
	reg, _, closeFn, err := c.openRegistry(config.Overrides{})
	if err != nil {
		return err
	}
	defer closeFn()

	srv, err := mcpserver.New(c.Logger(), reg, cmd.AppName(), cmd.Version())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(commandContext(cobraCmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return srv.Serve(ctx, cobraCmd.InOrStdin(), cobraCmd.OutOrStdout())
}
