package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcat/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcat/internal/cmd/options"
	"github.com/mozilla-ai/mcpcat/internal/flags"
)

type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the root command and runs it.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with every subcommand attached.
// The options are passed to each subcommand.
func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:          cmd.AppName() + " <command> [args]",
		Short:        "Browse the catalog of MCP servers from the command line.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewInitCmd,
		NewListCmd,
		NewSearchCmd,
		NewShowCmd,
		NewHealthCmd,
		NewStatsCmd,
		NewFacetsCmd,
		NewServeCmd,
		NewMCPCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, fmt.Errorf("failed to create command: %w", err)
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'mcpcat' CLI browses a remote catalog of MCP servers.

It lists, searches and inspects catalog servers, reports the catalog's health and statistics,
and can expose the same queries through a local HTTP API ('mcpcat serve') or as MCP tools
over stdio ('mcpcat mcp').`
}
