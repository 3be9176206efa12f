package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentmesh/mcpgw/pkg/gwlog"
)

var debugFlag bool

// NewRootCmd builds the mcpgw command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcpgw",
		Short: "mcpgw aggregates multiple MCP backend servers behind one curated endpoint",
		Long: `mcpgw is an aggregating MCP gateway: it supervises a set of backend MCP
servers, discovers their tools/resources/prompts, and re-exposes a curated
subset of them - renamed, re-mapped and deduplicated per a "group" - as a
single MCP server over stdio.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Without --debug, gwlog keeps the level and admin mode it read
			// from LOG_LEVEL and ADMIN_MODE at startup.
			if debugFlag {
				gwlog.Init(slog.LevelDebug, strings.EqualFold(os.Getenv("ADMIN_MODE"), "true"))
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAdminCmd())

	return rootCmd
}
