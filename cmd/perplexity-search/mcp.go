package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/perplexity-search/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve rank_by_perplexity to an MCP client over stdio",
	Long: `MCP starts a Model Context Protocol server on stdin/stdout with one
tool, rank_by_perplexity(query, max_results, email, format). Logs go to
stderr so they never mix with protocol messages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, _, err := newRunner(logger)
		if err != nil {
			return err
		}
		return mcpserver.New(runner, logger, version).Run()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
