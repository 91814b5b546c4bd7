package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/lgtm/internal/config"
	"github.com/joescharf/lgtm/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for AI assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an AI assistant request reviews natively. Configure with:

  {
    "mcpServers": {
      "lgtm": { "command": "lgtm", "args": ["mcp"] }
    }
  }

Available tools: lgtm_review, lgtm_analyze_ticket, lgtm_analyze_pr,
lgtm_list_reviews, lgtm_get_review`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun(cmd *cobra.Command) error {
	cfg := config.FromViper()
	if err := cfg.ValidateJira(); err != nil {
		return err
	}
	if err := cfg.ValidateAI(); err != nil {
		return err
	}

	runner, err := newRunner(cfg, true)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(runner, dataStore)
	ui.VerboseLog("Starting MCP server on stdio")
	return srv.ServeStdio(cmd.Context())
}
