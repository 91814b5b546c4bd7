package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/lgtm/internal/config"
	"github.com/joescharf/lgtm/internal/output"
)

var ticketCmd = &cobra.Command{
	Use:   "ticket TICKET",
	Short: "Fetch a ticket and show its acceptance criteria",
	Long: `Fetch a ticket by key or URL and show what a review would check:
the extracted acceptance criteria and any linked pull requests.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketRun(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(ticketCmd)
}

func ticketRun(cmd *cobra.Command, keyOrURL string) error {
	cfg := config.FromViper()
	if err := cfg.ValidateJira(); err != nil {
		return err
	}

	runner, err := newRunner(cfg, false)
	if err != nil {
		return err
	}

	ticket, err := runner.AnalyzeTicket(cmd.Context(), keyOrURL)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s %s\n", output.Bold(ticket.Key), ticket.Summary)
	fmt.Fprintf(ui.Out, "  Status: %s  Type: %s  Priority: %s\n",
		output.Cyan(ticket.Status), ticket.Type, ticket.Priority)
	fmt.Fprintln(ui.Out)

	if ticket.Description != "" {
		fmt.Fprintln(ui.Out, output.Bold("Problem"))
		fmt.Fprintf(ui.Out, "  %s\n\n", clipText(ticket.Description, 400))
	}

	fmt.Fprintln(ui.Out, output.Bold("Acceptance criteria"))
	if len(ticket.AcceptanceCriteria) == 0 {
		ui.Warning("No acceptance criteria found. A review would rely on heuristics only.")
	} else {
		for i, c := range ticket.AcceptanceCriteria {
			fmt.Fprintf(ui.Out, "  %d. %s\n", i+1, c)
		}
	}
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, output.Bold("Linked pull requests"))
	if len(ticket.LinkedPRs) == 0 {
		fmt.Fprintln(ui.Out, "  (none)")
	} else {
		for _, pr := range ticket.LinkedPRs {
			fmt.Fprintf(ui.Out, "  %s\n", output.Cyan(pr))
		}
	}

	return nil
}

// clipText shortens s to at most n bytes for single-screen display.
func clipText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
