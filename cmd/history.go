package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/lgtm/internal/models"
	"github.com/joescharf/lgtm/internal/output"
	"github.com/joescharf/lgtm/internal/store"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history [TICKET]",
	Short: "List stored reviews",
	Long:  "List past reviews, newest first, optionally filtered by ticket key.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticket := ""
		if len(args) > 0 {
			ticket = args[0]
		}
		return historyRun(cmd, ticket)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a stored review in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyShowRun(cmd, args[0])
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of reviews to list")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format: table, json")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyRun(cmd *cobra.Command, ticketKey string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	recs, err := s.ListReviews(cmd.Context(), store.ReviewListFilter{
		TicketKey: ticketKey,
		Limit:     historyLimit,
	})
	if err != nil {
		return err
	}

	switch historyFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "table":
		if len(recs) == 0 {
			ui.Info("No reviews stored yet")
			return nil
		}
		printReviewTable(recs)
		return nil
	default:
		return fmt.Errorf("unknown format: %s (use: table, json)", historyFormat)
	}
}

func printReviewTable(recs []*models.ReviewRecord) {
	table := ui.Table([]string{"ID", "TICKET", "PR", "STATUS", "SCORE", "CREATED"})
	for _, r := range recs {
		pr := ""
		if r.PRNumber > 0 {
			pr = fmt.Sprintf("#%d", r.PRNumber)
		}
		_ = table.Append([]string{
			r.ID,
			r.TicketKey,
			pr,
			output.StatusColor(string(r.Status)),
			output.ScoreColor(r.Score),
			r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()
}

func historyShowRun(cmd *cobra.Command, id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	rec, err := s.GetReview(cmd.Context(), id)
	if err != nil {
		return err
	}

	if rec.Result == nil {
		ui.Warning("Review %s has no stored detail", rec.ID)
		printReviewTable([]*models.ReviewRecord{rec})
		return nil
	}

	ticket := &models.Ticket{Key: rec.TicketKey}
	diff := &models.DiffSummary{Number: rec.PRNumber, Title: rec.PRTitle}
	w := &output.ConsoleWriter{}
	return w.WriteReview(ui.Out, ticket, diff, rec.Result)
}
