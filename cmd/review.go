package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joescharf/lgtm/internal/config"
	"github.com/joescharf/lgtm/internal/git"
	"github.com/joescharf/lgtm/internal/github"
	"github.com/joescharf/lgtm/internal/jira"
	"github.com/joescharf/lgtm/internal/llm"
	"github.com/joescharf/lgtm/internal/output"
	"github.com/joescharf/lgtm/internal/review"
)

var (
	reviewPR     string
	reviewLocal  string
	reviewRef    string
	reviewFormat string
	reviewSaveTo string
)

var reviewCmd = &cobra.Command{
	Use:   "review TICKET",
	Short: "Review a pull request against its ticket",
	Long: `Review a pull request against the acceptance criteria of a ticket.

The ticket's linked pull request is reviewed by default. Pass --pr to
pick one explicitly, or --local to review changes in a local repository
instead of a GitHub PR.

Exit code is 0 on pass, 1 on conditional, 2 on fail.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewRun(cmd, args[0])
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewPR, "pr", "", "Pull request URL (default: the ticket's linked PR)")
	reviewCmd.Flags().StringVar(&reviewLocal, "local", "", "Path to a local repository to review instead of a PR")
	reviewCmd.Flags().StringVar(&reviewRef, "ref", "", "Git ref range for --local (default: HEAD vs working tree)")
	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", "", "Output format: console, markdown, json")
	reviewCmd.Flags().StringVar(&reviewSaveTo, "save-to", "", "Write the rendered review to a file as well")
	rootCmd.AddCommand(reviewCmd)
}

func reviewRun(cmd *cobra.Command, ticketKey string) error {
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

	outcome, err := runner.Run(cmd.Context(), review.RunOptions{
		TicketKey: ticketKey,
		PRURL:     reviewPR,
		LocalPath: reviewLocal,
		LocalRef:  reviewRef,
	})
	if err != nil {
		return err
	}

	format := reviewFormat
	if format == "" {
		format = cfg.Format
	}
	w, err := output.ForFormat(format)
	if err != nil {
		return err
	}

	if err := w.WriteReview(ui.Out, outcome.Ticket, outcome.Diff, outcome.Result); err != nil {
		return err
	}

	if reviewSaveTo != "" {
		if err := output.SaveTo(reviewSaveTo, w, outcome.Ticket, outcome.Diff, outcome.Result); err != nil {
			return err
		}
		ui.Success("Review saved to %s", reviewSaveTo)
	}
	if outcome.ReviewID != "" {
		ui.VerboseLog("Review stored as %s", outcome.ReviewID)
	}

	closeStore()
	os.Exit(outcome.Result.Status.ExitCode())
	return nil
}

// newRunner wires the review collaborators from the effective config.
// withEngine controls whether an AI backend is constructed; heuristic
// commands pass false and need no API key. The store is only attached
// alongside the engine, since only full reviews persist results.
func newRunner(cfg *config.Config, withEngine bool) (*review.Runner, error) {
	engineCfg := review.Config{FailKeywords: cfg.Review.FailKeywords}

	deps := review.RunnerDeps{
		Jira:   jira.NewClient(cfg.Jira.URL, cfg.Jira.Username, cfg.Jira.Token),
		GitHub: github.NewClient(cfg.GitHub.Token, cfg.Review.TestPatterns),
		Git:    git.NewClient(cfg.Review.TestPatterns),
	}

	if withEngine {
		guidelines, err := cfg.Guidelines()
		if err != nil {
			return nil, err
		}
		engineCfg.Guidelines = guidelines

		client, err := llm.New(cfg.LLMConfig())
		if err != nil {
			return nil, err
		}
		deps.Engine = review.NewEngine(client, engineCfg)

		if s, err := getStore(); err == nil {
			deps.Store = s
		} else {
			ui.Warning("Review history unavailable: %v", err)
		}
	}

	return review.NewRunner(deps, engineCfg), nil
}
