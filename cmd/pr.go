package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/lgtm/internal/config"
	"github.com/joescharf/lgtm/internal/output"
)

var prCmd = &cobra.Command{
	Use:   "pr URL",
	Short: "Analyze a pull request without an AI backend",
	Long: `Fetch a pull request diff and run the deterministic checks only:
changed-file classification, quality findings, and test coverage.
No ticket and no AI backend are required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return prRun(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(prCmd)
}

func prRun(cmd *cobra.Command, prURL string) error {
	cfg := config.FromViper()

	runner, err := newRunner(cfg, false)
	if err != nil {
		return err
	}

	diff, findings, coverage, err := runner.AnalyzePR(cmd.Context(), prURL)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s %s\n", output.Bold(fmt.Sprintf("PR #%d", diff.Number)), diff.Title)
	if diff.Author != "" {
		fmt.Fprintf(ui.Out, "  Author: %s  %s -> %s  State: %s\n",
			diff.Author, diff.HeadBranch, diff.BaseBranch, diff.State)
	}
	fmt.Fprintln(ui.Out)

	table := ui.Table([]string{"FILE", "CHANGE", "+", "-", "TEST"})
	for _, f := range diff.Files {
		test := ""
		if f.IsTest {
			test = "yes"
		}
		_ = table.Append([]string{
			f.Path, string(f.Kind),
			fmt.Sprintf("%d", f.Additions), fmt.Sprintf("%d", f.Deletions), test,
		})
	}
	_ = table.Render()
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, output.Bold("Quality findings"))
	if len(findings) == 0 {
		ui.Success("No quality issues detected")
	} else {
		for _, f := range findings {
			loc := f.File
			if f.Line > 0 {
				loc = fmt.Sprintf("%s:%d", f.File, f.Line)
			}
			fmt.Fprintf(ui.Out, "  %s %s (%s)\n", output.Red(loc), f.Message, f.Kind)
		}
	}
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, output.Bold("Test coverage"))
	fmt.Fprintf(ui.Out, "  Test files: %d  Code files: %d  Ratio: %.2f\n",
		coverage.TestFileCount, coverage.CodeFileCount, coverage.Ratio)
	fmt.Fprintf(ui.Out, "  %s\n", coverage.Recommendation)

	return nil
}
