package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/joescharf/lgtm/internal/models"
)

// ConsoleWriter renders a review as colored terminal output.
type ConsoleWriter struct{}

func (c *ConsoleWriter) WriteReview(w io.Writer, ticket *models.Ticket, diff *models.DiffSummary, result *models.ReviewResult) error {
	c.writeHeader(w, ticket, diff, result)
	c.writeSummary(w, result)
	c.writeCriteria(w, result.CriteriaAnalysis)
	c.writeFindings(w, result.Findings)
	c.writeCoverage(w, result.Coverage)
	c.writeRecommendations(w, result)
	if result.Comment != "" {
		fmt.Fprintf(w, "%s\n%s\n", Bold("🚀 Final Verdict"), result.Comment)
	}
	return nil
}

func (c *ConsoleWriter) writeHeader(w io.Writer, ticket *models.Ticket, diff *models.DiffSummary, result *models.ReviewResult) {
	fmt.Fprintf(w, "%s\n", Bold("🤖 LGTM Review"))
	fmt.Fprintf(w, "📋 Ticket: %s - %s\n", Cyan(ticket.Key), ticket.Summary)
	fmt.Fprintf(w, "🔀 PR: #%d - %s\n", diff.Number, diff.Title)
	if diff.Author != "" {
		fmt.Fprintf(w, "👤 Author: %s\n", diff.Author)
	}
	fmt.Fprintf(w, "📊 Score: %s\n", ScoreColor(result.Score))
	fmt.Fprintf(w, "Review Status: %s\n\n", StatusColor(strings.ToUpper(string(result.Status))))
}

func (c *ConsoleWriter) writeSummary(w io.Writer, result *models.ReviewResult) {
	fmt.Fprintf(w, "%s\n%s\n\n", Bold("📋 Summary"), result.Summary)
}

func (c *ConsoleWriter) writeCriteria(w io.Writer, criteria []models.CriterionAnalysis) {
	if len(criteria) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", Bold("🎯 Acceptance Criteria Analysis"))

	table := newTable(w, []string{"CRITERION", "STATUS", "CONFIDENCE", "NOTES"})
	for _, ac := range criteria {
		status := "❌"
		if ac.Fulfilled {
			status = "✅"
		}

		var notes []string
		for _, e := range firstN(ac.Evidence, 2) {
			notes = append(notes, "✓ "+clip(e, 50))
		}
		for _, g := range firstN(ac.Gaps, 2) {
			notes = append(notes, "✗ "+clip(g, 50))
		}
		if len(notes) == 0 {
			notes = []string{"No details"}
		}

		table.Append([]string{
			clip(ac.Criterion, 80),
			status,
			fmt.Sprintf("%.1f%%", ac.Confidence*100),
			strings.Join(notes, "; "),
		})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (c *ConsoleWriter) writeFindings(w io.Writer, findings []models.QualityFinding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", Bold(Red("🔍 Code Quality Issues")))
	for _, f := range findings {
		fmt.Fprintf(w, "  • %s: %s (%s)\n", Red(f.File), f.Message, f.Kind)
	}
	fmt.Fprintln(w)
}

func (c *ConsoleWriter) writeCoverage(w io.Writer, coverage models.CoverageAssessment) {
	icon := "❌"
	if coverage.HasTests {
		icon = "✅"
	}
	fmt.Fprintf(w, "%s\n", Bold("🧪 Test Analysis"))
	fmt.Fprintf(w, "  %s Status: %s\n", icon, coverage.Recommendation)
	if len(coverage.TestFiles) > 0 {
		fmt.Fprintln(w, "  📁 Test Files:")
		for _, tf := range coverage.TestFiles {
			fmt.Fprintf(w, "    • %s\n", tf)
		}
	}
	fmt.Fprintln(w)
}

func (c *ConsoleWriter) writeRecommendations(w io.Writer, result *models.ReviewResult) {
	if len(result.RequiredChanges) > 0 {
		fmt.Fprintf(w, "%s\n", Bold(Red("❗ Required Changes")))
		for _, change := range result.RequiredChanges {
			fmt.Fprintf(w, "  • %s\n", change)
		}
		fmt.Fprintln(w)
	}

	if len(result.Suggestions) > 0 {
		fmt.Fprintf(w, "%s\n", Bold(Yellow("💡 Suggestions for Improvement")))
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(w, "  • %s\n", suggestion)
		}
		fmt.Fprintln(w)
	}

	if len(result.RecommendedTests) > 0 {
		fmt.Fprintf(w, "%s\n", Bold(Cyan("🧪 Recommended Test Cases")))
		for _, test := range result.RecommendedTests {
			fmt.Fprintf(w, "  • %s\n", test)
		}
		fmt.Fprintln(w)
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
