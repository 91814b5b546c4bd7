package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joescharf/lgtm/internal/models"
)

// MarkdownWriter renders a review as markdown suitable for GitHub
// comments or documentation.
type MarkdownWriter struct {
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (m *MarkdownWriter) WriteReview(w io.Writer, ticket *models.Ticket, diff *models.DiffSummary, result *models.ReviewResult) error {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	var b strings.Builder

	b.WriteString("# 🤖 LGTM Review Report\n")
	fmt.Fprintf(&b, "**Ticket:** [%s] %s\n", ticket.Key, ticket.Summary)
	fmt.Fprintf(&b, "**PR:** #%d - %s\n", diff.Number, diff.Title)
	fmt.Fprintf(&b, "**Reviewed:** %s\n\n", now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## %s Review Status: %s\n", statusEmoji(result.Status), strings.ToUpper(string(result.Status)))
	fmt.Fprintf(&b, "**Overall Score:** %.1f%%\n\n", result.Score*100)

	b.WriteString("## 📋 Summary\n")
	b.WriteString(result.Summary)
	b.WriteString("\n\n")

	if len(result.CriteriaAnalysis) > 0 {
		b.WriteString("## 🎯 Acceptance Criteria Analysis\n")
		for i, ac := range result.CriteriaAnalysis {
			icon := "❌"
			if ac.Fulfilled {
				icon = "✅"
			}
			fmt.Fprintf(&b, "### %d. %s %s (%.1f%% confidence)\n", i+1, icon, ac.Criterion, ac.Confidence*100)
			if len(ac.Evidence) > 0 {
				b.WriteString("**Evidence:**\n")
				for _, e := range ac.Evidence {
					fmt.Fprintf(&b, "- %s\n", e)
				}
			}
			if len(ac.Gaps) > 0 {
				b.WriteString("**Gaps:**\n")
				for _, g := range ac.Gaps {
					fmt.Fprintf(&b, "- %s\n", g)
				}
			}
			if ac.Reasoning != "" {
				fmt.Fprintf(&b, "**Reasoning:** %s\n", ac.Reasoning)
			}
			b.WriteString("\n")
		}
	}

	if len(result.Findings) > 0 {
		b.WriteString("## 🔍 Code Quality Issues\n")
		for _, f := range result.Findings {
			fmt.Fprintf(&b, "- **%s**: %s\n", f.File, f.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 🧪 Test Analysis\n")
	testIcon := "❌"
	if result.Coverage.HasTests {
		testIcon = "✅"
	}
	fmt.Fprintf(&b, "%s **Test Coverage:** %s\n", testIcon, result.Coverage.Recommendation)
	if len(result.Coverage.TestFiles) > 0 {
		b.WriteString("**Test Files:**\n")
		for _, tf := range result.Coverage.TestFiles {
			fmt.Fprintf(&b, "- %s\n", tf)
		}
	}
	b.WriteString("\n")

	if len(result.RequiredChanges) > 0 {
		b.WriteString("## ❗ Required Changes\n")
		for _, change := range result.RequiredChanges {
			fmt.Fprintf(&b, "- %s\n", change)
		}
		b.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		b.WriteString("## 💡 Suggestions for Improvement\n")
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(&b, "- %s\n", suggestion)
		}
		b.WriteString("\n")
	}

	if len(result.RecommendedTests) > 0 {
		b.WriteString("## 🧪 Recommended Test Cases\n")
		for _, test := range result.RecommendedTests {
			fmt.Fprintf(&b, "- %s\n", test)
		}
		b.WriteString("\n")
	}

	if result.Comment != "" {
		b.WriteString("## 🚀 Final Verdict\n")
		b.WriteString(result.Comment)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func statusEmoji(status models.ReviewStatus) string {
	switch status {
	case models.ReviewStatusPass:
		return "✅"
	case models.ReviewStatusConditional:
		return "⚠️"
	default:
		return "❌"
	}
}
