package review

import (
	"fmt"
	"strings"

	"github.com/joescharf/lgtm/internal/models"
)

const (
	maxSuggestions      = 10
	maxRecommendedTests = 5
	criterionPreview    = 50

	// requiredConfidence marks an unmet criterion as a required change.
	// Stricter than the hard-block threshold.
	requiredConfidence = 0.8
)

// buildSuggestions merges improvement ideas from every analysis stage:
// criterion gaps first, then finding messages, then the holistic review's
// maintainability and performance notes. Capped at maxSuggestions.
func buildSuggestions(criteria []models.CriterionAnalysis, findings []models.QualityFinding, general models.GeneralAssessment) []string {
	var suggestions []string
	for _, c := range criteria {
		if !c.Fulfilled && len(c.Gaps) > 0 {
			suggestions = append(suggestions, c.Gaps...)
		}
	}
	for _, f := range findings {
		suggestions = append(suggestions, fmt.Sprintf("%s: %s", f.File, f.Message))
	}
	suggestions = append(suggestions, general.MaintainabilityIssues...)
	suggestions = append(suggestions, general.PerformanceConcerns...)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// buildRequiredChanges lists the blockers: confidently-unmet criteria
// plus, when any fail keyword was found, a single cleanup entry.
func buildRequiredChanges(criteria []models.CriterionAnalysis, findings []models.QualityFinding) []string {
	var required []string
	for _, c := range criteria {
		if !c.Fulfilled && c.Confidence > requiredConfidence {
			required = append(required, fmt.Sprintf("Must fulfill: %s", c.Criterion))
		}
	}
	for _, f := range findings {
		if f.Kind == models.FindingFailKeyword {
			required = append(required, "Remove debugging/temporary code (TODO, FIXME, console.log, etc.)")
			break
		}
	}
	// Past the hard cap the findings alone fail the review, so they
	// surface as a blocker too, not just as suggestions.
	if len(findings) > maxFindings {
		required = append(required, fmt.Sprintf("Address the %d code quality issues before merging", len(findings)))
	}
	return required
}

// buildRecommendedTests suggests test work: a generic entry when the diff
// has none, one entry per criterion, and one per newly added non-test
// file. Capped at maxRecommendedTests.
func buildRecommendedTests(ticket *models.Ticket, diff *models.DiffSummary, coverage models.CoverageAssessment) []string {
	var recs []string
	if !coverage.HasTests {
		recs = append(recs, "Add unit tests for the main functionality")
	}
	for _, criterion := range ticket.AcceptanceCriteria {
		recs = append(recs, fmt.Sprintf("Test case for: %s...", truncate(criterion, criterionPreview)))
	}
	for _, fc := range diff.AddedFiles() {
		if !fc.IsTest {
			recs = append(recs, fmt.Sprintf("Add tests for new file: %s", fc.Path))
		}
	}
	if len(recs) > maxRecommendedTests {
		recs = recs[:maxRecommendedTests]
	}
	return recs
}

// verdictComment picks the approval comment tier for a passing review.
func verdictComment(score float64) string {
	switch {
	case score >= 0.95:
		return "LGTM! 🚀 Excellent implementation that fully meets requirements with great code quality."
	case score >= 0.85:
		return "LGTM! ✅ Solid implementation that meets requirements with good practices."
	default:
		return "LGTM! ✅ Implementation meets requirements."
	}
}

// buildSummary renders the five-line review summary.
func buildSummary(result *models.ReviewResult) string {
	testLine := "❌ No tests detected"
	if result.Coverage.HasTests {
		testLine = "✅ Tests found"
	}
	lines := []string{
		fmt.Sprintf("Review Status: %s", strings.ToUpper(string(result.Status))),
		fmt.Sprintf("Overall Score: %.1f%%", result.Score*100),
		fmt.Sprintf("Acceptance Criteria: %d/%d fulfilled", result.FulfilledCount(), len(result.CriteriaAnalysis)),
		fmt.Sprintf("Code Quality Issues: %d", len(result.Findings)),
		fmt.Sprintf("Test Coverage: %s", testLine),
	}
	return strings.Join(lines, "\n")
}
