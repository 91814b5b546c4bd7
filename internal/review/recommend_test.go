package review

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/lgtm/internal/models"
)

func TestBuildSuggestions_Order(t *testing.T) {
	criteria := []models.CriterionAnalysis{
		{Criterion: "a", Fulfilled: false, Gaps: []string{"missing input validation"}},
		{Criterion: "b", Fulfilled: true, Gaps: []string{"ignored because fulfilled"}},
	}
	findings := []models.QualityFinding{
		{File: "main.go", Kind: models.FindingFailKeyword, Message: "Found 'TODO' in main.go"},
	}
	general := models.GeneralAssessment{
		MaintainabilityIssues: []string{"split the handler"},
		PerformanceConcerns:   []string{"avoid rescanning the diff"},
	}

	got := buildSuggestions(criteria, findings, general)

	assert.Equal(t, []string{
		"missing input validation",
		"main.go: Found 'TODO' in main.go",
		"split the handler",
		"avoid rescanning the diff",
	}, got)
}

func TestBuildSuggestions_Cap(t *testing.T) {
	findings := make([]models.QualityFinding, 14)
	for i := range findings {
		findings[i] = models.QualityFinding{File: fmt.Sprintf("f%d.go", i), Message: "Line exceeds 120 characters (130 chars)"}
	}

	got := buildSuggestions(nil, findings, models.GeneralAssessment{})
	assert.Len(t, got, 10)
	assert.Equal(t, "f0.go: Line exceeds 120 characters (130 chars)", got[0])
}

func TestBuildRequiredChanges(t *testing.T) {
	criteria := []models.CriterionAnalysis{
		{Criterion: "endpoint returns 404 for unknown ids", Fulfilled: false, Confidence: 0.9},
		{Criterion: "logs are structured", Fulfilled: false, Confidence: 0.8}, // at threshold, not over
		{Criterion: "responses are cached", Fulfilled: true, Confidence: 0.99},
	}
	findings := []models.QualityFinding{
		{File: "a.go", Kind: models.FindingFailKeyword, Message: "Found 'TODO' in a.go"},
		{File: "b.go", Kind: models.FindingFailKeyword, Message: "Found 'FIXME' in b.go"},
		{File: "c.go", Kind: models.FindingLongLine, Message: "Line exceeds 120 characters (125 chars)"},
	}

	got := buildRequiredChanges(criteria, findings)

	// One cleanup entry regardless of how many keyword findings exist.
	assert.Equal(t, []string{
		"Must fulfill: endpoint returns 404 for unknown ids",
		"Remove debugging/temporary code (TODO, FIXME, console.log, etc.)",
	}, got)
}

func TestBuildRequiredChanges_FindingCapAddsBlocker(t *testing.T) {
	findings := make([]models.QualityFinding, 6)
	for i := range findings {
		findings[i] = models.QualityFinding{File: "main.go", Kind: models.FindingLongLine, Message: "Line exceeds 120 characters (130 chars)"}
	}

	got := buildRequiredChanges(nil, findings)

	assert.Equal(t, []string{"Address the 6 code quality issues before merging"}, got)
}

func TestBuildRequiredChanges_Empty(t *testing.T) {
	findings := []models.QualityFinding{
		{File: "c.go", Kind: models.FindingLongLine, Message: "Line exceeds 120 characters (125 chars)"},
	}
	assert.Empty(t, buildRequiredChanges(nil, findings))
}

func TestBuildRecommendedTests(t *testing.T) {
	ticket := &models.Ticket{
		Key:                "PROJ-1",
		AcceptanceCriteria: []string{"User can reset their password"},
	}
	diff := &models.DiffSummary{Files: []models.FileChange{
		{Path: "auth/reset.go", Kind: models.ChangeAdded},
		{Path: "auth/reset_test.go", Kind: models.ChangeAdded, IsTest: true},
		{Path: "auth/session.go", Kind: models.ChangeModified},
	}}

	got := buildRecommendedTests(ticket, diff, models.CoverageAssessment{HasTests: false})

	assert.Equal(t, []string{
		"Add unit tests for the main functionality",
		"Test case for: User can reset their password...",
		"Add tests for new file: auth/reset.go",
	}, got)
}

func TestBuildRecommendedTests_TruncatesCriterion(t *testing.T) {
	long := strings.Repeat("y", 80)
	ticket := &models.Ticket{AcceptanceCriteria: []string{long}}

	got := buildRecommendedTests(ticket, &models.DiffSummary{}, models.CoverageAssessment{HasTests: true})

	assert.Equal(t, []string{"Test case for: " + strings.Repeat("y", 50) + "..."}, got)
}

func TestBuildRecommendedTests_Cap(t *testing.T) {
	ticket := &models.Ticket{AcceptanceCriteria: []string{"a", "b", "c", "d", "e", "f"}}
	diff := &models.DiffSummary{}

	got := buildRecommendedTests(ticket, diff, models.CoverageAssessment{HasTests: true})
	assert.Len(t, got, 5)
	assert.Equal(t, "Test case for: a...", got[0])
}

func TestVerdictComment_Tiers(t *testing.T) {
	assert.Contains(t, verdictComment(0.96), "Excellent implementation")
	assert.Contains(t, verdictComment(0.95), "Excellent implementation")
	assert.Contains(t, verdictComment(0.90), "Solid implementation")
	assert.Contains(t, verdictComment(0.80), "Implementation meets requirements")
}

func TestBuildSummary(t *testing.T) {
	result := &models.ReviewResult{
		Status: models.ReviewStatusConditional,
		Score:  0.723,
		CriteriaAnalysis: []models.CriterionAnalysis{
			{Criterion: "a", Fulfilled: true},
			{Criterion: "b", Fulfilled: false},
			{Criterion: "c", Fulfilled: true},
		},
		Findings: []models.QualityFinding{
			{File: "main.go", Kind: models.FindingLongLine, Message: "Line exceeds 120 characters (130 chars)"},
		},
		Coverage: models.CoverageAssessment{HasTests: true},
	}

	got := buildSummary(result)
	lines := strings.Split(got, "\n")

	assert.Equal(t, []string{
		"Review Status: CONDITIONAL",
		"Overall Score: 72.3%",
		"Acceptance Criteria: 2/3 fulfilled",
		"Code Quality Issues: 1",
		"Test Coverage: ✅ Tests found",
	}, lines)
}

func TestBuildSummary_NoTests(t *testing.T) {
	result := &models.ReviewResult{Status: models.ReviewStatusFail}
	assert.Contains(t, buildSummary(result), "Test Coverage: ❌ No tests detected")
}
