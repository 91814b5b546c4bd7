package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/lgtm/internal/models"
)

const generalSystemPrompt = "You are a senior software engineer performing a comprehensive code review."

// fakeLLM routes each completion through respond and records the user
// prompts in call order.
type fakeLLM struct {
	respond func(system, user string) (string, error)
	calls   []string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.calls = append(f.calls, user)
	return f.respond(system, user)
}

func (f *fakeLLM) Model() string { return "fake-model" }

func cleanGeneralJSON() string {
	return `{"security_issues": [], "performance_concerns": [], "maintainability_issues": [], "positive_aspects": ["focused change"], "overall_assessment": "Well scoped."}`
}

func engineTicket(criteria ...string) *models.Ticket {
	return &models.Ticket{
		Key:                "PROJ-9",
		Summary:            "Password reset",
		AcceptanceCriteria: criteria,
	}
}

func engineDiff() *models.DiffSummary {
	return &models.DiffSummary{
		Number: 42,
		Title:  "Add password reset endpoint",
		Files: []models.FileChange{
			{Path: "auth/reset.go", Kind: models.ChangeAdded, Additions: 40},
			{Path: "auth/reset_test.go", Kind: models.ChangeAdded, Additions: 60, IsTest: true},
		},
	}
}

func TestEngineReview_Pass(t *testing.T) {
	client := &fakeLLM{respond: func(system, _ string) (string, error) {
		if system == generalSystemPrompt {
			return cleanGeneralJSON(), nil
		}
		return `{"fulfilled": true, "confidence": 0.9, "evidence": ["seen in diff"], "gaps": [], "reasoning": "implemented"}`, nil
	}}
	engine := NewEngine(client, Config{})

	result := engine.Review(context.Background(), engineTicket("reset endpoint exists", "email is sent"), engineDiff())

	require.NotNil(t, result)
	assert.Equal(t, models.ReviewStatusPass, result.Status)
	assert.InDelta(t, 0.94, result.Score, 1e-9)
	assert.Len(t, result.CriteriaAnalysis, 2)
	assert.Equal(t, 2, result.FulfilledCount())
	assert.Empty(t, result.Findings)
	assert.True(t, result.Coverage.HasTests)
	assert.Equal(t, "LGTM! ✅ Solid implementation that meets requirements with good practices.", result.Comment)
	assert.Contains(t, result.Summary, "Review Status: PASS")
	assert.Contains(t, result.Summary, "Acceptance Criteria: 2/2 fulfilled")
}

func TestEngineReview_CriteriaOrderAndIsolation(t *testing.T) {
	client := &fakeLLM{respond: func(system, user string) (string, error) {
		if system == generalSystemPrompt {
			return cleanGeneralJSON(), nil
		}
		if strings.Contains(user, "second criterion") {
			return "", errors.New("model overloaded")
		}
		return `{"fulfilled": true, "confidence": 0.8, "reasoning": "ok"}`, nil
	}}
	engine := NewEngine(client, Config{})

	ticket := engineTicket("first criterion", "second criterion", "third criterion")
	result := engine.Review(context.Background(), ticket, engineDiff())

	require.Len(t, result.CriteriaAnalysis, 3)
	assert.Equal(t, "first criterion", result.CriteriaAnalysis[0].Criterion)
	assert.Equal(t, "second criterion", result.CriteriaAnalysis[1].Criterion)
	assert.Equal(t, "third criterion", result.CriteriaAnalysis[2].Criterion)

	// The failed criterion degrades alone; its neighbors parse normally.
	assert.True(t, result.CriteriaAnalysis[0].Fulfilled)
	assert.False(t, result.CriteriaAnalysis[1].Fulfilled)
	assert.Equal(t, []string{"Analysis failed: model overloaded"}, result.CriteriaAnalysis[1].Gaps)
	assert.True(t, result.CriteriaAnalysis[2].Fulfilled)

	// Criterion calls happen in ticket order, the holistic call last.
	require.Len(t, client.calls, 4)
	assert.Contains(t, client.calls[0], "first criterion")
	assert.Contains(t, client.calls[1], "second criterion")
	assert.Contains(t, client.calls[2], "third criterion")
	assert.Contains(t, client.calls[3], "Key Areas to Review")
}

func TestEngineReview_AllBackendCallsFail(t *testing.T) {
	client := &fakeLLM{respond: func(string, string) (string, error) {
		return "", errors.New("connection refused")
	}}
	engine := NewEngine(client, Config{})

	diff := engineDiff()
	diff.Files = diff.Files[:1] // no tests either
	result := engine.Review(context.Background(), engineTicket("only criterion"), diff)

	require.NotNil(t, result)
	assert.Equal(t, models.ReviewStatusFail, result.Status)
	assert.Empty(t, result.Comment)
	require.Len(t, result.CriteriaAnalysis, 1)
	assert.False(t, result.CriteriaAnalysis[0].Fulfilled)
	assert.Zero(t, result.CriteriaAnalysis[0].Confidence)
	assert.NotEmpty(t, result.Summary)
	assert.NotEmpty(t, result.RecommendedTests)
}

func TestEngineReview_CommentOnlyOnPass(t *testing.T) {
	client := &fakeLLM{respond: func(system, _ string) (string, error) {
		if system == generalSystemPrompt {
			return cleanGeneralJSON(), nil
		}
		return `{"fulfilled": false, "confidence": 0.5, "gaps": ["not implemented"], "reasoning": "missing"}`, nil
	}}
	engine := NewEngine(client, Config{})

	result := engine.Review(context.Background(), engineTicket("a", "b"), engineDiff())

	assert.NotEqual(t, models.ReviewStatusPass, result.Status)
	assert.Empty(t, result.Comment)
}

func TestEngineReview_FindingCapFailListsRequiredChange(t *testing.T) {
	client := &fakeLLM{respond: func(system, _ string) (string, error) {
		if system == generalSystemPrompt {
			return cleanGeneralJSON(), nil
		}
		return `{"fulfilled": true, "confidence": 0.9, "reasoning": "ok"}`, nil
	}}
	engine := NewEngine(client, Config{})

	var patch strings.Builder
	patch.WriteString("@@ -0,0 +1,6 @@\n")
	for i := 0; i < 6; i++ {
		patch.WriteString("+" + strings.Repeat("x", 130) + "\n")
	}
	diff := engineDiff()
	diff.Files[0].Patch = patch.String()
	result := engine.Review(context.Background(), engineTicket("a"), diff)

	// Six findings trip the hard cap, so the fail carries a blocker even
	// though every criterion is fulfilled and no keyword was found.
	require.Len(t, result.Findings, 6)
	assert.Equal(t, models.ReviewStatusFail, result.Status)
	require.NotEmpty(t, result.RequiredChanges)
	assert.Contains(t, result.RequiredChanges, "Address the 6 code quality issues before merging")
}

func TestEngineReview_CustomFailKeywords(t *testing.T) {
	client := &fakeLLM{respond: func(system, _ string) (string, error) {
		if system == generalSystemPrompt {
			return cleanGeneralJSON(), nil
		}
		return `{"fulfilled": true, "confidence": 0.9, "reasoning": "ok"}`, nil
	}}
	engine := NewEngine(client, Config{FailKeywords: []string{"XXX"}})

	diff := engineDiff()
	diff.Files[0].Patch = "@@ -0,0 +1,2 @@\n+// XXX revisit\n+x := 1\n"
	result := engine.Review(context.Background(), engineTicket("a"), diff)

	require.Len(t, result.Findings, 1)
	assert.Equal(t, models.FindingFailKeyword, result.Findings[0].Kind)
	assert.Equal(t, "Found 'XXX' in auth/reset.go", result.Findings[0].Message)
	assert.Contains(t, result.RequiredChanges, "Remove debugging/temporary code (TODO, FIXME, console.log, etc.)")
}
