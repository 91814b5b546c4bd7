package review

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseCriterionAnalysis_ValidJSON(t *testing.T) {
	raw := `{
		"fulfilled": true,
		"confidence": 0.92,
		"evidence": ["handler added in api.go"],
		"gaps": [],
		"reasoning": "The endpoint exists and is registered."
	}`

	a := parseCriterionAnalysis("API endpoint exists", raw)

	assert.Equal(t, "API endpoint exists", a.Criterion)
	assert.True(t, a.Fulfilled)
	assert.InDelta(t, 0.92, a.Confidence, 1e-9)
	assert.Equal(t, []string{"handler added in api.go"}, a.Evidence)
	assert.Empty(t, a.Gaps)
	assert.Equal(t, "The endpoint exists and is registered.", a.Reasoning)
}

func TestParseCriterionAnalysis_FencedJSON(t *testing.T) {
	raw := "```json\n{\"fulfilled\": false, \"confidence\": 0.6, \"gaps\": [\"no validation\"], \"reasoning\": \"partial\"}\n```"

	a := parseCriterionAnalysis("input is validated", raw)

	assert.False(t, a.Fulfilled)
	assert.InDelta(t, 0.6, a.Confidence, 1e-9)
	assert.Equal(t, []string{"no validation"}, a.Gaps)
}

func TestParseCriterionAnalysis_FallbackKeyword(t *testing.T) {
	a := parseCriterionAnalysis("c", "The criterion appears to be Fulfilled by the change.")

	assert.True(t, a.Fulfilled)
	assert.InDelta(t, 0.5, a.Confidence, 1e-9)
	assert.Equal(t, []string{"Could not parse AI response"}, a.Gaps)
	assert.Equal(t, "The criterion appears to be Fulfilled by the change....", a.Reasoning)
}

func TestParseCriterionAnalysis_FallbackNoKeyword(t *testing.T) {
	a := parseCriterionAnalysis("c", "I cannot tell from this diff.")

	assert.False(t, a.Fulfilled)
	assert.InDelta(t, 0.5, a.Confidence, 1e-9)
}

func TestParseCriterionAnalysis_FallbackTruncatesReasoning(t *testing.T) {
	raw := strings.Repeat("x", 500)

	a := parseCriterionAnalysis("c", raw)

	assert.Equal(t, strings.Repeat("x", 200)+"...", a.Reasoning)
}

func TestFailedCriterionAnalysis(t *testing.T) {
	a := failedCriterionAnalysis("c", errors.New("connection refused"))

	assert.Equal(t, "c", a.Criterion)
	assert.False(t, a.Fulfilled)
	assert.Zero(t, a.Confidence)
	assert.Equal(t, []string{"Analysis failed: connection refused"}, a.Gaps)
	assert.Equal(t, "Could not analyze due to AI service error", a.Reasoning)
}

func TestParseGeneralAssessment_ValidJSON(t *testing.T) {
	raw := `{
		"security_issues": ["token logged in plaintext"],
		"performance_concerns": [],
		"maintainability_issues": ["duplicated parsing logic"],
		"positive_aspects": ["clear naming"],
		"overall_assessment": "Solid change with one security concern."
	}`

	g := parseGeneralAssessment(raw)

	assert.Equal(t, []string{"token logged in plaintext"}, g.SecurityIssues)
	assert.Empty(t, g.PerformanceConcerns)
	assert.Equal(t, []string{"duplicated parsing logic"}, g.MaintainabilityIssues)
	assert.Equal(t, []string{"clear naming"}, g.PositiveAspects)
	assert.Equal(t, "Solid change with one security concern.", g.OverallAssessment)
}

func TestParseGeneralAssessment_Fallback(t *testing.T) {
	g := parseGeneralAssessment("The change looks reasonable overall.")

	assert.Empty(t, g.SecurityIssues)
	assert.Equal(t, "The change looks reasonable overall....", g.OverallAssessment)
}

func TestFailedGeneralAssessment(t *testing.T) {
	g := failedGeneralAssessment()
	assert.Equal(t, "Review failed due to AI service error", g.OverallAssessment)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("", 3))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// 150 two-byte runes; a 199-byte cut lands mid-rune and must back up.
	s := strings.Repeat("é", 150)

	got := truncate(s, 199)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 99), got)
}

func TestParseCriterionAnalysis_FallbackKeepsReasoningValidUTF8(t *testing.T) {
	a := parseCriterionAnalysis("c", strings.Repeat("ö", 300))

	assert.True(t, utf8.ValidString(a.Reasoning))
	assert.Equal(t, strings.Repeat("ö", 100)+"...", a.Reasoning)
}
