package review

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joescharf/lgtm/internal/llm"
	"github.com/joescharf/lgtm/internal/models"
)

// reasoningPreview is how much of an unparseable response survives as
// reasoning text.
const reasoningPreview = 200

// criterionResponse mirrors the JSON record the model is asked to produce
// for a single criterion.
type criterionResponse struct {
	Fulfilled  bool     `json:"fulfilled"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
	Gaps       []string `json:"gaps"`
	Reasoning  string   `json:"reasoning"`
}

// generalResponse mirrors the JSON record for the holistic review.
type generalResponse struct {
	SecurityIssues        []string `json:"security_issues"`
	PerformanceConcerns   []string `json:"performance_concerns"`
	MaintainabilityIssues []string `json:"maintainability_issues"`
	PositiveAspects       []string `json:"positive_aspects"`
	OverallAssessment     string   `json:"overall_assessment"`
}

// parseCriterionAnalysis extracts a CriterionAnalysis from a raw model
// response. When the response is not valid JSON it falls back to a keyword
// heuristic instead of failing the criterion outright.
func parseCriterionAnalysis(criterion, raw string) models.CriterionAnalysis {
	var parsed criterionResponse
	if err := json.Unmarshal([]byte(llm.StripFences(raw)), &parsed); err == nil {
		return models.CriterionAnalysis{
			Criterion:  criterion,
			Fulfilled:  parsed.Fulfilled,
			Confidence: parsed.Confidence,
			Evidence:   parsed.Evidence,
			Gaps:       parsed.Gaps,
			Reasoning:  parsed.Reasoning,
		}
	}

	return models.CriterionAnalysis{
		Criterion:  criterion,
		Fulfilled:  strings.Contains(strings.ToLower(raw), "fulfilled"),
		Confidence: 0.5,
		Gaps:       []string{"Could not parse AI response"},
		Reasoning:  truncate(raw, reasoningPreview) + "...",
	}
}

// failedCriterionAnalysis records a backend failure for one criterion
// without aborting the rest of the review.
func failedCriterionAnalysis(criterion string, err error) models.CriterionAnalysis {
	return models.CriterionAnalysis{
		Criterion:  criterion,
		Fulfilled:  false,
		Confidence: 0.0,
		Gaps:       []string{fmt.Sprintf("Analysis failed: %v", err)},
		Reasoning:  "Could not analyze due to AI service error",
	}
}

// parseGeneralAssessment extracts a GeneralAssessment, degrading to an
// empty assessment with a preview of the raw text when parsing fails.
func parseGeneralAssessment(raw string) models.GeneralAssessment {
	var parsed generalResponse
	if err := json.Unmarshal([]byte(llm.StripFences(raw)), &parsed); err == nil {
		return models.GeneralAssessment{
			SecurityIssues:        parsed.SecurityIssues,
			PerformanceConcerns:   parsed.PerformanceConcerns,
			MaintainabilityIssues: parsed.MaintainabilityIssues,
			PositiveAspects:       parsed.PositiveAspects,
			OverallAssessment:     parsed.OverallAssessment,
		}
	}

	return models.GeneralAssessment{
		OverallAssessment: truncate(raw, reasoningPreview) + "...",
	}
}

// failedGeneralAssessment is the degraded assessment for an outright
// backend failure.
func failedGeneralAssessment() models.GeneralAssessment {
	return models.GeneralAssessment{
		OverallAssessment: "Review failed due to AI service error",
	}
}

// truncate returns at most n bytes of s, never cutting mid-rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
