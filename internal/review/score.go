package review

import (
	"math"

	"github.com/joescharf/lgtm/internal/models"
)

// Component weights for the overall score. Fixed: changing them changes
// review outcomes and warrants a version bump.
const (
	weightCriteria = 0.4
	weightQuality  = 0.3
	weightCoverage = 0.2
	weightGeneral  = 0.1
)

const (
	passThreshold        = 0.8
	conditionalThreshold = 0.6

	// maxFindings is the hard cap: more findings than this fails the
	// review outright, independent of score.
	maxFindings = 5

	// hardBlockConfidence marks a criterion as confidently unmet. One
	// such criterion blocks a pass regardless of score.
	hardBlockConfidence = 0.7
)

// Scorecard is the weighted breakdown behind an overall score.
type Scorecard struct {
	Overall  float64
	Criteria float64 // 0.4 weight
	Quality  float64 // 0.3 weight
	Coverage float64 // 0.2 weight
	General  float64 // 0.1 weight
}

// NewScorecard computes all score components from the analysis outputs.
func NewScorecard(criteria []models.CriterionAnalysis, findings []models.QualityFinding, coverage models.CoverageAssessment, general models.GeneralAssessment) Scorecard {
	sc := Scorecard{
		Criteria: scoreCriteria(criteria),
		Quality:  scoreQuality(len(findings)),
		Coverage: scoreCoverage(coverage.HasTests),
		General:  scoreGeneral(general),
	}
	sc.Overall = clamp01(weightCriteria*sc.Criteria + weightQuality*sc.Quality + weightCoverage*sc.Coverage + weightGeneral*sc.General)
	return sc
}

// scoreCriteria is the fulfillment ratio damped by mean confidence. No
// criteria scores zero, not full marks.
func scoreCriteria(criteria []models.CriterionAnalysis) float64 {
	if len(criteria) == 0 {
		return 0
	}
	fulfilled := 0
	confidenceSum := 0.0
	for _, c := range criteria {
		if c.Fulfilled {
			fulfilled++
		}
		confidenceSum += c.Confidence
	}
	ratio := float64(fulfilled) / float64(len(criteria))
	return ratio * (confidenceSum / float64(len(criteria)))
}

// scoreQuality deducts 10% per finding, floored at zero.
func scoreQuality(findingCount int) float64 {
	return math.Max(0, 1.0-0.1*float64(findingCount))
}

func scoreCoverage(hasTests bool) float64 {
	if hasTests {
		return 1.0
	}
	return 0.3
}

// scoreGeneral starts from a default decent score and deducts 10% per
// reported security or performance issue.
func scoreGeneral(general models.GeneralAssessment) float64 {
	issues := len(general.SecurityIssues) + len(general.PerformanceConcerns)
	return math.Max(0, 0.8-0.1*float64(issues))
}

// DetermineStatus applies the verdict precedence: hard blocks first, then
// score thresholds.
func DetermineStatus(score float64, criteria []models.CriterionAnalysis, findings []models.QualityFinding) models.ReviewStatus {
	if len(findings) > maxFindings {
		return models.ReviewStatusFail
	}
	for _, c := range criteria {
		if !c.Fulfilled && c.Confidence > hardBlockConfidence {
			return models.ReviewStatusFail
		}
	}
	switch {
	case score >= passThreshold:
		return models.ReviewStatusPass
	case score >= conditionalThreshold:
		return models.ReviewStatusConditional
	default:
		return models.ReviewStatusFail
	}
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
