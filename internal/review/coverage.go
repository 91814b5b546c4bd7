package review

import "github.com/joescharf/lgtm/internal/models"

// AssessCoverage summarizes test presence in a diff. The ratio divides by
// at least one code file so a test-only diff still yields a finite value.
func AssessCoverage(diff *models.DiffSummary) models.CoverageAssessment {
	var testFiles []string
	for _, fc := range diff.TestFiles() {
		testFiles = append(testFiles, fc.Path)
	}
	codeCount := len(diff.CodeFiles())

	ratio := float64(len(testFiles)) / float64(max(codeCount, 1))

	return models.CoverageAssessment{
		HasTests:       len(testFiles) > 0,
		TestFileCount:  len(testFiles),
		CodeFileCount:  codeCount,
		Ratio:          ratio,
		TestFiles:      testFiles,
		Recommendation: coverageRecommendation(ratio, len(testFiles)),
	}
}

func coverageRecommendation(ratio float64, testCount int) string {
	switch {
	case testCount == 0:
		return "No tests found. Consider adding tests for the new functionality."
	case ratio < 0.3:
		return "Low test coverage. Consider adding more comprehensive tests."
	case ratio < 0.7:
		return "Moderate test coverage. Good, but could be improved."
	default:
		return "Good test coverage detected."
	}
}
