package models

// ReviewStatus is the final verdict of a review.
type ReviewStatus string

const (
	ReviewStatusPass        ReviewStatus = "pass"
	ReviewStatusConditional ReviewStatus = "conditional"
	ReviewStatusFail        ReviewStatus = "fail"
)

// ExitCode maps a review status to the process exit code callers expect.
func (s ReviewStatus) ExitCode() int {
	switch s {
	case ReviewStatusPass:
		return 0
	case ReviewStatusConditional:
		return 1
	default:
		return 2
	}
}

// FindingKind categorizes a heuristic quality finding.
type FindingKind string

const (
	FindingFailKeyword   FindingKind = "fail_keyword"
	FindingLongLine      FindingKind = "long_line"
	FindingDeepNesting   FindingKind = "deep_nesting"
	FindingCommentedCode FindingKind = "commented_code"
	FindingHardcoded     FindingKind = "hardcoded_string"
)

// CriterionAnalysis is the engine's judgment of one acceptance criterion.
type CriterionAnalysis struct {
	Criterion  string   `json:"criterion"`
	Fulfilled  bool     `json:"fulfilled"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
	Gaps       []string `json:"gaps"`
	Reasoning  string   `json:"reasoning"`
}

// QualityFinding is one heuristic-detected concern in a changed file.
type QualityFinding struct {
	File    string      `json:"file"`
	Kind    FindingKind `json:"kind"`
	Message string      `json:"message"`
	Line    int         `json:"line,omitempty"` // 1-based within the file's added lines; 0 = unknown
}

// CoverageAssessment summarizes test presence in a diff.
type CoverageAssessment struct {
	HasTests       bool     `json:"has_tests"`
	TestFileCount  int      `json:"test_file_count"`
	CodeFileCount  int      `json:"code_file_count"`
	Ratio          float64  `json:"test_to_code_ratio"`
	TestFiles      []string `json:"test_files"`
	Recommendation string   `json:"recommendation"`
}

// GeneralAssessment is the holistic AI review of the whole change.
type GeneralAssessment struct {
	SecurityIssues        []string `json:"security_issues"`
	PerformanceConcerns   []string `json:"performance_concerns"`
	MaintainabilityIssues []string `json:"maintainability_issues"`
	PositiveAspects       []string `json:"positive_aspects"`
	OverallAssessment     string   `json:"overall_assessment"`
}

// ReviewResult is the engine's sole output. It is constructed once and
// never mutated after being returned.
type ReviewResult struct {
	Status           ReviewStatus        `json:"status"`
	Score            float64             `json:"score"`
	Summary          string              `json:"summary"`
	CriteriaAnalysis []CriterionAnalysis `json:"acceptance_criteria_analysis"`
	Findings         []QualityFinding    `json:"quality_findings"`
	Coverage         CoverageAssessment  `json:"test_coverage"`
	Suggestions      []string            `json:"suggestions"`
	RequiredChanges  []string            `json:"required_changes"`
	RecommendedTests []string            `json:"recommended_tests"`
	Comment          string              `json:"comment,omitempty"`
}

// FulfilledCount returns how many criteria the engine judged fulfilled.
func (r *ReviewResult) FulfilledCount() int {
	n := 0
	for _, a := range r.CriteriaAnalysis {
		if a.Fulfilled {
			n++
		}
	}
	return n
}
