package review

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joescharf/lgtm/internal/models"
)

// DefaultFailKeywords flag leftover debug or placeholder code in a diff.
var DefaultFailKeywords = []string{"TODO", "FIXME", "HACK", "console.log", "print("}

const (
	maxLineLength  = 120
	maxIndentWidth = 24
)

var hardcodedPattern = regexp.MustCompile(`["'][^"']{20,}["']`)

// commentedCodeMarkers distinguish disabled code from prose comments.
var commentedCodeMarkers = []string{"function", "def ", "class ", "import"}

// Scanner runs the heuristic quality checks over a diff's added lines.
type Scanner struct {
	keywords []string
}

// NewScanner returns a scanner using the given fail keywords, falling back
// to DefaultFailKeywords when none are given.
func NewScanner(keywords []string) *Scanner {
	if len(keywords) == 0 {
		keywords = DefaultFailKeywords
	}
	return &Scanner{keywords: keywords}
}

// Scan inspects every file's added lines and returns findings in diff
// order: per file, keyword matches first, then line-level smells. Files
// without patch text (binary, truncated) are skipped.
func (s *Scanner) Scan(diff *models.DiffSummary) []models.QualityFinding {
	var findings []models.QualityFinding
	for _, fc := range diff.Files {
		if fc.Patch == "" {
			continue
		}
		lines := addedLines(fc.Patch)
		findings = append(findings, s.keywordFindings(fc.Path, lines)...)
		findings = append(findings, smellFindings(fc.Path, lines)...)
	}
	return findings
}

// addedLines extracts the added lines from a unified diff patch with the
// leading "+" stripped. File header lines ("+++") are not additions.
func addedLines(patch string) []string {
	var out []string
	for _, line := range strings.Split(patch, "\n") {
		if len(line) > 1 && strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			out = append(out, line[1:])
		}
	}
	return out
}

// keywordFindings reports one finding per keyword that appears anywhere in
// the added lines, not one per occurrence.
func (s *Scanner) keywordFindings(path string, lines []string) []models.QualityFinding {
	joined := strings.ToLower(strings.Join(lines, "\n"))
	var findings []models.QualityFinding
	for _, kw := range s.keywords {
		if strings.Contains(joined, strings.ToLower(kw)) {
			findings = append(findings, models.QualityFinding{
				File:    path,
				Kind:    models.FindingFailKeyword,
				Message: fmt.Sprintf("Found '%s' in %s", kw, path),
			})
		}
	}
	return findings
}

// smellFindings runs the line-level heuristics. Line numbers are 1-based
// positions within the file's added lines.
func smellFindings(path string, lines []string) []models.QualityFinding {
	var findings []models.QualityFinding
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if len(line) > maxLineLength {
			findings = append(findings, models.QualityFinding{
				File:    path,
				Kind:    models.FindingLongLine,
				Line:    i + 1,
				Message: fmt.Sprintf("Line exceeds 120 characters (%d chars)", len(line)),
			})
		}

		if indentWidth(line) > maxIndentWidth {
			findings = append(findings, models.QualityFinding{
				File:    path,
				Kind:    models.FindingDeepNesting,
				Line:    i + 1,
				Message: "Deeply nested code detected",
			})
		}

		if isCommentedCode(trimmed) {
			findings = append(findings, models.QualityFinding{
				File:    path,
				Kind:    models.FindingCommentedCode,
				Line:    i + 1,
				Message: "Potential commented out code",
			})
		}

		if hardcodedPattern.MatchString(trimmed) {
			findings = append(findings, models.QualityFinding{
				File:    path,
				Kind:    models.FindingHardcoded,
				Line:    i + 1,
				Message: "Long hardcoded string detected",
			})
		}
	}
	return findings
}

// indentWidth counts leading whitespace characters. Tabs and spaces both
// count as one.
func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// isCommentedCode reports whether a trimmed line looks like code disabled
// behind a comment marker rather than a prose comment.
func isCommentedCode(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "#") {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range commentedCodeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
