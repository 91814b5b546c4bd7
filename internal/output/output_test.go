package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/lgtm/internal/models"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestInfo(t *testing.T) {
	u, out, _ := newTestUI()
	u.Info("hello %s", "world")
	assert.Contains(t, out.String(), "hello world")
}

func TestSuccess(t *testing.T) {
	u, out, _ := newTestUI()
	u.Success("done %d", 42)
	assert.Contains(t, out.String(), "done 42")
}

func TestWarning(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Warning("careful %s", "now")
	assert.Contains(t, errOut.String(), "careful now")
}

func TestError(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Error("failed %s", "badly")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog_Enabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = true
	u.VerboseLog("detail %d", 1)
	assert.Contains(t, out.String(), "detail 1")
}

func TestVerboseLog_Disabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = false
	u.VerboseLog("detail %d", 1)
	assert.Empty(t, out.String())
}

func TestColorHelpers(t *testing.T) {
	// Color helpers should return non-empty strings
	assert.NotEmpty(t, Cyan("test"))
	assert.NotEmpty(t, Green("test"))
	assert.NotEmpty(t, Yellow("test"))
	assert.NotEmpty(t, Red("test"))
	assert.NotEmpty(t, Bold("test"))
}

func TestStatusColor(t *testing.T) {
	assert.NotEmpty(t, StatusColor("pass"))
	assert.NotEmpty(t, StatusColor("CONDITIONAL"))
	assert.NotEmpty(t, StatusColor("fail"))
	assert.Equal(t, "unknown", StatusColor("unknown"))
}

func TestScoreColor(t *testing.T) {
	assert.Contains(t, ScoreColor(0.85), "85.0%")
	assert.Contains(t, ScoreColor(0.6), "60.0%")
	assert.Contains(t, ScoreColor(0.123), "12.3%")
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"File", "Status"})
	require.NotNil(t, table)

	_ = table.Append([]string{"auth/reset.go", "added"})
	_ = table.Append([]string{"auth/session.go", "modified"})
	err := table.Render()
	require.NoError(t, err)

	result := out.String()
	assert.Contains(t, result, "auth/reset.go")
	assert.Contains(t, result, "modified")
}

// --- Review writers ---

func reviewFixture() (*models.Ticket, *models.DiffSummary, *models.ReviewResult) {
	ticket := &models.Ticket{Key: "PROJ-7", Summary: "Password reset"}
	diff := &models.DiffSummary{Number: 42, Title: "Add password reset endpoint", Author: "octocat"}
	result := &models.ReviewResult{
		Status:  models.ReviewStatusPass,
		Score:   0.94,
		Summary: "Review Status: PASS\nOverall Score: 94.0%",
		CriteriaAnalysis: []models.CriterionAnalysis{
			{Criterion: "reset endpoint exists", Fulfilled: true, Confidence: 0.9, Evidence: []string{"handler in reset.go"}},
			{Criterion: "audit log entry written", Fulfilled: false, Confidence: 0.6, Gaps: []string{"no audit call found"}},
		},
		Findings: []models.QualityFinding{
			{File: "auth/reset.go", Kind: models.FindingLongLine, Message: "Line exceeds 120 characters (130 chars)", Line: 3},
		},
		Coverage: models.CoverageAssessment{
			HasTests:       true,
			TestFiles:      []string{"auth/reset_test.go"},
			Recommendation: "Good test coverage detected.",
		},
		Suggestions:      []string{"no audit call found"},
		RequiredChanges:  []string{"Must fulfill: audit log entry written"},
		RecommendedTests: []string{"Test case for: reset endpoint exists..."},
		Comment:          "LGTM! ✅ Solid implementation that meets requirements with good practices.",
	}
	return ticket, diff, result
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   Writer
	}{
		{"", &ConsoleWriter{}},
		{"console", &ConsoleWriter{}},
		{"markdown", &MarkdownWriter{}},
		{"md", &MarkdownWriter{}},
		{"json", &JSONWriter{}},
	}
	for _, tt := range tests {
		w, err := ForFormat(tt.format)
		require.NoError(t, err, tt.format)
		assert.IsType(t, tt.want, w, tt.format)
	}
}

func TestForFormat_Unknown(t *testing.T) {
	_, err := ForFormat("yaml")
	assert.EqualError(t, err, "unknown output format: yaml")
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	ticket, diff, result := reviewFixture()

	err := (&ConsoleWriter{}).WriteReview(&buf, ticket, diff, result)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "🤖 LGTM Review")
	assert.Contains(t, out, "PROJ-7")
	assert.Contains(t, out, "PR: #42 - Add password reset endpoint")
	assert.Contains(t, out, "Author: octocat")
	assert.Contains(t, out, "reset endpoint exists")
	assert.Contains(t, out, "✗ no audit call found")
	assert.Contains(t, out, "Line exceeds 120 characters (130 chars)")
	assert.Contains(t, out, "auth/reset_test.go")
	assert.Contains(t, out, "Must fulfill: audit log entry written")
	assert.Contains(t, out, "🚀 Final Verdict")
}

func TestConsoleWriter_SkipsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	ticket, diff, _ := reviewFixture()
	result := &models.ReviewResult{Status: models.ReviewStatusFail, Summary: "Review Status: FAIL"}

	err := (&ConsoleWriter{}).WriteReview(&buf, ticket, diff, result)
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "Acceptance Criteria Analysis")
	assert.NotContains(t, out, "Code Quality Issues")
	assert.NotContains(t, out, "Final Verdict")
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	ticket, diff, result := reviewFixture()

	w := &MarkdownWriter{Now: func() time.Time {
		return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	}}
	err := w.WriteReview(&buf, ticket, diff, result)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# 🤖 LGTM Review Report\n")
	assert.Contains(t, out, "**Ticket:** [PROJ-7] Password reset\n")
	assert.Contains(t, out, "**PR:** #42 - Add password reset endpoint\n")
	assert.Contains(t, out, "**Reviewed:** 2026-03-01 10:30:00\n")
	assert.Contains(t, out, "## ✅ Review Status: PASS\n")
	assert.Contains(t, out, "**Overall Score:** 94.0%\n")
	assert.Contains(t, out, "### 1. ✅ reset endpoint exists (90.0% confidence)\n")
	assert.Contains(t, out, "### 2. ❌ audit log entry written (60.0% confidence)\n")
	assert.Contains(t, out, "- **auth/reset.go**: Line exceeds 120 characters (130 chars)\n")
	assert.Contains(t, out, "✅ **Test Coverage:** Good test coverage detected.\n")
	assert.Contains(t, out, "## ❗ Required Changes\n")
	assert.Contains(t, out, "## 🚀 Final Verdict\n")
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	ticket, diff, result := reviewFixture()
	fixed := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	w := &JSONWriter{Now: func() time.Time { return fixed }}
	err := w.WriteReview(&buf, ticket, diff, result)
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	assert.Equal(t, fixed, report.ReviewMetadata.Timestamp)
	assert.Equal(t, "PROJ-7", report.ReviewMetadata.TicketKey)
	assert.Equal(t, 42, report.ReviewMetadata.PRNumber)
	assert.Equal(t, "octocat", report.ReviewMetadata.PRAuthor)

	require.NotNil(t, report.ReviewResult)
	assert.Equal(t, models.ReviewStatusPass, report.ReviewResult.Status)
	assert.InDelta(t, 0.94, report.ReviewResult.Score, 1e-9)
	assert.Len(t, report.ReviewResult.CriteriaAnalysis, 2)
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	ticket, diff, result := reviewFixture()

	err := SaveTo(path, &MarkdownWriter{}, ticket, diff, result)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# 🤖 LGTM Review Report")
}

func TestSaveTo_BadPath(t *testing.T) {
	ticket, diff, result := reviewFixture()

	err := SaveTo(filepath.Join(t.TempDir(), "missing", "report.md"), &MarkdownWriter{}, ticket, diff, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save review to")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "exact", clip("exact", 5))
	assert.Equal(t, "lon...", clip("longer", 3))
}

func TestStatusEmoji(t *testing.T) {
	assert.Equal(t, "✅", statusEmoji(models.ReviewStatusPass))
	assert.Equal(t, "⚠️", statusEmoji(models.ReviewStatusConditional))
	assert.Equal(t, "❌", statusEmoji(models.ReviewStatusFail))
}

func TestStrings_NoANSIWhenColorDisabled(t *testing.T) {
	// Colors are disabled outside a TTY, so writer output must stay
	// readable as plain text.
	var buf bytes.Buffer
	ticket, diff, result := reviewFixture()
	require.NoError(t, (&ConsoleWriter{}).WriteReview(&buf, ticket, diff, result))
	assert.True(t, strings.Contains(buf.String(), "Review Status: PASS"))
}
