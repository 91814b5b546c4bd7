package git

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/lgtm/internal/models"
)

func TestParseNameStatus(t *testing.T) {
	input := "A\tauth/reset.go\nM\tauth/session.go\nD\tlegacy/otp.go\nR100\told/name.go\tnew/name.go\n"

	entries := ParseNameStatus(input)

	require.Len(t, entries, 4)
	assert.Equal(t, ChangeEntry{Path: "auth/reset.go", Kind: models.ChangeAdded}, entries[0])
	assert.Equal(t, ChangeEntry{Path: "auth/session.go", Kind: models.ChangeModified}, entries[1])
	assert.Equal(t, ChangeEntry{Path: "legacy/otp.go", Kind: models.ChangeRemoved}, entries[2])
	// Renames report the new path as a modification.
	assert.Equal(t, ChangeEntry{Path: "new/name.go", Kind: models.ChangeModified}, entries[3])
}

func TestParseNameStatus_Empty(t *testing.T) {
	assert.Nil(t, ParseNameStatus(""))
	assert.Nil(t, ParseNameStatus("\n\n"))
}

func TestParseNumstat(t *testing.T) {
	input := "12\t3\tauth/reset.go\n0\t40\tlegacy/otp.go\n-\t-\tassets/logo.png\n"

	counts := ParseNumstat(input)

	require.Len(t, counts, 3)
	assert.Equal(t, LineCounts{Added: 12, Removed: 3}, counts["auth/reset.go"])
	assert.Equal(t, LineCounts{Added: 0, Removed: 40}, counts["legacy/otp.go"])
	assert.Equal(t, LineCounts{}, counts["assets/logo.png"])
}

func TestParseNumstat_Empty(t *testing.T) {
	assert.Empty(t, ParseNumstat(""))
}

// initTestRepo creates a git repo in dir with a user config so commits work on CI.
func initTestRepo(t *testing.T, dir string) {
	t.Helper()
	cmds := [][]string{
		{"git", "-C", dir, "init", "-b", "main"},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	}
	for _, args := range cmds {
		require.NoError(t, exec.Command(args[0], args[1:]...).Run())
	}
}

func commitAll(t *testing.T, dir, msg string) {
	t.Helper()
	require.NoError(t, exec.Command("git", "-C", dir, "add", ".").Run())
	require.NoError(t, exec.Command("git", "-C", dir, "commit", "-m", msg).Run())
}

func TestRealClient_Diff(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	require.NoError(t, os.WriteFile(dir+"/widget.go", []byte("package widget\n"), 0644))
	commitAll(t, dir, "initial")

	require.NoError(t, exec.Command("git", "-C", dir, "checkout", "-b", "feature").Run())
	require.NoError(t, os.WriteFile(dir+"/widget.go", []byte("package widget\n\nfunc Spin() {}\n"), 0644))
	require.NoError(t, os.WriteFile(dir+"/widget_test.go", []byte("package widget\n\nfunc TestSpin() {}\n"), 0644))
	commitAll(t, dir, "add spin")

	c := NewClient(nil)
	diff, err := c.Diff(dir, "main..feature")
	require.NoError(t, err)

	assert.Equal(t, "Local changes (feature)", diff.Title)
	assert.Equal(t, "local", diff.State)
	assert.Equal(t, "main", diff.BaseBranch)
	assert.Equal(t, "feature", diff.HeadBranch)

	require.Len(t, diff.Files, 2)
	byPath := map[string]models.FileChange{}
	for _, fc := range diff.Files {
		byPath[fc.Path] = fc
	}

	impl := byPath["widget.go"]
	assert.Equal(t, models.ChangeModified, impl.Kind)
	assert.Equal(t, 2, impl.Additions)
	assert.False(t, impl.IsTest)
	assert.Contains(t, impl.Patch, "+func Spin() {}")

	test := byPath["widget_test.go"]
	assert.Equal(t, models.ChangeAdded, test.Kind)
	assert.True(t, test.IsTest)
}

func TestRealClient_Diff_WorkingTree(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	require.NoError(t, os.WriteFile(dir+"/widget.go", []byte("package widget\n"), 0644))
	commitAll(t, dir, "initial")

	// Uncommitted edit shows up against HEAD.
	require.NoError(t, os.WriteFile(dir+"/widget.go", []byte("package widget\n\nvar n int\n"), 0644))

	c := NewClient(nil)
	diff, err := c.Diff(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "main", diff.HeadBranch)
	assert.Empty(t, diff.BaseBranch)
	require.Len(t, diff.Files, 1)
	assert.Equal(t, "widget.go", diff.Files[0].Path)
	assert.Equal(t, models.ChangeModified, diff.Files[0].Kind)
}

func TestRealClient_RepoRootAndBranch(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	require.NoError(t, exec.Command("git", "-C", dir, "commit", "--allow-empty", "-m", "init").Run())

	c := NewClient(nil)

	root, err := c.RepoRoot(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, root)

	branch, err := c.CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestRealClient_Diff_NotARepo(t *testing.T) {
	c := NewClient(nil)
	_, err := c.Diff(t.TempDir(), "")
	assert.Error(t, err)
}
