package git

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/joescharf/lgtm/internal/github"
	"github.com/joescharf/lgtm/internal/models"
)

// Client defines the interface for building diffs from a local repository.
// All methods take a path parameter so one client can serve multiple repos.
type Client interface {
	RepoRoot(path string) (string, error)
	CurrentBranch(path string) (string, error)
	Diff(path, refRange string) (*models.DiffSummary, error)
}

// RealClient implements Client using real git commands.
type RealClient struct {
	testPatterns []string
}

// NewClient returns a new RealClient classifying test files with the given
// patterns (defaults apply when empty).
func NewClient(testPatterns []string) *RealClient {
	return &RealClient{testPatterns: testPatterns}
}

func gitCmd(path string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", path}, args...)
	out, err := exec.Command("git", fullArgs...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *RealClient) RepoRoot(path string) (string, error) {
	return gitCmd(path, "rev-parse", "--show-toplevel")
}

func (c *RealClient) CurrentBranch(path string) (string, error) {
	return gitCmd(path, "rev-parse", "--abbrev-ref", "HEAD")
}

// Diff builds a DiffSummary from a local repository. An empty refRange
// compares the working tree against HEAD; otherwise refRange is passed to
// git diff verbatim (e.g. "main..feature").
func (c *RealClient) Diff(path, refRange string) (*models.DiffSummary, error) {
	diffArgs := func(extra ...string) []string {
		args := []string{"diff"}
		if refRange == "" {
			args = append(args, "HEAD")
		} else {
			args = append(args, refRange)
		}
		return append(args, extra...)
	}

	statusOut, err := gitCmd(path, diffArgs("--name-status")...)
	if err != nil {
		return nil, err
	}
	numstatOut, err := gitCmd(path, diffArgs("--numstat")...)
	if err != nil {
		return nil, err
	}

	kinds := ParseNameStatus(statusOut)
	counts := ParseNumstat(numstatOut)

	var files []models.FileChange
	for _, entry := range kinds {
		patch, _ := gitCmd(path, diffArgs("--", entry.Path)...)
		n := counts[entry.Path]
		files = append(files, models.FileChange{
			Path:      entry.Path,
			Kind:      entry.Kind,
			Additions: n.Added,
			Deletions: n.Removed,
			Patch:     patch,
			IsTest:    github.IsTestFile(entry.Path, c.testPatterns),
		})
	}

	branch, _ := c.CurrentBranch(path)
	base := ""
	if i := strings.Index(refRange, ".."); i >= 0 {
		base = refRange[:i]
	}

	return &models.DiffSummary{
		Title:      fmt.Sprintf("Local changes (%s)", branch),
		State:      "local",
		BaseBranch: base,
		HeadBranch: branch,
		Files:      files,
	}, nil
}

// ChangeEntry pairs a path with its change kind from --name-status output.
type ChangeEntry struct {
	Path string
	Kind models.ChangeKind
}

// LineCounts holds added/removed line counts from --numstat output.
type LineCounts struct {
	Added   int
	Removed int
}

// ParseNameStatus parses `git diff --name-status` output. Renames and
// copies report the new path and count as modifications.
func ParseNameStatus(output string) []ChangeEntry {
	var entries []ChangeEntry
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}

		var kind models.ChangeKind
		switch fields[0][0] {
		case 'A':
			kind = models.ChangeAdded
		case 'D':
			kind = models.ChangeRemoved
		default:
			kind = models.ChangeModified
		}

		// Renames/copies have old and new paths; take the new one.
		path := fields[len(fields)-1]
		entries = append(entries, ChangeEntry{Path: path, Kind: kind})
	}
	return entries
}

// ParseNumstat parses `git diff --numstat` output into per-path counts.
// Binary files report "-" and come out as zero counts.
func ParseNumstat(output string) map[string]LineCounts {
	counts := make(map[string]LineCounts)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		added, _ := strconv.Atoi(fields[0])
		removed, _ := strconv.Atoi(fields[1])
		counts[fields[len(fields)-1]] = LineCounts{Added: added, Removed: removed}
	}
	return counts
}
