package models

// ChangeKind describes what happened to a file in a diff.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// FileChange is one file's contribution to a diff. Patch may be empty for
// binary or truncated diffs.
type FileChange struct {
	Path      string     `json:"path"`
	Kind      ChangeKind `json:"kind"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Patch     string     `json:"patch,omitempty"`
	IsTest    bool       `json:"is_test"`
}

// DiffSummary is an ordered set of file changes plus PR metadata.
// Aggregates are derived from Files, never stored separately.
type DiffSummary struct {
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Author      string       `json:"author"`
	State       string       `json:"state"`
	BaseBranch  string       `json:"base_branch"`
	HeadBranch  string       `json:"head_branch"`
	Files       []FileChange `json:"files"`
}

// TotalAdditions sums added lines across all files.
func (d *DiffSummary) TotalAdditions() int {
	n := 0
	for _, f := range d.Files {
		n += f.Additions
	}
	return n
}

// TotalDeletions sums removed lines across all files.
func (d *DiffSummary) TotalDeletions() int {
	n := 0
	for _, f := range d.Files {
		n += f.Deletions
	}
	return n
}

// TestFiles returns the changes flagged as test files.
func (d *DiffSummary) TestFiles() []FileChange {
	var out []FileChange
	for _, f := range d.Files {
		if f.IsTest {
			out = append(out, f)
		}
	}
	return out
}

// CodeFiles returns the changes not flagged as test files.
func (d *DiffSummary) CodeFiles() []FileChange {
	var out []FileChange
	for _, f := range d.Files {
		if !f.IsTest {
			out = append(out, f)
		}
	}
	return out
}

// AddedFiles returns the newly added files.
func (d *DiffSummary) AddedFiles() []FileChange {
	var out []FileChange
	for _, f := range d.Files {
		if f.Kind == ChangeAdded {
			out = append(out, f)
		}
	}
	return out
}

