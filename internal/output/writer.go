package output

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/joescharf/lgtm/internal/models"
)

// Writer renders a finished review in one output format.
type Writer interface {
	WriteReview(w io.Writer, ticket *models.Ticket, diff *models.DiffSummary, result *models.ReviewResult) error
}

// ForFormat returns the writer for a format name. An empty name means
// console.
func ForFormat(format string) (Writer, error) {
	switch format {
	case "", "console":
		return &ConsoleWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// SaveTo renders the review with the given writer and writes it to path.
func SaveTo(path string, w Writer, ticket *models.Ticket, diff *models.DiffSummary, result *models.ReviewResult) error {
	var buf bytes.Buffer
	if err := w.WriteReview(&buf, ticket, diff, result); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("save review to %s: %w", path, err)
	}
	return nil
}

// clip shortens s to at most n bytes, appending an ellipsis when it was
// cut.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
