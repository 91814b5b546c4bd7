package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/joescharf/lgtm/internal/models"
)

// JSONWriter renders a review as a JSON report. The embedded result is
// the untransformed ReviewResult so a parse of the report reconstructs
// it exactly.
type JSONWriter struct {
	// Now overrides the clock in tests.
	Now func() time.Time
}

type jsonReport struct {
	ReviewMetadata jsonMetadata         `json:"review_metadata"`
	ReviewResult   *models.ReviewResult `json:"review_result"`
}

type jsonMetadata struct {
	Timestamp     time.Time `json:"timestamp"`
	TicketKey     string    `json:"ticket_key"`
	TicketSummary string    `json:"ticket_summary"`
	PRNumber      int       `json:"pr_number"`
	PRTitle       string    `json:"pr_title"`
	PRAuthor      string    `json:"pr_author"`
}

func (j *JSONWriter) WriteReview(w io.Writer, ticket *models.Ticket, diff *models.DiffSummary, result *models.ReviewResult) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	report := jsonReport{
		ReviewMetadata: jsonMetadata{
			Timestamp:     now().UTC(),
			TicketKey:     ticket.Key,
			TicketSummary: ticket.Summary,
			PRNumber:      diff.Number,
			PRTitle:       diff.Title,
			PRAuthor:      diff.Author,
		},
		ReviewResult: result,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
