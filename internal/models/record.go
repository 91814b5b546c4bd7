package models

import "time"

// ReviewRecord is a persisted review outcome. Result is the full engine
// output; the scalar columns are denormalized for listing.
type ReviewRecord struct {
	ID        string        `json:"id"`
	TicketKey string        `json:"ticket_key"`
	PRNumber  int           `json:"pr_number"`
	PRTitle   string        `json:"pr_title"`
	Status    ReviewStatus  `json:"status"`
	Score     float64       `json:"score"`
	Summary   string        `json:"summary"`
	Result    *ReviewResult `json:"result,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
