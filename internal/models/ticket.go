package models

// Ticket holds the fields extracted from an issue tracker ticket.
type Ticket struct {
	Key                string   `json:"key"`
	Summary            string   `json:"summary"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	Priority           string   `json:"priority"`
	Type               string   `json:"type"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	LinkedPRs          []string `json:"linked_prs"`
}
