package store

import (
	"context"

	"github.com/joescharf/lgtm/internal/models"
)

// ReviewListFilter specifies filters for listing stored reviews.
type ReviewListFilter struct {
	TicketKey string
	Limit     int
}

// Store defines the persistence interface for lgtm.
type Store interface {
	// Reviews
	SaveReview(ctx context.Context, rec *models.ReviewRecord) error
	GetReview(ctx context.Context, id string) (*models.ReviewRecord, error)
	ListReviews(ctx context.Context, filter ReviewListFilter) ([]*models.ReviewRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
