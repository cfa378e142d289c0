package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateReview indicates that the user already has a review for the
// book. Storage adapters translate the (user_id, isbn) uniqueness-constraint
// violation into it, so concurrent first-time submissions resolve to exactly
// one persisted row without application-level locking.
var ErrDuplicateReview = errors.New("review already exists for this user and book")

// Review is a user's rating and comment for one book.
type Review struct {
	ID        int64
	UserID    int64
	Username  string
	ISBN      string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ReviewStats aggregates a book's reviews. Average is 0 when Count is 0.
type ReviewStats struct {
	Count   int
	Average float64
}

// ReviewRepository is the port for review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, userID int64, isbn string, rating int, comment string) error
	// ListForBook returns the book's reviews newest first, with Username set.
	ListForBook(ctx context.Context, isbn string) ([]Review, error)
	StatsForBook(ctx context.Context, isbn string) (ReviewStats, error)
}
