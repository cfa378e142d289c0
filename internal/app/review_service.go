package app

import (
	"context"
	"errors"
	"strings"

	"bookshelf/internal/domain"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidReview indicates a rating outside 1-5 or a blank comment.
var ErrInvalidReview = errors.New("rating must be 1-5 and comment must not be blank")

type reviewInput struct {
	Rating  int    `validate:"gte=1,lte=5"`
	Comment string `validate:"required"`
}

// ReviewService encapsulates review submission and aggregation use cases.
type ReviewService struct {
	reviews  domain.ReviewRepository
	validate *validator.Validate
}

// NewReviewService creates a ReviewService backed by the given repository.
func NewReviewService(reviews domain.ReviewRepository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		validate: validator.New(),
	}
}

// Submit validates and stores a review. Nothing is written when validation
// fails. The insert is a single atomic statement; a duplicate submission for
// the same (user, book) pair surfaces as domain.ErrDuplicateReview even when
// two first-time submissions race.
func (s *ReviewService) Submit(ctx context.Context, userID int64, isbn string, rating int, comment string) error {
	comment = strings.TrimSpace(comment)
	if err := s.validate.Struct(reviewInput{Rating: rating, Comment: comment}); err != nil {
		return ErrInvalidReview
	}
	return s.reviews.Create(ctx, userID, isbn, rating, comment)
}

// ListForBook returns the book's reviews, newest first.
func (s *ReviewService) ListForBook(ctx context.Context, isbn string) ([]domain.Review, error) {
	return s.reviews.ListForBook(ctx, isbn)
}

// StatsForBook returns the book's review count and average rating. A book
// with no reviews reports an average of 0.
func (s *ReviewService) StatsForBook(ctx context.Context, isbn string) (domain.ReviewStats, error) {
	return s.reviews.StatsForBook(ctx, isbn)
}
