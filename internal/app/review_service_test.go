package app

import (
	"context"
	"testing"

	"bookshelf/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReviewRepo struct {
	createFn func(ctx context.Context, userID int64, isbn string, rating int, comment string) error
	listFn   func(ctx context.Context, isbn string) ([]domain.Review, error)
	statsFn  func(ctx context.Context, isbn string) (domain.ReviewStats, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, userID int64, isbn string, rating int, comment string) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, isbn, rating, comment)
	}
	return nil
}

func (m *mockReviewRepo) ListForBook(ctx context.Context, isbn string) ([]domain.Review, error) {
	if m.listFn != nil {
		return m.listFn(ctx, isbn)
	}
	return nil, nil
}

func (m *mockReviewRepo) StatsForBook(ctx context.Context, isbn string) (domain.ReviewStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, isbn)
	}
	return domain.ReviewStats{}, nil
}

func TestSubmitRejectsInvalidInputWithoutWriting(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, userID int64, isbn string, rating int, comment string) error {
			t.Fatal("nothing may be written for invalid input")
			return nil
		},
	}
	svc := NewReviewService(repo)

	for _, tc := range []struct {
		name    string
		rating  int
		comment string
	}{
		{"rating zero", 0, "fine book"},
		{"rating too high", 6, "fine book"},
		{"rating negative", -1, "fine book"},
		{"blank comment", 4, ""},
		{"whitespace comment", 4, "   "},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), 1, "12345", tc.rating, tc.comment)
			assert.ErrorIs(t, err, ErrInvalidReview)
		})
	}
}

func TestSubmitTrimsCommentAndWrites(t *testing.T) {
	var gotComment string
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, userID int64, isbn string, rating int, comment string) error {
			gotComment = comment
			return nil
		},
	}
	svc := NewReviewService(repo)

	require.NoError(t, svc.Submit(context.Background(), 1, "12345", 5, "  great read  "))
	assert.Equal(t, "great read", gotComment)
}

func TestSubmitPropagatesDuplicate(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(ctx context.Context, userID int64, isbn string, rating int, comment string) error {
			return domain.ErrDuplicateReview
		},
	}
	svc := NewReviewService(repo)

	err := svc.Submit(context.Background(), 1, "12345", 3, "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
}

func TestStatsForBookDefaultsToZero(t *testing.T) {
	svc := NewReviewService(&mockReviewRepo{})

	stats, err := svc.StatsForBook(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, 0.0, stats.Average)
}
