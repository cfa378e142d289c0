package postgres

import (
	"context"
	"time"

	"bookshelf/internal/domain"
)

// ReviewRepo implements review repository operations on DB.
type ReviewRepo struct {
	db *DB
}

// NewReviewRepo wraps a DB as a ReviewRepository.
func NewReviewRepo(db *DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts a review in a single statement. The (user_id, isbn)
// uniqueness constraint resolves concurrent first-time submissions; a
// violation is reported as domain.ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, userID int64, isbn string, rating int, comment string) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO reviews (user_id, isbn, rating, comment, created_at) VALUES ($1, $2, $3, $4, $5)",
		userID, isbn, rating, comment, time.Now(),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateReview
	}
	return err
}

// ListForBook returns the book's reviews, newest first, with usernames.
func (r *ReviewRepo) ListForBook(ctx context.Context, isbn string) ([]domain.Review, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT r.id, r.user_id, u.username, r.isbn, r.rating, r.comment, r.created_at
		 FROM reviews r JOIN users u ON r.user_id = u.id
		 WHERE r.isbn = $1 ORDER BY r.created_at DESC`,
		isbn,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.Username, &rv.ISBN, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// StatsForBook returns the review count and average rating, 0 when empty.
func (r *ReviewRepo) StatsForBook(ctx context.Context, isbn string) (domain.ReviewStats, error) {
	var s domain.ReviewStats
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE isbn = $1",
		isbn,
	).Scan(&s.Count, &s.Average)
	return s, err
}
