// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bookshelf/internal/domain"
)

// DB implements an in-memory database storage. It mirrors the postgres
// adapter's semantics, including uniqueness-constraint errors.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	sessions map[string]*domain.Session
	books    []domain.Book
	reviews  []domain.Review

	userIDCounter   int64
	reviewIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
var _ domain.BookRepository = (*DB)(nil)
var _ domain.ReviewRepository = (*ReviewRepo)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrUsernameTaken
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}

// --- BookRepository ---

// GetByISBN retrieves a book by isbn.
func (db *DB) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.books {
		if db.books[i].ISBN == isbn {
			b := db.books[i]
			return &b, nil
		}
	}
	return nil, nil
}

// Search matches the query case-insensitively against isbn, title and author.
func (db *DB) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	q := strings.ToLower(query)
	result := make([]domain.Book, 0, limit)
	for _, b := range db.books {
		if strings.Contains(strings.ToLower(b.ISBN), q) ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			result = append(result, b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Title < result[j].Title
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Upsert inserts the book unless its isbn already exists.
func (db *DB) Upsert(ctx context.Context, book domain.Book) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, b := range db.books {
		if b.ISBN == book.ISBN {
			return false, nil
		}
	}
	db.books = append(db.books, book)
	return true, nil
}

// --- ReviewRepository ---

// ReviewRepo implements review persistence. Reviews get their own wrapper
// like sessions do; Create on DB already belongs to UserRepository.
type ReviewRepo struct {
	db *DB
}

// NewReviewRepo creates a new review repository.
func (db *DB) NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts a review, enforcing one review per (user, book) pair.
func (r *ReviewRepo) Create(ctx context.Context, userID int64, isbn string, rating int, comment string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, rv := range r.db.reviews {
		if rv.UserID == userID && rv.ISBN == isbn {
			return domain.ErrDuplicateReview
		}
	}

	username := ""
	for _, u := range r.db.users {
		if u.ID == userID {
			username = u.Username
		}
	}

	r.db.reviewIDCounter++
	r.db.reviews = append(r.db.reviews, domain.Review{
		ID:        r.db.reviewIDCounter,
		UserID:    userID,
		Username:  username,
		ISBN:      isbn,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// ListForBook returns the book's reviews, newest first.
func (r *ReviewRepo) ListForBook(ctx context.Context, isbn string) ([]domain.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var result []domain.Review
	for _, rv := range r.db.reviews {
		if rv.ISBN == isbn {
			result = append(result, rv)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// StatsForBook returns the review count and average rating, 0 when empty.
func (r *ReviewRepo) StatsForBook(ctx context.Context, isbn string) (domain.ReviewStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var stats domain.ReviewStats
	var sum int
	for _, rv := range r.db.reviews {
		if rv.ISBN == isbn {
			stats.Count++
			sum += rv.Rating
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}
