package postgres

import (
	"context"
	"database/sql"

	"bookshelf/internal/domain"
)

// BookRepo implements catalog repository operations on DB.
type BookRepo struct {
	db *DB
}

// NewBookRepo wraps a DB as a BookRepository.
func NewBookRepo(db *DB) *BookRepo {
	return &BookRepo{db: db}
}

// GetByISBN retrieves a book by isbn.
func (r *BookRepo) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	var b domain.Book
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT isbn, title, author, year FROM books WHERE isbn = $1",
		isbn,
	).Scan(&b.ISBN, &b.Title, &b.Author, &b.Year)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Search matches the query case-insensitively against isbn, title and author.
func (r *BookRepo) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	like := "%" + query + "%"
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT isbn, title, author, year FROM books
		 WHERE isbn ILIKE $1 OR title ILIKE $1 OR author ILIKE $1
		 ORDER BY title LIMIT $2`,
		like, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Book, 0, limit)
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Year); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Upsert inserts the book unless its isbn already exists.
func (r *BookRepo) Upsert(ctx context.Context, book domain.Book) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO books (isbn, title, author, year) VALUES ($1, $2, $3, $4) ON CONFLICT (isbn) DO NOTHING",
		book.ISBN, book.Title, book.Author, book.Year,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
