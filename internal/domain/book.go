package domain

import "context"

// Book is a catalog entry. The ISBN is the natural key; rows are created by
// the bulk importer and never mutated by the application.
type Book struct {
	ISBN   string
	Title  string
	Author string
	Year   int
}

// BookRepository is the port for catalog persistence.
type BookRepository interface {
	GetByISBN(ctx context.Context, isbn string) (*Book, error)
	// Search matches the query as a case-insensitive substring of isbn,
	// title or author, ordered by title, up to limit rows.
	Search(ctx context.Context, query string, limit int) ([]Book, error)
	// Upsert inserts the book unless its isbn is already present. It reports
	// whether a row was actually inserted.
	Upsert(ctx context.Context, book Book) (bool, error)
}
