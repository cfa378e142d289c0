package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookshelf/internal/domain"
)

// searchLimit caps the number of rows a search can return.
const searchLimit = 50

// CatalogService encapsulates catalog search and bulk import use cases.
type CatalogService struct {
	books domain.BookRepository
}

// NewCatalogService creates a CatalogService backed by the given repository.
func NewCatalogService(books domain.BookRepository) *CatalogService {
	return &CatalogService{books: books}
}

// Search finds books whose isbn, title or author contains the query,
// case-insensitively, ordered by title. An empty result is not an error.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Book, error) {
	return s.books.Search(ctx, strings.TrimSpace(query), searchLimit)
}

// GetBook returns the book for the isbn, or nil when it is not in the catalog.
func (s *CatalogService) GetBook(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.books.GetByISBN(ctx, isbn)
}

// ImportCSV bulk-loads catalog rows from CSV input with an
// isbn,title,author,year header. Rows whose isbn is already present are
// skipped. A malformed year aborts the run; there is no partial-row
// recovery. Re-running over the same input is a no-op.
func (s *CatalogService) ImportCSV(ctx context.Context, r io.Reader) (inserted, skipped int, err error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range []string{"isbn", "title", "author", "year"} {
		if _, ok := col[name]; !ok {
			return 0, 0, fmt.Errorf("missing column %q", name)
		}
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return inserted, skipped, fmt.Errorf("line %d: %w", line, err)
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[col["year"]]))
		if err != nil {
			return inserted, skipped, fmt.Errorf("line %d: invalid year %q", line, record[col["year"]])
		}

		book := domain.Book{
			ISBN:   strings.TrimSpace(record[col["isbn"]]),
			Title:  strings.TrimSpace(record[col["title"]]),
			Author: strings.TrimSpace(record[col["author"]]),
			Year:   year,
		}
		ok, err := s.books.Upsert(ctx, book)
		if err != nil {
			return inserted, skipped, fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}
