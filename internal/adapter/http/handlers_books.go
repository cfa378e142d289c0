package adapthttp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookshelf/internal/app"
	"bookshelf/internal/domain"

	"github.com/go-chi/chi/v5"
)

type searchPage struct {
	User    *domain.User
	Query   string
	Books   []domain.Book
	Message string
}

type bookPage struct {
	User    *domain.User
	Book    domain.Book
	Reviews []domain.Review
	Stats   domain.ReviewStats
	Enrich  app.Enrichment
	Message string
}

func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "search.html", searchPage{User: userFrom(r.Context())})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	q := strings.TrimSpace(r.PostFormValue("q"))
	if q == "" {
		s.render(w, http.StatusOK, "search.html", searchPage{
			User:    user,
			Message: "Type something to search",
		})
		return
	}

	books, err := s.catalog.Search(r.Context(), q)
	if err != nil {
		s.log.Error().Err(err).Str("query", q).Msg("search failed")
		s.renderError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	page := searchPage{User: user, Query: q, Books: books}
	if len(books) == 0 {
		page.Message = "No matches found"
	}
	s.render(w, http.StatusOK, "search.html", page)
}

func (s *Server) handleBookGet(w http.ResponseWriter, r *http.Request) {
	book, ok := s.loadBook(w, r)
	if !ok {
		return
	}
	s.renderBookPage(w, r, book, http.StatusOK, "")
}

func (s *Server) handleBookPost(w http.ResponseWriter, r *http.Request) {
	book, ok := s.loadBook(w, r)
	if !ok {
		return
	}
	user := userFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	// A non-integer rating falls through as 0 and fails validation.
	rating, _ := strconv.Atoi(r.PostFormValue("rating"))
	comment := r.PostFormValue("comment")

	err := s.reviews.Submit(r.Context(), user.ID, book.ISBN, rating, comment)
	switch {
	case errors.Is(err, app.ErrInvalidReview):
		s.renderBookPage(w, r, book, http.StatusOK, "Please select 1-5 stars and write a comment.")
	case errors.Is(err, domain.ErrDuplicateReview):
		s.renderBookPage(w, r, book, http.StatusOK, "You already have a review for this book!")
	case err != nil:
		s.log.Error().Err(err).Str("isbn", book.ISBN).Msg("review submit failed")
		s.renderError(w, http.StatusInternalServerError, "Something went wrong")
	default:
		// Redirect to GET so a refresh does not resubmit the review.
		http.Redirect(w, r, "/book/"+book.ISBN, http.StatusSeeOther)
	}
}

// loadBook resolves the isbn route parameter, rendering the not-found page
// when the book is not in the catalog.
func (s *Server) loadBook(w http.ResponseWriter, r *http.Request) (domain.Book, bool) {
	isbn := chi.URLParam(r, "isbn")
	book, err := s.catalog.GetBook(r.Context(), isbn)
	if err != nil {
		s.log.Error().Err(err).Str("isbn", isbn).Msg("book lookup failed")
		s.renderError(w, http.StatusInternalServerError, "Something went wrong")
		return domain.Book{}, false
	}
	if book == nil {
		s.renderError(w, http.StatusNotFound, "Book not found")
		return domain.Book{}, false
	}
	return *book, true
}

func (s *Server) renderBookPage(w http.ResponseWriter, r *http.Request, book domain.Book, status int, message string) {
	ctx := r.Context()

	reviews, err := s.reviews.ListForBook(ctx, book.ISBN)
	if err != nil {
		s.log.Error().Err(err).Str("isbn", book.ISBN).Msg("list reviews failed")
		s.renderError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	stats, err := s.reviews.StatsForBook(ctx, book.ISBN)
	if err != nil {
		s.log.Error().Err(err).Str("isbn", book.ISBN).Msg("review stats failed")
		s.renderError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	s.render(w, status, "book.html", bookPage{
		User:    userFrom(ctx),
		Book:    book,
		Reviews: reviews,
		Stats:   stats,
		Enrich:  s.enrich.Enrich(ctx, book.ISBN),
		Message: message,
	})
}
