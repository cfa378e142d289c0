package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type apiBook struct {
	ISBN                string   `json:"isbn"`
	Title               string   `json:"title"`
	Author              string   `json:"author"`
	Year                int      `json:"year"`
	ReviewCount         int      `json:"review_count"`
	AverageScore        float64  `json:"average_score"`
	GoogleAverageRating *float64 `json:"google_average_rating"`
	GoogleRatingsCount  *int     `json:"google_ratings_count"`
	GoogleLink          *string  `json:"google_link"`
	GoogleThumbnail     *string  `json:"google_thumbnail"`
}

// handleAPIBook returns the machine-readable book info. External fields are
// null whenever the metadata lookup comes back empty.
func (s *Server) handleAPIBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isbn := chi.URLParam(r, "isbn")

	book, err := s.catalog.GetBook(ctx, isbn)
	if err != nil {
		s.log.Error().Err(err).Str("isbn", isbn).Msg("book lookup failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		return
	}
	if book == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Book not found"})
		return
	}

	stats, err := s.reviews.StatsForBook(ctx, isbn)
	if err != nil {
		s.log.Error().Err(err).Str("isbn", isbn).Msg("review stats failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		return
	}

	resp := apiBook{
		ISBN:         book.ISBN,
		Title:        book.Title,
		Author:       book.Author,
		Year:         book.Year,
		ReviewCount:  stats.Count,
		AverageScore: stats.Average,
	}
	if meta, ok := s.enrich.Metadata(ctx, isbn); ok {
		resp.GoogleAverageRating = meta.AverageRating
		resp.GoogleRatingsCount = meta.RatingsCount
		resp.GoogleLink = strPtr(meta.Link)
		resp.GoogleThumbnail = strPtr(meta.Thumbnail)
	}

	writeJSON(w, http.StatusOK, resp)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
