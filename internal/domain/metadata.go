package domain

import "context"

// BookMetadata holds third-party catalog data for a book. Pointer fields are
// nil when the upstream record omits them; the zero value with ok=false from
// MetadataClient.Lookup means nothing usable was found.
type BookMetadata struct {
	AverageRating *float64
	RatingsCount  *int
	Link          string
	Thumbnail     string
	PublishedDate string
	Description   string
	ISBN10        string
	ISBN13        string
}

// MetadataClient looks up third-party metadata by ISBN. It is best-effort:
// any transport error, non-success status or empty result yields ok=false,
// never an error.
type MetadataClient interface {
	Lookup(ctx context.Context, isbn string) (meta BookMetadata, ok bool)
}

// Summarizer condenses free text. Best-effort with the same contract as
// MetadataClient: ok=false on empty input, missing credentials or any
// upstream failure.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (summary string, ok bool)
}
