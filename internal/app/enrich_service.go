package app

import (
	"context"

	"bookshelf/internal/domain"
)

// Enrichment is the merged third-party view of a book. HasMetadata and
// HasSummary distinguish "fetched" from "unavailable"; either source can be
// absent without affecting the other.
type Enrichment struct {
	Metadata    domain.BookMetadata
	HasMetadata bool
	Summary     string
	HasSummary  bool
}

// EnrichService composes the external metadata lookup and the description
// summarizer. Both calls are best-effort; a failure of either degrades to
// absent fields and never fails a page render.
type EnrichService struct {
	metadata   domain.MetadataClient
	summarizer domain.Summarizer
}

// NewEnrichService creates an EnrichService over the given clients.
func NewEnrichService(metadata domain.MetadataClient, summarizer domain.Summarizer) *EnrichService {
	return &EnrichService{metadata: metadata, summarizer: summarizer}
}

// Enrich fetches metadata for the isbn and, when a description came back,
// a summary of it. The summarizer input is the fetched description, so the
// two calls run in order; each client enforces its own timeout.
func (s *EnrichService) Enrich(ctx context.Context, isbn string) Enrichment {
	var e Enrichment
	e.Metadata, e.HasMetadata = s.metadata.Lookup(ctx, isbn)
	if e.HasMetadata && e.Metadata.Description != "" {
		e.Summary, e.HasSummary = s.summarizer.Summarize(ctx, e.Metadata.Description)
	}
	return e
}

// Metadata fetches only the third-party metadata, skipping summarization.
func (s *EnrichService) Metadata(ctx context.Context, isbn string) (domain.BookMetadata, bool) {
	return s.metadata.Lookup(ctx, isbn)
}
