// Package googlebooks implements the metadata lookup against the Google
// Books volumes API. The API is keyless.
package googlebooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"bookshelf/internal/domain"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// lookupTimeout bounds a single volumes query.
const lookupTimeout = 5 * time.Second

// Client queries the volumes API by ISBN. The zero base URL targets the
// public endpoint; tests point it at a local server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client. An empty baseURL selects the public API.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: lookupTimeout},
	}
}

var _ domain.MetadataClient = (*Client)(nil)

type volumesResponse struct {
	Items []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	AverageRating *float64 `json:"averageRating"`
	RatingsCount  *int     `json:"ratingsCount"`
	InfoLink      string   `json:"infoLink"`
	PreviewLink   string   `json:"previewLink"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	ImageLinks    *struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
}

// Lookup fetches metadata for the isbn from the first matching volume.
// Any transport error, non-200 status, malformed payload or empty result
// yields ok=false.
func (c *Client) Lookup(ctx context.Context, isbn string) (domain.BookMetadata, bool) {
	var meta domain.BookMetadata

	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+q.Encode(), nil)
	if err != nil {
		return meta, false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return meta, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return meta, false
	}

	var data volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return meta, false
	}
	if len(data.Items) == 0 {
		return meta, false
	}

	info := data.Items[0].VolumeInfo
	meta.AverageRating = info.AverageRating
	meta.RatingsCount = info.RatingsCount
	meta.PublishedDate = info.PublishedDate
	meta.Description = info.Description

	meta.Link = info.InfoLink
	if meta.Link == "" {
		meta.Link = info.PreviewLink
	}
	if info.ImageLinks != nil {
		meta.Thumbnail = info.ImageLinks.Thumbnail
		if meta.Thumbnail == "" {
			meta.Thumbnail = info.ImageLinks.SmallThumbnail
		}
	}
	for _, ident := range info.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_10":
			meta.ISBN10 = ident.Identifier
		case "ISBN_13":
			meta.ISBN13 = ident.Identifier
		}
	}
	return meta, true
}
