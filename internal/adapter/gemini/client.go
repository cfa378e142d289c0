// Package gemini implements the description summarizer against the
// generative language API. The call is key-gated; an unset key disables it.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bookshelf/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	model          = "gemini-2.5-flash"
	prompt         = "summarize this text using less than 50 words: "
)

// summarizeTimeout bounds a single generateContent call.
const summarizeTimeout = 10 * time.Second

// Client calls the generateContent endpoint. An empty baseURL selects the
// public API; tests point it at a local server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a Client. An empty apiKey disables summarization entirely.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: summarizeTimeout},
	}
}

var _ domain.Summarizer = (*Client)(nil)

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize condenses the text to under 50 words via the model. Empty input,
// a missing key, any transport error, non-200 status or a response without
// candidates yields ok=false.
func (c *Client) Summarize(ctx context.Context, text string) (string, bool) {
	if c.apiKey == "" || strings.TrimSpace(text) == "" {
		return "", false
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt + text}}}},
	})
	if err != nil {
		return "", false
	}

	u := c.baseURL + "/v1beta/models/" + model + ":generateContent?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", false
	}
	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		return "", false
	}

	summary := data.Candidates[0].Content.Parts[0].Text
	if summary == "" {
		return "", false
	}
	return summary, true
}
