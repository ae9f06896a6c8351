// Package wiktionary looks up plain-text page extracts from the Wiktionary
// MediaWiki API.
package wiktionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/internal/model"
)

const (
	DefaultBaseURL = "https://en.wiktionary.org/w/api.php"
	userAgent      = "lyrics-etymology/1.0 (https://github.com/bighu630/lyrics)"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: 500 * time.Millisecond,
		log:        log.With().Str("component", "wiktionary").Logger(),
	}
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			PageID  int     `json:"pageid"`
			Title   string  `json:"title"`
			Extract string  `json:"extract"`
			Missing *string `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

// Lookup returns the plain-text extract of the page titled word.
// model.ErrNotFound is returned when the page is missing or has no extract.
func (c *Client) Lookup(ctx context.Context, word string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", word)
	params.Set("prop", "extracts")
	params.Set("format", "json")
	params.Set("explaintext", "true")
	reqURL := c.baseURL + "?" + params.Encode()

	c.log.Debug().Str("word", word).Msg("wiktionary request")

	resp, err := c.doWithRetry(ctx, reqURL, word)
	if err != nil {
		return "", fmt.Errorf("wiktionary: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", model.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wiktionary: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("wiktionary: read body: %w", err)
	}
	var data queryResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("wiktionary: decode json: %w", err)
	}

	for _, page := range data.Query.Pages {
		if page.Missing != nil {
			continue
		}
		if extract := strings.TrimSpace(page.Extract); extract != "" {
			return page.Extract, nil
		}
	}
	return "", model.ErrNotFound
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, reqURL, word string) (*http.Response, error) {
	do := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		return c.httpClient.Do(req)
	}

	resp, err := do()
	if err == nil && resp.StatusCode < 500 {
		return resp, nil
	}
	if ctx.Err() != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, ctx.Err()
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	c.log.Warn().Str("word", word).Str("reason", reason).Msg("wiktionary retry")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}
	return do()
}
