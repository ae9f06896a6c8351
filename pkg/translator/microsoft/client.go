// Package microsoft is a client for the Microsoft Translator Text v3 REST API.
package microsoft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"lyrics-etymology/pkg/translator"
)

const (
	DefaultEndpoint = "https://api.cognitive.microsofttranslator.com/"
	DefaultRegion   = "eastus"
	apiVersion      = "3.0"
)

var _ translator.Translator = (*Client)(nil)

type Client struct {
	endpoint   string
	region     string
	key        string
	httpClient *http.Client
}

// NewClient returns translator.ErrNoCredential when key is empty.
func NewClient(endpoint, region, key string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(key) == "" {
		return nil, translator.ErrNoCredential
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	if region == "" {
		region = DefaultRegion
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		region:     region,
		key:        key,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Name() string {
	return "microsoft"
}

type textItem struct {
	Text string `json:"text"`
}

type translateResult struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage,omitempty"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

type detectResult struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

// Translate sends all texts in one request. An item the service left
// untranslated keeps its original text.
func (c *Client) Translate(ctx context.Context, texts []string, target string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("api-version", apiVersion)
	q.Set("to", target)

	var results []translateResult
	if err := c.post(ctx, "translate?"+q.Encode(), texts, &results); err != nil {
		return nil, err
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("microsoft translator: got %d results for %d texts", len(results), len(texts))
	}

	out := make([]string, len(texts))
	for i, r := range results {
		out[i] = texts[i]
		if len(r.Translations) > 0 && r.Translations[0].Text != "" {
			out[i] = r.Translations[0].Text
		}
	}
	return out, nil
}

func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	var results []detectResult
	if err := c.post(ctx, "detect?api-version="+apiVersion, []string{text}, &results); err != nil {
		return "", err
	}
	if len(results) == 0 || results[0].Language == "" {
		return "", fmt.Errorf("microsoft translator: empty detection result")
	}
	return results[0].Language, nil
}

func (c *Client) post(ctx context.Context, path string, texts []string, out any) error {
	items := make([]textItem, len(texts))
	for i, t := range texts {
		items[i] = textItem{Text: t}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("microsoft translator: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("microsoft translator: create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", c.region)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ClientTraceId", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("microsoft translator: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("microsoft translator: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("microsoft translator: unexpected status %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("microsoft translator: decode json: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
