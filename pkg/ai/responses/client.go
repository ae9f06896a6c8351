// Package responses implements ai.Completion on the OpenAI Responses API.
package responses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/pkg/ai"
)

const (
	defaultModel    = "gpt-4.1-mini"
	maxOutputTokens = 2000
	maxRetries      = 3
)

var _ ai.Completion = (*Client)(nil)

type Client struct {
	client openai.Client
	model  string
	// waits between attempts, indexed by attempt number
	rateLimitWait   []time.Duration
	serverErrorWait []time.Duration
}

func New(apiKey, modelName, baseURL string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if modelName == "" {
		modelName = defaultModel
	}
	return &Client{
		client:          openai.NewClient(opts...),
		model:           modelName,
		rateLimitWait:   []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second},
		serverErrorWait: []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second},
	}
}

func (c *Client) Name() string {
	return "responses"
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := c.client.Responses.New(ctx, params)
		if err == nil {
			return resp.OutputText(), nil
		}

		var wait time.Duration
		switch {
		case isRateLimitError(err):
			wait = c.rateLimitWait[attempt]
		case isServerError(err):
			wait = c.serverErrorWait[attempt]
		default:
			return "", err
		}
		if attempt == maxRetries-1 {
			return "", err
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("responses api call failed, retrying")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", fmt.Errorf("failed after %d attempts", maxRetries)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}
