package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/pkg/ai"
)

const (
	defaultModel = "claude-3-5-haiku-latest"
	maxTokens    = 2048
)

var _ ai.Completion = (*claude)(nil)

type claude struct {
	client anthropic.Client
	model  string
}

func NewClaude(apiKey, modelName, baseURL string) *claude {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if modelName == "" {
		modelName = defaultModel
	}
	return &claude{client: anthropic.NewClient(opts...), model: modelName}
}

func (c *claude) Name() string {
	return "anthropic"
}

func (c *claude) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("could not get response from anthropic")
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", errors.New("anthropic returned an empty response")
	}
	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	return b.String(), nil
}
