// Package provider builds the configured ai.Completion.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"lyrics-etymology/pkg/ai"
	"lyrics-etymology/pkg/ai/anthropic"
	"lyrics-etymology/pkg/ai/gemini"
	"lyrics-etymology/pkg/ai/openai"
	"lyrics-etymology/pkg/ai/responses"
)

const (
	Gemini    = "gemini"
	OpenAI    = "openai"
	Anthropic = "anthropic"
	Responses = "responses"
)

// Names lists the accepted provider names.
var Names = []string{Gemini, OpenAI, Anthropic, Responses}

type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// New returns the configured provider. Without an API key it returns nil
// and no error: every caller treats a nil Completion as "AI not configured".
func New(ctx context.Context, cfg Config) (ai.Completion, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("no AI API key configured, AI fallbacks disabled")
		return nil, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case Gemini, "":
		return gemini.NewGemini(ctx, cfg.APIKey, cfg.Model)
	case OpenAI:
		return openai.NewOpenAi(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case Anthropic:
		return anthropic.NewClaude(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case Responses:
		return responses.New(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
}
