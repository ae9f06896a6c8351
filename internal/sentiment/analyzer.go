// Package sentiment classifies the emotion of a lyric line and maps it to
// visualization parameters.
package sentiment

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/internal/model"
	"lyrics-etymology/pkg/ai"
)

var (
	hexColor        = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	sentimentSchema = ai.Schema[model.SentimentAnalysis]()
)

type Analyzer struct {
	ai  ai.Completion // nil disables analysis
	log zerolog.Logger
}

func NewAnalyzer(completion ai.Completion) *Analyzer {
	return &Analyzer{
		ai:  completion,
		log: log.With().Str("component", "sentiment").Logger(),
	}
}

// Analyze issues one AI call and validates the reply. It never fails: any
// problem yields model.DefaultSentiment.
func (a *Analyzer) Analyze(ctx context.Context, text string) model.SentimentAnalysis {
	if a.ai == nil || strings.TrimSpace(text) == "" {
		return model.DefaultSentiment()
	}
	reply, err := a.ai.Complete(ctx, buildPrompt(text))
	if err != nil {
		a.log.Warn().Err(err).Str("provider", a.ai.Name()).Msg("sentiment analysis failed")
		return model.DefaultSentiment()
	}

	var raw model.SentimentAnalysis
	if err := ai.DecodeJSON(reply, &raw); err != nil {
		a.log.Warn().Err(err).Msg("malformed sentiment reply")
		return model.DefaultSentiment()
	}
	s, ok := Sanitize(raw)
	if !ok {
		a.log.Warn().Str("emotion", string(raw.Emotion)).Msg("unsupported emotion in sentiment reply")
	}
	return s
}

// Sanitize normalizes a model-produced analysis. An unsupported emotion
// yields the default analysis and false. Intensity is clamped into
// [MinIntensity, MaxIntensity] and invalid colors are replaced by defaults.
func Sanitize(s model.SentimentAnalysis) (model.SentimentAnalysis, bool) {
	def := model.DefaultSentiment()
	s.Emotion = model.Emotion(strings.ToLower(strings.TrimSpace(string(s.Emotion))))
	if !s.Emotion.Valid() {
		return def, false
	}

	switch {
	case s.Intensity < model.MinIntensity:
		s.Intensity = model.MinIntensity
	case s.Intensity > model.MaxIntensity:
		s.Intensity = model.MaxIntensity
	}

	s.Colors.Primary = validColor(s.Colors.Primary, def.Colors.Primary)
	s.Colors.Secondary = validColor(s.Colors.Secondary, def.Colors.Secondary)
	s.Colors.Accent = validColor(s.Colors.Accent, def.Colors.Accent)
	return s, true
}

func validColor(c, fallback string) string {
	c = strings.TrimSpace(c)
	if hexColor.MatchString(c) {
		return strings.ToLower(c)
	}
	return fallback
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Analyze the sentiment and emotion of this song lyric line: %q
Consider the cultural context if it is in Hindi or Urdu.

Return ONLY a JSON object, no markdown, matching this schema:
%s

"emotion" is one of: joy, melancholy, energy, calm, passionate, reflective.
"intensity" is between 0.1 and 1.0.
"colors" are 6-digit hex colors: a primary color matching the emotion, a complementary secondary and an accent.`, text, sentimentSchema)
}
