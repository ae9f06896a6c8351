package transcript

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/internal/lyrics"
	"lyrics-etymology/internal/model"
)

// Chain tries each source in order until one yields parsable lyrics.
type Chain struct {
	sources []Source
	log     zerolog.Logger
}

func NewChain(sources ...Source) *Chain {
	c := &Chain{
		sources: sources,
		log:     log.With().Str("component", "transcript").Logger(),
	}
	if len(sources) == 0 {
		c.log.Warn().Msg("no transcript sources configured")
	}
	return c
}

// Load fetches and parses the transcript. A source whose content parses to
// zero lines counts as a failure and the next source is tried.
func (c *Chain) Load(ctx context.Context, q Query) ([]model.LyricLine, Transcript, error) {
	lastErr := ErrNoTranscript
	for i, src := range c.sources {
		c.log.Info().
			Str("source", src.Name()).
			Int("attempt", i+1).
			Int("total_sources", len(c.sources)).
			Str("title", q.Title).
			Str("artist", q.Artist).
			Msg("trying transcript source")

		t, err := src.Fetch(ctx, q)
		if err != nil {
			c.log.Warn().Str("source", src.Name()).Err(err).Msg("source failed")
			lastErr = err
			continue
		}
		lines, err := lyrics.Parse(t.Content, t.Format)
		if err != nil || len(lines) == 0 {
			c.log.Warn().Str("source", src.Name()).Err(err).Msg("transcript has no usable lines")
			lastErr = fmt.Errorf("%s: %w", src.Name(), ErrNoTranscript)
			continue
		}

		c.log.Info().Str("source", src.Name()).Int("lines", len(lines)).Msg("transcript loaded")
		return lines, t, nil
	}
	return nil, Transcript{}, fmt.Errorf("all transcript sources failed: %w", lastErr)
}
