// Package analysis enriches lyric lines with translation, etymology and
// sentiment, memoizing the result per line.
package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"lyrics-etymology/internal/model"
	"lyrics-etymology/internal/script"
	"lyrics-etymology/internal/sentiment"
)

type Etymologies interface {
	ResolveInContext(ctx context.Context, word, lang, lyric string) (model.Etymology, bool)
}

type Translations interface {
	Translate(ctx context.Context, text, target string) string
}

type Sentiments interface {
	Analyze(ctx context.Context, text string) model.SentimentAnalysis
}

type Config struct {
	MaxWords       int
	SkipStopWords  bool
	TargetLanguage string
	// LineTimeout bounds the fan-out of one line; zero means no bound.
	LineTimeout time.Duration
}

// Orchestrator owns the enrichment cache and the language distribution.
// It is safe for concurrent use.
type Orchestrator struct {
	etymologies  Etymologies
	translations Translations
	sentiments   Sentiments
	cfg          Config

	mu           sync.RWMutex
	cache        map[string]model.EnrichedLine
	seeds        map[string]model.EnrichedLine
	distribution model.LanguageDistribution

	group singleflight.Group
	log   zerolog.Logger
}

func New(e Etymologies, t Translations, s Sentiments, cfg Config) *Orchestrator {
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = DefaultMaxWords
	}
	return &Orchestrator{
		etymologies:  e,
		translations: t,
		sentiments:   s,
		cfg:          cfg,
		cache:        make(map[string]model.EnrichedLine),
		seeds:        make(map[string]model.EnrichedLine),
		distribution: model.NewLanguageDistribution(),
		log:          log.With().Str("component", "analysis").Logger(),
	}
}

// AnalyzeLine returns the enriched record of line, computing it at most once
// per line id. It never fails; sub-results that could not be obtained are
// absent or defaulted.
//
// The analysis is shared by concurrent callers and outlives the caller that
// started it. A caller whose ctx ends first gets an uncached default record.
func (o *Orchestrator) AnalyzeLine(ctx context.Context, line model.LyricLine) model.EnrichedLine {
	if rec, ok := o.Cached(line.ID); ok {
		return rec
	}
	if rec, ok := o.promoteSeed(line.ID); ok {
		return rec
	}

	work := context.WithoutCancel(ctx)
	ch := o.group.DoChan(line.ID, func() (interface{}, error) {
		if rec, ok := o.Cached(line.ID); ok {
			return rec, nil
		}
		rec, complete := o.enrich(work, line)
		if complete {
			o.commit(rec)
		} else {
			o.log.Warn().Str("line", line.ID).Msg("line analysis timed out, result not cached")
		}
		return rec, nil
	})

	select {
	case res := <-ch:
		return res.Val.(model.EnrichedLine)
	case <-ctx.Done():
		return defaulted(line)
	}
}

// defaulted is the record of a line nothing could be learned about.
func defaulted(line model.LyricLine) model.EnrichedLine {
	mood := model.DefaultSentiment()
	vis := sentiment.MapVisualization(mood)
	return model.EnrichedLine{
		LyricLine:     line,
		Translation:   line.Text,
		Sentiment:     &mood,
		Visualization: &vis,
	}
}

// enrich reports complete=false when the line timeout cut the fan-out short.
func (o *Orchestrator) enrich(ctx context.Context, line model.LyricLine) (rec model.EnrichedLine, complete bool) {
	start := time.Now()
	if o.cfg.LineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.LineTimeout)
		defer cancel()
	}

	words := ExtractWords(line.Text, o.cfg.MaxWords, o.cfg.SkipStopWords)

	var (
		translation string
		mood        model.SentimentAnalysis
		etymologies = make([]*model.Etymology, len(words))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		translation = o.translations.Translate(gctx, line.Text, o.cfg.TargetLanguage)
		return nil
	})
	g.Go(func() error {
		mood = o.sentiments.Analyze(gctx, line.Text)
		return nil
	})
	for i, w := range words {
		g.Go(func() error {
			if ety, ok := o.etymologies.ResolveInContext(gctx, w, script.LanguageHint(w), line.Text); ok {
				etymologies[i] = &ety
			}
			return nil
		})
	}
	_ = g.Wait()
	complete = ctx.Err() == nil

	rec = model.EnrichedLine{
		LyricLine:   line,
		Translation: translation,
	}
	for i, ety := range etymologies {
		if ety == nil {
			continue
		}
		if rec.Etymology == nil {
			rec.Etymology = make(map[string]model.Etymology)
		}
		rec.Etymology[words[i]] = *ety
	}
	vis := sentiment.MapVisualization(mood)
	rec.Sentiment = &mood
	rec.Visualization = &vis

	o.log.Debug().
		Str("line", line.ID).
		Int("words", len(words)).
		Int("etymologies", len(rec.Etymology)).
		Str("emotion", string(mood.Emotion)).
		Bool("complete", complete).
		Dur("took", time.Since(start)).
		Msg("line analysed")
	return rec, complete
}

// commit stores rec and counts its origins once.
func (o *Orchestrator) commit(rec model.EnrichedLine) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.cache[rec.ID]; exists {
		return
	}
	o.cache[rec.ID] = rec
	for _, ety := range rec.Etymology {
		o.distribution.Add(ety.Origin)
	}
}

func (o *Orchestrator) promoteSeed(id string) (model.EnrichedLine, bool) {
	o.mu.Lock()
	rec, ok := o.seeds[id]
	if ok {
		delete(o.seeds, id)
	}
	o.mu.Unlock()
	if !ok {
		return model.EnrichedLine{}, false
	}
	o.commit(rec)
	rec, _ = o.Cached(id)
	return rec, true
}

// Cached returns the stored record for id, if any.
func (o *Orchestrator) Cached(id string) (model.EnrichedLine, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	rec, ok := o.cache[id]
	return rec, ok
}

// Seed preloads pre-generated records. A seeded line is moved into the
// cache, and counted in the distribution, the first time it is analysed.
func (o *Orchestrator) Seed(records []model.EnrichedLine) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if rec.Sentiment == nil {
			def := model.DefaultSentiment()
			rec.Sentiment = &def
		}
		if rec.Visualization == nil {
			vis := sentiment.MapVisualization(*rec.Sentiment)
			rec.Visualization = &vis
		}
		o.seeds[rec.ID] = rec
	}
}

// Distribution returns a snapshot of the origin counts.
func (o *Orchestrator) Distribution() model.LanguageDistribution {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.distribution.Clone()
}
