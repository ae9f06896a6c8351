// Package etymology resolves words to etymology records through a cache,
// a dictionary lookup and an AI fallback, in that order.
package etymology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"lyrics-etymology/internal/model"
	"lyrics-etymology/internal/script"
	"lyrics-etymology/pkg/ai"
	"lyrics-etymology/pkg/kvcache"
)

const DefaultMaxRelated = 3

// Dictionary returns the raw text extract of a dictionary page.
type Dictionary interface {
	Lookup(ctx context.Context, word string) (string, error)
}

type Resolver struct {
	store      kvcache.Store
	dict       Dictionary    // may be nil
	ai         ai.Completion // may be nil
	maxRelated int

	group singleflight.Group
	// fallbacks remembers words no source could describe, for this process only
	fallbacks sync.Map
	log       zerolog.Logger
}

type Option func(*Resolver)

func WithMaxRelated(n int) Option {
	return func(r *Resolver) {
		if n >= 0 {
			r.maxRelated = n
		}
	}
}

func NewResolver(store kvcache.Store, dict Dictionary, completion ai.Completion, opts ...Option) *Resolver {
	r := &Resolver{
		store:      store,
		dict:       dict,
		ai:         completion,
		maxRelated: DefaultMaxRelated,
		log:        log.With().Str("component", "etymology").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func cacheKey(word, lang string) string {
	return word + "|" + lang
}

// Resolve is ResolveInContext without a lyric line.
func (r *Resolver) Resolve(ctx context.Context, word, lang string) (model.Etymology, bool) {
	return r.ResolveInContext(ctx, word, lang, "")
}

// ResolveInContext returns the etymology of word. The boolean is false when
// neither the dictionary nor the AI produced a record; the returned value is
// then the deterministic fallback, which is never written to the store.
// Concurrent calls for the same key share one resolution, which keeps running
// when the caller that started it goes away.
func (r *Resolver) ResolveInContext(ctx context.Context, word, lang, lyric string) (model.Etymology, bool) {
	normalized := script.NormalizeWord(word)
	if normalized == "" {
		return model.FallbackEtymology(word), false
	}
	if lang == "" {
		lang = script.LanguageHint(normalized)
	}
	key := cacheKey(normalized, lang)

	work := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.resolve(work, key, normalized, lyric), nil
	})
	select {
	case res := <-ch:
		v := res.Val.(result)
		return v.etymology, v.resolved
	case <-ctx.Done():
		return model.FallbackEtymology(normalized), false
	}
}

type result struct {
	etymology model.Etymology
	resolved  bool
}

var (
	errUnavailable = errors.New("source not configured")
	errMalformed   = errors.New("malformed etymology")
)

// definitive reports whether err means the source has nothing for the word,
// as opposed to a failure that may not repeat.
func definitive(err error) bool {
	return errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, errUnavailable) ||
		errors.Is(err, errMalformed)
}

func (r *Resolver) resolve(ctx context.Context, key, word, lyric string) result {
	cached, found, err := kvcache.GetJSON[model.Etymology](ctx, r.store, key)
	if err != nil {
		r.log.Warn().Err(err).Str("word", word).Msg("etymology cache read failed")
	}
	if found {
		return result{etymology: cached, resolved: true}
	}
	if fb, ok := r.fallbacks.Load(key); ok {
		return result{etymology: fb.(model.Etymology)}
	}

	ety, dictErr := r.fromDictionary(ctx, word)
	if dictErr != nil {
		var aiErr error
		ety, aiErr = r.fromAI(ctx, word, lyric)
		if aiErr != nil {
			fb := model.FallbackEtymology(word)
			if definitive(dictErr) && definitive(aiErr) {
				r.fallbacks.Store(key, fb)
			}
			return result{etymology: fb}
		}
	}

	if err := kvcache.SetJSON(ctx, r.store, key, ety); err != nil {
		r.log.Warn().Err(err).Str("word", word).Msg("etymology cache write failed")
	}
	return result{etymology: ety, resolved: true}
}

func (r *Resolver) fromDictionary(ctx context.Context, word string) (model.Etymology, error) {
	if r.dict == nil {
		return model.Etymology{}, errUnavailable
	}
	extract, err := r.dict.Lookup(ctx, word)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			r.log.Warn().Err(err).Str("word", word).Msg("dictionary lookup failed")
		}
		return model.Etymology{}, err
	}
	if strings.TrimSpace(extract) == "" {
		return model.Etymology{}, model.ErrNotFound
	}
	return ParseExtract(word, extract, r.maxRelated), nil
}

func (r *Resolver) fromAI(ctx context.Context, word, lyric string) (model.Etymology, error) {
	if r.ai == nil {
		return model.Etymology{}, errUnavailable
	}
	reply, err := r.ai.Complete(ctx, buildPrompt(word, lyric, r.maxRelated))
	if err != nil {
		r.log.Warn().Err(err).Str("word", word).Str("provider", r.ai.Name()).Msg("AI etymology failed")
		return model.Etymology{}, err
	}
	ety, err := parseAIReply(word, reply)
	if err != nil {
		r.log.Warn().Err(err).Str("word", word).Msg("malformed AI etymology")
		return model.Etymology{}, fmt.Errorf("%w: %w", errMalformed, err)
	}
	return ety.Normalize(word, r.maxRelated), nil
}

// parseAIReply accepts either a single object or an array of objects and
// picks the entry describing word.
func parseAIReply(word, reply string) (model.Etymology, error) {
	candidates, err := ai.Payloads(reply)
	if err != nil {
		return model.Etymology{}, err
	}
	for _, payload := range candidates {
		if ety, err := decodeEtymology(word, payload); err == nil {
			return ety, nil
		}
	}
	return model.Etymology{}, fmt.Errorf("%w: no etymology object", ai.ErrNoPayload)
}

func decodeEtymology(word, payload string) (model.Etymology, error) {
	if strings.HasPrefix(payload, "[") {
		var list []model.Etymology
		if err := json.Unmarshal([]byte(payload), &list); err != nil {
			return model.Etymology{}, err
		}
		if len(list) == 0 {
			return model.Etymology{}, ai.ErrNoPayload
		}
		for _, e := range list {
			if strings.EqualFold(script.NormalizeWord(e.Word), word) {
				return e, nil
			}
		}
		return list[0], nil
	}

	var ety model.Etymology
	if err := json.Unmarshal([]byte(payload), &ety); err != nil {
		return model.Etymology{}, err
	}
	if ety.Origin == "" && ety.Meaning == "" && len(ety.Evolution) == 0 {
		return model.Etymology{}, fmt.Errorf("%w: empty etymology object", ai.ErrNoPayload)
	}
	return ety, nil
}

// ResolveBatch resolves words concurrently and returns only those that
// resolved, keyed by the normalized word.
func (r *Resolver) ResolveBatch(ctx context.Context, words []string, lang string) map[string]model.Etymology {
	var (
		mu  sync.Mutex
		out = make(map[string]model.Etymology, len(words))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range words {
		g.Go(func() error {
			ety, ok := r.Resolve(gctx, w, lang)
			if !ok {
				return nil
			}
			mu.Lock()
			out[script.NormalizeWord(w)] = ety
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
