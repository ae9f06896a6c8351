// Package translation resolves lyric lines to translations through a cache
// and a machine-translation API, with an optional AI poetic rewrite.
package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/pkg/ai"
	"lyrics-etymology/pkg/kvcache"
	"lyrics-etymology/pkg/translator"
)

const (
	DefaultTarget   = "en"
	UnknownLanguage = "unknown"
)

type Resolver struct {
	store  kvcache.Store
	api    translator.Translator // nil when no credential is configured
	ai     ai.Completion         // nil when AI is not configured
	target string
	log    zerolog.Logger
}

func NewResolver(store kvcache.Store, api translator.Translator, completion ai.Completion, defaultTarget string) *Resolver {
	if defaultTarget == "" {
		defaultTarget = DefaultTarget
	}
	return &Resolver{
		store:  store,
		api:    api,
		ai:     completion,
		target: defaultTarget,
		log:    log.With().Str("component", "translation").Logger(),
	}
}

// DefaultTarget is the language used when callers pass an empty target.
func (r *Resolver) DefaultTarget() string { return r.target }

func cacheKey(text, target string) string {
	return target + "|" + text
}

// Translate never fails: without a credential, or when the API call fails,
// the original text is returned and nothing is cached.
func (r *Resolver) Translate(ctx context.Context, text, target string) string {
	if target == "" {
		target = r.target
	}
	if cached, ok := r.cached(ctx, text, target); ok {
		return cached
	}
	if r.api == nil {
		r.log.Debug().Msg("no translator credential, returning original text")
		return text
	}

	out, err := r.api.Translate(ctx, []string{text}, target)
	if err != nil || len(out) != 1 {
		r.log.Warn().Err(err).Str("translator", r.api.Name()).Msg("translation failed, returning original text")
		return text
	}
	r.remember(ctx, text, target, out[0])
	return out[0]
}

// TranslateBatch translates texts with one API call for the cache misses.
// The result is aligned with texts.
func (r *Resolver) TranslateBatch(ctx context.Context, texts []string, target string) []string {
	if target == "" {
		target = r.target
	}
	out := make([]string, len(texts))
	var (
		missing []string
		index   []int
	)
	for i, t := range texts {
		if cached, ok := r.cached(ctx, t, target); ok {
			out[i] = cached
			continue
		}
		out[i] = t
		missing = append(missing, t)
		index = append(index, i)
	}
	if len(missing) == 0 || r.api == nil {
		return out
	}

	translated, err := r.api.Translate(ctx, missing, target)
	if err != nil || len(translated) != len(missing) {
		r.log.Warn().Err(err).Int("texts", len(missing)).Msg("batch translation failed, returning original texts")
		return out
	}
	for j, t := range translated {
		out[index[j]] = t
		r.remember(ctx, missing[j], target, t)
	}
	return out
}

// PoeticTranslation rewrites the literal translation with the AI when both
// an AI provider and a lyric context are available. Any failure yields the
// literal translation.
func (r *Resolver) PoeticTranslation(ctx context.Context, text, lyricContext string) string {
	literal := r.Translate(ctx, text, r.target)
	if r.ai == nil || strings.TrimSpace(lyricContext) == "" {
		return literal
	}

	reply, err := r.ai.Complete(ctx, buildPoeticPrompt(text, literal, lyricContext, r.target))
	if err != nil {
		r.log.Warn().Err(err).Str("provider", r.ai.Name()).Msg("poetic translation failed")
		return literal
	}
	poetic := cleanReply(reply)
	if poetic == "" {
		return literal
	}
	return poetic
}

// DetectLanguage returns UnknownLanguage when detection is unavailable.
func (r *Resolver) DetectLanguage(ctx context.Context, text string) string {
	if r.api == nil {
		return UnknownLanguage
	}
	lang, err := r.api.Detect(ctx, text)
	if err != nil || lang == "" {
		r.log.Warn().Err(err).Msg("language detection failed")
		return UnknownLanguage
	}
	return lang
}

func (r *Resolver) cached(ctx context.Context, text, target string) (string, bool) {
	v, found, err := r.store.Get(ctx, cacheKey(text, target))
	if err != nil {
		r.log.Warn().Err(err).Msg("translation cache read failed")
		return "", false
	}
	return string(v), found
}

// remember skips output equal to the input: the API hands back items it could
// not translate unchanged.
func (r *Resolver) remember(ctx context.Context, text, target, translated string) {
	if translated == "" || translated == text {
		return
	}
	if err := r.store.Set(ctx, cacheKey(text, target), []byte(translated)); err != nil {
		r.log.Warn().Err(err).Msg("translation cache write failed")
	}
}

func buildPoeticPrompt(text, literal, lyricContext, target string) string {
	return fmt.Sprintf(`Translate this Hindi/Urdu song lyric into the language with code %q. Keep it poetic and faithful to the cultural context.

Lyric: %q
Literal translation: %q
Surrounding lyrics: %q

Return only the translation, nothing else.`, target, text, literal, lyricContext)
}

// cleanReply strips the fences and quotes models like to wrap answers in.
func cleanReply(reply string) string {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"') {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
