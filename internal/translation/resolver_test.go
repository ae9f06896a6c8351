package translation

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-etymology/pkg/kvcache"
)

type fakeTranslator struct {
	calls    int32
	batches  [][]string
	err      error
	detected string
	echo     bool
}

func (f *fakeTranslator) Name() string { return "fake" }

func (f *fakeTranslator) Translate(_ context.Context, texts []string, target string) ([]string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = target + ":" + strings.ToUpper(t)
		if f.echo {
			out[i] = t
		}
	}
	return out, nil
}

func (f *fakeTranslator) Detect(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.detected, nil
}

type fakeAI struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestTranslateCachesSuccess(t *testing.T) {
	api := &fakeTranslator{}
	r := NewResolver(kvcache.NewMemoryStore(), api, nil, "")

	assert.Equal(t, "en:DIL", r.Translate(context.Background(), "dil", ""))
	assert.Equal(t, "en:DIL", r.Translate(context.Background(), "dil", "en"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.calls))

	assert.Equal(t, "fr:DIL", r.Translate(context.Background(), "dil", "fr"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&api.calls))
}

func TestTranslateWithoutCredentialPassesThrough(t *testing.T) {
	r := NewResolver(kvcache.NewMemoryStore(), nil, nil, "en")
	assert.Equal(t, "तुम ही हो", r.Translate(context.Background(), "तुम ही हो", ""))
	assert.Equal(t, "unknown", r.DetectLanguage(context.Background(), "तुम ही हो"))
}

func TestTranslateFailureReturnsOriginalAndDoesNotCache(t *testing.T) {
	api := &fakeTranslator{err: errors.New("503")}
	store := kvcache.NewMemoryStore()
	r := NewResolver(store, api, nil, "en")

	assert.Equal(t, "dil", r.Translate(context.Background(), "dil", ""))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "unknown", r.DetectLanguage(context.Background(), "dil"))
}

func TestTranslateBatchUsesOneCallForMisses(t *testing.T) {
	api := &fakeTranslator{}
	r := NewResolver(kvcache.NewMemoryStore(), api, nil, "en")

	r.Translate(context.Background(), "b", "")
	out := r.TranslateBatch(context.Background(), []string{"a", "b", "c"}, "")
	assert.Equal(t, []string{"en:A", "en:B", "en:C"}, out)
	require.Len(t, api.batches, 2)
	assert.Equal(t, []string{"a", "c"}, api.batches[1])

	// each batch item is cached under its own key
	assert.Equal(t, "en:C", r.Translate(context.Background(), "c", ""))
	assert.Equal(t, int32(2), atomic.LoadInt32(&api.calls))
}

func TestTranslateBatchFailure(t *testing.T) {
	r := NewResolver(kvcache.NewMemoryStore(), &fakeTranslator{err: errors.New("boom")}, nil, "en")
	assert.Equal(t, []string{"a", "b"}, r.TranslateBatch(context.Background(), []string{"a", "b"}, ""))
}

func TestPoeticTranslation(t *testing.T) {
	api := &fakeTranslator{}
	completion := &fakeAI{reply: "\"You alone, only you\"\n"}
	r := NewResolver(kvcache.NewMemoryStore(), api, completion, "en")

	assert.Equal(t, "en:TUM HI HO", r.PoeticTranslation(context.Background(), "tum hi ho", ""))
	assert.Empty(t, completion.prompt)

	assert.Equal(t, "You alone, only you", r.PoeticTranslation(context.Background(), "tum hi ho", "ab tum hi ho"))
	assert.Contains(t, completion.prompt, "en:TUM HI HO")
	assert.Contains(t, completion.prompt, "ab tum hi ho")
}

func TestPoeticTranslationFailureReturnsLiteral(t *testing.T) {
	r := NewResolver(kvcache.NewMemoryStore(), &fakeTranslator{}, &fakeAI{err: errors.New("quota")}, "en")
	assert.Equal(t, "en:X", r.PoeticTranslation(context.Background(), "x", "context"))

	r = NewResolver(kvcache.NewMemoryStore(), &fakeTranslator{}, nil, "en")
	assert.Equal(t, "en:X", r.PoeticTranslation(context.Background(), "x", "context"))
}

func TestDetectLanguage(t *testing.T) {
	r := NewResolver(kvcache.NewMemoryStore(), &fakeTranslator{detected: "hi"}, nil, "en")
	assert.Equal(t, "hi", r.DetectLanguage(context.Background(), "दिल"))
}

func TestTranslateDoesNotCacheUntranslatedOutput(t *testing.T) {
	api := &fakeTranslator{echo: true}
	store := kvcache.NewMemoryStore()
	r := NewResolver(store, api, nil, "en")

	assert.Equal(t, "jaan", r.Translate(context.Background(), "jaan", ""))
	assert.Equal(t, []string{"jaan", "mehboob"}, r.TranslateBatch(context.Background(), []string{"jaan", "mehboob"}, ""))
	assert.Equal(t, 0, store.Len())

	api.echo = false
	assert.Equal(t, "en:JAAN", r.Translate(context.Background(), "jaan", ""))
	assert.Equal(t, 1, store.Len())
}
