package analysis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-etymology/internal/model"
)

type fakeEtymologies struct {
	known map[string]model.Etymology
	calls int32
	mu    sync.Mutex
	langs map[string]string
}

func (f *fakeEtymologies) ResolveInContext(_ context.Context, word, lang, _ string) (model.Etymology, bool) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	if f.langs == nil {
		f.langs = map[string]string{}
	}
	f.langs[word] = lang
	f.mu.Unlock()
	ety, ok := f.known[word]
	if !ok {
		return model.FallbackEtymology(word), false
	}
	return ety, true
}

type fakeTranslations struct {
	calls   int32
	started chan struct{}
	release chan struct{}
}

func (f *fakeTranslations) Translate(_ context.Context, text, _ string) string {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	return "translated: " + text
}

type fakeSentiments struct {
	calls   int32
	result  *model.SentimentAnalysis
	started chan struct{}
	release chan struct{}
}

func (f *fakeSentiments) Analyze(context.Context, string) model.SentimentAnalysis {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if f.result != nil {
		return *f.result
	}
	return model.DefaultSentiment()
}

func ety(word, origin string) model.Etymology {
	return model.Etymology{Word: word, Origin: origin, Evolution: []string{word}, Meaning: "m", RelatedWords: []string{}}
}

func TestAnalyzeLineMergesResults(t *testing.T) {
	joy := model.SentimentAnalysis{Emotion: model.EmotionJoy, Intensity: 0.9, Colors: model.Colors{Primary: "#ffcc00", Secondary: "#ff9900", Accent: "#ff0066"}}
	etys := &fakeEtymologies{known: map[string]model.Etymology{
		"रंग":  ety("रंग", "Sanskrit"),
		"ishq": ety("ishq", "from Arabic"),
	}}
	o := New(etys, &fakeTranslations{}, &fakeSentiments{result: &joy}, Config{})

	line := model.LyricLine{ID: "line-0", StartTime: 0, EndTime: 4, Text: "Ishq ka रंग chadha"}
	rec := o.AnalyzeLine(context.Background(), line)

	assert.Equal(t, line, rec.LyricLine)
	assert.Equal(t, "translated: Ishq ka रंग chadha", rec.Translation)
	require.Len(t, rec.Etymology, 2)
	assert.Equal(t, "Sanskrit", rec.Etymology["रंग"].Origin)
	assert.Contains(t, rec.Etymology, "ishq")
	assert.NotContains(t, rec.Etymology, "chadha")
	require.NotNil(t, rec.Sentiment)
	assert.Equal(t, model.EmotionJoy, rec.Sentiment.Emotion)
	require.NotNil(t, rec.Visualization)
	assert.Equal(t, model.ParticleBubbles, rec.Visualization.ParticleEffect)
	assert.True(t, rec.Enriched())

	assert.Equal(t, "hi", etys.langs["रंग"])
	assert.Equal(t, "en", etys.langs["ishq"])

	dist := o.Distribution()
	assert.Equal(t, 1, dist[model.OriginSanskrit])
	assert.Equal(t, 1, dist[model.OriginArabic])
	assert.Equal(t, 2, dist.Total())
}

func TestAnalyzeLineIsMemoized(t *testing.T) {
	etys := &fakeEtymologies{known: map[string]model.Etymology{"sanam": ety("sanam", "Persian")}}
	tr := &fakeTranslations{}
	se := &fakeSentiments{}
	o := New(etys, tr, se, Config{})
	line := model.LyricLine{ID: "line-3", Text: "sanam re"}

	first := o.AnalyzeLine(context.Background(), line)
	second := o.AnalyzeLine(context.Background(), line)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tr.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&se.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&etys.calls))
	assert.Equal(t, 1, o.Distribution()[model.OriginPersian])
}

func TestAnalyzeLineConcurrentCallersShareOneAnalysis(t *testing.T) {
	tr := &fakeTranslations{}
	o := New(&fakeEtymologies{}, tr, &fakeSentiments{}, Config{})
	line := model.LyricLine{ID: "line-1", Text: "tum hi ho"}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.AnalyzeLine(context.Background(), line)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&tr.calls))
}

func TestAnalyzeLineFansOutConcurrently(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	tr := &fakeTranslations{started: started, release: release}
	se := &fakeSentiments{started: started, release: release}
	o := New(&fakeEtymologies{}, tr, se, Config{})

	done := make(chan model.EnrichedLine)
	go func() {
		done <- o.AnalyzeLine(context.Background(), model.LyricLine{ID: "x", Text: "hello there"})
	}()

	// both calls must be in flight before either is released
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("translation and sentiment did not run concurrently")
		}
	}
	close(release)

	select {
	case rec := <-done:
		assert.Equal(t, "translated: hello there", rec.Translation)
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not finish")
	}
}

func TestAnalyzeLineWorstCase(t *testing.T) {
	o := New(&fakeEtymologies{}, &fakeTranslations{}, &fakeSentiments{}, Config{})
	rec := o.AnalyzeLine(context.Background(), model.LyricLine{ID: "l", Text: "kuch nahi"})

	assert.Nil(t, rec.Etymology)
	assert.Equal(t, model.DefaultSentiment(), *rec.Sentiment)
	assert.Equal(t, model.ParticleWaves, rec.Visualization.ParticleEffect)
	assert.Equal(t, 0, o.Distribution().Total())
}

func TestAnalyzeLineRespectsWordCap(t *testing.T) {
	etys := &fakeEtymologies{}
	o := New(etys, &fakeTranslations{}, &fakeSentiments{}, Config{MaxWords: 2})
	o.AnalyzeLine(context.Background(), model.LyricLine{ID: "l", Text: "one two three four"})
	assert.Equal(t, int32(2), atomic.LoadInt32(&etys.calls))
}

func TestSeed(t *testing.T) {
	tr := &fakeTranslations{}
	o := New(&fakeEtymologies{}, tr, &fakeSentiments{}, Config{})

	seeded := model.EnrichedLine{
		LyricLine:   model.LyricLine{ID: "line-0", Text: "dil"},
		Translation: "heart",
		Etymology:   map[string]model.Etymology{"dil": ety("dil", "Persian")},
	}
	o.Seed([]model.EnrichedLine{seeded, {}})
	assert.Equal(t, 0, o.Distribution().Total())

	rec := o.AnalyzeLine(context.Background(), seeded.LyricLine)
	assert.Equal(t, "heart", rec.Translation)
	require.NotNil(t, rec.Sentiment)
	require.NotNil(t, rec.Visualization)
	assert.Equal(t, int32(0), atomic.LoadInt32(&tr.calls))
	assert.Equal(t, 1, o.Distribution()[model.OriginPersian])

	o.AnalyzeLine(context.Background(), seeded.LyricLine)
	assert.Equal(t, 1, o.Distribution()[model.OriginPersian])
}

func TestDistributionIsACopy(t *testing.T) {
	o := New(&fakeEtymologies{}, &fakeTranslations{}, &fakeSentiments{}, Config{})
	d := o.Distribution()
	d[model.OriginHindi] = 10
	assert.Equal(t, 0, o.Distribution()[model.OriginHindi])
	assert.Len(t, o.Distribution(), 7)
}

// liveSentiments only answers while its context is alive.
type liveSentiments struct {
	calls int32
}

func (f *liveSentiments) Analyze(ctx context.Context, _ string) model.SentimentAnalysis {
	atomic.AddInt32(&f.calls, 1)
	if ctx.Err() != nil {
		return model.DefaultSentiment()
	}
	return model.SentimentAnalysis{Emotion: model.EmotionPassionate, Intensity: 0.8, Colors: model.Colors{Primary: "#ff1493", Secondary: "#ff69b4", Accent: "#ffc0cb"}}
}

func TestAnalyzeLineCancelledCallerDoesNotPoisonCache(t *testing.T) {
	etys := &fakeEtymologies{known: map[string]model.Etymology{"ishq": ety("ishq", "Arabic")}}
	se := &liveSentiments{}
	o := New(etys, &fakeTranslations{}, se, Config{})
	line := model.LyricLine{ID: "line-7", Text: "ishq"}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	first := o.AnalyzeLine(cancelled, line)
	require.NotNil(t, first.Sentiment)

	rec := o.AnalyzeLine(context.Background(), line)
	require.NotNil(t, rec.Sentiment)
	assert.Equal(t, model.EmotionPassionate, rec.Sentiment.Emotion)
	assert.Contains(t, rec.Etymology, "ishq")
	assert.Equal(t, int32(1), atomic.LoadInt32(&se.calls))
	assert.Equal(t, 1, o.Distribution()[model.OriginArabic])
}

// stallingSentiments blocks its first call until the context ends.
type stallingSentiments struct {
	calls int32
}

func (f *stallingSentiments) Analyze(ctx context.Context, _ string) model.SentimentAnalysis {
	if atomic.AddInt32(&f.calls, 1) == 1 {
		<-ctx.Done()
	}
	return model.DefaultSentiment()
}

func TestAnalyzeLineTimeoutIsNotCached(t *testing.T) {
	se := &stallingSentiments{}
	o := New(&fakeEtymologies{}, &fakeTranslations{}, se, Config{LineTimeout: 20 * time.Millisecond})
	line := model.LyricLine{ID: "line-8", Text: "dheere dheere"}

	o.AnalyzeLine(context.Background(), line)
	_, ok := o.Cached(line.ID)
	assert.False(t, ok)

	o.AnalyzeLine(context.Background(), line)
	_, ok = o.Cached(line.ID)
	assert.True(t, ok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&se.calls))
}
