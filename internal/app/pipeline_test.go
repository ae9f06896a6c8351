package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-etymology/internal/config"
	"lyrics-etymology/internal/lyrics"
	"lyrics-etymology/internal/model"
)

const namasteTranscript = "0,10.5,3.2,नमस्ते दुनिया\n"

var particleEffects = []model.ParticleEffect{
	model.ParticleBubbles,
	model.ParticleLeaves,
	model.ParticleStars,
	model.ParticleWaves,
	model.ParticleSparks,
}

// missingDictionary 对所有词条都返回 Wiktionary 的缺页结果
func missingDictionary(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"pages":{"-1":{"title":"x","missing":""}}}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// chatServer 模拟 OpenAI chat completions，按提示词内容选择回复
func chatServer(t *testing.T, replies map[string]string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		content := ""
		for marker, reply := range replies {
			if strings.Contains(req.Messages[0].Content, marker) {
				content = reply
				break
			}
		}
		resp := map[string]any{
			"id":     "1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]string{"role": "assistant", "content": content},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func activeNamasteLine(t *testing.T) model.LyricLine {
	t.Helper()
	lines, err := lyrics.Parse(namasteTranscript, lyrics.FormatDelimited)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.InDelta(t, 10.5, lines[0].StartTime, 1e-9)
	assert.InDelta(t, 13.7, lines[0].EndTime, 1e-9)

	line, ok := lyrics.NewTracker(lines).LineAt(11.0)
	require.True(t, ok)
	assert.Equal(t, "नमस्ते दुनिया", line.Text)
	return line
}

func TestPipelineAnalyzesActiveLineWithoutCredentials(t *testing.T) {
	line := activeNamasteLine(t)

	cfg := config.Default()
	cfg.Dictionary.BaseURL = missingDictionary(t).URL
	p, err := NewPipeline(context.Background(), cfg)
	require.NoError(t, err)
	defer p.Close()

	rec := p.Orchestrator.AnalyzeLine(context.Background(), line)

	assert.Equal(t, line, rec.LyricLine)
	assert.Equal(t, "नमस्ते दुनिया", rec.Translation)
	assert.Empty(t, rec.Etymology)
	require.NotNil(t, rec.Sentiment)
	assert.Equal(t, model.EmotionCalm, rec.Sentiment.Emotion)
	require.NotNil(t, rec.Visualization)
	assert.Contains(t, particleEffects, rec.Visualization.ParticleEffect)
	assert.Equal(t, 0, p.Orchestrator.Distribution().Total())
}

func TestPipelineAnalyzesActiveLineWithAI(t *testing.T) {
	line := activeNamasteLine(t)

	chat := chatServer(t, map[string]string{
		`etymology for the word "नमस्ते"`: `{"word":"नमस्ते","origin":"Sanskrit","evolution":["namas","namaste"],"meaning":"I bow to you","relatedWords":["नमन"]}`,
		`etymology for the word "दुनिया"`: "```json\n" + `{"word":"दुनिया","origin":"Arabic","evolution":["dunyā","duniya"],"meaning":"world","relatedWords":[]}` + "\n```",
		"sentiment": `{"emotion":"joy","intensity":0.7,"colors":{"primary":"#ffd700","secondary":"#ffa500","accent":"#ff4500"}}`,
	})

	cfg := config.Default()
	cfg.Dictionary.BaseURL = missingDictionary(t).URL
	cfg.AI.Provider = "openai"
	cfg.AI.APIKey = "test-key"
	cfg.AI.BaseURL = chat.URL
	p, err := NewPipeline(context.Background(), cfg)
	require.NoError(t, err)
	defer p.Close()

	rec := p.Orchestrator.AnalyzeLine(context.Background(), line)

	assert.Equal(t, "नमस्ते दुनिया", rec.Translation)
	require.Len(t, rec.Etymology, 2)
	assert.Equal(t, "Sanskrit", rec.Etymology["नमस्ते"].Origin)
	assert.Equal(t, "world", rec.Etymology["दुनिया"].Meaning)
	require.NotNil(t, rec.Sentiment)
	assert.Equal(t, model.EmotionJoy, rec.Sentiment.Emotion)
	require.NotNil(t, rec.Visualization)
	assert.Contains(t, particleEffects, rec.Visualization.ParticleEffect)

	dist := p.Orchestrator.Distribution()
	assert.Equal(t, 1, dist[model.OriginSanskrit])
	assert.Equal(t, 1, dist[model.OriginArabic])
}
