package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lyrics-etymology/internal/model"
)

const (
	errAnalysisFailed = "Failed to analyze lyrics"
	maxBodySize       = 1 << 20
)

// Analyzer is implemented by *analysis.Orchestrator.
type Analyzer interface {
	AnalyzeLine(ctx context.Context, line model.LyricLine) model.EnrichedLine
	Distribution() model.LanguageDistribution
}

// Poet is implemented by *translation.Resolver.
type Poet interface {
	PoeticTranslation(ctx context.Context, text, lyricContext string) string
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AnalyzeRequest struct {
	Text            string          `json:"text"`
	Timestamp       *float64        `json:"timestamp,omitempty"`
	PreviousContext json.RawMessage `json:"previousContext,omitempty"`
}

type AnalyzeResponse struct {
	Translation   string                     `json:"translation"`
	Etymologies   map[string]model.Etymology `json:"etymologies"`
	Sentiment     model.SentimentAnalysis    `json:"sentiment"`
	Visualization model.VisualizationConfig  `json:"visualization"`
	Timestamp     *float64                   `json:"timestamp"`
}

type DistributionResponse struct {
	Counts      model.LanguageDistribution `json:"counts"`
	Percentages map[model.Origin]float64   `json:"percentages"`
	Total       int                        `json:"total"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	analyzer Analyzer
	poet     Poet
	pingers  map[string]Pinger
	log      zerolog.Logger
}

// NewHandler builds the route handlers. poet may be nil, in which case
// previousContext is ignored.
func NewHandler(analyzer Analyzer, poet Poet, pingers map[string]Pinger, logger zerolog.Logger) *Handler {
	return &Handler{analyzer: analyzer, poet: poet, pingers: pingers, log: logger}
}

// Routes registers the endpoints on a new mux wrapped in the middleware chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", h.Analyze)
	mux.HandleFunc("GET /api/distribution", h.Distribution)
	mux.HandleFunc("GET /health", h.Health)
	return Chain(RequestID, Logger(h.log), Recovery(h.log))(mux)
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	h.log.Debug().Str("text", text).Msg("analyzing")

	// identical text shares one cache entry across requests
	line := model.LyricLine{ID: "text:" + text, Text: text}
	if req.Timestamp != nil {
		line.StartTime = *req.Timestamp
		line.EndTime = *req.Timestamp
	}
	rec := h.analyzer.AnalyzeLine(r.Context(), line)

	translation := rec.Translation
	if lyricContext := contextText(req.PreviousContext); lyricContext != "" && h.poet != nil {
		translation = h.poet.PoeticTranslation(r.Context(), text, lyricContext)
	}
	if translation == "" {
		translation = text
	}

	resp := AnalyzeResponse{
		Translation: translation,
		Etymologies: rec.Etymology,
		Timestamp:   req.Timestamp,
	}
	if resp.Etymologies == nil {
		resp.Etymologies = map[string]model.Etymology{}
	}
	if rec.Sentiment == nil || rec.Visualization == nil {
		h.log.Error().Str("text", text).Msg("analysis returned no sentiment")
		writeError(w, http.StatusInternalServerError, errAnalysisFailed)
		return
	}
	resp.Sentiment = *rec.Sentiment
	resp.Visualization = *rec.Visualization

	writeJSON(w, http.StatusOK, resp)
}

// contextText flattens previousContext into prompt text. JSON strings are
// unquoted; other values are passed through as compact JSON.
func contextText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	d := h.analyzer.Distribution()
	writeJSON(w, http.StatusOK, DistributionResponse{
		Counts:      d,
		Percentages: d.Percentages(),
		Total:       d.Total(),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Timestamp: time.Now()}
	status := http.StatusOK
	if len(h.pingers) > 0 {
		resp.Components = make(map[string]string, len(h.pingers))
		for name, p := range h.pingers {
			if err := p.Ping(ctx); err != nil {
				resp.Components[name] = "down"
				resp.Status = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Components[name] = "ok"
		}
	}
	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
