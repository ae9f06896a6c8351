package model

import "errors"

// ErrNotFound is returned by collaborators that answered but had no data.
var ErrNotFound = errors.New("not found")

// LyricLine is one timed line of a transcript. Lines are immutable once parsed.
type LyricLine struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"startTime"` // seconds
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

// Contains reports whether position falls inside [StartTime, EndTime).
func (l LyricLine) Contains(position float64) bool {
	return position >= l.StartTime && position < l.EndTime
}

// EnrichedLine is a LyricLine decorated with the results of analysis.
// Re-analysis produces a new value; published values are never mutated.
type EnrichedLine struct {
	LyricLine
	Etymology     map[string]Etymology `json:"etymology,omitempty"`
	Translation   string               `json:"translation,omitempty"`
	Sentiment     *SentimentAnalysis   `json:"sentiment,omitempty"`
	Visualization *VisualizationConfig `json:"visualization,omitempty"`
}

// Pending wraps a line that has not been analysed yet.
func Pending(line LyricLine) EnrichedLine {
	return EnrichedLine{LyricLine: line}
}

// Enriched reports whether the analysis results are attached.
func (e EnrichedLine) Enriched() bool {
	return e.Sentiment != nil && e.Visualization != nil
}
