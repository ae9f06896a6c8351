// Package transcript loads the timed lyric transcript of the current song
// from the first source that has one.
package transcript

import (
	"context"
	"errors"

	"lyrics-etymology/internal/lyrics"
)

// ErrNoTranscript is returned when no source could supply a transcript.
var ErrNoTranscript = errors.New("no transcript available")

// Query describes the song a transcript is wanted for.
type Query struct {
	Path     string  // local file or http(s) URL
	Title    string
	Artist   string
	Duration float64 // seconds, 0 when unknown
}

type Transcript struct {
	Content string
	Format  lyrics.Format
	Source  string
}

// Source is anything that can produce a transcript for a query.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) (Transcript, error)
}
