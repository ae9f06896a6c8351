package transcript

import (
	"context"

	"lyrics-etymology/internal/lyrics"
)

// LRCLibAPI is implemented by *lrclib.Client.
type LRCLibAPI interface {
	Search(ctx context.Context, title, artist string, duration float64) (string, bool, error)
}

// LRCLibSource prefers synced lyrics matched by duration.
type LRCLibSource struct {
	client LRCLibAPI
}

func NewLRCLibSource(client LRCLibAPI) *LRCLibSource {
	return &LRCLibSource{client: client}
}

func (s *LRCLibSource) Name() string { return "lrclib" }

func (s *LRCLibSource) Fetch(ctx context.Context, q Query) (Transcript, error) {
	if q.Title == "" {
		return Transcript{}, ErrNoTranscript
	}
	content, synced, err := s.client.Search(ctx, q.Title, q.Artist, q.Duration)
	if err != nil {
		return Transcript{}, err
	}
	if !synced {
		// plain lyrics carry no timing
		return Transcript{}, ErrNoTranscript
	}
	return Transcript{Content: content, Format: lyrics.FormatLRC, Source: s.Name()}, nil
}

// NetEaseAPI is implemented by *netease.Client.
type NetEaseAPI interface {
	SearchSong(ctx context.Context, title, artist string) (string, error)
	GetLyrics(ctx context.Context, songID string) (string, error)
}

// NetEaseSource searches the song and then fetches its LRC lyrics.
type NetEaseSource struct {
	client NetEaseAPI
}

func NewNetEaseSource(client NetEaseAPI) *NetEaseSource {
	return &NetEaseSource{client: client}
}

func (s *NetEaseSource) Name() string { return "netease" }

func (s *NetEaseSource) Fetch(ctx context.Context, q Query) (Transcript, error) {
	if q.Title == "" {
		return Transcript{}, ErrNoTranscript
	}
	songID, err := s.client.SearchSong(ctx, q.Title, q.Artist)
	if err != nil {
		return Transcript{}, err
	}
	content, err := s.client.GetLyrics(ctx, songID)
	if err != nil {
		return Transcript{}, err
	}
	return Transcript{Content: content, Format: lyrics.FormatLRC, Source: s.Name()}, nil
}
