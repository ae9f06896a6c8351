package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"lyrics-etymology/internal/lyrics"
)

const maxRemoteSize = 4 << 20

// FileSource reads Query.Path from disk, or downloads it when it is an
// http(s) URL.
type FileSource struct {
	httpClient *http.Client
	format     lyrics.Format
}

// NewFileSource creates a FileSource. With lyrics.FormatAuto the format is
// taken from the file extension.
func NewFileSource(timeout time.Duration, format lyrics.Format) *FileSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FileSource{httpClient: &http.Client{Timeout: timeout}, format: format}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context, q Query) (Transcript, error) {
	if q.Path == "" {
		return Transcript{}, ErrNoTranscript
	}

	var (
		content []byte
		err     error
	)
	if strings.HasPrefix(q.Path, "http://") || strings.HasPrefix(q.Path, "https://") {
		content, err = s.download(ctx, q.Path)
	} else {
		content, err = os.ReadFile(q.Path)
	}
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript %s: %w", q.Path, err)
	}
	format := s.format
	if format == "" || format == lyrics.FormatAuto {
		format = lyrics.FormatFromPath(q.Path)
	}
	return Transcript{Content: string(content), Format: format, Source: s.Name()}, nil
}

func (s *FileSource) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
}
