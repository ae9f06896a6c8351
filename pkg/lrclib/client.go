package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://lrclib.net/api"

// Client LRCLib客户端
type Client struct {
	httpClient     *http.Client
	baseURL        string
	requestTimeout time.Duration
	maxRetries     int
	retryBackoff   time.Duration
	log            zerolog.Logger
}

// Track LRCLib API响应结构
type Track struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	AlbumName    string `json:"albumName"`
	Duration     int    `json:"duration"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

// NewClient 创建新的LRCLib客户端，baseURL 为空时使用官方地址
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:        strings.TrimRight(baseURL, "/"),
		requestTimeout: 5 * time.Second,
		maxRetries:     3,
		retryBackoff:   500 * time.Millisecond,
		log:            log.With().Str("component", "lrclib").Logger(),
	}
}

// Search 通过歌曲信息获取歌词，优先返回同步歌词。duration 为 0 时不按时长筛选
func (c *Client) Search(ctx context.Context, title, artist string, duration float64) (lyrics string, synced bool, err error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("track_name", title)
	params.Set("artist_name", artist)
	// 不直接传递 duration 参数，改为在结果中筛选
	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	var resp *http.Response
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Info().Int("attempt", attempt).Int("max_retries", c.maxRetries).Msg("retrying request")
			select {
			case <-timeoutCtx.Done():
				return "", false, timeoutCtx.Err()
			case <-time.After(time.Duration(attempt) * c.retryBackoff):
			}
		}

		req, reqErr := http.NewRequestWithContext(timeoutCtx, http.MethodGet, searchURL, nil)
		if reqErr != nil {
			return "", false, fmt.Errorf("failed to create request: %w", reqErr)
		}
		req.Header.Set("User-Agent", "lyrics-etymology/1.0")

		resp, err = c.httpClient.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}
		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("request failed")
		} else {
			c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("unexpected status")
			resp.Body.Close()
		}

		if attempt == c.maxRetries {
			if err != nil {
				return "", false, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			return "", false, fmt.Errorf("request failed after %d attempts with status %d", attempt+1, resp.StatusCode)
		}
	}
	defer resp.Body.Close()

	var tracks []Track
	if err := json.NewDecoder(resp.Body).Decode(&tracks); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w", err)
	}
	c.log.Info().Int("results", len(tracks)).Str("title", title).Str("artist", artist).Msg("search finished")

	if len(tracks) == 0 {
		return "", false, fmt.Errorf("no lyrics found for '%s - %s'", title, artist)
	}

	best := c.findBestMatch(tracks, title, artist, int(duration))
	if best.SyncedLyrics != "" {
		return best.SyncedLyrics, true, nil
	}
	if best.PlainLyrics != "" {
		return best.PlainLyrics, false, nil
	}
	return "", false, fmt.Errorf("selected result has no lyrics for '%s - %s'", title, artist)
}

// findBestMatch 从搜索结果中找到最佳匹配：标题+艺术家 > 仅标题 > 全部，再按时长筛选
func (c *Client) findBestMatch(tracks []Track, targetTitle, targetArtist string, targetDuration int) *Track {
	var exactMatches, titleMatches []*Track
	for i := range tracks {
		t := &tracks[i]
		switch {
		case containsIgnoreCase(t.TrackName, targetTitle) && containsIgnoreCase(t.ArtistName, targetArtist):
			exactMatches = append(exactMatches, t)
		case containsIgnoreCase(t.TrackName, targetTitle):
			titleMatches = append(titleMatches, t)
		}
	}

	matchPool := exactMatches
	if len(matchPool) == 0 {
		matchPool = titleMatches
	}
	if len(matchPool) == 0 {
		matchPool = make([]*Track, len(tracks))
		for i := range tracks {
			matchPool[i] = &tracks[i]
		}
	}

	if targetDuration <= 0 {
		return matchPool[0]
	}

	const maxDurationDiff = 3 // 最大允许3秒误差
	best := matchPool[0]
	minDiff := abs(best.Duration - targetDuration)
	for _, m := range matchPool {
		diff := abs(m.Duration - targetDuration)
		if diff <= maxDurationDiff {
			return m
		}
		if diff < minDiff {
			minDiff = diff
			best = m
		}
	}
	c.log.Info().Int("diff_seconds", minDiff).Msg("using closest duration match")
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
