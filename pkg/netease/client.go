package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://music.163.com"

// SearchResponse 网易云搜索API响应
type SearchResponse struct {
	Result struct {
		Songs []struct {
			ID       int    `json:"id"`
			Name     string `json:"name"`
			Duration int    `json:"duration"` // 毫秒
			Artists  []struct {
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"songs"`
	} `json:"result"`
}

// LyricResponse 网易云歌词API响应
type LyricResponse struct {
	Lrc struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
}

// Client 网易云音乐客户端
type Client struct {
	httpClient     *http.Client
	baseURL        string
	cookie         string
	maxRetries     int
	requestTimeout time.Duration
	retryBackoff   time.Duration
	log            zerolog.Logger
}

// NewClient 创建新的网易云音乐客户端
func NewClient(baseURL, cookie string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:     &http.Client{Timeout: 5 * time.Second},
		baseURL:        strings.TrimRight(baseURL, "/"),
		cookie:         cookie,
		maxRetries:     3,
		requestTimeout: 10 * time.Second,
		retryBackoff:   500 * time.Millisecond,
		log:            log.With().Str("component", "netease").Logger(),
	}
}

// SearchSong 搜索歌曲，返回歌曲ID
func (c *Client) SearchSong(ctx context.Context, title, artist string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	searchURL := fmt.Sprintf("%s/api/search/get/web?csrf_token=hlpretag&hlposttag=&s=%s&type=1&limit=100", c.baseURL, url.QueryEscape(title))
	c.log.Debug().Str("url", searchURL).Msg("searching song")

	req, err := c.newRequest(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}
	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return "", fmt.Errorf("failed to send search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API request failed with status %d", resp.StatusCode)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(searchResp.Result.Songs) == 0 {
		return "", fmt.Errorf("no songs found for '%s'", title)
	}

	songID := c.findBestMatch(searchResp, artist, title)
	if songID == 0 {
		return "", fmt.Errorf("no matching song found for '%s' by '%s'", title, artist)
	}
	return strconv.Itoa(songID), nil
}

// GetLyrics 获取LRC歌词
func (c *Client) GetLyrics(ctx context.Context, songID string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	lyricURL := fmt.Sprintf("%s/api/song/lyric?os=pc&id=%s&lv=-1&kv=-1&tv=-1", c.baseURL, url.QueryEscape(songID))
	c.log.Debug().Str("url", lyricURL).Msg("fetching lyrics")

	req, err := c.newRequest(ctx, lyricURL)
	if err != nil {
		return "", fmt.Errorf("failed to create lyric request: %w", err)
	}
	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return "", fmt.Errorf("failed to send lyric request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lyric API request failed with status %d", resp.StatusCode)
	}

	var lyricResp LyricResponse
	if err := json.NewDecoder(resp.Body).Decode(&lyricResp); err != nil {
		return "", fmt.Errorf("failed to decode lyric response: %w", err)
	}
	if strings.TrimSpace(lyricResp.Lrc.Lyric) == "" {
		return "", fmt.Errorf("song %s has no lyrics", songID)
	}
	return lyricResp.Lrc.Lyric, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	// 设置Cookie
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	return req, nil
}

// doRequestWithRetry 发送请求，网络错误或 5xx 时重试，最多尝试 maxRetries 次
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && c.retryBackoff > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(time.Duration(attempt-1) * c.retryBackoff):
			}
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
			resp.Body.Close()
		}
		c.log.Warn().Err(lastErr).Int("attempt", attempt).Int("max_retries", attempts).Msg("request failed")

		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// findBestMatch 找到最佳匹配的歌曲
func (c *Client) findBestMatch(resp SearchResponse, targetArtist, targetTitle string) int {
	for _, song := range resp.Result.Songs {
		// 判断歌曲名包含关系
		if !containsIgnoreCase(song.Name, targetTitle) {
			continue
		}
		// 判断歌手名包含关系，artists 可能有多个，只要一个满足就算
		for _, artist := range song.Artists {
			if containsIgnoreCase(artist.Name, targetArtist) {
				c.log.Info().Str("song", song.Name).Str("artist", artist.Name).Int("id", song.ID).Msg("found matching song")
				return song.ID
			}
		}
	}

	// 如果没有找到完全匹配的，返回第一个匹配标题的
	if first := resp.Result.Songs[0]; containsIgnoreCase(first.Name, targetTitle) {
		c.log.Info().Str("song", first.Name).Int("id", first.ID).Msg("using first matching song")
		return first.ID
	}
	return 0
}

// normalizeString 标准化字符串（转小写，去空格）
func normalizeString(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

// containsIgnoreCase 忽略大小写和空格的包含关系检查
func containsIgnoreCase(s1, s2 string) bool {
	norm1, norm2 := normalizeString(s1), normalizeString(s2)
	return strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1)
}
