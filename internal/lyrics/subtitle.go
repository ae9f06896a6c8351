package lyrics

import (
	"regexp"
	"strconv"
	"strings"

	"lyrics-etymology/internal/model"
)

var (
	blockSep      = regexp.MustCompile(`\n\s*\n`)
	timingPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`)
)

// ParseSubtitle reads SRT blocks: an id line, a timing line and one or more
// text lines. Text lines are joined with a single space.
func ParseSubtitle(content string) []model.LyricLine {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var lines []model.LyricLine
	for _, block := range blockSep.Split(strings.TrimSpace(content), -1) {
		rows := strings.Split(strings.TrimSpace(block), "\n")
		if len(rows) < 3 {
			continue
		}
		m := timingPattern.FindStringSubmatch(strings.TrimSpace(rows[1]))
		if m == nil {
			continue
		}
		text := make([]string, 0, len(rows)-2)
		for _, r := range rows[2:] {
			text = append(text, strings.TrimSpace(r))
		}
		lines = append(lines, model.LyricLine{
			ID:        "line-" + strings.TrimSpace(rows[0]),
			StartTime: srtSeconds(m[1:5]),
			EndTime:   srtSeconds(m[5:9]),
			Text:      strings.Join(text, " "),
		})
	}
	return lines
}

// srtSeconds converts hh, mm, ss, mmm captures into seconds.
func srtSeconds(parts []string) float64 {
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	ms, _ := strconv.Atoi(parts[3])
	return float64(h*3600+m*60+s) + float64(ms)/1000
}
