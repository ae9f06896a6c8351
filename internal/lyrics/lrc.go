package lyrics

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"lyrics-etymology/internal/model"
)

// lastLineHold is how long, in seconds, the last line stays active.
const lastLineHold = 5.0

var lrcTag = regexp.MustCompile(`\[(\d{1,2}):(\d{2})(?:[.:](\d{1,3}))?\]`)

type lrcEntry struct {
	time float64
	text string
}

// ParseLRC parses LRC lyrics. A line ends where the next one starts and the
// last line lasts lastLineHold seconds. A tag with empty text only ends the
// previous line.
func ParseLRC(lrc string) []model.LyricLine {
	scanner := bufio.NewScanner(strings.NewReader(lrc))
	var entries []lrcEntry

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// a row may carry several tags, e.g. [00:12.00][01:30.50]chorus
		var stamps []float64
		for {
			loc := lrcTag.FindStringSubmatchIndex(line)
			if loc == nil || loc[0] != 0 {
				break
			}
			stamps = append(stamps, lrcSeconds(line, loc))
			line = strings.TrimSpace(line[loc[1]:])
		}
		for _, ts := range stamps {
			entries = append(entries, lrcEntry{time: ts, text: line})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].time < entries[j].time })

	var result []model.LyricLine
	for i, e := range entries {
		if e.text == "" {
			continue
		}
		end := e.time + lastLineHold
		if i+1 < len(entries) {
			end = entries[i+1].time
		}
		if end <= e.time {
			continue
		}
		result = append(result, model.LyricLine{
			ID:        fmt.Sprintf("line-%d", len(result)),
			StartTime: e.time,
			EndTime:   end,
			Text:      e.text,
		})
	}
	return result
}

func lrcSeconds(line string, loc []int) float64 {
	mins, _ := strconv.Atoi(line[loc[2]:loc[3]])
	sec, _ := strconv.Atoi(line[loc[4]:loc[5]])
	ms := 0
	if loc[6] >= 0 {
		msStr := line[loc[6]:loc[7]]
		ms, _ = strconv.Atoi(msStr)
		// the fraction may have one to three digits
		switch len(msStr) {
		case 1:
			ms *= 100
		case 2:
			ms *= 10
		}
	}
	return float64(mins*60+sec) + float64(ms)/1000
}
