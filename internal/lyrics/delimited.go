package lyrics

import (
	"fmt"
	"strconv"
	"strings"

	"lyrics-etymology/internal/model"
)

// ParseDelimited reads rows of "id,start,duration,text". The text column may
// itself contain commas. Rows with fewer than four fields, unparsable
// numbers or a non-positive duration are dropped. Ids are assigned from the
// position among the rows that survived: line-0, line-1, ...
func ParseDelimited(content string) []model.LyricLine {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var lines []model.LyricLine
	for _, row := range strings.Split(content, "\n") {
		fields := strings.Split(row, ",")
		if len(fields) < 4 {
			continue
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			continue
		}
		duration, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil || duration <= 0 {
			continue
		}
		lines = append(lines, model.LyricLine{
			ID:        fmt.Sprintf("line-%d", len(lines)),
			StartTime: start,
			EndTime:   start + duration,
			Text:      strings.TrimSpace(strings.Join(fields[3:], ",")),
		})
	}
	return lines
}
