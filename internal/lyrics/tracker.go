package lyrics

import (
	"sort"

	"lyrics-etymology/internal/model"
)

// Tracker answers "which line is active at this position" for one
// transcript. It is not safe for concurrent use.
type Tracker struct {
	lines  []model.LyricLine
	maxEnd []float64 // maxEnd[i] = max(EndTime of lines[0..i])
	last   int
}

// NewTracker copies lines and orders them by start time. Lines sharing a
// start time keep their transcript order.
func NewTracker(lines []model.LyricLine) *Tracker {
	sorted := make([]model.LyricLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartTime < sorted[j].StartTime })

	maxEnd := make([]float64, len(sorted))
	for i, l := range sorted {
		maxEnd[i] = l.EndTime
		if i > 0 && maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}
	return &Tracker{lines: sorted, maxEnd: maxEnd, last: -1}
}

// Lines returns the ordered lines. Callers must not modify the slice.
func (t *Tracker) Lines() []model.LyricLine { return t.lines }

// Len is the number of lines.
func (t *Tracker) Len() int { return len(t.lines) }

// End is the largest end time of any line, or 0 when empty.
func (t *Tracker) End() float64 {
	if len(t.maxEnd) == 0 {
		return 0
	}
	return t.maxEnd[len(t.maxEnd)-1]
}

// IndexAt returns the index of the first line (in order) whose interval
// [start, end) contains position, or -1 if none does.
func (t *Tracker) IndexAt(position float64) int {
	// most polls land on the same line
	if t.last >= 0 && t.last < len(t.lines) && t.lines[t.last].Contains(position) &&
		(t.last == 0 || t.maxEnd[t.last-1] <= position) {
		return t.last
	}

	// every line before i ends at or before position; line i is the first
	// that could still contain it
	i := sort.Search(len(t.lines), func(i int) bool { return t.maxEnd[i] > position })
	for ; i < len(t.lines) && t.lines[i].StartTime <= position; i++ {
		if t.lines[i].Contains(position) {
			t.last = i
			return i
		}
	}
	return -1
}

// LineAt is IndexAt returning the line itself.
func (t *Tracker) LineAt(position float64) (model.LyricLine, bool) {
	i := t.IndexAt(position)
	if i < 0 {
		return model.LyricLine{}, false
	}
	return t.lines[i], true
}

// ActiveLine resolves the line at position without building a Tracker.
func ActiveLine(lines []model.LyricLine, position float64) (model.LyricLine, bool) {
	return NewTracker(lines).LineAt(position)
}
