package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-etymology/internal/model"
)

func TestParseDelimited(t *testing.T) {
	content := "0,0.0,5.0,Tujhe dekha to\n" +
		"1,5.0,4.0,ye jaana sanam, pyaar hota hai\r\n" +
		"bad,row\n" +
		"2,abc,3.0,skipped\n" +
		"3,9.0,0,zero duration\n" +
		"4,9.0,3.0,  deewana hota hai  \n"

	lines := ParseDelimited(content)
	require.Len(t, lines, 3)

	assert.Equal(t, model.LyricLine{ID: "line-0", StartTime: 0, EndTime: 5, Text: "Tujhe dekha to"}, lines[0])
	assert.Equal(t, "line-1", lines[1].ID)
	assert.Equal(t, "ye jaana sanam, pyaar hota hai", lines[1].Text)
	assert.InDelta(t, 9.0, lines[1].EndTime, 1e-9)
	assert.Equal(t, "line-2", lines[2].ID)
	assert.Equal(t, "deewana hota hai", lines[2].Text)
	assert.InDelta(t, 12.0, lines[2].EndTime, 1e-9)
}

func TestParseDelimitedEmpty(t *testing.T) {
	assert.Empty(t, ParseDelimited(""))
	assert.Empty(t, ParseDelimited("a,b\nc"))
}

func TestParseSubtitle(t *testing.T) {
	content := "1\r\n00:00:01,500 --> 00:00:04,000\r\nFirst line\r\nsecond row\r\n\r\n" +
		"2\n00:01:02,250 --> 01:00:00,000\nदिल\n\n" +
		"3\nnot a timing line\ntext\n\n" +
		"4\n00:00:05,000 --> 00:00:06,000\n"

	lines := ParseSubtitle(content)
	require.Len(t, lines, 2)

	assert.Equal(t, "line-1", lines[0].ID)
	assert.InDelta(t, 1.5, lines[0].StartTime, 1e-9)
	assert.InDelta(t, 4.0, lines[0].EndTime, 1e-9)
	assert.Equal(t, "First line second row", lines[0].Text)

	assert.Equal(t, "line-2", lines[1].ID)
	assert.InDelta(t, 62.25, lines[1].StartTime, 1e-9)
	assert.InDelta(t, 3600.0, lines[1].EndTime, 1e-9)
	assert.Equal(t, "दिल", lines[1].Text)
}

func TestParseLRC(t *testing.T) {
	content := "[ar:Someone]\n[00:01.5]one\n[00:03.25][00:10.00]two\n[00:05.100]\n[00:07]three\n"

	lines := ParseLRC(content)
	require.Len(t, lines, 4)

	assert.InDelta(t, 1.5, lines[0].StartTime, 1e-9)
	assert.InDelta(t, 3.25, lines[0].EndTime, 1e-9)
	assert.Equal(t, "two", lines[1].Text)
	assert.InDelta(t, 5.1, lines[1].EndTime, 1e-9)
	assert.Equal(t, "three", lines[2].Text)
	assert.InDelta(t, 10.0, lines[2].EndTime, 1e-9)
	assert.Equal(t, "two", lines[3].Text)
	assert.InDelta(t, 15.0, lines[3].EndTime, 1e-9)
	assert.Equal(t, "line-3", lines[3].ID)
}

func TestParseDetectsFormat(t *testing.T) {
	srt := "1\n00:00:01,000 --> 00:00:02,000\nhello\n"
	lines, err := Parse(srt, FormatAuto)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "line-1", lines[0].ID)

	lines, err = Parse("[00:01.00]hi", FormatAuto)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	lines, err = Parse("0,1,2,hello", FormatAuto)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	_, err = Parse("just words", FormatAuto)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SRT")
	require.NoError(t, err)
	assert.Equal(t, FormatSubtitle, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, FormatLRC, FormatFromPath("/tmp/song.LRC"))
	assert.Equal(t, FormatAuto, FormatFromPath("/tmp/song"))
}
