// Package lyrics turns timed transcripts into ordered LyricLine sequences.
package lyrics

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"lyrics-etymology/internal/model"
)

// ErrUnknownFormat is returned when a transcript's format cannot be determined.
var ErrUnknownFormat = errors.New("unknown transcript format")

type Format string

const (
	FormatAuto      Format = "auto"
	FormatDelimited Format = "csv"
	FormatSubtitle  Format = "srt"
	FormatLRC       Format = "lrc"
)

// ParseFormat accepts the names used in configuration and on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv", "delimited":
		return FormatDelimited, nil
	case "srt", "subtitle":
		return FormatSubtitle, nil
	case "lrc":
		return FormatLRC, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatDelimited
	case ".srt":
		return FormatSubtitle
	case ".lrc":
		return FormatLRC
	}
	return FormatAuto
}

var (
	lrcProbe = regexp.MustCompile(`(?m)^\s*\[\d{1,2}:\d{2}`)
	srtProbe = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}\s*-->`)
)

// Detect sniffs the content for the first format it recognises.
func Detect(content string) Format {
	switch {
	case srtProbe.MatchString(content):
		return FormatSubtitle
	case lrcProbe.MatchString(content):
		return FormatLRC
	case strings.Contains(content, ","):
		return FormatDelimited
	}
	return FormatAuto
}

// Parse decodes content in the given format. FormatAuto sniffs the content.
// Malformed records are skipped, so an error is only returned when the
// format itself is unknown.
func Parse(content string, format Format) ([]model.LyricLine, error) {
	if format == FormatAuto {
		format = Detect(content)
	}
	switch format {
	case FormatDelimited:
		return ParseDelimited(content), nil
	case FormatSubtitle:
		return ParseSubtitle(content), nil
	case FormatLRC:
		return ParseLRC(content), nil
	}
	return nil, ErrUnknownFormat
}
