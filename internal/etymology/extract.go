package etymology

import (
	"regexp"
	"strings"

	"lyrics-etymology/internal/model"
)

const (
	traditionalOrigin  = "Traditional"
	traditionalMeaning = "Traditional meaning"
	originalForm       = "Original form"
)

var (
	etymologySection = regexp.MustCompile(`(?i)Etymology[^\n]*\n([^=]+)`)
	relatedSection   = regexp.MustCompile(`(?i)(?:Derived|Related) terms[^\n]*\n([^=]+)`)
	fromToken        = regexp.MustCompile(`(?i)from\s+([^\s,]+)`)
	firstDefinition  = regexp.MustCompile(`\n1\.\s+([^\n]+)`)
	relatedToken     = regexp.MustCompile(`[^\s,;]+`)

	punctuation = strings.NewReplacer(".", "", ",", "", ";", "")
)

// ParseExtract applies the heuristics to a dictionary page extract.
func ParseExtract(word, extract string, maxRelated int) model.Etymology {
	meaning := traditionalMeaning
	if m := firstDefinition.FindStringSubmatch(extract); m != nil {
		meaning = strings.TrimSpace(m[1])
	}

	section := etymologySection.FindStringSubmatch(extract)
	if section == nil {
		return model.Etymology{
			Word:         word,
			Origin:       traditionalOrigin,
			Evolution:    []string{word},
			Meaning:      meaning,
			RelatedWords: []string{},
		}
	}
	text := section[1]

	origin := string(model.OriginUnknown)
	if o, ok := model.FindOrigin(text, model.DictionaryOrigins); ok {
		origin = string(o)
	}

	return model.Etymology{
		Word:         word,
		Origin:       origin,
		Evolution:    extractEvolution(text),
		Meaning:      meaning,
		RelatedWords: extractRelated(extract, maxRelated),
	}
}

func extractEvolution(text string) []string {
	var evolution []string
	seen := make(map[string]struct{})
	for _, m := range fromToken.FindAllStringSubmatch(text, -1) {
		form := punctuation.Replace(m[1])
		if form == "" {
			continue
		}
		if _, ok := seen[form]; ok {
			continue
		}
		seen[form] = struct{}{}
		evolution = append(evolution, form)
	}
	if len(evolution) == 0 {
		return []string{originalForm}
	}
	return evolution
}

func extractRelated(extract string, maxRelated int) []string {
	m := relatedSection.FindStringSubmatch(extract)
	if m == nil {
		return []string{}
	}
	words := relatedToken.FindAllString(m[1], -1)
	if maxRelated >= 0 && len(words) > maxRelated {
		words = words[:maxRelated]
	}
	if words == nil {
		return []string{}
	}
	return words
}
