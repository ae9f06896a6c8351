package model

import "strings"

// Etymology is the historical-origin record of a single word.
type Etymology struct {
	Word         string   `json:"word" jsonschema:"description=the word exactly as given"`
	Origin       string   `json:"origin" jsonschema:"description=source language label such as Sanskrit or Persian"`
	Evolution    []string `json:"evolution" jsonschema:"description=historical forms oldest first"`
	Meaning      string   `json:"meaning" jsonschema:"description=meaning of the word in the lyric"`
	RelatedWords []string `json:"relatedWords" jsonschema:"description=up to three related words"`
}

// Normalize enforces the record invariants: evolution is never empty and
// relatedWords holds at most maxRelated entries.
func (e Etymology) Normalize(word string, maxRelated int) Etymology {
	if strings.TrimSpace(e.Word) == "" {
		e.Word = word
	}
	if strings.TrimSpace(e.Origin) == "" {
		e.Origin = string(OriginUnknown)
	}
	evolution := make([]string, 0, len(e.Evolution))
	for _, form := range e.Evolution {
		if form = strings.TrimSpace(form); form != "" {
			evolution = append(evolution, form)
		}
	}
	if len(evolution) == 0 {
		evolution = []string{e.Word}
	}
	e.Evolution = evolution

	related := make([]string, 0, len(e.RelatedWords))
	seen := make(map[string]struct{}, len(e.RelatedWords))
	for _, w := range e.RelatedWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		related = append(related, w)
	}
	if maxRelated >= 0 && len(related) > maxRelated {
		related = related[:maxRelated]
	}
	e.RelatedWords = related
	return e
}

// FallbackEtymology is the deterministic record used when no source could
// describe the word.
func FallbackEtymology(word string) Etymology {
	return Etymology{
		Word:         word,
		Origin:       "Unknown origin",
		Evolution:    []string{word},
		Meaning:      "Contextual meaning",
		RelatedWords: []string{},
	}
}
