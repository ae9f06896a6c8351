package analysis

import (
	"strings"
	"unicode/utf8"

	"lyrics-etymology/internal/script"
)

const DefaultMaxWords = 5

// stopWords are common English function words, dropped only when the
// orchestrator is configured to skip them.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "were": {}, "been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "can": {}, "shall": {},
}

// ExtractWords picks the candidate words of a line: whitespace tokens are
// normalized, Latin tokens of two runes or fewer are dropped, tokens with
// Devanagari or Arabic script are always kept. The result is deduplicated
// in order of appearance and capped at limit.
func ExtractWords(text string, limit int, skipStopWords bool) []string {
	if limit <= 0 {
		limit = DefaultMaxWords
	}
	var words []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		w := script.NormalizeWord(token)
		if w == "" {
			continue
		}
		if !script.ContainsTarget(w) {
			if utf8.RuneCountInString(w) <= 2 {
				continue
			}
			if _, stop := stopWords[w]; skipStopWords && stop {
				continue
			}
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
		if len(words) == limit {
			break
		}
	}
	return words
}
