package etymology

import (
	"fmt"

	"lyrics-etymology/internal/model"
	"lyrics-etymology/pkg/ai"
)

var etymologySchema = ai.Schema[model.Etymology]()

func buildPrompt(word, lyric string, maxRelated int) string {
	lyricContext := ""
	if lyric != "" {
		lyricContext = fmt.Sprintf("\nThe word appears in this lyric line: %q\n", lyric)
	}
	return fmt.Sprintf(`Provide a concise etymology for the word %q (it may be Hindi, Urdu, Sanskrit, Persian, Arabic or English).
%s
Return ONLY a JSON object, no markdown, matching this schema:
%s

Rules:
- "origin" names the source language, e.g. Sanskrit, Persian, Arabic
- "evolution" lists historical forms from oldest to current
- "meaning" is the meaning of the word in the lyric
- "relatedWords" has at most %d entries`, word, lyricContext, etymologySchema, maxRelated)
}
