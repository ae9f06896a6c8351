package etymology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const rangExtract = `रंग

Hindi

Etymology
Inherited from Sanskrit रङ्ग (raṅga), from Proto-Indo-Aryan *raŋgás, from Sanskrit रङ्ग.

Noun
रंग • (raṅg) m
1. colour, hue
2. dye

Derived terms
रंगीन, रंगना; रंगत, रंगमंच
=== Further reading ===`

func TestParseExtractWithEtymologySection(t *testing.T) {
	ety := ParseExtract("रंग", rangExtract, 3)

	assert.Equal(t, "रंग", ety.Word)
	assert.Equal(t, "Sanskrit", ety.Origin)
	assert.Equal(t, []string{"Sanskrit", "Proto-Indo-Aryan"}, ety.Evolution)
	assert.Equal(t, "colour, hue", ety.Meaning)
	assert.Equal(t, []string{"रंगीन", "रंगना", "रंगत"}, ety.RelatedWords)
}

func TestParseExtractPriorityOrder(t *testing.T) {
	ety := ParseExtract("ishq", "Etymology\nBorrowed from Persian عشق, from Arabic عِشْق.\n", 3)
	assert.Equal(t, "Persian", ety.Origin)
	assert.Equal(t, []string{"Persian", "Arabic"}, ety.Evolution)
	assert.Equal(t, "Traditional meaning", ety.Meaning)
	assert.Empty(t, ety.RelatedWords)
}

func TestParseExtractUnknownOriginAndNoFrom(t *testing.T) {
	ety := ParseExtract("word", "Etymology 1\nOf unclear provenance.\n", 3)
	assert.Equal(t, "Unknown", ety.Origin)
	assert.Equal(t, []string{"Original form"}, ety.Evolution)
}

func TestParseExtractWithoutEtymologySection(t *testing.T) {
	ety := ParseExtract("dil", "dil\n\nNoun\n1. heart\n2. courage", 3)
	assert.Equal(t, "Traditional", ety.Origin)
	assert.Equal(t, []string{"dil"}, ety.Evolution)
	assert.Equal(t, "heart", ety.Meaning)
	assert.Empty(t, ety.RelatedWords)
}
