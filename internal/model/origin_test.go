package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOrigin(t *testing.T) {
	cases := map[string]Origin{
		"Sanskrit":               OriginSanskrit,
		"from classical persian": OriginPersian,
		"Arabic via Persian":     OriginPersian,
		"ARABIC":                 OriginArabic,
		"Old Hindi":              OriginHindi,
		"Urdu":                   OriginUrdu,
		"Middle English":         OriginEnglish,
		"Traditional":            OriginUnknown,
		"Unknown origin":         OriginUnknown,
		"":                       OriginUnknown,
	}
	for label, want := range cases {
		assert.Equal(t, want, ClassifyOrigin(label), label)
	}
}

func TestFindOriginDictionaryOrderExcludesEnglish(t *testing.T) {
	o, ok := FindOrigin("borrowed into English from Urdu", DictionaryOrigins)
	assert.True(t, ok)
	assert.Equal(t, OriginUrdu, o)

	_, ok = FindOrigin("from Middle English", DictionaryOrigins)
	assert.False(t, ok)
}

func TestLanguageDistribution(t *testing.T) {
	d := NewLanguageDistribution()
	assert.Len(t, d, 7)
	assert.Equal(t, 0, d.Total())
	assert.Equal(t, 0.0, d.Percentages()[OriginSanskrit])

	d.Add("Sanskrit")
	d.Add("Persian")
	d.Add("Persian")
	d.Add("Traditional")
	assert.Equal(t, 4, d.Total())
	assert.Equal(t, 2, d[OriginPersian])
	assert.Equal(t, 1, d[OriginUnknown])
	assert.InDelta(t, 50.0, d.Percentages()[OriginPersian], 1e-9)

	c := d.Clone()
	c.Add("Hindi")
	assert.Equal(t, 0, d[OriginHindi])
}

func TestEtymologyNormalize(t *testing.T) {
	e := Etymology{Evolution: []string{" ", ""}, RelatedWords: []string{"a", "b", "a", "c", "d"}}.Normalize("ishq", 3)
	assert.Equal(t, "ishq", e.Word)
	assert.Equal(t, "Unknown", e.Origin)
	assert.Equal(t, []string{"ishq"}, e.Evolution)
	assert.Equal(t, []string{"a", "b", "c"}, e.RelatedWords)
}

func TestEmotionValid(t *testing.T) {
	assert.True(t, EmotionJoy.Valid())
	assert.False(t, Emotion("angry").Valid())
	assert.Equal(t, EmotionCalm, DefaultSentiment().Emotion)
}
