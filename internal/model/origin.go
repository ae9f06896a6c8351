package model

import "strings"

// Origin is the closed set of language origins tracked by the distribution.
type Origin string

const (
	OriginSanskrit Origin = "Sanskrit"
	OriginPersian  Origin = "Persian"
	OriginArabic   Origin = "Arabic"
	OriginHindi    Origin = "Hindi"
	OriginUrdu     Origin = "Urdu"
	OriginEnglish  Origin = "English"
	OriginUnknown  Origin = "Unknown"
)

// Origins lists every origin in classification priority order.
var Origins = []Origin{
	OriginSanskrit,
	OriginPersian,
	OriginArabic,
	OriginHindi,
	OriginUrdu,
	OriginEnglish,
	OriginUnknown,
}

// DictionaryOrigins is the priority order used when scanning dictionary prose.
var DictionaryOrigins = []Origin{
	OriginSanskrit,
	OriginPersian,
	OriginArabic,
	OriginHindi,
	OriginUrdu,
}

// FindOrigin returns the first origin from candidates whose name occurs in text.
func FindOrigin(text string, candidates []Origin) (Origin, bool) {
	lower := strings.ToLower(text)
	for _, o := range candidates {
		if o == OriginUnknown {
			continue
		}
		if strings.Contains(lower, strings.ToLower(string(o))) {
			return o, true
		}
	}
	return OriginUnknown, false
}

// ClassifyOrigin maps a free-form origin label onto the closed enum.
// Labels naming none of the known languages classify as OriginUnknown.
func ClassifyOrigin(label string) Origin {
	o, _ := FindOrigin(label, Origins)
	return o
}

// LanguageDistribution is a running count of etymology origins.
type LanguageDistribution map[Origin]int

// NewLanguageDistribution returns a distribution with every origin at zero.
func NewLanguageDistribution() LanguageDistribution {
	d := make(LanguageDistribution, len(Origins))
	for _, o := range Origins {
		d[o] = 0
	}
	return d
}

// Add increments the bucket that label classifies into.
func (d LanguageDistribution) Add(label string) {
	d[ClassifyOrigin(label)]++
}

// Total is the sum of all buckets.
func (d LanguageDistribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Percentages returns each bucket's share of the total, in percent.
func (d LanguageDistribution) Percentages() map[Origin]float64 {
	out := make(map[Origin]float64, len(d))
	total := d.Total()
	for o, n := range d {
		if total == 0 {
			out[o] = 0
			continue
		}
		out[o] = float64(n) / float64(total) * 100
	}
	return out
}

// Clone returns an independent copy.
func (d LanguageDistribution) Clone() LanguageDistribution {
	out := make(LanguageDistribution, len(d))
	for o, n := range d {
		out[o] = n
	}
	return out
}
