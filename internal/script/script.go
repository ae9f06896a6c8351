// Package script classifies runes and words by writing system.
package script

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// IsDevanagari reports whether r is in the Devanagari block.
func IsDevanagari(r rune) bool {
	return r >= 0x0900 && r <= 0x097F
}

// IsArabic reports whether r is in one of the Arabic blocks, including the
// presentation forms used by Urdu text.
func IsArabic(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return true
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0xFB50 && r <= 0xFDFF:
		return true
	case r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

// IsTarget reports whether r belongs to a script whose words are always analysed.
func IsTarget(r rune) bool {
	return IsDevanagari(r) || IsArabic(r)
}

// ContainsTarget reports whether s has at least one Devanagari or Arabic rune.
func ContainsTarget(s string) bool {
	return strings.IndexFunc(s, IsTarget) >= 0
}

// NormalizeWord lower-cases a token and strips everything that is not a
// letter, a digit or part of a target script. Combining vowel signs of
// Devanagari are kept because the whole block is.
func NormalizeWord(token string) string {
	token = norm.NFC.String(token)
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		switch {
		case IsTarget(r):
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// LanguageHint guesses an ISO 639-1 code from the script of a word.
func LanguageHint(word string) string {
	for _, r := range word {
		switch {
		case IsArabic(r):
			return "ur"
		case IsDevanagari(r):
			return "hi"
		}
	}
	return "en"
}
