package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractWords(t *testing.T) {
	cases := []struct {
		name string
		text string
		max  int
		stop bool
		want []string
	}{
		{"latin short tokens dropped", "O mere dil ke chain", 5, false, []string{"mere", "dil", "chain"}},
		{"punctuation stripped and lower-cased", "Love, LOVE! love?", 5, false, []string{"love"}},
		{"target script kept regardless of length", "तू है तो", 5, false, []string{"तू", "है", "तो"}},
		{"urdu kept", "دل is mine", 5, false, []string{"دل", "mine"}},
		{"cap applied after dedup", "aaa bbb aaa ccc ddd eee fff", 5, false, []string{"aaa", "bbb", "ccc", "ddd", "eee"}},
		{"custom cap", "aaa bbb ccc", 2, false, []string{"aaa", "bbb"}},
		{"stop words kept by default", "the night and the moon", 5, false, []string{"the", "night", "and", "moon"}},
		{"stop words skipped when enabled", "the night and the moon", 5, true, []string{"night", "moon"}},
		{"empty", "  ... ", 5, false, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ExtractWords(c.text, c.max, c.stop))
		})
	}
}
