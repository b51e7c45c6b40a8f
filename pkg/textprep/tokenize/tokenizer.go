// Package tokenize splits normalized text into word tokens using Unicode
// word boundaries (UAX #29).
package tokenize

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Tokenize splits text into words. Segments without a letter or digit
// (spaces, punctuation) are dropped. Order and duplicates are preserved.
// Empty input yields an empty, non-nil slice.
func Tokenize(text string) []string {
	tokens := make([]string, 0, strings.Count(text, " ")+1)

	state := -1
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		if isWord(word) {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

func isWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
