// Package normalize holds the character-level text stages of the pipeline:
// case folding, symbol filtering, whitespace collapsing and ASCII
// restriction. Every function is total and safe for concurrent use.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Punctuation is the ASCII punctuation set removed by StripSymbols.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Lowercase folds text to lowercase without regard to locale.
// Compatibility forms are unified first (NFKC), so full-width letters,
// ligatures and non-breaking spaces come out as their plain equivalents.
func Lowercase(text string) string {
	if text == "" {
		return ""
	}
	// Casers keep state between calls and must not be shared.
	folded := cases.Fold().String(norm.NFKC.String(text))
	return norm.NFKC.String(folded)
}

// StripSymbols removes punctuation, every rune that is not an ASCII letter,
// ASCII digit or whitespace, and finally all digits.
func StripSymbols(text string) string {
	text = removePunctuation(text)
	text = removeSpecial(text)
	return removeDigits(text)
}

func removePunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(Punctuation, r) {
			return -1
		}
		return r
	}, text)
}

func removeSpecial(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return r
		}
		return -1
	}, text)
}

func removeDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, text)
}

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims both ends.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ToASCII drops every rune above U+007F. Nothing is transliterated.
func ToASCII(text string) string {
	t := runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	}))
	// runes.Remove cannot fail.
	out, _, _ := transform.String(t, text)
	return out
}
