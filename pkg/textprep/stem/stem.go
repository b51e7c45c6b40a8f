// Package stem reduces tokens to heuristic root forms with the Snowball
// English (Porter2) algorithm.
package stem

import (
	"github.com/kljensen/snowball/english"
)

// Stemmer applies Porter2 repeatedly until the token no longer changes, so
// stemming an already stemmed token is a no-op. Protected tokens, typically
// dictionary base forms the lemmatizer produces, are never stemmed.
// A Stemmer is read-only after construction and safe for concurrent use.
type Stemmer struct {
	protected map[string]struct{}
}

// New creates a stemmer that leaves the given tokens untouched.
func New(protected []string) *Stemmer {
	p := make(map[string]struct{}, len(protected))
	for _, w := range protected {
		if w != "" {
			p[w] = struct{}{}
		}
	}
	return &Stemmer{protected: p}
}

// Stem returns the root form of word.
func (s *Stemmer) Stem(word string) string {
	if word == "" || s.IsProtected(word) {
		return word
	}

	cur := word
	// Porter2 never grows a word, so len(word) rounds bound the loop.
	for i := 0; i <= len(word); i++ {
		next := english.Stem(cur, true)
		if next == "" || next == cur {
			return cur
		}
		cur = next
		if s.IsProtected(cur) {
			return cur
		}
	}
	return cur
}

// StemAll stems every token into a new slice of the same length.
func (s *Stemmer) StemAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = s.Stem(tok)
	}
	return out
}

// IsProtected reports whether word bypasses stemming.
func (s *Stemmer) IsProtected(word string) bool {
	_, ok := s.protected[word]
	return ok
}
