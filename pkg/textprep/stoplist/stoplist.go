package stoplist

import (
	"sort"
	"strings"
)

// Manager holds a closed stop-word set. It is read-only after construction
// and safe for concurrent use.
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a stoplist from the given terms. Terms are lowercased
// and trimmed; empty terms are ignored.
func NewManager(terms []string) *Manager {
	stops := make(map[string]struct{}, len(terms))
	for _, s := range terms {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		stops[s] = struct{}{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a token is a stopword. The comparison is exact.
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Filter returns the tokens that are not stopwords, in their original
// order. The input slice is not modified.
func (m *Manager) Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !m.IsStop(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// All returns all stopwords, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	return len(m.stops)
}
