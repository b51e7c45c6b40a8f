package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// Store is an in-memory implementation of store.Store for tests and
// one-shot CLI runs.
type Store struct {
	mu          sync.RWMutex
	docs        map[string]store.Doc
	sourceIndex map[string]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		docs:        make(map[string]store.Doc),
		sourceIndex: make(map[string]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// PutDoc inserts or replaces a document, keyed by Source.
func (s *Store) PutDoc(ctx context.Context, d store.Doc) (string, error) {
	if d.Source == "" {
		return "", fmt.Errorf("doc has no source: %w", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.sourceIndex[d.Source]; ok {
		d.ID = existingID
	} else {
		if d.ID == "" {
			return "", fmt.Errorf("doc %s has no id: %w", d.Source, internalerr.ErrInvalidInput)
		}
		s.sourceIndex[d.Source] = d.ID
	}

	s.docs[d.ID] = copyDoc(d)
	return d.ID, nil
}

// GetDoc returns a document by ID.
func (s *Store) GetDoc(ctx context.Context, id string) (store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if doc, ok := s.docs[id]; ok {
		return copyDoc(doc), nil
	}
	return store.Doc{}, fmt.Errorf("doc %s: %w", id, internalerr.ErrNotFound)
}

// GetDocBySource returns a document by source.
func (s *Store) GetDocBySource(ctx context.Context, source string) (store.Doc, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.sourceIndex[source]; ok {
		if doc, exists := s.docs[id]; exists {
			return copyDoc(doc), true, nil
		}
	}
	return store.Doc{}, false, nil
}

// ListDocs returns documents ordered by ID.
func (s *Store) ListDocs(ctx context.Context, limit int) ([]store.Doc, error) {
	return s.collect(limit, func(store.Doc) bool { return true }), nil
}

// DocsByToken returns documents containing token, ordered by ID.
func (s *Store) DocsByToken(ctx context.Context, token string, limit int) ([]store.Doc, error) {
	if token == "" {
		return nil, nil
	}
	return s.collect(limit, func(d store.Doc) bool {
		for _, tok := range d.Tokens {
			if tok == token {
				return true
			}
		}
		return false
	}), nil
}

// TopTokens returns the k tokens with the highest document frequency.
func (s *Store) TopTokens(ctx context.Context, k int) ([]store.TokenCount, error) {
	if k <= 0 {
		k = store.DefaultLimit
	}

	s.mu.RLock()
	df := make(map[string]int64)
	for _, doc := range s.docs {
		seen := make(map[string]struct{}, len(doc.Tokens))
		for _, tok := range doc.Tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	s.mu.RUnlock()

	counts := make([]store.TokenCount, 0, len(df))
	for tok, n := range df {
		counts = append(counts, store.TokenCount{Token: tok, Docs: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Docs != counts[j].Docs {
			return counts[i].Docs > counts[j].Docs
		}
		return counts[i].Token < counts[j].Token
	})
	if len(counts) > k {
		counts = counts[:k]
	}
	return counts, nil
}

func (s *Store) collect(limit int, keep func(store.Doc) bool) []store.Doc {
	if limit <= 0 {
		limit = store.DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []store.Doc
	for _, id := range ids {
		doc := s.docs[id]
		if !keep(doc) {
			continue
		}
		out = append(out, copyDoc(doc))
		if len(out) == limit {
			break
		}
	}
	return out
}

func copyDoc(d store.Doc) store.Doc {
	dup := d
	if d.Tokens != nil {
		dup.Tokens = make([]string, len(d.Tokens))
		copy(dup.Tokens, d.Tokens)
	}
	return dup
}
