package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	doc := store.Doc{
		ID:          "01HZZZZZZZZZZZZZZZZZZZZZZ1",
		Source:      "a.txt",
		Output:      "child run run",
		Tokens:      []string{"child", "run", "run"},
		ProcessedAt: time.Now(),
	}
	id, err := s.PutDoc(ctx, doc)
	if err != nil {
		t.Fatalf("PutDoc: %v", err)
	}
	if id != doc.ID {
		t.Errorf("Expected id %s, got %s", doc.ID, id)
	}

	got, err := s.GetDoc(ctx, id)
	if err != nil {
		t.Fatalf("GetDoc: %v", err)
	}
	if got.Output != doc.Output || len(got.Tokens) != 3 {
		t.Errorf("Unexpected doc: %+v", got)
	}

	// Returned docs are copies.
	got.Tokens[0] = "mutated"
	again, _ := s.GetDoc(ctx, id)
	if again.Tokens[0] != "child" {
		t.Error("Store state was mutated through a returned doc")
	}
}

func TestPutReplacesBySource(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.PutDoc(ctx, store.Doc{ID: "01A", Source: "a.txt", Output: "old", Tokens: []string{"old"}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.PutDoc(ctx, store.Doc{ID: "01B", Source: "a.txt", Output: "new", Tokens: []string{"new"}})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Replaced doc should keep id %s, got %s", first, second)
	}

	doc, found, err := s.GetDocBySource(ctx, "a.txt")
	if err != nil || !found {
		t.Fatalf("GetDocBySource: found=%v err=%v", found, err)
	}
	if doc.Output != "new" {
		t.Errorf("Expected replaced output, got %q", doc.Output)
	}

	docs, _ := s.ListDocs(ctx, 0)
	if len(docs) != 1 {
		t.Errorf("Expected 1 doc, got %d", len(docs))
	}
}

func TestPutRejectsIncompleteDoc(t *testing.T) {
	s := New()
	if _, err := s.PutDoc(context.Background(), store.Doc{ID: "01A"}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput without source, got %v", err)
	}
	if _, err := s.PutDoc(context.Background(), store.Doc{Source: "x"}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput without id, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, err := s.GetDoc(context.Background(), "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, found, err := s.GetDocBySource(context.Background(), "nope"); found || err != nil {
		t.Errorf("Expected not found without error, got found=%v err=%v", found, err)
	}
}

func TestListAndQuery(t *testing.T) {
	ctx := context.Background()
	s := New()

	docs := []store.Doc{
		{ID: "01C", Source: "c", Tokens: []string{"cat", "dog"}},
		{ID: "01A", Source: "a", Tokens: []string{"cat"}},
		{ID: "01B", Source: "b", Tokens: []string{"bird", "cat", "cat"}},
	}
	for _, d := range docs {
		if _, err := s.PutDoc(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	list, _ := s.ListDocs(ctx, 2)
	if len(list) != 2 || list[0].ID != "01A" || list[1].ID != "01B" {
		t.Errorf("Expected [01A 01B], got %+v", list)
	}

	dogs, _ := s.DocsByToken(ctx, "dog", 0)
	if len(dogs) != 1 || dogs[0].ID != "01C" {
		t.Errorf("Expected only 01C for dog, got %+v", dogs)
	}

	top, _ := s.TopTokens(ctx, 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 tokens, got %v", top)
	}
	if top[0] != (store.TokenCount{Token: "cat", Docs: 3}) {
		t.Errorf("Expected cat in 3 docs, got %+v", top[0])
	}
	if top[1] != (store.TokenCount{Token: "bird", Docs: 1}) {
		t.Errorf("Expected bird in 1 doc, got %+v", top[1])
	}
}
