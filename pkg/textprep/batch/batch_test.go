package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/cognicore/textprep/pkg/textprep"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/store/memstore"
)

func testInputs(n int) []Input {
	inputs := make([]Input, n)
	for i := range inputs {
		inputs[i] = Input{
			Source: fmt.Sprintf("doc-%03d", i),
			Text:   fmt.Sprintf("The children were running to <b>school</b> %d!", i),
		}
	}
	return inputs
}

func TestRunPreservesOrder(t *testing.T) {
	r := NewRunner(textprep.Default(), Options{Workers: 4})

	inputs := testInputs(50)
	results, err := r.Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("Expected %d results, got %d", len(inputs), len(results))
	}

	for i, res := range results {
		if res.Source != inputs[i].Source {
			t.Errorf("Result %d has source %s, want %s", i, res.Source, inputs[i].Source)
		}
		if res.Output != "child run school" {
			t.Errorf("Result %d output %q", i, res.Output)
		}
	}
}

func TestRunAssignsOrderedIDs(t *testing.T) {
	r := NewRunner(textprep.Default(), Options{Workers: 8})

	results, err := r.Run(context.Background(), testInputs(30))
	if err != nil {
		t.Fatal(err)
	}

	ids := make([]string, len(results))
	seen := make(map[string]bool)
	for i, res := range results {
		if len(res.ID) != 26 {
			t.Errorf("Result %d has malformed ULID %q", i, res.ID)
		}
		if seen[res.ID] {
			t.Errorf("Duplicate ID %s", res.ID)
		}
		seen[res.ID] = true
		ids[i] = res.ID
	}
	if !sort.StringsAreSorted(ids) {
		t.Error("IDs should sort in input order")
	}
}

func TestRunPersists(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	r := NewRunner(textprep.Default(), Options{Workers: 3, Store: st})

	results, err := r.Run(ctx, testInputs(10))
	if err != nil {
		t.Fatal(err)
	}

	docs, err := st.ListDocs(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 10 {
		t.Fatalf("Expected 10 stored docs, got %d", len(docs))
	}
	for i, doc := range docs {
		if doc.ID != results[i].ID || doc.Source != results[i].Source {
			t.Errorf("Stored doc %d = %s/%s, want %s/%s", i, doc.ID, doc.Source, results[i].ID, results[i].Source)
		}
		if doc.ProcessedAt.IsZero() {
			t.Errorf("Stored doc %d has no timestamp", i)
		}
	}

	// Re-running the same sources keeps their IDs.
	again, err := r.Run(ctx, testInputs(10))
	if err != nil {
		t.Fatal(err)
	}
	for i := range again {
		if again[i].ID != results[i].ID {
			t.Errorf("Doc %d changed id on rerun: %s -> %s", i, results[i].ID, again[i].ID)
		}
	}
}

func TestRunOversizedDocument(t *testing.T) {
	p, err := textprep.New(textprep.Options{MaxInputBytes: 32})
	if err != nil {
		t.Fatal(err)
	}
	st := memstore.New()
	r := NewRunner(p, Options{Store: st})

	inputs := []Input{
		{Source: "short", Text: "cats"},
		{Source: "long", Text: "this document is far longer than thirty two bytes"},
	}
	results, err := r.Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Err != nil || results[0].Output != "cat" {
		t.Errorf("Unexpected short result: %+v", results[0])
	}
	if !errors.Is(results[1].Err, internalerr.ErrInputTooLarge) {
		t.Errorf("Expected ErrInputTooLarge, got %v", results[1].Err)
	}
	if _, found, _ := st.GetDocBySource(context.Background(), "long"); found {
		t.Error("Oversized document should not be stored")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(textprep.Default(), Options{Workers: 2})
	if _, err := r.Run(ctx, testInputs(5)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

type failingStore struct {
	*memstore.Store
}

func (failingStore) PutDoc(context.Context, store.Doc) (string, error) {
	return "", internalerr.ErrStoreUnavailable
}

func TestRunStoreFailure(t *testing.T) {
	r := NewRunner(textprep.Default(), Options{Store: failingStore{memstore.New()}})
	_, err := r.Run(context.Background(), testInputs(3))
	if !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}
}

func TestRunEmpty(t *testing.T) {
	r := NewRunner(textprep.Default(), Options{})
	results, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}
