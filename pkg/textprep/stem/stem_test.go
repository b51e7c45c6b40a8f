package stem

import (
	"reflect"
	"testing"
)

func TestStem(t *testing.T) {
	s := New(nil)

	tests := []struct {
		input string
		want  string
	}{
		{input: "running", want: "run"},
		{input: "cats", want: "cat"},
		{input: "connection", want: "connect"},
		{input: "happiness", want: "happi"},
		{input: "mouse", want: "mous"},
		{input: "a", want: "a"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := s.Stem(tt.input); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStemIsFixedPoint(t *testing.T) {
	s := New(nil)
	words := []string{
		"agreed", "generously", "relational", "conditional", "abilities",
		"hopping", "luxuriating", "universities", "organization", "believe",
		"grinningface", "cannot", "feed", "skies", "dying", "news",
	}
	for _, w := range words {
		once := s.Stem(w)
		if twice := s.Stem(once); twice != once {
			t.Errorf("Stem not a fixed point for %q: %q then %q", w, once, twice)
		}
	}
}

func TestStemProtected(t *testing.T) {
	s := New([]string{"mouse", "goose"})
	if got := s.Stem("mouse"); got != "mouse" {
		t.Errorf("protected word changed: %q", got)
	}
	if !s.IsProtected("goose") {
		t.Error("goose should be protected")
	}
	if got := s.Stem("houses"); got == "houses" {
		t.Errorf("unprotected word should still be stemmed, got %q", got)
	}
}

func TestStemAllPreservesOrderAndLength(t *testing.T) {
	s := New(nil)
	in := []string{"cats", "running", "cats"}
	want := []string{"cat", "run", "cat"}
	got := s.StemAll(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StemAll = %v, want %v", got, want)
	}
	if in[0] != "cats" {
		t.Error("StemAll should not modify its input")
	}
}
