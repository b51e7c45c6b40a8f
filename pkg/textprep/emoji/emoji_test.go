package emoji

import (
	"regexp"
	"strings"
	"testing"
)

var nameToken = regexp.MustCompile(`:[a-z0-9_]+:`)

func TestTranslateConvertsToName(t *testing.T) {
	tr := NewTranslator(ModeTranslate, nil)

	got := tr.Translate("great job 😀!!!")
	if strings.Contains(got, "😀") {
		t.Fatalf("emoji should be replaced, got %q", got)
	}
	if !nameToken.MatchString(got) {
		t.Errorf("expected a :name: token in %q", got)
	}
	if !strings.Contains(got, "grinning") {
		t.Errorf("expected grinning face name in %q", got)
	}
	if !strings.HasPrefix(got, "great job ") || !strings.HasSuffix(got, "!!!") {
		t.Errorf("surrounding text should be preserved, got %q", got)
	}
}

func TestTranslateEachEmojiBecomesOneName(t *testing.T) {
	tr := NewTranslator(ModeTranslate, nil)
	got := tr.Translate("🎉 party 🔥")
	if names := nameToken.FindAllString(got, -1); len(names) != 2 {
		t.Errorf("expected 2 name tokens in %q, got %v", got, names)
	}
	if strings.ContainsAny(got, "🎉🔥") {
		t.Errorf("glyphs should be gone, got %q", got)
	}
	if !strings.Contains(got, " party ") {
		t.Errorf("text should survive, got %q", got)
	}
}

func TestTranslateNoEmojiIsIdentity(t *testing.T) {
	tr := NewTranslator(ModeTranslate, nil)
	inputs := []string{"", "plain text", "café", "a:b:c", "<3 :)"}
	for _, in := range inputs {
		if got := tr.Translate(in); got != in {
			t.Errorf("Translate(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestTranslateRemoveMode(t *testing.T) {
	tr := NewTranslator(ModeRemove, nil)
	got := tr.Translate("hi 😀 there 🎉")
	if strings.Contains(got, "😀") || strings.Contains(got, "🎉") {
		t.Errorf("emoji should be removed, got %q", got)
	}
	if nameToken.MatchString(got) {
		t.Errorf("remove mode should not emit names, got %q", got)
	}
	if !strings.Contains(got, "hi") || !strings.Contains(got, "there") {
		t.Errorf("text should survive, got %q", got)
	}
}

func TestTranslateAlias(t *testing.T) {
	tr := NewTranslator(ModeTranslate, map[string]string{"😀": "Happy Face!"})
	got := tr.Translate("😀")
	if strings.TrimSpace(got) != ":happy_face:" {
		t.Errorf("alias should win, got %q", got)
	}
}

func TestTranslateAliasIgnoresEmptyNames(t *testing.T) {
	tr := NewTranslator(ModeTranslate, map[string]string{"😀": "!!!"})
	if _, ok := tr.aliases["😀"]; ok {
		t.Error("alias that sanitizes to nothing should be dropped")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "grinning-face", want: "grinning_face"},
		{input: "e1-0-grinning-face", want: "grinning_face"},
		{input: "E5.0 person in steamy room", want: "person_in_steamy_room"},
		{input: "Flag: France", want: "flag_france"},
		{input: "keycap-#", want: "keycap"},
		{input: "piñata", want: "pi_ata"},
		{input: "---", want: ""},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.input); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: ModeTranslate},
		{input: "translate", want: ModeTranslate},
		{input: " Remove ", want: ModeRemove},
		{input: "explode", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
