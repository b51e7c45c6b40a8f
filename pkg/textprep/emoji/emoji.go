// Package emoji converts emoji glyphs to ASCII name tokens or removes them.
package emoji

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
)

// Mode selects what happens to an emoji.
type Mode int

const (
	// ModeTranslate replaces each emoji with a colon-delimited name.
	ModeTranslate Mode = iota
	// ModeRemove deletes emoji.
	ModeRemove
)

func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRemove:
		return "remove"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "translate" or "remove". Empty means translate.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "translate":
		return ModeTranslate, nil
	case "remove":
		return ModeRemove, nil
	default:
		return ModeTranslate, fmt.Errorf("unknown emoji mode %q", s)
	}
}

// versionPrefix matches the emoji-version prefix some name sources carry,
// e.g. "e1-0-" or "E5.0 ".
var versionPrefix = regexp.MustCompile(`(?i)^e\d+[-.]\d+[-_\s]+`)

// Translator maps emoji glyphs to names. Names are always [a-z0-9_], so the
// ASCII filter later in the pipeline cannot damage them.
type Translator struct {
	mode    Mode
	aliases map[string]string // glyph -> sanitized name
}

// NewTranslator creates a translator. aliases overrides the built-in name
// for specific glyphs; entries whose name sanitizes to nothing are ignored.
func NewTranslator(mode Mode, aliases map[string]string) *Translator {
	t := &Translator{
		mode:    mode,
		aliases: make(map[string]string, len(aliases)),
	}
	for glyph, name := range aliases {
		if clean := Sanitize(name); clean != "" && glyph != "" {
			t.aliases[glyph] = clean
		}
	}
	return t
}

// Mode reports the configured mode.
func (t *Translator) Mode() Mode {
	return t.mode
}

// Translate rewrites every emoji in text. Text without emoji is returned
// unchanged. A translated emoji becomes " :name: ", padded so it stays a
// separate word.
func (t *Translator) Translate(text string) string {
	if text == "" || !gomoji.ContainsEmoji(text) {
		return text
	}
	if t.mode == ModeRemove {
		return gomoji.ReplaceEmojisWithFunc(text, func(gomoji.Emoji) string {
			return " "
		})
	}
	return gomoji.ReplaceEmojisWithFunc(text, func(e gomoji.Emoji) string {
		return " :" + t.Name(e) + ": "
	})
}

// Name returns the ASCII name used for e.
func (t *Translator) Name(e gomoji.Emoji) string {
	if alias, ok := t.aliases[e.Character]; ok {
		return alias
	}
	if name := Sanitize(e.Slug); name != "" {
		return name
	}
	if name := Sanitize(e.UnicodeName); name != "" {
		return name
	}
	return "emoji"
}

// Sanitize lowercases name, drops a leading emoji-version marker and turns
// every run of characters outside [a-z0-9] into a single underscore.
func Sanitize(name string) string {
	name = versionPrefix.ReplaceAllString(strings.TrimSpace(name), "")
	var b strings.Builder
	b.Grow(len(name))
	gap := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('_')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}
