package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// Lexicon stores lemma -> inflected form mappings while the dictionary is
// being assembled. Compile turns it into a read-only Lemmatizer.
//
// Example entries:
//
//	child -> [children]
//	go    -> [went, gone]
//	good  -> [better, best]
type Lexicon struct {
	// lemma -> forms, lemma first
	groups map[string][]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{groups: make(map[string][]string)}
}

type fileFormat struct {
	Lemmas []struct {
		Lemma string   `yaml:"lemma"`
		Forms []string `yaml:"forms"`
	} `yaml:"lemmas"`
}

// LoadFromYAML loads a lemma dictionary from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: mouse
//	    forms: [mice]
//	  - lemma: go
//	    forms: [went, gone]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a lemma dictionary in the LoadFromYAML format.
func Parse(data []byte) (*Lexicon, error) {
	var cfg fileFormat
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse lemma dictionary: %w", err)
	}

	lex := New()
	for i, entry := range cfg.Lemmas {
		if strings.TrimSpace(entry.Lemma) == "" {
			return nil, fmt.Errorf("lemma entry %d has no lemma: %w", i, internalerr.ErrInvalidConfig)
		}
		lex.AddLemma(entry.Lemma, entry.Forms)
	}
	return lex, nil
}

// AddLemma registers forms as inflections of lemma. Calling it again for
// the same lemma adds to the existing group.
func (l *Lexicon) AddLemma(lemma string, forms []string) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if lemma == "" {
		return
	}

	group, ok := l.groups[lemma]
	if !ok {
		group = []string{lemma}
	}
	seen := make(map[string]bool, len(group)+len(forms))
	for _, f := range group {
		seen[f] = true
	}
	for _, f := range forms {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		group = append(group, f)
	}
	l.groups[lemma] = group
}

// Lemmas returns every lemma, sorted.
func (l *Lexicon) Lemmas() []string {
	out := make([]string, 0, len(l.groups))
	for lemma := range l.groups {
		out = append(out, lemma)
	}
	sort.Strings(out)
	return out
}

// Forms returns the forms registered for lemma, lemma first.
func (l *Lexicon) Forms(lemma string) []string {
	group := l.groups[strings.ToLower(lemma)]
	out := make([]string, len(group))
	copy(out, group)
	return out
}

// Compile builds a Lemmatizer.
//
// Every form is indexed under its surface spelling. When stem is non-nil,
// each form is also indexed under stem(form) so that lookups work on
// stemmer output; a surface entry always wins over a stemmed alias, and a
// stemmed alias never shadows a lemma. Chains (a form whose lemma is itself
// a form of another lemma) are resolved to the final lemma. A cycle is an
// ErrInvalidConfig.
func (l *Lexicon) Compile(stem func(string) string) (*Lemmatizer, error) {
	lemmas := l.Lemmas()
	index := make(map[string]string)

	// Surface forms; lemmas are visited in sorted order so conflicts resolve
	// the same way on every load.
	for _, lemma := range lemmas {
		for _, form := range l.groups[lemma][1:] {
			if _, taken := index[form]; !taken {
				index[form] = lemma
			}
		}
	}

	resolved := make(map[string]string, len(index))
	for form := range index {
		target, err := resolve(index, form)
		if err != nil {
			return nil, err
		}
		resolved[form] = target
	}
	// A lemma that resolves to itself needs no entry.
	for form, target := range resolved {
		if form == target {
			delete(resolved, form)
		}
	}

	targets := make(map[string]bool, len(lemmas))
	for _, lemma := range lemmas {
		targets[lemma] = true
	}
	for _, target := range resolved {
		targets[target] = true
	}

	if stem != nil {
		forms := make([]string, 0, len(resolved))
		for form := range resolved {
			forms = append(forms, form)
		}
		sort.Strings(forms)
		for _, form := range forms {
			alias := stem(form)
			if alias == "" || alias == form || targets[alias] {
				continue
			}
			if _, taken := resolved[alias]; taken {
				continue
			}
			resolved[alias] = resolved[form]
		}
	}

	return &Lemmatizer{index: resolved, lemmas: lemmas}, nil
}

func resolve(index map[string]string, form string) (string, error) {
	seen := map[string]bool{form: true}
	cur := index[form]
	for {
		next, ok := index[cur]
		if !ok || next == cur {
			return cur, nil
		}
		if seen[cur] {
			return "", fmt.Errorf("lemma cycle through %q: %w", form, internalerr.ErrInvalidConfig)
		}
		seen[cur] = true
		cur = next
	}
}

// Lemmatizer maps tokens to dictionary base forms. It is read-only and
// safe for concurrent use.
type Lemmatizer struct {
	index  map[string]string
	lemmas []string
}

// Lemmatize returns the base form of token, or token itself when the
// dictionary has no entry.
func (z *Lemmatizer) Lemmatize(token string) string {
	if lemma, ok := z.index[token]; ok {
		return lemma
	}
	return token
}

// LemmatizeAll lemmatizes every token into a new slice of the same length.
func (z *Lemmatizer) LemmatizeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = z.Lemmatize(tok)
	}
	return out
}

// Lemmas returns the dictionary's lemmas, sorted.
func (z *Lemmatizer) Lemmas() []string {
	out := make([]string, len(z.lemmas))
	copy(out, z.lemmas)
	return out
}

// Len returns the number of indexed spellings.
func (z *Lemmatizer) Len() int {
	return len(z.index)
}
