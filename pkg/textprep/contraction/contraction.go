// Package contraction expands contracted word forms ("can't", "i'm") from a
// fixed table.
package contraction

import (
	"sort"
	"strings"
)

// apostrophes unifies the apostrophe look-alikes that show up in real text.
var apostrophes = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"′", "'", // prime
	"´", "'", // acute accent
	"`", "'",
)

// Expander rewrites every occurrence of a known contraction with its
// expansion.
//
// Matching is a single left-to-right pass over the text. At each position
// the keys are tried longest first, ties broken lexicographically, so
// "i'd've" wins over "i'd". Replaced text is never scanned again.
// An Expander is immutable and safe for concurrent use.
type Expander struct {
	order    []string
	table    map[string]string
	replacer *strings.Replacer
}

// NewExpander builds an expander from a contraction -> expansion table.
// Keys and values are lowercased and apostrophe variants in keys unified.
// Entries with an empty key are ignored.
func NewExpander(table map[string]string) *Expander {
	clean := make(map[string]string, len(table))
	for k, v := range table {
		key := strings.ToLower(strings.TrimSpace(apostrophes.Replace(k)))
		if key == "" {
			continue
		}
		clean[key] = strings.ToLower(strings.TrimSpace(v))
	}

	order := make([]string, 0, len(clean))
	for k := range clean {
		order = append(order, k)
	}
	sort.Slice(order, func(i, j int) bool {
		if len(order[i]) != len(order[j]) {
			return len(order[i]) > len(order[j])
		}
		return order[i] < order[j]
	})

	pairs := make([]string, 0, 2*len(order))
	for _, k := range order {
		pairs = append(pairs, k, clean[k])
	}

	return &Expander{
		order:    order,
		table:    clean,
		replacer: strings.NewReplacer(pairs...),
	}
}

// Expand returns text with every contraction expanded.
func (e *Expander) Expand(text string) string {
	if len(e.order) == 0 || text == "" {
		return text
	}
	return e.replacer.Replace(apostrophes.Replace(text))
}

// Lookup returns the expansion for a single contraction.
func (e *Expander) Lookup(contraction string) (string, bool) {
	v, ok := e.table[strings.ToLower(apostrophes.Replace(contraction))]
	return v, ok
}

// Order returns the keys in matching priority order.
func (e *Expander) Order() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Len returns the number of table entries.
func (e *Expander) Len() int {
	return len(e.order)
}
