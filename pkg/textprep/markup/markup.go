// Package markup removes URL-like substrings and HTML markup from text.
package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// urlPattern matches a scheme-like prefix and the rest of its
// non-whitespace run.
var urlPattern = regexp.MustCompile(`(?:http|www)[^\s\p{Z}]+`)

// skipTags lists elements whose text content is never visible.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"noscript": true,
	"template": true,
}

// Strip removes URLs, then HTML markup, then URLs again. The first pass
// catches links before tag boundaries split them; the second catches
// prefixes that only appear once entities are decoded ("&#104;ttp").
func Strip(text string) string {
	return StripURLs(StripHTML(StripURLs(text)))
}

// StripURLs deletes every run starting with "http" or "www".
func StripURLs(text string) string {
	if !strings.Contains(text, "http") && !strings.Contains(text, "www") {
		return text
	}
	return urlPattern.ReplaceAllString(text, "")
}

// StripHTML returns the visible text of an HTML fragment. Tags and
// attributes are discarded and entities decoded. Adjacent text nodes are
// separated by a space so block elements do not run words together.
// Malformed markup is handled on a best-effort basis; it never fails.
func StripHTML(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}

	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	b.Grow(len(text))
	depth := 0
	pendingSpace := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a tokenizer error; either way keep what we have
			break
		}
		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipTags[string(name)] {
				depth++
			}
			pendingSpace = true
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipTags[string(name)] && depth > 0 {
				depth--
			}
			pendingSpace = true
		case html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			pendingSpace = true
		case html.TextToken:
			if depth > 0 {
				continue
			}
			chunk := string(z.Text())
			if chunk == "" {
				continue
			}
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteString(chunk)
		}
	}

	return b.String()
}
