// Package fingerprint normalizes SQL text into a stable grouping key.
//
// The normalization is a best-effort heuristic over raw text, not a SQL
// parse: literals are replaced with fixed placeholders so structurally
// identical queries collapse to one fingerprint. It is used to group
// stored analyses, never to rewrite queries for execution.
package fingerprint

import (
	"regexp"
	"strings"
)

var (
	intLiteralRe    = regexp.MustCompile(`\b\d+\b`)
	stringLiteralRe = regexp.MustCompile(`'[^']*'`)
	arrayLiteralRe  = regexp.MustCompile(`\[[^\[\]]*\]`)
	jsonLiteralRe   = regexp.MustCompile(`\{[^{}]*\}`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Query returns the fingerprint of raw SQL text. Each placeholder is a
// fixed point of its own pattern, so Query(Query(s)) == Query(s).
func Query(sql string) string {
	out := intLiteralRe.ReplaceAllString(sql, "?")
	out = stringLiteralRe.ReplaceAllString(out, "'?'")
	out = arrayLiteralRe.ReplaceAllString(out, "[?]")
	out = jsonLiteralRe.ReplaceAllString(out, "{?}")
	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
