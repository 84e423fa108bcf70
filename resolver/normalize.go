package resolver

import (
	"regexp"
	"strings"
)

var (
	parensExpr     = regexp.MustCompile(`\([^)]*\)`)
	bracketsExpr   = regexp.MustCompile(`\[[^\]]*\]`)
	hyphenExpr     = regexp.MustCompile(`\s*-\s*`)
	symbolExpr     = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text for comparison: parenthesized and
// bracketed segments go first (they usually carry edition or remix noise,
// not identity), hyphens become spaces, remaining punctuation is dropped,
// whitespace collapses and the result is lower-cased. Idempotent; empty
// input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = parensExpr.ReplaceAllString(text, "")
	text = bracketsExpr.ReplaceAllString(text, "")
	text = hyphenExpr.ReplaceAllString(text, " ")
	text = symbolExpr.ReplaceAllString(text, "")
	text = whitespaceExpr.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}
