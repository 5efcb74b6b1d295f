// Package normalize holds the text, date, and contact normalization
// primitives the merge engine's evidence gates are built on. Matching is
// deliberately forgiving about whitespace and case but never fuzzy: a value
// either appears literally in the chunk text or it does not.
package normalize

import (
	"regexp"
	"strings"
)

var wsRE = regexp.MustCompile(`\s+`)

// missingTokens are placeholder strings the oracle emits instead of null.
var missingTokens = map[string]bool{
	"":               true,
	"none":           true,
	"null":           true,
	"n/a":            true,
	"na":             true,
	"-":              true,
	"--":             true,
	`n\a`:            true,
	"not applicable": true,
}

// Fold collapses runs of whitespace to single spaces, trims, and lowercases.
// Two strings that fold equal are treated as the same value everywhere.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(wsRE.ReplaceAllString(s, " ")))
}

// Clean collapses whitespace and trims without changing case.
func Clean(s string) string {
	return strings.TrimSpace(wsRE.ReplaceAllString(s, " "))
}

// IsMissing reports whether s is empty or a known placeholder token.
func IsMissing(s string) bool {
	return missingTokens[Fold(s)]
}

// ContainsLiteral reports whether needle appears in haystack after both are
// folded. Empty needles never match.
func ContainsLiteral(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Fold(haystack), n)
}
