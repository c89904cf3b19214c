package rules

import (
	"strings"

	"golang.org/x/text/cases"
)

// canonicalDrug trims and case-folds a drug name so that lookups are
// insensitive to case and surrounding whitespace. Unicode folding handles
// names that plain ToLower would miss.
func canonicalDrug(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// pairKey builds the unordered lookup key for a canonical drug pair.
// {A,B} and {B,A} produce the same key.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
