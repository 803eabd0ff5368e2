package store

import (
	"strings"
	"unicode"
)

// NormalizeTerm canonicalizes a lookup string: lowercased, punctuation
// replaced by spaces, whitespace collapsed. "Epinephrine  1:10000" and
// "epinephrine 1 10000" normalize identically; "Epinephrine 1:1000" does not,
// because digits are significant.
func NormalizeTerm(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// Tokenize splits a string into normalized tokens.
func Tokenize(s string) []string {
	norm := NormalizeTerm(s)
	if norm == "" {
		return nil
	}
	return strings.Split(norm, " ")
}
