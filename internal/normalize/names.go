package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Name lowercases, collapses internal whitespace, and trims the input.
// This is the canonical form used for unit-name matching and as the
// uniqueness key for name mappings.
func Name(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return multiSpace.ReplaceAllString(s, " ")
}

// Tokens splits a normalized name into its whitespace-separated tokens.
func Tokens(s string) []string {
	n := Name(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}
