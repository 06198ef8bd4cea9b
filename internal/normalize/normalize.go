// Package normalize folds the keys of a frequency map after counting.
//
// Folding never changes the total number of occurrences: keys that fold to
// the same string have their counts summed.
package normalize

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/chriscorrea/tally/internal/frequency"
	"github.com/kljensen/snowball"
)

// Fold maps a token to its normalized form.
type Fold func(string) string

// Lower folds a token to Unicode lower case.
func Lower(token string) string {
	return strings.ToLower(token)
}

// Stem reduces a lowercase English word to its Snowball stem.
// Tokens containing anything other than lowercase letters are returned
// unchanged, so case is preserved unless Lower runs first.
func Stem(token string) string {
	if token == "" || strings.IndexFunc(token, func(r rune) bool { return !unicode.IsLetter(r) || unicode.IsUpper(r) }) >= 0 {
		return token
	}

	stemmed, err := snowball.Stem(token, "english", true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

// Apply returns a new map with every key of m passed through folds in order.
func Apply(m frequency.Map, folds ...Fold) frequency.Map {
	out := make(frequency.Map, len(m))
	for token, n := range m {
		for _, fold := range folds {
			token = fold(token)
		}
		out[token] += n
	}

	if len(out) != len(m) {
		slog.Debug("Folded frequency keys", "before", len(m), "after", len(out))
	}
	return out
}
