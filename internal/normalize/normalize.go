// Package normalize maps raw venue names to stable cache keys.
//
// Keys are lossy on purpose: generic business-type words and punctuation
// are discarded so that "Lucali Pizza" and "Lucali" share one key. Two
// distinct venues with the same generic name collide; disambiguation is
// the caller's problem, not this package's.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// genericSuffixes are business-type words stripped from names before
// keying, wherever they occur as whole words.
var genericSuffixes = []string{
	"restaurant", "cafe", "coffee", "pizza", "bar", "grill",
	"bistro", "kitchen", "eatery", "diner", "pub", "tavern",
	"inc", "llc", "corp", "co", "company",
}

var suffixPattern = regexp.MustCompile(`\b(` + strings.Join(genericSuffixes, "|") + `)\b`)

// Key builds the normalized cache key for a venue name and an optional
// location hint. Idempotent: Key(Key(x, ""), "") == Key(x, "").
func Key(name, locationHint string) string {
	key := scrub(name, true)
	if locationHint != "" {
		key = key + "_" + scrub(locationHint, false)
	}
	return key
}

// scrub lowercases, optionally drops generic suffix words, removes
// everything that is not a letter, digit, or underscore, and collapses
// whitespace runs to single underscores. Underscores survive so that an
// already-normalized key passes through unchanged.
func scrub(s string, dropGeneric bool) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if dropGeneric {
		s = suffixPattern.ReplaceAllString(s, "")
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), "_")
}
