package dedup

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity scores how alike two strings are, scaled 0-100.
type Similarity interface {
	Ratio(a, b string) float64
}

// TokenSortRatio sorts each string's whitespace-delimited tokens before
// measuring a normalized edit-distance ratio, so word reordering does
// not reduce the score.
type TokenSortRatio struct{}

func (TokenSortRatio) Ratio(a, b string) float64 {
	a, b = tokenSort(a), tokenSort(b)
	if a == b {
		return 100
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	return (1 - float64(dist)/float64(longest)) * 100
}

func tokenSort(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
