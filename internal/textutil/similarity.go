package textutil

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// TokenSortRatio computes a word-order-insensitive similarity between two
// titles in [0, 1]. Both inputs are normalized, their tokens sorted and
// rejoined, and the result is a Levenshtein ratio over the sorted forms.
// Identical titles score 1; titles with no common text score near 0.
func TokenSortRatio(a, b string) float64 {
	sortedA := sortTokens(NormalizeTitle(a))
	sortedB := sortTokens(NormalizeTitle(b))

	if sortedA == "" || sortedB == "" {
		if sortedA == sortedB {
			return 1
		}
		return 0
	}
	if sortedA == sortedB {
		return 1
	}

	distance := fuzzy.LevenshteinDistance(sortedA, sortedB)
	longest := len([]rune(sortedA))
	if l := len([]rune(sortedB)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	ratio := 1 - float64(distance)/float64(longest)
	if ratio < 0 {
		return 0
	}
	return ratio
}

func sortTokens(normalized string) string {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return ""
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
