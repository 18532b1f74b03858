// Package ranking orders and pages catalog search results.
package ranking

import "unicode"

// LCSLength returns the length of the longest common subsequence of a and b,
// comparing runes case-insensitively. Empty input yields 0.
func LCSLength(a, b string) int {
	ra, rb := fold(a), fold(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Similarity scores how much of title is covered by query, in [0, 1].
// It is normalized by the title length only, so it is not symmetric.
// An empty title scores 0.
func Similarity(query, title string) float64 {
	n := len([]rune(title))
	if n == 0 {
		return 0
	}
	return float64(LCSLength(query, title)) / float64(n)
}

func fold(s string) []rune {
	r := []rune(s)
	for i, c := range r {
		r[i] = unicode.ToLower(c)
	}
	return r
}
