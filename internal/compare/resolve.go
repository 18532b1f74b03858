package compare

import (
	"errors"
	"strings"

	"github.com/ryanm101/gamecompare/internal/stats"
)

// ErrNoMatch is returned by Resolve when there are no candidates.
var ErrNoMatch = errors.New("no storefront candidates")

// MatchTier records which rule picked the candidate.
type MatchTier string

const (
	TierExact     MatchTier = "exact"
	TierPrefix    MatchTier = "prefix"
	TierSubstring MatchTier = "substring"
	TierFirst     MatchTier = "first"
)

// Match is a resolved storefront candidate.
type Match struct {
	stats.Candidate
	Tier MatchTier
}

// Resolve picks the storefront candidate that best matches title.
// An exact case-insensitive match wins. Otherwise candidates are reduced left
// to right, preferring names that start with the title, then names that
// contain it, and keeping the earlier candidate on ties.
func Resolve(title string, candidates []stats.Candidate) (Match, error) {
	if len(candidates) == 0 {
		return Match{}, ErrNoMatch
	}

	want := strings.ToLower(strings.TrimSpace(title))

	for _, c := range candidates {
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			return Match{Candidate: c, Tier: TierExact}, nil
		}
	}

	best := candidates[0]
	for _, cur := range candidates[1:] {
		if better(cur, best, want) {
			best = cur
		}
	}

	name := strings.ToLower(best.Name)
	tier := TierFirst
	switch {
	case strings.HasPrefix(name, want):
		tier = TierPrefix
	case strings.Contains(name, want):
		tier = TierSubstring
	}
	return Match{Candidate: best, Tier: tier}, nil
}

// better reports whether cur should replace best.
func better(cur, best stats.Candidate, want string) bool {
	curName, bestName := strings.ToLower(cur.Name), strings.ToLower(best.Name)

	curPrefix, bestPrefix := strings.HasPrefix(curName, want), strings.HasPrefix(bestName, want)
	if curPrefix != bestPrefix {
		return curPrefix
	}

	curContains, bestContains := strings.Contains(curName, want), strings.Contains(bestName, want)
	if curContains != bestContains {
		return curContains
	}

	return false
}
