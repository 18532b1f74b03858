package ranking

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ryanm101/gamecompare/internal/catalog"
)

// SortMode selects the ordering applied by Sort.
type SortMode string

const (
	RatingDesc    SortMode = "rating-desc"
	RatingAsc     SortMode = "rating-asc"
	ReleaseNewest SortMode = "release-newest"
	ReleaseOldest SortMode = "release-oldest"
	BySimilarity  SortMode = "similarity"
)

// ErrUnknownSortMode is returned by ParseSortMode for unrecognised names.
var ErrUnknownSortMode = errors.New("unknown sort mode")

// SortModes lists the accepted modes in display order.
var SortModes = []SortMode{RatingDesc, RatingAsc, ReleaseNewest, ReleaseOldest, BySimilarity}

var sortAliases = map[string]SortMode{
	"rating":  RatingDesc,
	"release": ReleaseNewest,
}

// ParseSortMode validates a user-supplied mode name.
func ParseSortMode(s string) (SortMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if m, ok := sortAliases[name]; ok {
		return m, nil
	}
	if slices.Contains(SortModes, SortMode(name)) {
		return SortMode(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
}

// Sort returns results ordered by mode. The input slice is never modified.
// Missing ratings and release dates sort as 0. In similarity mode, titles
// sharing nothing with query are dropped; a blank query leaves the order
// unchanged. An unknown mode returns the results in their original order.
func Sort(results []catalog.GameSummary, mode SortMode, query string) []catalog.GameSummary {
	out := slices.Clone(results)

	switch mode {
	case RatingDesc:
		slices.SortStableFunc(out, func(a, b catalog.GameSummary) int {
			return cmp.Compare(b.AggregatedRating, a.AggregatedRating)
		})
	case RatingAsc:
		slices.SortStableFunc(out, func(a, b catalog.GameSummary) int {
			return cmp.Compare(a.AggregatedRating, b.AggregatedRating)
		})
	case ReleaseNewest:
		slices.SortStableFunc(out, func(a, b catalog.GameSummary) int {
			return cmp.Compare(b.FirstReleaseDate, a.FirstReleaseDate)
		})
	case ReleaseOldest:
		slices.SortStableFunc(out, func(a, b catalog.GameSummary) int {
			return cmp.Compare(a.FirstReleaseDate, b.FirstReleaseDate)
		})
	case BySimilarity:
		if strings.TrimSpace(query) == "" {
			return out
		}
		return bySimilarity(out, query)
	}

	return out
}

type scored struct {
	game  catalog.GameSummary
	score float64
}

func bySimilarity(games []catalog.GameSummary, query string) []catalog.GameSummary {
	ranked := make([]scored, 0, len(games))
	for _, g := range games {
		if s := Similarity(query, g.Name); s > 0 {
			ranked = append(ranked, scored{game: g, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]catalog.GameSummary, len(ranked))
	for i, r := range ranked {
		out[i] = r.game
	}
	return out
}
