// Package catalog searches the game catalog providers (IGDB and RAWG) and
// normalizes their results into GameSummary values.
package catalog

import (
	"context"
	"encoding/json"

	"github.com/ryanm101/gamecompare/internal/upstream"
)

// GameSummary is one catalog search result.
type GameSummary struct {
	ID               int
	Name             string
	FirstReleaseDate int64   // Unix seconds, 0 when absent
	AggregatedRating float64 // 0-100, 0 when absent
	AgeRating        int     // ESRB-style code, 0 when absent
	CoverURL         string
}

// wireGame is the IGDB-shaped JSON form served by the proxy.
type wireGame struct {
	ID               int             `json:"id,omitempty"`
	Name             string          `json:"name"`
	FirstReleaseDate int64           `json:"first_release_date,omitempty"`
	AggregatedRating float64         `json:"aggregated_rating,omitempty"`
	AgeRatings       []wireAgeRating `json:"age_ratings,omitempty"`
	Cover            *wireCover      `json:"cover,omitempty"`
}

type wireAgeRating struct {
	Rating int `json:"rating"`
}

type wireCover struct {
	URL string `json:"url"`
}

// MarshalJSON encodes the summary in the IGDB game shape.
func (g GameSummary) MarshalJSON() ([]byte, error) {
	w := wireGame{
		ID:               g.ID,
		Name:             g.Name,
		FirstReleaseDate: g.FirstReleaseDate,
		AggregatedRating: g.AggregatedRating,
	}
	if g.AgeRating != 0 {
		w.AgeRatings = []wireAgeRating{{Rating: g.AgeRating}}
	}
	if g.CoverURL != "" {
		w.Cover = &wireCover{URL: g.CoverURL}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the IGDB game shape. Only the first age rating is kept.
func (g *GameSummary) UnmarshalJSON(data []byte) error {
	var w wireGame
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*g = GameSummary{
		ID:               w.ID,
		Name:             w.Name,
		FirstReleaseDate: w.FirstReleaseDate,
		AggregatedRating: w.AggregatedRating,
	}
	if len(w.AgeRatings) > 0 {
		g.AgeRating = w.AgeRatings[0].Rating
	}
	if w.Cover != nil {
		g.CoverURL = w.Cover.URL
	}
	return nil
}

// SearchResult is a catalog search outcome as seen through the proxy.
type SearchResult struct {
	Status  upstream.Status
	Games   []GameSummary
	Message string
}

// Provider defines the interface for catalog search.
type Provider interface {
	// Name returns the provider name (e.g., "igdb").
	Name() string
	// Search finds games matching the title.
	Search(ctx context.Context, title string) ([]GameSummary, error)
}
