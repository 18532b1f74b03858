package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ryanm101/gamecompare/internal/config"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

const rawgProvider = "rawg"

// RAWGGame is the subset of a RAWG game record passed through the proxy.
type RAWGGame struct {
	ID              int         `json:"id"`
	Slug            string      `json:"slug"`
	Name            string      `json:"name"`
	Released        string      `json:"released,omitempty"`
	Rating          float64     `json:"rating"`
	RatingTop       int         `json:"rating_top,omitempty"`
	Metacritic      int         `json:"metacritic,omitempty"`
	Playtime        int         `json:"playtime"`
	BackgroundImage string      `json:"background_image,omitempty"`
	Genres          []RAWGNamed `json:"genres,omitempty"`
}

// RAWGNamed is a RAWG reference object such as a genre.
type RAWGNamed struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RAWGProvider searches the RAWG games endpoint.
type RAWGProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewRAWGProvider creates a RAWG provider. An empty baseURL uses the public API.
func NewRAWGProvider(apiKey, baseURL string, httpClient *http.Client) *RAWGProvider {
	if baseURL == "" {
		baseURL = config.DefaultRAWGURL
	}
	return &RAWGProvider{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

func (p *RAWGProvider) Name() string {
	return rawgProvider
}

// FirstMatch returns the first RAWG result for title, or upstream.ErrNotFound.
func (p *RAWGProvider) FirstMatch(ctx context.Context, title string) (*RAWGGame, error) {
	if strings.TrimSpace(title) == "" {
		return nil, upstream.ErrMissingArgument
	}

	q := url.Values{}
	q.Set("key", p.apiKey)
	q.Set("search", title)

	var page struct {
		Count   int        `json:"count"`
		Results []RAWGGame `json:"results"`
	}
	if err := upstream.GetJSON(ctx, p.httpClient, rawgProvider, "search", p.baseURL+"?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, &upstream.Error{Provider: rawgProvider, Op: "search", Err: upstream.ErrNotFound}
	}
	return &page.Results[0], nil
}
