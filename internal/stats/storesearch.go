package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ryanm101/gamecompare/internal/config"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

const storeProvider = "steamstore"

// StoreSearchProvider searches the Steam storefront for app ids by title.
// When a relay URL is set, requests go through an allorigins-style relay
// that wraps the storefront body as {"contents": "<json>"}.
type StoreSearchProvider struct {
	searchURL  string
	relayURL   string
	httpClient *http.Client
}

// NewStoreSearchProvider creates a storefront search provider.
func NewStoreSearchProvider(searchURL, relayURL string, httpClient *http.Client) *StoreSearchProvider {
	if searchURL == "" {
		searchURL = config.DefaultStoreSearchURL
	}
	return &StoreSearchProvider{searchURL: searchURL, relayURL: relayURL, httpClient: httpClient}
}

type storeItem struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Metascore flexInt `json:"metascore"`
}

type storeResponse struct {
	Total int         `json:"total"`
	Items []storeItem `json:"items"`
}

// Search returns the storefront candidates for term, in storefront order.
// No hits is not an error.
func (p *StoreSearchProvider) Search(ctx context.Context, term string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("term", term)
	q.Set("l", "english")
	q.Set("cc", "US")
	target := p.searchURL + "?" + q.Encode()

	var resp storeResponse
	if p.relayURL == "" {
		if err := upstream.GetJSON(ctx, p.httpClient, storeProvider, "search", target, &resp); err != nil {
			return nil, err
		}
	} else {
		var relayed struct {
			Contents string `json:"contents"`
		}
		rq := url.Values{}
		rq.Set("url", target)
		if err := upstream.GetJSON(ctx, p.httpClient, storeProvider, "relay search", p.relayURL+"?"+rq.Encode(), &relayed); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(relayed.Contents), &resp); err != nil {
			return nil, &upstream.Error{Provider: storeProvider, Op: "relay search", Err: fmt.Errorf("failed to decode relayed body: %w", err)}
		}
	}

	out := make([]Candidate, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, Candidate{ID: it.ID, Name: it.Name, Metascore: int(it.Metascore)})
	}
	return out, nil
}
