package main

import (
	"context"
	"fmt"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/compare"
	"github.com/ryanm101/gamecompare/internal/ranking"
	"github.com/ryanm101/gamecompare/internal/stats"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

// gameSearcher is the catalog side of the proxy client.
type gameSearcher interface {
	SearchGames(ctx context.Context, title string) catalog.SearchResult
}

// pickGame chooses the result whose name best matches title, falling back
// to the catalog's first result when nothing shares a character with it.
func pickGame(title string, games []catalog.GameSummary) (catalog.GameSummary, bool) {
	if len(games) == 0 {
		return catalog.GameSummary{}, false
	}
	if ranked := ranking.Sort(games, ranking.BySimilarity, title); len(ranked) > 0 {
		return ranked[0], true
	}
	return games[0], true
}

// findGame searches the catalog and picks the best match for title.
func findGame(ctx context.Context, s gameSearcher, title string) (catalog.GameSummary, error) {
	res := s.SearchGames(ctx, title)
	if res.Status != upstream.StatusFound {
		return catalog.GameSummary{}, fmt.Errorf("%q: %s", title, res.Message)
	}

	g, ok := pickGame(title, res.Games)
	if !ok {
		return catalog.GameSummary{}, fmt.Errorf("%q: %s", title, stats.MsgNoResults)
	}
	return g, nil
}

// statsFetcher returns the SteamSpy source: the proxy, or SteamSpy itself
// when direct is set.
func statsFetcher(direct bool) compare.StatsFetcher {
	if direct {
		return stats.NewSteamSpyProvider(cfg.GetSteamSpyURL(), httpClient())
	}
	return proxyClient()
}

func storeSearcher() compare.StoreSearcher {
	return stats.NewStoreSearchProvider(cfg.GetStoreSearchURL(), cfg.Store.RelayURL, httpClient())
}
