package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/client"
	"github.com/ryanm101/gamecompare/internal/compare"
	"github.com/ryanm101/gamecompare/internal/stats"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

// gameInfo is the JSON shape of the info command.
type gameInfo struct {
	Game      catalog.GameSummary `json:"game"`
	CoverURL  string              `json:"cover_url,omitempty"`
	AppID     int                 `json:"appid"`
	Metascore int                 `json:"metascore,omitempty"`
	Steam     *stats.Record       `json:"steam,omitempty"`
	RAWG      *catalog.RAWGGame   `json:"rawg,omitempty"`
	Messages  []string            `json:"messages,omitempty"`
}

func newInfoCmd() *cobra.Command {
	var (
		appID  int
		direct bool
	)

	cmd := &cobra.Command{
		Use:   "info <title>",
		Short: "Show catalog, RAWG and Steam details for one game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := proxyClient()

			game, err := findGame(ctx, c, strings.Join(args, " "))
			if err != nil {
				return err
			}

			session := compare.NewSession(statsFetcher(direct), storeSearcher())
			var (
				resolved compare.ResolvedEntry
				rawg     client.RAWGResult
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				resolved = session.Lookup(gctx, compare.Entry{AppID: appID, Game: game})
				return nil
			})
			g.Go(func() error {
				rawg = c.RAWG(gctx, game.Name)
				return nil
			})
			_ = g.Wait()

			printInfo(buildInfo(resolved, rawg))
			return nil
		},
	}

	cmd.Flags().IntVar(&appID, "appid", 0, "Steam app id (skips resolution)")
	cmd.Flags().BoolVar(&direct, "direct", false, "Query SteamSpy directly instead of through the proxy")
	return cmd
}

func buildInfo(e compare.ResolvedEntry, rawg client.RAWGResult) gameInfo {
	info := gameInfo{
		Game:      e.Game,
		CoverURL:  catalog.CoverImageURL(e.Game.CoverURL),
		AppID:     e.AppID,
		Metascore: e.Metascore,
		Steam:     e.Stats.Record,
	}
	if !e.Stats.OK() {
		info.Messages = append(info.Messages, "Steam: "+e.Stats.Message)
	}
	if rawg.Status == upstream.StatusFound {
		info.RAWG = rawg.Game
	} else {
		info.Messages = append(info.Messages, "RAWG: "+rawg.Message)
	}
	return info
}

func printInfo(info gameInfo) {
	if outputCfg.JSON {
		PrintResult(info)
		return
	}

	rating := catalog.NotAvailable
	if info.Game.AggregatedRating > 0 {
		rating = formatNumber(info.Game.AggregatedRating)
	}
	rows := [][]string{
		{"Name", info.Game.Name},
		{"Released", catalog.ReleaseDate(info.Game.FirstReleaseDate)},
		{compare.MetricUserRating, rating},
		{"Age Rating", catalog.AgeRatingLabel(info.Game.AgeRating)},
	}
	if info.CoverURL != "" {
		rows = append(rows, []string{"Cover", info.CoverURL})
	}
	if info.AppID > 0 {
		rows = append(rows, []string{"Steam App ID", strconv.Itoa(info.AppID)})
	}
	if info.Metascore > 0 {
		rows = append(rows, []string{"Metascore", strconv.Itoa(info.Metascore)})
	}

	if r := info.Steam; r != nil && r.Name != "" {
		d := compare.Derive(compare.ResolvedEntry{Stats: stats.Found(*r)})
		rows = append(rows,
			[]string{"Developer", orNA(r.Developer)},
			[]string{"Publisher", orNA(r.Publisher)},
			[]string{"Owners", orNA(r.Owners)},
			[]string{compare.MetricReviews, reviewCell(compare.ReviewPair{
				Positive: r.Positive, Negative: r.Negative, Total: d.ReviewTotal, Ratio: d.ReviewRatio,
			}, false)},
			[]string{compare.MetricPlaytime, formatNumber(d.PlaytimeHours)},
			[]string{compare.MetricPrice, formatNumber(d.PriceDollars)},
		)
	}

	if g := info.RAWG; g != nil {
		genres := make([]string, 0, len(g.Genres))
		for _, genre := range g.Genres {
			genres = append(genres, genre.Name)
		}
		rows = append(rows,
			[]string{"RAWG Rating", formatNumber(g.Rating)},
			[]string{"Genres", orNA(strings.Join(genres, ", "))},
			[]string{"RAWG Playtime (hrs)", strconv.Itoa(g.Playtime)},
		)
		if g.Metacritic > 0 {
			rows = append(rows, []string{"Metacritic", strconv.Itoa(g.Metacritic)})
		}
	}

	PrintTable([]string{"Field", "Value"}, rows)
	for _, m := range info.Messages {
		PrintInfo("%s\n", warn(m))
	}
}

func orNA(s string) string {
	if s == "" {
		return catalog.NotAvailable
	}
	return s
}
