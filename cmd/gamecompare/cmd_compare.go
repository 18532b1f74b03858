package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/compare"
	"github.com/ryanm101/gamecompare/internal/stats"
)

type compareOptions struct {
	appIDs  [compare.MaxEntries]int
	direct  bool
	percent bool
}

// comparisonOutput is the JSON shape of a comparison.
type comparisonOutput struct {
	Games []comparedGame      `json:"games"`
	Rows  []compare.MetricRow `json:"rows"`
}

type comparedGame struct {
	Name      string        `json:"name"`
	AppID     int           `json:"appid"`
	Metascore int           `json:"metascore,omitempty"`
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Stats     *stats.Record `json:"stats,omitempty"`
}

func newCompareCmd() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <title> <title>",
		Short: "Compare two games side by side",
		Example: `  gamecompare compare "Half-Life 2" "Portal"
  gamecompare compare hades celeste --appid1 1145360`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := proxyClient()

			var games [compare.MaxEntries]catalog.GameSummary
			g, gctx := errgroup.WithContext(ctx)
			for i, title := range args {
				g.Go(func() error {
					game, err := findGame(gctx, c, title)
					games[i] = game
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			session := compare.NewSession(statsFetcher(opts.direct), storeSearcher())
			for i, game := range games {
				session.Add(compare.Entry{AppID: opts.appIDs[i], Game: game})
			}

			PrintInfo("%s\n", dim(fmt.Sprintf("Comparing %s and %s...", games[0].Name, games[1].Name)))
			result, err := session.Compare(ctx)
			if err != nil {
				return err
			}
			printComparison(result, opts.percent)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.appIDs[0], "appid1", 0, "Steam app id of the first game (skips resolution)")
	cmd.Flags().IntVar(&opts.appIDs[1], "appid2", 0, "Steam app id of the second game (skips resolution)")
	cmd.Flags().BoolVar(&opts.direct, "direct", false, "Query SteamSpy directly instead of through the proxy")
	cmd.Flags().BoolVar(&opts.percent, "percent", false, "Show Steam reviews as percentages")
	return cmd
}

func printComparison(c *compare.Comparison, percent bool) {
	if outputCfg.JSON {
		out := comparisonOutput{Rows: c.Rows}
		for _, e := range c.Entries {
			out.Games = append(out.Games, comparedGame{
				Name:      e.Game.Name,
				AppID:     e.AppID,
				Metascore: e.Metascore,
				Status:    e.Stats.Status.String(),
				Message:   e.Stats.Message,
				Stats:     e.Stats.Record,
			})
		}
		PrintResult(out)
		return
	}

	headers := []string{"Metric", c.Entries[0].Game.Name, c.Entries[1].Game.Name}
	rows := make([][]string, 0, len(c.Rows))
	for _, r := range c.Rows {
		cells := metricCells(r, percent)
		rows = append(rows, []string{r.Metric, cells[0], cells[1]})
	}
	PrintTable(headers, rows)

	for _, e := range c.Entries {
		if !e.Stats.OK() {
			PrintInfo("%s: %s\n", e.Game.Name, failure(e.Stats.Message))
		}
	}
}

// lowerIsBetter lists the metrics where the smaller value wins.
var lowerIsBetter = map[string]bool{
	compare.MetricPrice:       true,
	compare.MetricCostPerHour: true,
}

// metricCells formats both values of a row and highlights the better one.
// Zero values are shown as N/A and never win.
func metricCells(r compare.MetricRow, percent bool) [compare.MaxEntries]string {
	var cells [compare.MaxEntries]string

	if r.Kind == compare.KindStackedPairs {
		for i, p := range r.Reviews {
			cells[i] = reviewCell(p, percent)
		}
		if w := winner(r.Reviews[0].Ratio, r.Reviews[1].Ratio, false); w >= 0 {
			cells[w] = highlight(cells[w])
		}
		return cells
	}

	for i, v := range r.Values {
		cells[i] = catalog.NotAvailable
		if v > 0 {
			cells[i] = formatNumber(v)
		}
	}
	if w := winner(r.Values[0], r.Values[1], lowerIsBetter[r.Metric]); w >= 0 {
		cells[w] = highlight(cells[w])
	}
	return cells
}

func reviewCell(p compare.ReviewPair, percent bool) string {
	if p.Total == 0 {
		return catalog.NotAvailable
	}
	if percent {
		pos, neg := p.Percentages()
		return fmt.Sprintf("%s%% / %s%%", formatNumber(pos), formatNumber(neg))
	}
	return fmt.Sprintf("%s / %s (%s%%)", strconv.Itoa(p.Positive), strconv.Itoa(p.Negative), formatNumber(p.Ratio*100))
}

// winner returns the index of the better value, or -1 when there is none.
func winner(a, b float64, lower bool) int {
	if a <= 0 || b <= 0 || a == b {
		return -1
	}
	if (a > b) != lower {
		return 0
	}
	return 1
}
