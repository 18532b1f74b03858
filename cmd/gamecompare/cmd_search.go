package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/ranking"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

var errPageOutOfRange = errors.New("page out of range")

type searchOptions struct {
	sort     string
	page     int
	pageSize int
}

// searchPage is the JSON shape of one page of search results.
type searchPage struct {
	Query      string                `json:"query"`
	Sort       ranking.SortMode      `json:"sort"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Total      int                   `json:"total"`
	Games      []catalog.GameSummary `json:"games"`
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search the catalog and page through ranked results",
		Example: `  gamecompare search "half life" --sort similarity
  gamecompare search zelda --sort release-newest --page 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No --sort keeps the catalog's relevance order.
			var mode ranking.SortMode
			if opts.sort != "" {
				m, err := ranking.ParseSortMode(opts.sort)
				if err != nil {
					return fmt.Errorf("%w (valid: %s)", err, sortModeList())
				}
				mode = m
			}
			if opts.pageSize <= 0 {
				opts.pageSize = cfg.GetPageSize()
			}

			title := strings.Join(args, " ")
			res := proxyClient().SearchGames(cmd.Context(), title)
			switch res.Status {
			case upstream.StatusNotFound:
				PrintInfo("%s\n", warn(res.Message))
				return nil
			case upstream.StatusError:
				return errors.New(res.Message)
			}

			page, err := buildPage(title, res.Games, mode, opts.page, opts.pageSize)
			if err != nil {
				return err
			}
			printPage(page)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.sort, "sort", "s", "", "Sort mode: "+sortModeList())
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Results per page (default from config)")
	return cmd
}

// buildPage ranks games and cuts out the requested page.
func buildPage(query string, games []catalog.GameSummary, mode ranking.SortMode, number, size int) (searchPage, error) {
	sorted := ranking.Sort(games, mode, query)
	out := searchPage{
		Query:      query,
		Sort:       mode,
		Page:       number,
		TotalPages: ranking.TotalPages(len(sorted), size),
		Total:      len(sorted),
		Games:      ranking.Page(sorted, size, number),
	}
	if out.Games == nil {
		if out.Total == 0 {
			out.Games = []catalog.GameSummary{}
			return out, nil
		}
		return out, fmt.Errorf("%w: page %d of %d", errPageOutOfRange, number, out.TotalPages)
	}
	return out, nil
}

func printPage(p searchPage) {
	if outputCfg.JSON {
		PrintResult(p)
		return
	}
	if p.Total == 0 {
		PrintInfo("%s\n", warn("No results match the query"))
		return
	}

	headers := []string{"ID", "Name", "Released", "Rating", "Age", "Match"}
	rows := make([][]string, 0, len(p.Games))
	for _, g := range p.Games {
		rows = append(rows, gameRow(p.Query, g))
	}
	PrintTable(headers, rows)
	PrintInfo("%s\n", dim(fmt.Sprintf("Page %d of %d (%d results)", p.Page, p.TotalPages, p.Total)))
}

func gameRow(query string, g catalog.GameSummary) []string {
	rating := catalog.NotAvailable
	if g.AggregatedRating > 0 {
		rating = formatNumber(g.AggregatedRating)
	}
	return []string{
		strconv.Itoa(g.ID),
		g.Name,
		catalog.ReleaseDate(g.FirstReleaseDate),
		rating,
		catalog.AgeRatingLabel(g.AgeRating),
		fmt.Sprintf("%.0f%%", ranking.Similarity(query, g.Name)*100),
	}
}

func sortModeList() string {
	names := make([]string, 0, len(ranking.SortModes))
	for _, m := range ranking.SortModes {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
