package compare

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/stats"
)

// ResolvedEntry is a compared game with whatever statistics could be found.
type ResolvedEntry struct {
	Game      catalog.GameSummary
	AppID     int
	Metascore int
	Stats     stats.Lookup
}

// Derived holds the per-entry figures computed from the Steam record.
// Every field is 0 when the record is missing.
type Derived struct {
	PlaytimeHours  float64
	PriceDollars   float64
	CostPerHour    float64
	ReviewTotal    int
	ReviewRatio    float64
	OwnersMillions float64
}

// Derive computes the derived figures for e.
func Derive(e ResolvedEntry) Derived {
	if !e.Stats.OK() {
		return Derived{}
	}
	rec := e.Stats.Record

	d := Derived{
		PlaytimeHours:  float64(max(rec.AverageForever, 0)) / 60,
		PriceDollars:   float64(max(rec.PriceCents, 0)) / 100,
		ReviewTotal:    max(rec.Positive, 0) + max(rec.Negative, 0),
		OwnersMillions: ownersMillions(rec.Owners),
	}
	if d.PriceDollars > 0 && d.PlaytimeHours > 0 {
		d.CostPerHour = d.PriceDollars / d.PlaytimeHours
	}
	if d.ReviewTotal > 0 {
		d.ReviewRatio = float64(max(rec.Positive, 0)) / float64(d.ReviewTotal)
	}
	return d
}

var ownersLowerBound = regexp.MustCompile(`\d[\d,]*`)

// ownersMillions parses the lower bound of a SteamSpy owners range such as
// "1,000,000 .. 2,000,000" and returns it in millions.
func ownersMillions(owners string) float64 {
	m := ownersLowerBound.FindString(owners)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0
	}
	return n / 1e6
}

// RowKind says how a MetricRow is read.
type RowKind string

const (
	KindScalar       RowKind = "scalar"
	KindStackedPairs RowKind = "stackedReviewPair"
)

// Metric names in row order.
const (
	MetricUserRating  = "User Rating"
	MetricMetascore   = "Metascore"
	MetricReviews     = "Steam Reviews"
	MetricPlaytime    = "Avg Playtime (hrs)"
	MetricPrice       = "Steam Price ($)"
	MetricCostPerHour = "Cost per Hour ($/hr)"
	MetricOwners      = "Owners (Millions)"
)

// ratingScale is the fixed upper bound of rating rows.
const ratingScale = 100

// ReviewPair is one entry's Steam review counts.
type ReviewPair struct {
	Positive int
	Negative int
	Total    int
	Ratio    float64
}

// Percentages returns the positive and negative shares in percent.
// Both are 0 when there are no reviews.
func (p ReviewPair) Percentages() (positive, negative float64) {
	if p.Total <= 0 {
		return 0, 0
	}
	return float64(p.Positive) * 100 / float64(p.Total), float64(p.Negative) * 100 / float64(p.Total)
}

// MetricRow is one row of a comparison. Values and Reviews are indexed by
// entry position.
type MetricRow struct {
	Metric   string
	Kind     RowKind
	Values   [2]float64
	Reviews  [2]ReviewPair
	MaxValue float64
}

// Aggregate builds the comparison rows for two resolved entries. It is a
// pure function of its inputs.
func Aggregate(a, b ResolvedEntry) []MetricRow {
	da, db := Derive(a), Derive(b)

	scalar := func(metric string, va, vb float64) MetricRow {
		return MetricRow{Metric: metric, Kind: KindScalar, Values: [2]float64{va, vb}, MaxValue: max(va, vb)}
	}
	rating := func(metric string, va, vb float64) MetricRow {
		return MetricRow{Metric: metric, Kind: KindScalar, Values: [2]float64{va, vb}, MaxValue: ratingScale}
	}

	return []MetricRow{
		rating(MetricUserRating, capRating(a.Game.AggregatedRating), capRating(b.Game.AggregatedRating)),
		rating(MetricMetascore, float64(a.Metascore), float64(b.Metascore)),
		{
			Metric:  MetricReviews,
			Kind:    KindStackedPairs,
			Reviews: [2]ReviewPair{reviewPair(a, da), reviewPair(b, db)},
		},
		scalar(MetricPlaytime, da.PlaytimeHours, db.PlaytimeHours),
		scalar(MetricPrice, da.PriceDollars, db.PriceDollars),
		scalar(MetricCostPerHour, da.CostPerHour, db.CostPerHour),
		scalar(MetricOwners, da.OwnersMillions, db.OwnersMillions),
	}
}

// AggregateEntries is Aggregate over a slice; it returns nil unless exactly
// two entries are given.
func AggregateEntries(entries []ResolvedEntry) []MetricRow {
	if len(entries) != MaxEntries {
		return nil
	}
	return Aggregate(entries[0], entries[1])
}

func reviewPair(e ResolvedEntry, d Derived) ReviewPair {
	if !e.Stats.OK() {
		return ReviewPair{}
	}
	return ReviewPair{
		Positive: max(e.Stats.Record.Positive, 0),
		Negative: max(e.Stats.Record.Negative, 0),
		Total:    d.ReviewTotal,
		Ratio:    d.ReviewRatio,
	}
}

func capRating(v float64) float64 {
	return min(max(v, 0), ratingScale)
}
