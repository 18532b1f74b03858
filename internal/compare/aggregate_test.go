package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/stats"
)

func resolved(name string, rating float64, metascore int, rec *stats.Record) ResolvedEntry {
	e := ResolvedEntry{
		Game:      catalog.GameSummary{Name: name, AggregatedRating: rating},
		Metascore: metascore,
		Stats:     stats.NotFound(stats.MsgNoAppID),
	}
	if rec != nil {
		e.AppID = rec.AppID
		e.Stats = stats.Found(*rec)
	}
	return e
}

func rowByMetric(t *testing.T, rows []MetricRow, metric string) MetricRow {
	t.Helper()
	for _, r := range rows {
		if r.Metric == metric {
			return r
		}
	}
	require.Failf(t, "missing row", "metric %q", metric)
	return MetricRow{}
}

func TestDerive(t *testing.T) {
	d := Derive(resolved("Portal 2", 95, 95, &stats.Record{
		AppID:          620,
		Positive:       900,
		Negative:       100,
		PriceCents:     999,
		AverageForever: 600,
		Owners:         "10,000,000 .. 20,000,000",
	}))

	assert.InDelta(t, 10.0, d.PlaytimeHours, 1e-9)
	assert.InDelta(t, 9.99, d.PriceDollars, 1e-9)
	assert.InDelta(t, 0.999, d.CostPerHour, 1e-9)
	assert.Equal(t, 1000, d.ReviewTotal)
	assert.InDelta(t, 0.9, d.ReviewRatio, 1e-9)
	assert.InDelta(t, 10.0, d.OwnersMillions, 1e-9)
}

func TestDerive_FreeGameHasNoCostPerHour(t *testing.T) {
	d := Derive(resolved("Free", 0, 0, &stats.Record{PriceCents: 0, AverageForever: 120}))

	assert.Zero(t, d.CostPerHour)
	assert.InDelta(t, 2.0, d.PlaytimeHours, 1e-9)
}

func TestDerive_NoPlaytimeHasNoCostPerHour(t *testing.T) {
	d := Derive(resolved("Unplayed", 0, 0, &stats.Record{PriceCents: 1999}))

	assert.Zero(t, d.CostPerHour)
	assert.InDelta(t, 19.99, d.PriceDollars, 1e-9)
}

func TestDerive_NoReviews(t *testing.T) {
	d := Derive(resolved("Quiet", 0, 0, &stats.Record{}))

	assert.Zero(t, d.ReviewTotal)
	assert.Zero(t, d.ReviewRatio)
}

func TestDerive_MissingStats(t *testing.T) {
	assert.Equal(t, Derived{}, Derive(resolved("Unknown", 80, 0, nil)))

	failed := ResolvedEntry{Stats: stats.Failed(stats.MsgFetchFailed)}
	assert.Equal(t, Derived{}, Derive(failed))
}

func TestOwnersMillions(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,000,000 .. 2,000,000", 1},
		{"500,000 .. 1,000,000", 0.5},
		{"0 .. 20,000", 0},
		{"", 0},
		{"unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ownersMillions(tt.in), 1e-9)
		})
	}
}

func TestAggregate_RowsInOrder(t *testing.T) {
	a := resolved("A", 80, 85, &stats.Record{AppID: 1, Positive: 75, Negative: 25, PriceCents: 2000, AverageForever: 300, Owners: "2,000,000 .. 5,000,000"})
	b := resolved("B", 120, 70, &stats.Record{AppID: 2, Positive: 10, Negative: 0, PriceCents: 0, AverageForever: 900})

	rows := Aggregate(a, b)

	metrics := make([]string, len(rows))
	for i, r := range rows {
		metrics[i] = r.Metric
	}
	assert.Equal(t, []string{
		MetricUserRating, MetricMetascore, MetricReviews, MetricPlaytime,
		MetricPrice, MetricCostPerHour, MetricOwners,
	}, metrics)

	user := rowByMetric(t, rows, MetricUserRating)
	assert.Equal(t, [2]float64{80, 100}, user.Values, "rating is capped at 100")
	assert.InDelta(t, 100.0, user.MaxValue, 1e-9)

	meta := rowByMetric(t, rows, MetricMetascore)
	assert.Equal(t, [2]float64{85, 70}, meta.Values)
	assert.InDelta(t, 100.0, meta.MaxValue, 1e-9)

	reviews := rowByMetric(t, rows, MetricReviews)
	assert.Equal(t, KindStackedPairs, reviews.Kind)
	assert.Equal(t, ReviewPair{Positive: 75, Negative: 25, Total: 100, Ratio: 0.75}, reviews.Reviews[0])
	assert.Equal(t, ReviewPair{Positive: 10, Negative: 0, Total: 10, Ratio: 1}, reviews.Reviews[1])

	playtime := rowByMetric(t, rows, MetricPlaytime)
	assert.Equal(t, [2]float64{5, 15}, playtime.Values)
	assert.InDelta(t, 15.0, playtime.MaxValue, 1e-9)

	cost := rowByMetric(t, rows, MetricCostPerHour)
	assert.Equal(t, [2]float64{4, 0}, cost.Values)
	assert.InDelta(t, 4.0, cost.MaxValue, 1e-9)

	owners := rowByMetric(t, rows, MetricOwners)
	assert.Equal(t, [2]float64{2, 0}, owners.Values)
}

func TestAggregate_BothWithoutReviews(t *testing.T) {
	rows := Aggregate(
		resolved("A", 0, 0, &stats.Record{AppID: 1}),
		resolved("B", 0, 0, &stats.Record{AppID: 2}),
	)

	reviews := rowByMetric(t, rows, MetricReviews)
	assert.Zero(t, reviews.Reviews[0].Ratio)
	assert.Zero(t, reviews.Reviews[1].Ratio)
}

func TestAggregate_SameNameKeepsPositions(t *testing.T) {
	rows := Aggregate(
		resolved("Doom", 0, 0, &stats.Record{AppID: 1, PriceCents: 500}),
		resolved("Doom", 0, 0, &stats.Record{AppID: 2, PriceCents: 2000}),
	)

	assert.Equal(t, [2]float64{5, 20}, rowByMetric(t, rows, MetricPrice).Values)
}

func TestAggregate_IsDeterministic(t *testing.T) {
	a := resolved("A", 50, 60, &stats.Record{AppID: 1, Positive: 3, PriceCents: 100, AverageForever: 60})
	b := resolved("B", 70, 0, nil)

	assert.Equal(t, Aggregate(a, b), Aggregate(a, b))
}

func TestAggregateEntries(t *testing.T) {
	a := resolved("A", 1, 0, nil)

	assert.Nil(t, AggregateEntries(nil))
	assert.Nil(t, AggregateEntries([]ResolvedEntry{a}))
	assert.Nil(t, AggregateEntries([]ResolvedEntry{a, a, a}))
	assert.Len(t, AggregateEntries([]ResolvedEntry{a, a}), 7)
}

func TestReviewPair_Percentages(t *testing.T) {
	pos, neg := ReviewPair{Positive: 3, Negative: 1, Total: 4}.Percentages()
	assert.InDelta(t, 75.0, pos, 1e-9)
	assert.InDelta(t, 25.0, neg, 1e-9)

	pos, neg = ReviewPair{}.Percentages()
	assert.Zero(t, pos)
	assert.Zero(t, neg)
}
