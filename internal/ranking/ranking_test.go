package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamecompare/internal/catalog"
)

func TestLCSLength(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "halo", 0},
		{"halo", "", 0},
		{"halo", "halo", 4},
		{"HALO", "halo", 4},
		{"abcde", "ace", 3},
		{"mario", "Super Mario Bros", 5},
		{"abc", "xyz", 0},
		{"Pokémon", "POKÉMON", 7},
	}

	for _, tc := range tests {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.expected, LCSLength(tc.a, tc.b))
		})
	}
}

func TestLCSLength_SelfIsLength(t *testing.T) {
	for _, s := range []string{"a", "Halo", "The Legend of Zelda", "ゼルダの伝説"} {
		assert.Equal(t, len([]rune(s)), LCSLength(s, s), s)
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 5.0/16.0, Similarity("mario", "Super Mario Bros"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("Super Mario Bros", "mario"), 1e-9)
	assert.NotEqual(t, Similarity("mario", "Super Mario Bros"), Similarity("Super Mario Bros", "mario"))

	assert.Equal(t, Similarity("MARIO", "super mario bros"), Similarity("mario", "Super Mario Bros"))
	assert.Zero(t, Similarity("mario", ""))
	assert.Zero(t, Similarity("", "Mario"))
}

func games(specs ...catalog.GameSummary) []catalog.GameSummary { return specs }

func names(gs []catalog.GameSummary) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Name
	}
	return out
}

func TestSort_Rating(t *testing.T) {
	in := games(
		catalog.GameSummary{Name: "A", AggregatedRating: 70},
		catalog.GameSummary{Name: "B", AggregatedRating: 90},
		catalog.GameSummary{Name: "C"},
		catalog.GameSummary{Name: "D", AggregatedRating: 80},
	)

	desc := Sort(in, RatingDesc, "")
	asc := Sort(in, RatingAsc, "")

	assert.Equal(t, []string{"B", "D", "A", "C"}, names(desc))
	assert.Equal(t, []string{"C", "A", "D", "B"}, names(asc))
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(in), "input must not be mutated")
}

func TestSort_RatingDescAscReversed(t *testing.T) {
	in := games(
		catalog.GameSummary{Name: "w", AggregatedRating: 12},
		catalog.GameSummary{Name: "x", AggregatedRating: 88},
		catalog.GameSummary{Name: "y", AggregatedRating: 50.5},
		catalog.GameSummary{Name: "z", AggregatedRating: 73},
	)

	desc := names(Sort(in, RatingDesc, ""))
	asc := names(Sort(in, RatingAsc, ""))

	for i := range desc {
		assert.Equal(t, desc[i], asc[len(asc)-1-i])
	}
}

func TestSort_Release(t *testing.T) {
	in := games(
		catalog.GameSummary{Name: "old", FirstReleaseDate: 100},
		catalog.GameSummary{Name: "unknown"},
		catalog.GameSummary{Name: "new", FirstReleaseDate: 300},
	)

	assert.Equal(t, []string{"new", "old", "unknown"}, names(Sort(in, ReleaseNewest, "")))
	assert.Equal(t, []string{"unknown", "old", "new"}, names(Sort(in, ReleaseOldest, "")))
}

func TestSort_Similarity(t *testing.T) {
	in := games(
		catalog.GameSummary{Name: "Super Mario Bros"},
		catalog.GameSummary{Name: "Zzz"},
		catalog.GameSummary{Name: "Mario"},
		catalog.GameSummary{Name: ""},
		catalog.GameSummary{Name: "Mario Kart"},
	)

	out := Sort(in, BySimilarity, "mario")

	assert.Equal(t, []string{"Mario", "Mario Kart", "Super Mario Bros"}, names(out))
}

func TestSort_SimilarityBlankQuery(t *testing.T) {
	in := games(
		catalog.GameSummary{Name: "B"},
		catalog.GameSummary{Name: "A"},
	)

	assert.Equal(t, []string{"B", "A"}, names(Sort(in, BySimilarity, "   ")))
	assert.Equal(t, []string{"B", "A"}, names(Sort(in, BySimilarity, "")))
}

func TestSort_UnknownModeKeepsOrder(t *testing.T) {
	in := games(
		catalog.GameSummary{Name: "B", AggregatedRating: 1},
		catalog.GameSummary{Name: "A", AggregatedRating: 2},
	)

	out := Sort(in, SortMode("bogus"), "")
	assert.Equal(t, []string{"B", "A"}, names(out))

	out[0].Name = "changed"
	assert.Equal(t, "B", in[0].Name, "result must be a copy")
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SortMode
		wantErr bool
	}{
		{"rating-desc", RatingDesc, false},
		{"Rating-Asc", RatingAsc, false},
		{"release-newest", ReleaseNewest, false},
		{"release-oldest", ReleaseOldest, false},
		{"similarity", BySimilarity, false},
		{"rating", RatingDesc, false},
		{"release", ReleaseNewest, false},
		{"alphabetical", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSortMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Page(items, 3, 1))
	assert.Equal(t, []int{4, 5, 6}, Page(items, 3, 2))
	assert.Equal(t, []int{7}, Page(items, 3, 3))
	assert.Empty(t, Page(items, 3, 4))
	assert.Empty(t, Page(items, 3, 0))
	assert.Empty(t, Page(items, 0, 1))
	assert.Empty(t, Page([]int{}, 5, 1))
}

func TestPage_HugeInputs(t *testing.T) {
	items := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		assert.Empty(t, Page(items, 2, math.MaxInt))
		assert.Empty(t, Page(items, math.MaxInt, 2))
	})
	assert.Equal(t, items, Page(items, math.MaxInt, 1))
	assert.Equal(t, []int{3}, Page(items, 2, 2))
}

func TestPage_ConcatenationReconstructs(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	for size := 1; size <= len(items)+2; size++ {
		var rebuilt []int
		for n := 1; n <= TotalPages(len(items), size); n++ {
			rebuilt = append(rebuilt, Page(items, size, n)...)
		}
		assert.Equal(t, items, rebuilt, "page size %d", size)
	}
}

func TestPage_AppendDoesNotClobber(t *testing.T) {
	items := []int{1, 2, 3, 4}

	first := Page(items, 2, 1)
	_ = append(first, 99)

	assert.Equal(t, []int{1, 2, 3, 4}, items)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 2, TotalPages(6, 5))
	assert.Equal(t, 3, TotalPages(3, 1))
	assert.Equal(t, 0, TotalPages(3, 0))
	assert.Equal(t, math.MaxInt/2+1, TotalPages(math.MaxInt, 2))
	assert.Equal(t, 1, TotalPages(math.MaxInt, math.MaxInt))
	assert.Equal(t, math.MaxInt, TotalPages(math.MaxInt, 1))
}

func TestHaloScenario(t *testing.T) {
	results := games(
		catalog.GameSummary{ID: 1, Name: "Halo: Combat Evolved", AggregatedRating: 70},
		catalog.GameSummary{ID: 2, Name: "Halo 3", AggregatedRating: 90},
		catalog.GameSummary{ID: 3, Name: "Halo 2", AggregatedRating: 80},
	)

	sorted := Sort(results, RatingDesc, "Halo")
	require.Len(t, sorted, 3)

	ratings := []float64{sorted[0].AggregatedRating, sorted[1].AggregatedRating, sorted[2].AggregatedRating}
	assert.Equal(t, []float64{90, 80, 70}, ratings)

	first := Page(sorted, 2, 1)
	second := Page(sorted, 2, 2)

	assert.Equal(t, []int{2, 3}, []int{first[0].ID, first[1].ID})
	require.Len(t, second, 1)
	assert.Equal(t, 1, second[0].ID)
	assert.Equal(t, 2, TotalPages(len(sorted), 2))
}
