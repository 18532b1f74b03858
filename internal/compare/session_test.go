package compare

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/stats"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) SteamStats(ctx context.Context, appID int) stats.Lookup {
	args := m.Called(ctx, appID)
	return args.Get(0).(stats.Lookup)
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, term string) ([]stats.Candidate, error) {
	args := m.Called(ctx, term)
	cands, _ := args.Get(0).([]stats.Candidate)
	return cands, args.Error(1)
}

func TestSession_CompareResolvesAndAggregates(t *testing.T) {
	fetcher := new(mockFetcher)
	searcher := new(mockSearcher)

	searcher.On("Search", mock.Anything, "Portal").
		Return([]stats.Candidate{{Name: "Portal 2", ID: 620, Metascore: 95}, {Name: "Portal", ID: 400, Metascore: 90}}, nil)
	fetcher.On("SteamStats", mock.Anything, 400).
		Return(stats.Found(stats.Record{AppID: 400, Positive: 9, Negative: 1, PriceCents: 999, AverageForever: 180}))
	fetcher.On("SteamStats", mock.Anything, 220).
		Return(stats.Found(stats.Record{AppID: 220, Positive: 1, Negative: 1}))

	s := NewSession(fetcher, searcher)
	s.Add(Entry{Game: catalog.GameSummary{Name: "Portal", AggregatedRating: 88}})
	s.Add(Entry{AppID: 220, Game: catalog.GameSummary{Name: "Half-Life 2", AggregatedRating: 96}})

	cmp, err := s.Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 400, cmp.Entries[0].AppID)
	assert.Equal(t, 90, cmp.Entries[0].Metascore)
	assert.Equal(t, 220, cmp.Entries[1].AppID)
	assert.Zero(t, cmp.Entries[1].Metascore)

	require.Len(t, cmp.Rows, 7)
	assert.Equal(t, [2]float64{88, 96}, cmp.Rows[0].Values)
	assert.Equal(t, [2]float64{90, 0}, cmp.Rows[1].Values)

	slots := s.Slots()
	require.NotNil(t, slots[0])
	require.NotNil(t, slots[1])
	assert.Equal(t, 400, slots[0].AppID)

	searcher.AssertNumberOfCalls(t, "Search", 1)
	fetcher.AssertExpectations(t)
}

func TestSession_CompareIncomplete(t *testing.T) {
	s := NewSession(new(mockFetcher), new(mockSearcher))

	_, err := s.Compare(context.Background())
	assert.ErrorIs(t, err, ErrIncompleteSelection)

	s.Add(entry(1, "A"))
	_, err = s.Compare(context.Background())
	assert.ErrorIs(t, err, ErrIncompleteSelection)
}

func TestSession_FailuresBecomeValues(t *testing.T) {
	fetcher := new(mockFetcher)
	searcher := new(mockSearcher)

	searcher.On("Search", mock.Anything, "Broken").Return(nil, errors.New("relay down"))
	searcher.On("Search", mock.Anything, "Obscure").Return([]stats.Candidate{}, nil)

	s := NewSession(fetcher, searcher)
	s.Add(entry(0, "Broken"))
	s.Add(entry(0, "Obscure"))

	cmp, err := s.Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, upstream.StatusError, cmp.Entries[0].Stats.Status)
	assert.Equal(t, stats.MsgFetchFailed, cmp.Entries[0].Stats.Message)
	assert.Equal(t, upstream.StatusNotFound, cmp.Entries[1].Stats.Status)
	assert.Equal(t, stats.MsgNoAppID, cmp.Entries[1].Stats.Message)
	assert.Zero(t, cmp.Entries[1].AppID)

	for _, row := range cmp.Rows[2:] {
		assert.Equal(t, [2]float64{}, row.Values, row.Metric)
	}
	fetcher.AssertNotCalled(t, "SteamStats", mock.Anything, mock.Anything)
}

// gatedFetcher blocks every fetch until release is closed.
type gatedFetcher struct {
	started chan int
	release chan struct{}
}

func (g *gatedFetcher) SteamStats(_ context.Context, appID int) stats.Lookup {
	g.started <- appID
	<-g.release
	return stats.Found(stats.Record{AppID: appID})
}

func TestSession_StaleResultsDiscarded(t *testing.T) {
	g := &gatedFetcher{started: make(chan int, 2), release: make(chan struct{})}
	s := NewSession(g, new(mockSearcher))
	s.Add(entry(1, "A"))
	s.Add(entry(2, "B"))

	type result struct {
		cmp *Comparison
		err error
	}
	done := make(chan result, 1)
	go func() {
		cmp, err := s.Compare(context.Background())
		done <- result{cmp, err}
	}()

	for range 2 {
		select {
		case <-g.started:
		case <-time.After(5 * time.Second):
			t.Fatal("fetches did not start")
		}
	}

	s.Add(entry(3, "C"))
	close(g.release)

	res := <-done
	assert.ErrorIs(t, res.err, ErrStaleSelection)
	assert.Nil(t, res.cmp)
	assert.Equal(t, [MaxEntries]*ResolvedEntry{}, s.Slots(), "stale results must not land in slots")
	assert.Equal(t, []Entry{entry(2, "B"), entry(3, "C")}, s.Selection().Entries())
}

func TestSession_FetchesRunConcurrently(t *testing.T) {
	g := &gatedFetcher{started: make(chan int, 2), release: make(chan struct{})}
	s := NewSession(g, new(mockSearcher))
	s.Add(entry(1, "A"))
	s.Add(entry(2, "B"))

	var wg sync.WaitGroup
	wg.Add(1)
	var cmp *Comparison
	var err error
	go func() {
		defer wg.Done()
		cmp, err = s.Compare(context.Background())
	}()

	// Both fetches must be in flight before either is released.
	seen := map[int]bool{}
	for range 2 {
		select {
		case id := <-g.started:
			seen[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("fetches were not concurrent")
		}
	}
	close(g.release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true}, seen)
	assert.Equal(t, 1, cmp.Entries[0].AppID)
	assert.Equal(t, 2, cmp.Entries[1].AppID)
}

func TestSession_DuplicateAddKeepsGeneration(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("SteamStats", mock.Anything, 1).Return(stats.Found(stats.Record{AppID: 1}))
	fetcher.On("SteamStats", mock.Anything, 2).Return(stats.Found(stats.Record{AppID: 2}))

	s := NewSession(fetcher, new(mockSearcher))
	s.Add(entry(1, "A"))
	s.Add(entry(2, "B"))
	_, err := s.Compare(context.Background())
	require.NoError(t, err)

	s.Add(entry(2, "B"))
	assert.NotNil(t, s.Slots()[0], "no-op add must keep completed slots")

	s.Clear()
	assert.Equal(t, 0, s.Selection().Len())
	assert.Nil(t, s.Slots()[0])
}

func TestSession_LookupSingleGame(t *testing.T) {
	fetcher := new(mockFetcher)
	searcher := new(mockSearcher)
	searcher.On("Search", mock.Anything, "Half-Life 2").
		Return([]stats.Candidate{{Name: "Half-Life 2", ID: 220, Metascore: 96}, {Name: "Half-Life", ID: 70}}, nil)
	fetcher.On("SteamStats", mock.Anything, 220).Return(stats.Failed(stats.MsgFetchFailed))

	s := NewSession(fetcher, searcher)
	got := s.Lookup(context.Background(), entry(0, "Half-Life 2"))

	assert.Equal(t, 220, got.AppID)
	assert.Equal(t, 96, got.Metascore)
	assert.Equal(t, upstream.StatusError, got.Stats.Status)
	assert.Equal(t, 0, s.Selection().Len(), "lookup must not touch the selection")
}
