package compare

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/metrics"
	"github.com/ryanm101/gamecompare/internal/stats"
	"github.com/ryanm101/gamecompare/internal/tracing"
)

// Session errors.
var (
	ErrIncompleteSelection = errors.New("comparison needs exactly two games")
	ErrStaleSelection      = errors.New("selection changed while comparing")
)

// StatsFetcher fetches the Steam record for an app id. Failures are
// reported through the returned Lookup.
type StatsFetcher interface {
	SteamStats(ctx context.Context, appID int) stats.Lookup
}

// StoreSearcher searches the storefront for app id candidates.
type StoreSearcher interface {
	Search(ctx context.Context, term string) ([]stats.Candidate, error)
}

// Comparison is the joined result of a Compare run.
type Comparison struct {
	Entries [MaxEntries]ResolvedEntry
	Rows    []MetricRow
}

// Session owns the current selection and runs comparisons over it.
// The selection is replaced wholesale on every change; each change bumps a
// generation so lookups started for an older selection are discarded.
type Session struct {
	fetcher  StatsFetcher
	searcher StoreSearcher
	log      *slog.Logger

	mu         sync.Mutex
	selection  Selection
	generation uint64
	slots      [MaxEntries]*ResolvedEntry
}

// NewSession creates an empty session.
func NewSession(fetcher StatsFetcher, searcher StoreSearcher) *Session {
	return &Session{
		fetcher:  fetcher,
		searcher: searcher,
		log:      logging.For("compare"),
	}
}

// Add adds e to the selection and returns the new snapshot.
func (s *Session) Add(e Entry) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.selection.Add(e)
	if !sameEntries(next, s.selection) {
		s.replace(next)
	}
	return s.selection
}

// Clear empties the selection.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(s.selection.Clear())
}

// Selection returns the current snapshot.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Slots returns the per-entry results completed so far for the current
// selection. Nil slots are still outstanding.
func (s *Session) Slots() [MaxEntries]*ResolvedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots
}

// must hold mu
func (s *Session) replace(next Selection) {
	s.selection = next
	s.generation++
	s.slots = [MaxEntries]*ResolvedEntry{}
}

// Compare resolves and fetches both selected games concurrently, then
// aggregates them. It returns ErrIncompleteSelection unless two games are
// selected, and ErrStaleSelection if the selection changed before both
// lookups finished.
func (s *Session) Compare(ctx context.Context) (*Comparison, error) {
	s.mu.Lock()
	sel, gen := s.selection, s.generation
	s.mu.Unlock()

	if !sel.Full() {
		metrics.RecordComparison("incomplete")
		return nil, ErrIncompleteSelection
	}

	ctx, span := tracing.StartSpan(ctx, "compare.session")
	defer span.End()

	entries := sel.Entries()
	var results [MaxEntries]ResolvedEntry

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			r := s.Lookup(gctx, e)
			results[i] = r
			s.store(gen, i, r)
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	stale := s.generation != gen
	s.mu.Unlock()
	if stale {
		metrics.RecordComparison("stale")
		s.log.Debug("discarding stale comparison", "generation", gen)
		tracing.RecordError(span, ErrStaleSelection)
		return nil, ErrStaleSelection
	}

	metrics.RecordComparison("complete")
	return &Comparison{Entries: results, Rows: Aggregate(results[0], results[1])}, nil
}

func (s *Session) store(gen uint64, slot int, r ResolvedEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	s.slots[slot] = &r
}

// Lookup resolves the Steam app id for e when missing and fetches its
// statistics. It never fails: problems are reported in the Stats field.
func (s *Session) Lookup(ctx context.Context, e Entry) ResolvedEntry {
	ctx, span := tracing.StartSpan(ctx, "compare.lookup",
		tracing.WithAttributes(attribute.String("game.name", e.Game.Name), attribute.Int("steam.appid", e.AppID)))
	defer span.End()

	out := ResolvedEntry{Game: e.Game, AppID: e.AppID}

	if out.AppID == 0 {
		candidates, err := s.searcher.Search(ctx, e.Game.Name)
		if err != nil {
			s.log.Warn("storefront search failed", "game", e.Game.Name, "error", err)
			tracing.RecordError(span, err)
			metrics.RecordResolution("error")
			out.Stats = stats.Failed(stats.MsgFetchFailed)
			return out
		}

		m, err := Resolve(e.Game.Name, candidates)
		if err != nil {
			metrics.RecordResolution("none")
			out.Stats = stats.NotFound(stats.MsgNoAppID)
			return out
		}
		metrics.RecordResolution(string(m.Tier))
		s.log.Debug("resolved steam app", "game", e.Game.Name, "match", m.Name, "appid", m.ID, "tier", m.Tier)

		out.AppID, out.Metascore = m.ID, m.Metascore
		if out.AppID == 0 {
			out.Stats = stats.NotFound(stats.MsgNoAppID)
			return out
		}
	}

	out.Stats = s.fetcher.SteamStats(ctx, out.AppID)
	return out
}

func sameEntries(a, b Selection) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.entries {
		if a.entries[i] != b.entries[i] {
			return false
		}
	}
	return true
}
