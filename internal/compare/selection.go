// Package compare holds the two-game comparison: the bounded selection,
// Steam app id resolution, metric aggregation and the session that joins
// the per-game lookups.
package compare

import (
	"slices"

	"github.com/ryanm101/gamecompare/internal/catalog"
)

// MaxEntries is the capacity of a Selection.
const MaxEntries = 2

// Entry is a game picked for comparison. AppID 0 means the Steam app id is
// not known yet.
type Entry struct {
	AppID int
	Game  catalog.GameSummary
}

// Selection is an immutable, insertion-ordered set of at most two entries.
// The zero value is an empty selection.
type Selection struct {
	entries []Entry
}

// Add returns a selection with e appended. An entry whose non-zero AppID is
// already present leaves the selection unchanged. When full, the oldest
// entry is dropped first.
func (s Selection) Add(e Entry) Selection {
	if e.AppID != 0 && slices.ContainsFunc(s.entries, func(x Entry) bool { return x.AppID == e.AppID }) {
		return s
	}

	kept := s.entries
	if len(kept) >= MaxEntries {
		kept = kept[len(kept)-MaxEntries+1:]
	}

	next := make([]Entry, 0, MaxEntries)
	next = append(next, kept...)
	next = append(next, e)
	return Selection{entries: next}
}

// Clear returns an empty selection.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Entries returns a copy of the entries, oldest first.
func (s Selection) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s Selection) Len() int {
	return len(s.entries)
}

// Full reports whether the selection holds two entries.
func (s Selection) Full() bool {
	return len(s.entries) == MaxEntries
}
