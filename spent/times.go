package spent

import (
	"iter"
	"slices"
	"time"
)

// Times is the working set of entries that have not been reported yet.
//
// A Times is not safe for concurrent use; independent instances are.
type Times struct {
	rounding Rounding
	window   bool
	order    []Key // first-seen order of keys still or once present
	entries  map[Key]*Entry
}

// Option configures a Times.
type Option func(*Times)

// WithoutWindow makes Subtract consider every remote entry. By default remote
// entries dated before the earliest local entry are counted as outside the
// reporting window and left alone.
func WithoutWindow() Option {
	return func(t *Times) { t.window = false }
}

// SubtractStats summarises one Subtract call.
type SubtractStats struct {
	// Matched is the number of remote entries subtracted from local ones.
	Matched int `json:"matched" yaml:"matched"`
	// OutsideWindow is the number of remote entries dated before the
	// earliest local entry, which were not subtracted.
	OutsideWindow int `json:"outsideWindow" yaml:"outsideWindow"`
	// Removed is the number of local entries that reached zero minutes.
	Removed int `json:"removed" yaml:"removed"`
}

// New folds local into a Times, merging entries with equal keys, and rounds
// every merged duration to rounding.
func New(local iter.Seq[Entry], rounding Rounding, opts ...Option) *Times {
	t := &Times{
		rounding: rounding,
		window:   true,
		entries:  make(map[Key]*Entry),
	}
	for _, opt := range opts {
		opt(t)
	}

	for e := range local {
		t.add(e)
	}
	for _, e := range t.entries {
		e.DurationMinutes = t.rounding.Round(e.DurationMinutes)
	}
	return t
}

// Rounding returns the unit durations are rounded to.
func (t *Times) Rounding() Rounding { return t.rounding }

// Len returns the number of entries left.
func (t *Times) Len() int { return len(t.entries) }

// UniqueTitles returns the distinct titles of the remaining entries in
// first-seen order.
func (t *Times) UniqueTitles() []string {
	seen := make(map[string]bool)
	var titles []string
	for _, k := range t.order {
		if _, ok := t.entries[k]; !ok || seen[k.Title] {
			continue
		}
		seen[k.Title] = true
		titles = append(titles, k.Title)
	}
	return titles
}

// EarliestDate returns the date of the oldest remaining entry, or false when
// there are none.
func (t *Times) EarliestDate() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, e := range t.entries {
		if !found || e.Date.Before(earliest) {
			earliest, found = e.Date, true
		}
	}
	return earliest, found
}

// TotalMinutes sums the remaining durations.
func (t *Times) TotalMinutes() int {
	total := 0
	for _, e := range t.entries {
		total += e.DurationMinutes
	}
	return total
}

// Subtract removes time already reported to the server. Each remote entry is
// rounded like the local ones and must match a local entry with at least as
// much time left; otherwise Subtract stops with an *UnmatchedError. Local
// entries that reach zero are removed.
//
// Entries already subtracted before the failing one stay subtracted, so a
// Times that returned an error should be discarded.
func (t *Times) Subtract(remote iter.Seq[Entry]) (SubtractStats, error) {
	var stats SubtractStats
	earliest, hasLocal := t.EarliestDate()

	for r := range remote {
		if t.window && hasLocal && r.Date.Before(earliest) {
			stats.OutsideWindow++
			continue
		}

		key := r.Key()
		minutes := t.rounding.Round(r.DurationMinutes)
		local, ok := t.entries[key]
		if !ok || local.DurationMinutes < minutes {
			err := &UnmatchedError{Title: r.Title, Date: r.Date, Remote: minutes}
			if ok {
				err.Local = local.DurationMinutes
			}
			return stats, err
		}

		local.DurationMinutes -= minutes
		stats.Matched++
		if local.DurationMinutes == 0 {
			delete(t.entries, key)
			stats.Removed++
		}
	}
	return stats, nil
}

// Entries returns copies of the remaining entries ordered by Compare.
func (t *Times) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		c := *e
		c.Comments = slices.Clone(e.Comments)
		out = append(out, c)
	}
	slices.SortFunc(out, Compare)
	return out
}

func (t *Times) add(e Entry) {
	key := e.Key()
	if existing, ok := t.entries[key]; ok {
		existing.DurationMinutes += e.DurationMinutes
		for _, c := range e.Comments {
			existing.Comments = appendComment(existing.Comments, c)
		}
		return
	}

	stored := e
	stored.Comments = nil
	for _, c := range e.Comments {
		stored.Comments = appendComment(stored.Comments, c)
	}
	t.entries[key] = &stored
	t.order = append(t.order, key)
}
