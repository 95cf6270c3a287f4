// Package spent holds the spent-time entry model and the engine that
// reconciles locally recorded entries with those already reported to an
// issue tracker.
//
// # Quick start
//
//	times := spent.New(local, spent.Rounding15)
//	stats, err := times.Subtract(remote)
//	if err != nil { ... }
//	for _, e := range times.Entries() {
//	    fmt.Println(e.Date.Format(time.DateOnly), e.Title, e.DurationMinutes)
//	}
package spent

import (
	"slices"
	"strings"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a single parsed entry.
const MinutesPerDay = 24 * 60

// Entry is working time spent on one issue (or one absence) on one day.
type Entry struct {
	// Date is UTC midnight of the day the work was done.
	Date time.Time `json:"date" yaml:"date"`
	// Title is usually the issue id assigned by the tracker, e.g. "FB-42".
	Title string `json:"title" yaml:"title"`
	// Type is the work category; empty when the entry has none.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// IsPaidAbsence is set for holiday and other paid absence rows.
	IsPaidAbsence bool `json:"isPaidAbsence" yaml:"isPaidAbsence"`
	// Comments is an ordered set of distinct, trimmed comment lines.
	Comments []string `json:"comments" yaml:"comments"`
	// DurationMinutes is the number of minutes spent.
	DurationMinutes int `json:"durationMinutes" yaml:"durationMinutes"`
}

// Key identifies the logical entry an Entry belongs to. Entries with equal
// keys are merged.
type Key struct {
	Date  int64 // unix milliseconds of Entry.Date
	Title string
	Type  string
}

// Key returns the merge key of e.
func (e Entry) Key() Key {
	return Key{Date: e.Date.UnixMilli(), Title: e.Title, Type: e.Type}
}

// IsIssue reports whether the title looks like an issue key ("ABC-123").
func (e Entry) IsIssue() bool {
	return IsIssueKey(e.Title)
}

// IsIssueKey reports whether title contains the issue-key separator.
func IsIssueKey(title string) bool {
	return strings.Contains(title, "-")
}

// SplitComments splits text on newlines and returns the trimmed, non-empty,
// distinct lines in order of first appearance.
func SplitComments(text string) []string {
	var out []string
	for line := range strings.SplitSeq(text, "\n") {
		out = appendComment(out, line)
	}
	return out
}

// appendComment adds the trimmed comment to list unless it is empty or
// already present.
func appendComment(list []string, comment string) []string {
	comment = strings.TrimSpace(comment)
	if comment == "" || slices.Contains(list, comment) {
		return list
	}
	return append(list, comment)
}

// Compare orders entries by date, then title, then type. An absent type
// sorts before any named type.
func Compare(a, b Entry) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return strings.Compare(a.Type, b.Type)
}
