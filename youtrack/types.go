package youtrack

import (
	"iter"
	"time"

	"github.com/TsubasaBE/go-timesheet/spent"
)

// User is the account a token belongs to.
type User struct {
	ID    string `json:"id"`
	Login string `json:"login,omitempty"`
}

// Ref is a reference to another entity by its database id.
type Ref struct {
	ID string `json:"id"`
}

// Duration is the length of a work item.
type Duration struct {
	Minutes int `json:"minutes"`
}

// WorkType is the category of a work item.
type WorkType struct {
	Name string `json:"name"`
}

// WorkItem is time booked on an issue.
type WorkItem struct {
	Creator  Ref       `json:"creator"`
	Date     int64     `json:"date"` // unix milliseconds
	Duration Duration  `json:"duration"`
	Issue    Ref       `json:"issue"`
	Text     string    `json:"text"`
	Type     *WorkType `json:"type"`
}

// Issue is the part of an issue shown next to pending entries.
type Issue struct {
	ID      string `json:"idReadable"`
	Summary string `json:"summary"`
}

// Entry converts w to a spent entry. The date is taken as the UTC day of
// the work item.
func (w WorkItem) Entry() spent.Entry {
	d := time.UnixMilli(w.Date).UTC()
	e := spent.Entry{
		Date:            time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		Title:           w.Issue.ID,
		Comments:        spent.SplitComments(w.Text),
		DurationMinutes: w.Duration.Minutes,
	}
	if w.Type != nil {
		e.Type = w.Type.Name
	}
	return e
}

// Entries yields items converted with WorkItem.Entry.
func Entries(items []WorkItem) iter.Seq[spent.Entry] {
	return func(yield func(spent.Entry) bool) {
		for _, w := range items {
			if !yield(w.Entry()) {
				return
			}
		}
	}
}
