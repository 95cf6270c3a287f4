package spent

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnmatchedSpentTime is matched by errors.Is for every *UnmatchedError.
var ErrUnmatchedSpentTime = errors.New("unmatched spent time")

// UnmatchedError reports a remote entry that has no local counterpart, or
// claims more time than the local counterpart has left.
type UnmatchedError struct {
	Title string
	Date  time.Time
	// Remote is the rounded remote duration, Local the remaining local one
	// (zero when there is no local entry for the key).
	Remote int
	Local  int
}

// Error implements the error interface.
func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("Spent time entries for issue %s on %s cannot be matched to the Excel file.",
		e.Title, e.Date.UTC().Format(time.DateOnly))
}

// Is implements errors.Is support.
func (e *UnmatchedError) Is(target error) bool {
	return target == ErrUnmatchedSpentTime
}
