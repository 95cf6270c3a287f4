package cli

import (
	"errors"
	"fmt"
	"strings"

	timesheet "github.com/TsubasaBE/go-timesheet"
	"github.com/TsubasaBE/go-timesheet/internal/config"
	"github.com/TsubasaBE/go-timesheet/internal/service"
	"github.com/TsubasaBE/go-timesheet/sheet"
	"github.com/TsubasaBE/go-timesheet/spent"
	"github.com/TsubasaBE/go-timesheet/youtrack"
)

var (
	errNoBaseURL = errors.New("no YouTrack base URL configured")
	errNoToken   = errors.New("no YouTrack token configured")
)

// cliError is an error presented with a headline and a hint.
type cliError struct {
	msg  string
	err  error
	hint string
}

func (e *cliError) Error() string { return e.msg + ": " + e.err.Error() }

func (e *cliError) Unwrap() error { return e.err }

// report prints err as
//
//	Error: <headline>
//	Details: <err>
//	Hint: <what to do>
func (a *app) report(err error) {
	ce := explain(err)
	w := a.deps.Stderr
	_, _ = fmt.Fprintf(w, "Error: %s\n", ce.msg)
	_, _ = fmt.Fprintf(w, "Details: %v\n", ce.err)
	if ce.hint != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", ce.hint)
	}
}

func explain(err error) *cliError {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce
	}
	var sheetErr *sheet.Error
	switch {
	case errors.As(err, &sheetErr):
		return &cliError{msg: "The workbook is not a valid time sheet", err: err,
			hint: fmt.Sprintf("Correct sheet %s and run the command again", sheetErr.Sheet)}
	case errors.Is(err, service.ErrNoWeekSheets):
		return &cliError{msg: "Nothing to read", err: err,
			hint: "Time is read from sheets whose names start with " + sheet.DefaultPrefix}
	case errors.Is(err, spent.ErrUnmatchedSpentTime):
		return &cliError{msg: "Booked time does not match the time sheet", err: err,
			hint: "Record the time in the workbook or correct the work item in YouTrack"}
	case errors.Is(err, timesheet.ErrUnsupportedFormat):
		return &cliError{msg: "Unsupported file", err: err,
			hint: "Supported workbooks are .xlsx, .xlsm, .xltx, .xltm and .xlsb"}
	case errors.Is(err, errNoBaseURL):
		return &cliError{msg: "YouTrack is not configured", err: err,
			hint: "Set youtrack.base_url in the config file or TIMESHEET_YOUTRACK_BASE_URL"}
	case errors.Is(err, errNoToken):
		return &cliError{msg: "YouTrack is not configured", err: err,
			hint: "Set a permanent token in TIMESHEET_YOUTRACK_TOKEN or in a .env file"}
	case errors.Is(err, youtrack.ErrUnauthorized):
		return &cliError{msg: "YouTrack rejected the token", err: err,
			hint: "Set a permanent token in TIMESHEET_YOUTRACK_TOKEN or in a .env file"}
	case errors.Is(err, youtrack.ErrNotFound):
		return &cliError{msg: "An issue of the time sheet does not exist on YouTrack", err: err,
			hint: "Check the issue ids in column E"}
	case errors.Is(err, config.ErrExists):
		return &cliError{msg: "Configuration file already exists", err: err,
			hint: "Use --force to overwrite it"}
	case isUsage(err):
		return &cliError{msg: "Invalid arguments", err: err,
			hint: "Run 'timesheet --help' for usage"}
	}
	return &cliError{msg: "Command failed", err: err}
}

// isUsage recognises the argument and flag errors cobra returns.
func isUsage(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand", "accepts ", "requires ", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
