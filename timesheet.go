// Package timesheet reconciles weekly time sheets kept in a spreadsheet with
// the time already booked on a YouTrack server.
//
// # Quick start
//
//	book, err := timesheet.Open("Hours.xlsx")
//	if err != nil { ... }
//	defer book.Close()
//
//	for e, err := range sheet.Parse(book) {
//	    if err != nil { ... }
//	    fmt.Println(e.Date.Format(time.DateOnly), e.Title, e.DurationMinutes)
//	}
//
// Workbooks are read through the [sheet.Book] interface. [Open] picks the
// reader from the file extension: [xlsx] for Office Open XML workbooks and
// [workbook] for binary .xlsb workbooks. Both keep the formula flag of every
// cell, which the parser needs to tell fixed from computed periods.
//
// The timesheet command in cmd/timesheet wires the parser to the [youtrack]
// client and prints what is still to be booked.
package timesheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/TsubasaBE/go-timesheet/sheet"
	"github.com/TsubasaBE/go-timesheet/workbook"
	"github.com/TsubasaBE/go-timesheet/xlsx"
)

// Version is the current version of go-timesheet.
const Version = "1.1.0"

// ErrUnsupportedFormat is returned by Open for unknown file extensions.
var ErrUnsupportedFormat = errors.New("timesheet: unsupported workbook format")

// Book is an open workbook. Close releases the underlying file.
type Book interface {
	sheet.Book
	io.Closer
	// Date1904 reports whether serials count from 1904 instead of 1900.
	Date1904() bool
}

// Open opens the named workbook, choosing the reader from its extension.
func Open(name string) (Book, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return openXLSX(name)
	case ".xlsb":
		return openXLSB(name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func openXLSX(name string) (Book, error) {
	b, err := xlsx.Open(name)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func openXLSB(name string) (Book, error) {
	wb, err := workbook.Open(name)
	if err != nil {
		return nil, err
	}
	return wb, nil
}

// Supported reports whether Open can read files with the given name.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm", ".xlsb":
		return true
	}
	return false
}
