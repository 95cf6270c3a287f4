// Package xlsx opens .xlsx and .xlsm workbooks as a sheet.Book using
// excelize.
package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/TsubasaBE/go-timesheet/sheet"
)

// Book is an open workbook. It implements sheet.Book.
type Book struct {
	f *excelize.File
}

// Open opens the named workbook. The caller must Close the book.
func Open(name string) (*Book, error) {
	f, err := excelize.OpenFile(name)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", name, err)
	}
	return &Book{f: f}, nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader) (*Book, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	return &Book{f: f}, nil
}

// Close releases the temporary files excelize may hold.
func (b *Book) Close() error {
	return b.f.Close()
}

// SheetNames implements sheet.Book.
func (b *Book) SheetNames() []string {
	return b.f.GetSheetList()
}

// Date1904 reports whether serials in the workbook count from 1904.
func (b *Book) Date1904() bool {
	props, err := b.f.GetWorkbookProps()
	return err == nil && props.Date1904 != nil && *props.Date1904
}

// Sheet implements sheet.Book.
func (b *Book) Sheet(name string) (sheet.Sheet, error) {
	if idx, err := b.f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("xlsx: sheet %q not found", name)
	}
	rng, err := b.f.GetSheetDimension(name)
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", name, err)
	}
	rows, err := b.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", name, err)
	}
	// Excel declares A1 for sheets without cells.
	if len(rows) == 0 {
		rng = ""
	}
	return &Sheet{f: b.f, name: name, rng: rng}, nil
}

// Sheet is one worksheet of a Book. Cells are read on demand.
type Sheet struct {
	f    *excelize.File
	name string
	rng  string
}

// Name implements sheet.Sheet.
func (s *Sheet) Name() string { return s.name }

// Range implements sheet.Sheet.
func (s *Sheet) Range() string { return s.rng }

// Cell implements sheet.Sheet. Numbers are returned as float64 and every
// other value as its stored text; booleans read "TRUE" or "FALSE". A cell
// with a formula is Derived and holds the result cached in the file.
func (s *Sheet) Cell(addr string) (sheet.Cell, bool) {
	raw, err := s.f.GetCellValue(s.name, addr, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return sheet.Cell{}, false
	}
	typ, err := s.f.GetCellType(s.name, addr)
	if err != nil {
		return sheet.Cell{}, false
	}
	formula, err := s.f.GetCellFormula(s.name, addr)
	if err != nil {
		return sheet.Cell{}, false
	}
	return sheet.Cell{Value: value(typ, raw), Derived: formula != ""}, true
}

func value(typ excelize.CellType, raw string) any {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case excelize.CellTypeBool:
		if raw == "1" {
			return "TRUE"
		}
		return "FALSE"
	}
	return raw
}
