// Package workbook opens .xlsb workbooks (a ZIP package of BIFF12 parts) as
// a sheet.Book.
package workbook

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/TsubasaBE/go-timesheet/biff12"
	"github.com/TsubasaBE/go-timesheet/internal/rels"
	"github.com/TsubasaBE/go-timesheet/record"
	"github.com/TsubasaBE/go-timesheet/sheet"
	"github.com/TsubasaBE/go-timesheet/stringtable"
	"github.com/TsubasaBE/go-timesheet/worksheet"
)

const (
	workbookPart = "xl/workbook.bin"
	stringsPart  = "xl/sharedStrings.bin"
)

// entry locates one sheet inside the package.
type entry struct {
	name string
	path string
}

// Workbook is an open .xlsb workbook. It implements sheet.Book.
type Workbook struct {
	closer   io.Closer // set when opened from a file
	zr       *zip.Reader
	sheets   []entry
	strs     stringtable.Table
	date1904 bool
}

// Open opens the named .xlsb file. The caller must Close the workbook.
func Open(name string) (*Workbook, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("workbook: open %q: %w", name, err)
	}
	wb := &Workbook{closer: rc, zr: &rc.Reader}
	if err := wb.load(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("workbook: %q: %w", name, err)
	}
	return wb, nil
}

// OpenReader reads a workbook of size bytes from r.
func OpenReader(r io.ReaderAt, size int64) (*Workbook, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	wb := &Workbook{zr: zr}
	if err := wb.load(); err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	return wb, nil
}

// Close releases the file opened by Open. It is a no-op for OpenReader.
func (wb *Workbook) Close() error {
	if wb.closer != nil {
		return wb.closer.Close()
	}
	return nil
}

// SheetNames implements sheet.Book.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	return names
}

// Date1904 reports whether date serials count from 1904-01-01 rather than
// from the 1900 epoch.
func (wb *Workbook) Date1904() bool { return wb.date1904 }

// Sheet implements sheet.Book. Names are matched exactly first, then without
// regard to case. The sheet part is decoded on every call.
func (wb *Workbook) Sheet(name string) (sheet.Sheet, error) {
	ws, err := wb.Worksheet(name)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// Worksheet decodes the named sheet.
func (wb *Workbook) Worksheet(name string) (*worksheet.Worksheet, error) {
	e, ok := wb.find(name)
	if !ok {
		return nil, fmt.Errorf("workbook: sheet %q not found", name)
	}
	data, err := wb.read(e.path)
	if err != nil {
		return nil, fmt.Errorf("workbook: sheet %q: %w", name, err)
	}
	return worksheet.Parse(e.name, data, wb.strs)
}

func (wb *Workbook) find(name string) (entry, bool) {
	for _, e := range wb.sheets {
		if e.name == name {
			return e, true
		}
	}
	for _, e := range wb.sheets {
		if strings.EqualFold(e.name, name) {
			return e, true
		}
	}
	return entry{}, false
}

func (wb *Workbook) load() error {
	targets, err := wb.rels(workbookPart)
	if err != nil {
		return err
	}
	data, err := wb.read(workbookPart)
	if err != nil {
		return err
	}

	for rec, err := range record.All(data) {
		if err != nil {
			return err
		}
		if rec.ID == biff12.SheetsEnd {
			break
		}
		switch rec.ID {
		case biff12.WorkbookPr:
			flags, err := record.NewPayload(rec.Data).Uint32()
			if err == nil {
				wb.date1904 = flags&0x01 != 0
			}
		case biff12.Sheet:
			e, err := parseSheet(rec.Data, targets)
			if err != nil {
				return err
			}
			wb.sheets = append(wb.sheets, e)
		}
	}

	// The shared string part is absent from workbooks without text cells.
	if data, err := wb.read(stringsPart); err == nil {
		if wb.strs, err = stringtable.Parse(data); err != nil {
			return err
		}
	}
	return nil
}

// parseSheet decodes a bundle sheet record: visibility flags, sheet id,
// relationship id and name.
func parseSheet(data []byte, targets map[string]string) (entry, error) {
	p := record.NewPayload(data)
	if err := p.Skip(8); err != nil {
		return entry{}, fmt.Errorf("sheet record: %w", err)
	}
	relID, err := p.WideString()
	if err != nil {
		return entry{}, fmt.Errorf("sheet record: %w", err)
	}
	name, err := p.WideString()
	if err != nil {
		return entry{}, fmt.Errorf("sheet record: %w", err)
	}
	target, ok := targets[relID]
	if !ok {
		return entry{}, fmt.Errorf("sheet %q: no relationship %q", name, relID)
	}
	return entry{name: name, path: rels.Resolve(workbookPart, target)}, nil
}

func (wb *Workbook) rels(part string) (map[string]string, error) {
	data, err := wb.read(rels.For(part))
	if err != nil {
		return nil, err
	}
	return rels.Parse(data)
}

func (wb *Workbook) read(name string) ([]byte, error) {
	f, err := wb.zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	return data, nil
}
