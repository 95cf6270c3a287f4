// Package worksheet decodes one worksheet part of an .xlsb workbook into an
// addressable grid of cells.
package worksheet

import (
	"fmt"

	"github.com/TsubasaBE/go-timesheet/biff12"
	"github.com/TsubasaBE/go-timesheet/record"
	"github.com/TsubasaBE/go-timesheet/sheet"
	"github.com/TsubasaBE/go-timesheet/stringtable"
)

// Excel limits, 0-based.
const (
	maxRow = 0xFFFFF
	maxCol = 0x3FFF
)

// Dimension is the used range declared by a worksheet, 0-based.
type Dimension struct {
	R, C int // top-left cell
	H, W int // number of rows and columns
}

// String renders d as an A1-style range such as "A1:G42".
func (d Dimension) String() string {
	return sheet.RangeName(d.R, d.C, d.R+d.H-1, d.C+d.W-1)
}

type pos struct{ row, col int }

// Worksheet is a decoded worksheet. It implements sheet.Sheet.
type Worksheet struct {
	name string
	// Dimension is nil when the part declares no used range.
	Dimension *Dimension
	cells     map[pos]sheet.Cell
}

// Parse decodes a worksheet part. strs resolves shared string indices and
// may be nil.
//
// Numbers and dates become float64 values, text, booleans and error codes
// become strings. Cells holding a formula result are marked Derived. Blank
// cells are dropped.
func Parse(name string, part []byte, strs stringtable.Table) (*Worksheet, error) {
	ws := &Worksheet{name: name, cells: make(map[pos]sheet.Cell)}
	row := -1
	inData := false

	for rec, err := range record.All(part) {
		if err != nil {
			return nil, fmt.Errorf("worksheet %q: %w", name, err)
		}
		switch {
		case rec.ID == biff12.Dimension:
			d, err := parseDimension(rec.Data)
			if err != nil {
				return nil, fmt.Errorf("worksheet %q: %w", name, err)
			}
			if d != nil {
				ws.Dimension = d
			}
		case rec.ID == biff12.SheetData:
			inData = true
		case rec.ID == biff12.SheetDataEnd:
			return ws, nil
		case rec.ID == biff12.Row && inData:
			r, err := record.NewPayload(rec.Data).Uint32()
			if err != nil || r > maxRow {
				row = -1
				continue
			}
			row = int(r)
		case biff12.IsCell(rec.ID) && inData && row >= 0:
			col, c, ok := parseCell(rec.ID, rec.Data, strs)
			if ok {
				ws.cells[pos{row, col}] = c
			}
		}
	}
	return ws, nil
}

// Name implements sheet.Sheet.
func (ws *Worksheet) Name() string { return ws.name }

// Range implements sheet.Sheet. It is "" when no used range is declared or
// the sheet holds no cells; Excel declares A1 for empty sheets.
func (ws *Worksheet) Range() string {
	if ws.Dimension == nil || len(ws.cells) == 0 {
		return ""
	}
	return ws.Dimension.String()
}

// Cell implements sheet.Sheet.
func (ws *Worksheet) Cell(addr string) (sheet.Cell, bool) {
	r, c, ok := sheet.ParseCell(addr)
	if !ok {
		return sheet.Cell{}, false
	}
	cell, ok := ws.cells[pos{r, c}]
	return cell, ok
}

// Len returns the number of non-blank cells.
func (ws *Worksheet) Len() int { return len(ws.cells) }

// parseDimension decodes first row, last row, first column and last column.
// A truncated record is ignored.
func parseDimension(data []byte) (*Dimension, error) {
	p := record.NewPayload(data)
	var v [4]uint32
	for i := range v {
		n, err := p.Uint32()
		if err != nil {
			return nil, nil
		}
		v[i] = n
	}
	r1, r2, c1, c2 := v[0], v[1], v[2], v[3]
	if r2 < r1 || c2 < c1 || r2 > maxRow || c2 > maxCol {
		return nil, fmt.Errorf("dimension rows %d-%d, columns %d-%d out of range", r1, r2, c1, c2)
	}
	return &Dimension{R: int(r1), C: int(c1), H: int(r2-r1) + 1, W: int(c2-c1) + 1}, nil
}

// errorCodes maps cell error codes to their display text.
var errorCodes = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
	0x2B: "#GETTING_DATA",
}

func errorText(b byte) string {
	if s, ok := errorCodes[b]; ok {
		return s
	}
	return fmt.Sprintf("#ERR%02X", b)
}

func boolText(b byte) string {
	if b != 0 {
		return "TRUE"
	}
	return "FALSE"
}

// parseCell decodes a cell record: column, style, then the value. It
// reports false for blank cells and unreadable values.
func parseCell(id int, data []byte, strs stringtable.Table) (int, sheet.Cell, bool) {
	p := record.NewPayload(data)
	col, err := p.Uint32()
	if err != nil || col > maxCol {
		return 0, sheet.Cell{}, false
	}
	if err := p.Skip(4); err != nil {
		return 0, sheet.Cell{}, false
	}

	var v any
	switch id {
	case biff12.Num:
		v, err = p.RK()
	case biff12.Float, biff12.FormulaFloat:
		v, err = p.Double()
	case biff12.String:
		var idx uint32
		if idx, err = p.Uint32(); err == nil {
			s, ok := strs.Lookup(idx)
			if !ok {
				return 0, sheet.Cell{}, false
			}
			v = s
		}
	case biff12.FormulaString:
		v, err = p.WideString()
	case biff12.Bool, biff12.FormulaBool:
		var b byte
		if b, err = p.Uint8(); err == nil {
			v = boolText(b)
		}
	case biff12.BoolErr, biff12.FormulaBoolErr:
		var b byte
		if b, err = p.Uint8(); err == nil {
			v = errorText(b)
		}
	default:
		return 0, sheet.Cell{}, false
	}
	if err != nil {
		return 0, sheet.Cell{}, false
	}
	return int(col), sheet.Cell{Value: v, Derived: biff12.IsFormula(id)}, true
}
