// Package sheet validates weekly time sheets and extracts the spent-time
// entries recorded in them.
//
// A weekly sheet spans columns A to G. Rows 1 to 4 hold headers; every row
// from 5 on describes one period of work or paid absence:
//
//	A  holiday marker
//	B  other paid absence marker
//	C  period start (date serial)
//	D  period end (date serial)
//	E  title, usually an issue key such as "FB-42"
//	F  type of work
//	G  comment, one per line
//
// The parser reads sheets through the small [Book] and [Sheet] interfaces so
// that it does not depend on a particular file format. The xlsx and workbook
// packages provide implementations for .xlsx/.xlsm and .xlsb files; [Grid]
// is an in-memory implementation.
package sheet

import (
	"fmt"
	"slices"
)

// Cell is the content of one non-empty cell.
type Cell struct {
	// Value is either a float64 (numbers and date serials) or a string.
	Value any
	// Derived is true when the value is computed by a formula rather than
	// entered directly.
	Derived bool
}

// Number returns the numeric value of c.
func (c Cell) Number() (float64, bool) {
	f, ok := c.Value.(float64)
	return f, ok
}

// Text returns the cell value as a string. Numbers are formatted with %v.
func (c Cell) Text() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Sheet is a cell-addressed, two-dimensional grid.
type Sheet interface {
	// Name is the display name of the sheet.
	Name() string
	// Range is the declared occupied range, e.g. "A1:G42", or "" when the
	// sheet declares none.
	Range() string
	// Cell looks up the cell at an A1-style address. It reports false when
	// the cell is empty.
	Cell(addr string) (Cell, bool)
}

// Book is an ordered collection of named sheets.
type Book interface {
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string
	// Sheet opens the named sheet.
	Sheet(name string) (Sheet, error)
}

// Grid is an in-memory Sheet.
type Grid struct {
	name  string
	rng   string
	cells map[string]Cell
}

// NewGrid returns an empty grid with the given name and declared range.
func NewGrid(name, rng string) *Grid {
	return &Grid{name: name, rng: rng, cells: make(map[string]Cell)}
}

// Set stores a literal value at addr and returns g for chaining.
func (g *Grid) Set(addr string, v any) *Grid {
	g.cells[addr] = Cell{Value: v}
	return g
}

// SetDerived stores a formula result at addr and returns g for chaining.
func (g *Grid) SetDerived(addr string, v any) *Grid {
	g.cells[addr] = Cell{Value: v, Derived: true}
	return g
}

// Name implements Sheet.
func (g *Grid) Name() string { return g.name }

// Range implements Sheet.
func (g *Grid) Range() string { return g.rng }

// Cell implements Sheet.
func (g *Grid) Cell(addr string) (Cell, bool) {
	c, ok := g.cells[addr]
	if !ok || c.Value == nil {
		return Cell{}, false
	}
	return c, true
}

// MemoryBook is an in-memory Book.
type MemoryBook struct {
	sheets []Sheet
}

// NewMemoryBook returns a book holding sheets in the given order.
func NewMemoryBook(sheets ...Sheet) *MemoryBook {
	return &MemoryBook{sheets: slices.Clone(sheets)}
}

// SheetNames implements Book.
func (b *MemoryBook) SheetNames() []string {
	names := make([]string, len(b.sheets))
	for i, s := range b.sheets {
		names[i] = s.Name()
	}
	return names
}

// Sheet implements Book.
func (b *MemoryBook) Sheet(name string) (Sheet, error) {
	for _, s := range b.sheets {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sheet: %q not found", name)
}
