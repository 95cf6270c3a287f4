// Package biff12 lists the BIFF12 record types read from .xlsb parts.
//
// Only the records needed to locate sheets and read cell values are named
// here; every other record in a stream is skipped by its length.
package biff12

// Workbook part (xl/workbook.bin).
const (
	WorkbookPr = 0x0199
	Sheet      = 0x019C
	Sheets     = 0x018F
	SheetsEnd  = 0x0190
)

// Worksheet part (xl/worksheets/*.bin).
const (
	Row          = 0x0000
	Dimension    = 0x0194
	SheetData    = 0x0191
	SheetDataEnd = 0x0192
)

// Cell records. Their IDs form the contiguous block [Blank, FormulaBoolErr];
// the Formula* records carry the cached result of a formula.
const (
	Blank          = 0x0001
	Num            = 0x0002
	BoolErr        = 0x0003
	Bool           = 0x0004
	Float          = 0x0005
	String         = 0x0007
	FormulaString  = 0x0008
	FormulaFloat   = 0x0009
	FormulaBool    = 0x000A
	FormulaBoolErr = 0x000B
)

// Shared strings part (xl/sharedStrings.bin).
const (
	Si     = 0x0013
	Sst    = 0x019F
	SstEnd = 0x01A0
)

// IsCell reports whether id is one of the cell records.
func IsCell(id int) bool {
	return id >= Blank && id <= FormulaBoolErr
}

// IsFormula reports whether id is a cell record holding a formula result.
func IsFormula(id int) bool {
	return id >= FormulaString && id <= FormulaBoolErr
}
