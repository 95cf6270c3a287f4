package workbook_test

// BIFF12 encoding helpers for building .xlsb fixtures in memory.

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"unicode/utf16"

	"github.com/TsubasaBE/go-timesheet/biff12"
)

// part accumulates the records of one BIFF12 part.
type part struct {
	bytes.Buffer
}

// rec appends a record. IDs are written a byte at a time with the high bit
// flagging continuation; lengths as 7-bit groups.
func (p *part) rec(id int, fields ...[]byte) *part {
	for {
		b := byte(id & 0xFF)
		id >>= 8
		if id == 0 {
			p.WriteByte(b)
			break
		}
		p.WriteByte(b | 0x80)
	}
	n := 0
	for _, f := range fields {
		n += len(f)
	}
	for {
		b := byte(n & 0x7F)
		n >>= 7
		if n == 0 {
			p.WriteByte(b)
			break
		}
		p.WriteByte(b | 0x80)
	}
	for _, f := range fields {
		p.Write(f)
	}
	return p
}

func u32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func f64(v float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
}

func wide(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := u32(uint32(len(units)))
	for _, u := range units {
		b = binary.LittleEndian.AppendUint16(b, u)
	}
	return b
}

// cellHead is the column and style prefix shared by all cell records.
func cellHead(col int) []byte {
	return append(u32(uint32(col)), u32(0)...)
}

// grid describes one worksheet fixture.
type grid struct {
	name   string
	dim    [4]uint32 // r1, r2, c1, c2, 0-based
	noDim  bool
	rows   map[int]*part // 0-based row -> cell records
	order  []int
	shared *[]string
}

func newGrid(name string, r1, r2, c1, c2 uint32, shared *[]string) *grid {
	return &grid{name: name, dim: [4]uint32{r1, r2, c1, c2}, rows: map[int]*part{}, shared: shared}
}

func (g *grid) row(r int) *part {
	p, ok := g.rows[r]
	if !ok {
		p = &part{}
		g.rows[r] = p
		g.order = append(g.order, r)
	}
	return p
}

func (g *grid) float(r, c int, v float64) *grid {
	g.row(r).rec(biff12.Float, cellHead(c), f64(v))
	return g
}

func (g *grid) rk(r, c int, raw uint32) *grid {
	g.row(r).rec(biff12.Num, cellHead(c), u32(raw))
	return g
}

func (g *grid) formulaFloat(r, c int, v float64) *grid {
	g.row(r).rec(biff12.FormulaFloat, cellHead(c), f64(v), []byte{0, 0})
	return g
}

func (g *grid) formulaString(r, c int, s string) *grid {
	g.row(r).rec(biff12.FormulaString, cellHead(c), wide(s), []byte{0, 0})
	return g
}

func (g *grid) text(r, c int, s string) *grid {
	idx := len(*g.shared)
	*g.shared = append(*g.shared, s)
	g.row(r).rec(biff12.String, cellHead(c), u32(uint32(idx)))
	return g
}

func (g *grid) boolean(r, c int, v bool) *grid {
	b := byte(0)
	if v {
		b = 1
	}
	g.row(r).rec(biff12.Bool, cellHead(c), []byte{b})
	return g
}

func (g *grid) errorCode(r, c int, code byte) *grid {
	g.row(r).rec(biff12.BoolErr, cellHead(c), []byte{code})
	return g
}

func (g *grid) blank(r, c int) *grid {
	g.row(r).rec(biff12.Blank, cellHead(c))
	return g
}

func (g *grid) encode() []byte {
	var p part
	if !g.noDim {
		p.rec(biff12.Dimension, u32(g.dim[0]), u32(g.dim[1]), u32(g.dim[2]), u32(g.dim[3]))
	}
	p.rec(biff12.SheetData)
	for _, r := range g.order {
		p.rec(biff12.Row, u32(uint32(r)), make([]byte, 13))
		p.Write(g.rows[r].Bytes())
	}
	p.rec(biff12.SheetDataEnd)
	return p.Bytes()
}

// buildBook assembles a complete .xlsb package.
func buildBook(t *testing.T, date1904 bool, shared []string, grids ...*grid) []byte {
	t.Helper()

	var relsXML bytes.Buffer
	relsXML.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	var wb part
	flags := uint32(0)
	if date1904 {
		flags = 1
	}
	wb.rec(biff12.WorkbookPr, u32(flags), make([]byte, 8))
	wb.rec(biff12.Sheets)
	for i, g := range grids {
		rid := fmt.Sprintf("rId%d", i+1)
		fmt.Fprintf(&relsXML, `<Relationship Id="%s" Target="worksheets/sheet%d.bin"/>`, rid, i+1)
		wb.rec(biff12.Sheet, u32(0), u32(uint32(i+1)), wide(rid), wide(g.name))
	}
	wb.rec(biff12.SheetsEnd)
	relsXML.WriteString(`</Relationships>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name string, data []byte) {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	add("xl/_rels/workbook.bin.rels", relsXML.Bytes())
	add("xl/workbook.bin", wb.Bytes())
	for i, g := range grids {
		add(fmt.Sprintf("xl/worksheets/sheet%d.bin", i+1), g.encode())
	}
	if len(shared) > 0 {
		var sst part
		sst.rec(biff12.Sst, u32(uint32(len(shared))), u32(uint32(len(shared))))
		for _, s := range shared {
			sst.rec(biff12.Si, []byte{0}, wide(s))
		}
		sst.rec(biff12.SstEnd)
		add("xl/sharedStrings.bin", sst.Bytes())
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
