// Package stringtable reads the shared string part of an .xlsb workbook.
package stringtable

import (
	"fmt"

	"github.com/TsubasaBE/go-timesheet/biff12"
	"github.com/TsubasaBE/go-timesheet/record"
)

// Table holds the shared strings in index order.
type Table []string

// Parse decodes xl/sharedStrings.bin. A string item that cannot be decoded
// keeps its index with an empty value.
func Parse(part []byte) (Table, error) {
	var t Table
	for rec, err := range record.All(part) {
		if err != nil {
			return nil, fmt.Errorf("stringtable: %w", err)
		}
		switch rec.ID {
		case biff12.Si:
			t = append(t, item(rec.Data))
		case biff12.SstEnd:
			return t, nil
		}
	}
	return t, nil
}

// item decodes a string item: one flags byte, then the plain text. Rich text
// runs and phonetic data that may follow are ignored.
func item(data []byte) string {
	p := record.NewPayload(data)
	if err := p.Skip(1); err != nil {
		return ""
	}
	s, err := p.WideString()
	if err != nil {
		return ""
	}
	return s
}

// Lookup returns the string at idx.
func (t Table) Lookup(idx uint32) (string, bool) {
	if uint64(idx) >= uint64(len(t)) {
		return "", false
	}
	return t[idx], true
}
