package sheet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TsubasaBE/go-timesheet/sheet"
)

func TestSerialDate(t *testing.T) {
	tests := []struct {
		serial float64
		want   time.Time
	}{
		{25569, day(1970, 1, 1)},
		{43467, day(2019, 1, 2)},
		{43467.25, day(2019, 1, 2)},
		{43467.999, day(2019, 1, 2)},
		{61, day(1900, 3, 1)},
		{1, day(1899, 12, 31)},
	}
	for _, tc := range tests {
		got := sheet.SerialDate(tc.serial)
		assert.Equal(t, tc.want, got, "serial %v", tc.serial)
		assert.Equal(t, time.UTC, got.Location())
	}
	assert.Equal(t, int64(1546387200000), sheet.SerialDate(43467.25).UnixMilli())
}

func TestCellNames(t *testing.T) {
	assert.Equal(t, "A", sheet.ColumnName(0))
	assert.Equal(t, "G", sheet.ColumnName(6))
	assert.Equal(t, "Z", sheet.ColumnName(25))
	assert.Equal(t, "AA", sheet.ColumnName(26))
	assert.Equal(t, "AZ", sheet.ColumnName(51))
	assert.Equal(t, "XFD", sheet.ColumnName(16383))
	assert.Equal(t, "C5", sheet.CellName(4, 2))
	assert.Equal(t, "A1:G42", sheet.RangeName(0, 0, 41, 6))
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		addr     string
		row, col int
		ok       bool
	}{
		{"A1", 0, 0, true},
		{"G5", 4, 6, true},
		{"AA10", 9, 26, true},
		{"XFD1048576", 1048575, 16383, true},
		{"a1", 0, 0, false},
		{"A0", 0, 0, false},
		{"5", 0, 0, false},
		{"A", 0, 0, false},
	}
	for _, tc := range tests {
		row, col, ok := sheet.ParseCell(tc.addr)
		assert.Equal(t, tc.ok, ok, tc.addr)
		if tc.ok {
			assert.Equal(t, tc.row, row, tc.addr)
			assert.Equal(t, tc.col, col, tc.addr)
			assert.Equal(t, tc.addr, sheet.CellName(row, col))
		}
	}
}
