package xlsx_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/TsubasaBE/go-timesheet/sheet"
	"github.com/TsubasaBE/go-timesheet/spent"
	"github.com/TsubasaBE/go-timesheet/xlsx"
)

// save writes f to a temporary file and returns its path.
func save(t *testing.T, f *excelize.File) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

// timesheet builds a workbook with one week sheet holding a booked period, a
// formula period and a paid absence, plus an unrelated Notes sheet.
func timesheet(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Week01"))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)

	set := func(cell string, v any) {
		require.NoError(t, f.SetCellValue("Week01", cell, v))
	}
	formula := func(cell, expr string, cached float64) {
		set(cell, cached)
		require.NoError(t, f.SetCellFormula("Week01", cell, expr))
	}

	set("A1", "Date")
	set("E1", "Issue")

	// Row 5: plain values.
	set("C5", 43467.375)
	set("D5", 43467.5)
	set("E5", "FB-1")
	set("F5", "Development")
	set("G5", "first\nsecond")

	// Row 6: both ends computed.
	formula("C6", "D5", 43467.5)
	formula("D6", "C6+TIME(1,30,0)", 43467.5625)
	set("E6", "FB-2")

	// Row 7: holiday, fixed start and computed end.
	set("A7", "x")
	set("C7", 43468.0)
	formula("D7", "C7+TIME(8,24,0)", 43468.35)

	require.NoError(t, f.SetSheetDimension("Week01", "A1:G7"))
	require.NoError(t, f.SetCellValue("Notes", "A1", "ignored"))
	return f
}

func TestOpen(t *testing.T) {
	book, err := xlsx.Open(save(t, timesheet(t)))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Week01", "Notes"}, book.SheetNames())

	s, err := book.Sheet("Week01")
	require.NoError(t, err)
	assert.Equal(t, "Week01", s.Name())
	assert.Equal(t, "A1:G7", s.Range())

	c, ok := s.Cell("C5")
	require.True(t, ok)
	assert.Equal(t, 43467.375, c.Value)
	assert.False(t, c.Derived)

	c, ok = s.Cell("D6")
	require.True(t, ok)
	assert.Equal(t, 43467.5625, c.Value)
	assert.True(t, c.Derived)

	c, ok = s.Cell("E5")
	require.True(t, ok)
	assert.Equal(t, "FB-1", c.Text())

	_, ok = s.Cell("B5")
	assert.False(t, ok)
}

func TestOpenMissingSheet(t *testing.T) {
	book, err := xlsx.Open(save(t, timesheet(t)))
	require.NoError(t, err)
	defer book.Close()

	_, err = book.Sheet("Week99")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	book, err := xlsx.Open(save(t, timesheet(t)))
	require.NoError(t, err)
	defer book.Close()

	var got []spent.Entry
	for e, err := range sheet.Parse(book, sheet.WithUntracked()) {
		require.NoError(t, err)
		got = append(got, e)
	}
	require.Len(t, got, 3)

	jan2 := time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, spent.Entry{
		Date: jan2, Title: "FB-1", Type: "Development",
		Comments: []string{"first", "second"}, DurationMinutes: 180,
	}, got[0])
	assert.Equal(t, "FB-2", got[1].Title)
	assert.Equal(t, 90, got[1].DurationMinutes)
	assert.Equal(t, sheet.HolidayTitle, got[2].Title)
	assert.True(t, got[2].IsPaidAbsence)
	assert.Equal(t, 504, got[2].DurationMinutes)
}

func TestParseEmptyWeek(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Week02"))

	book, err := xlsx.Open(save(t, f))
	require.NoError(t, err)
	defer book.Close()

	s, err := book.Sheet("Week02")
	require.NoError(t, err)
	assert.Empty(t, s.Range())

	for _, err := range sheet.Parse(book) {
		assert.True(t, errors.Is(err, sheet.ErrEmptySheet))
		assert.Equal(t, "The sheet Week02 seems to be empty.", err.Error())
	}
}

func TestOpenReader(t *testing.T) {
	f := timesheet(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	book, err := xlsx.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()
	assert.Contains(t, book.SheetNames(), "Week01")

	_, err = xlsx.OpenReader(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
