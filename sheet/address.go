package sheet

import (
	"strconv"
	"strings"
)

// corner is one end of a declared range such as "A1".
type corner struct {
	col string
	row int
}

// splitRange splits "A1:G42" into its two corners. It reports false when
// either corner does not consist of column letters followed by a row number.
func splitRange(rng string) (topLeft, bottomRight corner, ok bool) {
	left, right, found := strings.Cut(rng, ":")
	if !found {
		return corner{}, corner{}, false
	}
	if topLeft, ok = parseCorner(left); !ok {
		return corner{}, corner{}, false
	}
	if bottomRight, ok = parseCorner(right); !ok {
		return corner{}, corner{}, false
	}
	return topLeft, bottomRight, true
}

func parseCorner(s string) (corner, bool) {
	i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if i <= 0 {
		return corner{}, false
	}
	col := s[:i]
	for _, r := range col {
		if r < 'A' || r > 'Z' {
			return corner{}, false
		}
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return corner{}, false
	}
	return corner{col: col, row: row}, true
}

// ParseCell converts an A1-style address to its 0-based row and column.
func ParseCell(addr string) (row, col int, ok bool) {
	c, ok := parseCorner(addr)
	if !ok || len(c.col) > 3 {
		return 0, 0, false
	}
	for _, r := range c.col {
		col = col*26 + int(r-'A') + 1
	}
	return c.row - 1, col - 1, true
}

// ColumnName converts a 0-based column index to its letters: 0 is "A",
// 25 is "Z", 26 is "AA".
func ColumnName(idx int) string {
	if idx < 0 {
		return ""
	}
	var b []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// CellName returns the A1-style address of the 0-based (row, col) pair.
func CellName(row, col int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

// RangeName returns the A1-style range spanning the 0-based corners, e.g.
// RangeName(0, 0, 41, 6) is "A1:G42".
func RangeName(top, left, bottom, right int) string {
	return CellName(top, left) + ":" + CellName(bottom, right)
}
