package internal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Worksheet limits of the OOXML format (1-indexed counts).
const (
	MaxRows    = 1048576
	MaxColumns = 16384
)

// cellRefRe matches a cell reference like A1, $B$2, AA100
var cellRefRe = regexp.MustCompile(`^\$?([A-Z]+)\$?(\d+)$`)

// ColumnLetters converts a 0-indexed column number to Excel letter(s):
// 0 → "A", 25 → "Z", 26 → "AA".
func ColumnLetters(col int) string {
	if col < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for col++; col > 0; col /= 26 {
		col--
		i--
		buf[i] = byte('A' + col%26)
	}
	return string(buf[i:])
}

// CellLabel builds the A1-style label for a 0-indexed row and column.
// Indices past MaxRows/MaxColumns still produce a label; callers own the range.
func CellLabel(row, col int) string {
	return ColumnLetters(col) + strconv.Itoa(row+1)
}

// MaxCellLabel returns the label of the last cell a worksheet may hold.
func MaxCellLabel() string {
	return CellLabel(MaxRows-1, MaxColumns-1)
}

// FormatRange builds the dimension reference for a block of rows x cols
// anchored at A1, e.g. "A1:C10". Empty and single-cell blocks collapse to "A1".
func FormatRange(rows, cols int) string {
	if rows <= 1 && cols <= 1 {
		return "A1"
	}
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return "A1:" + CellLabel(rows-1, cols-1)
}

// ParseCellLabel parses a label like "AB12" or "$C$3" into 0-indexed
// (row, col).
func ParseCellLabel(label string) (row, col int, err error) {
	ref := strings.ReplaceAll(label, "$", "")
	m := cellRefRe.FindStringSubmatch(strings.ToUpper(ref))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q", label)
	}
	row, err = strconv.Atoi(m[2])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid row in cell reference %q", label)
	}
	return row - 1, letterToCol(m[1]) - 1, nil
}

func letterToCol(letters string) int {
	col := 0
	for _, c := range letters {
		col = col*26 + int(c-'A'+1)
	}
	return col
}
