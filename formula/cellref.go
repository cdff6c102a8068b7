package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// Bits of the column field shared by the reference tokens.
const (
	colRelativeFlag = 0x4000
	rowRelativeFlag = 0x8000
	columnMask      = 0x3FFF
)

// CellReference is a single cell address with per-axis absolute flags.
// Row and Col are zero-based.
type CellReference struct {
	Row    int
	Col    int
	RowAbs bool
	ColAbs bool
}

// ColumnName converts a zero-based column index to letters: 0 is "A",
// 26 is "AA".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// ColumnIndex converts column letters to a zero-based index.
func ColumnIndex(name string) (int, error) {
	if name == "" {
		return 0, ErrInvalidReference
	}
	n := 0
	for _, c := range strings.ToUpper(name) {
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("%w: column %q", ErrInvalidReference, name)
		}
		n = n*26 + int(c-'A'+1)
	}
	return n - 1, nil
}

// ParseCellReference parses A1 notation such as "B3" or "$C$10".
func ParseCellReference(s string) (CellReference, error) {
	var ref CellReference
	rest := s
	if strings.HasPrefix(rest, "$") {
		ref.ColAbs = true
		rest = rest[1:]
	}
	i := 0
	for i < len(rest) && (rest[i] >= 'A' && rest[i] <= 'Z' || rest[i] >= 'a' && rest[i] <= 'z') {
		i++
	}
	col, err := ColumnIndex(rest[:i])
	if err != nil {
		return ref, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	rest = rest[i:]
	if strings.HasPrefix(rest, "$") {
		ref.RowAbs = true
		rest = rest[1:]
	}
	row, err := strconv.Atoi(rest)
	if err != nil || row < 1 {
		return ref, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	ref.Row = row - 1
	ref.Col = col
	return ref, nil
}

// String formats the reference in A1 notation.
func (c CellReference) String() string {
	var sb strings.Builder
	if c.ColAbs {
		sb.WriteByte('$')
	}
	sb.WriteString(ColumnName(c.Col))
	if c.RowAbs {
		sb.WriteByte('$')
	}
	sb.WriteString(strconv.Itoa(c.Row + 1))
	return sb.String()
}

// packColumn builds the column field: the index plus relative flags.
func (c CellReference) packColumn() uint16 {
	v := uint16(c.Col) & columnMask
	if !c.ColAbs {
		v |= colRelativeFlag
	}
	if !c.RowAbs {
		v |= rowRelativeFlag
	}
	return v
}

func unpackCell(row, colField uint16) CellReference {
	return CellReference{
		Row:    int(row),
		Col:    int(colField & columnMask),
		RowAbs: colField&rowRelativeFlag == 0,
		ColAbs: colField&colRelativeFlag == 0,
	}
}

// AreaReference is a rectangular range between two corner cells.
type AreaReference struct {
	First CellReference
	Last  CellReference
}

func (a AreaReference) String() string {
	return a.First.String() + ":" + a.Last.String()
}

// IsSingleCell reports whether both corners name the same cell.
func (a AreaReference) IsSingleCell() bool {
	return a.First.Row == a.Last.Row && a.First.Col == a.Last.Col
}
