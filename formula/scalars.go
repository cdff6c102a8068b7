package formula

import (
	"fmt"
	"strconv"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// ExpPtg points at the cell holding a shared or array formula. The same
// layout with id 0x02 marks a data table (TblPtg).
type ExpPtg struct {
	id  byte
	Row uint16
	Col uint16
}

// NewExpPtg creates a shared formula reference.
func NewExpPtg(row, col uint16) *ExpPtg {
	return &ExpPtg{id: IDExp, Row: row, Col: col}
}

// NewTblPtg creates a data table reference.
func NewTblPtg(row, col uint16) *ExpPtg {
	return &ExpPtg{id: IDTbl, Row: row, Col: col}
}

func readExp(id byte, r *stream.Reader) (Ptg, error) {
	row, err := r.ReadU16()
	if err != nil {
		return nil, truncated("exp row")
	}
	col, err := r.ReadU16()
	if err != nil {
		return nil, truncated("exp column")
	}
	return &ExpPtg{id: id, Row: row, Col: col}, nil
}

func (p *ExpPtg) ID() byte  { return p.id }
func (p *ExpPtg) Size() int { return 5 }

// IsTable reports whether the token is a data table reference.
func (p *ExpPtg) IsTable() bool { return p.id == IDTbl }

func (p *ExpPtg) String() string {
	if p.IsTable() {
		return fmt.Sprintf("Tbl(row=%d, col=%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("Exp(row=%d, col=%d)", p.Row, p.Col)
}

func (p *ExpPtg) write(w *stream.Writer) {
	w.WriteU8(p.id)
	w.WriteU16(p.Row)
	w.WriteU16(p.Col)
}

// StrPtg is a string literal of at most 255 characters.
type StrPtg struct {
	Value string
}

const strFlagUTF16 = 0x01

// MaxStrLength is the longest string a StrPtg can hold.
const MaxStrLength = 255

// NewStrPtg creates a string literal. Longer values are rejected.
func NewStrPtg(value string) (*StrPtg, error) {
	if n := stream.UTF16Len(value); n > MaxStrLength {
		return nil, fmt.Errorf("formula: string literal of %d characters exceeds %d", n, MaxStrLength)
	}
	return &StrPtg{Value: value}, nil
}

func readStr(r *stream.Reader) (Ptg, error) {
	n, err := r.ReadU8()
	if err != nil {
		return nil, truncated("string length")
	}
	flags, err := r.ReadU8()
	if err != nil {
		return nil, truncated("string flags")
	}
	var s string
	if flags&strFlagUTF16 != 0 {
		s, err = r.ReadUTF16(int(n))
	} else {
		s, err = r.ReadCompressedUnicode(int(n))
	}
	if err != nil {
		return nil, truncated("string data")
	}
	return &StrPtg{Value: s}, nil
}

func (p *StrPtg) ID() byte { return IDStr }

func (p *StrPtg) Size() int {
	n := stream.UTF16Len(p.Value)
	if stream.IsCompressible(p.Value) {
		return 3 + n
	}
	return 3 + 2*n
}

func (p *StrPtg) String() string {
	return strconv.Quote(p.Value)
}

func (p *StrPtg) write(w *stream.Writer) {
	w.WriteU8(IDStr)
	w.WriteU8(uint8(stream.UTF16Len(p.Value)))
	if stream.IsCompressible(p.Value) {
		w.WriteU8(0)
		w.WriteCompressedUnicode(p.Value)
		return
	}
	w.WriteU8(strFlagUTF16)
	w.WriteUTF16(p.Value)
}

// Error codes used by ErrPtg and array constants.
const (
	ErrorNull  byte = 0x00
	ErrorDiv0  byte = 0x07
	ErrorValue byte = 0x0F
	ErrorRef   byte = 0x17
	ErrorName  byte = 0x1D
	ErrorNum   byte = 0x24
	ErrorNA    byte = 0x2A
)

var errorTexts = map[byte]string{
	ErrorNull:  "#NULL!",
	ErrorDiv0:  "#DIV/0!",
	ErrorValue: "#VALUE!",
	ErrorRef:   "#REF!",
	ErrorName:  "#NAME?",
	ErrorNum:   "#NUM!",
	ErrorNA:    "#N/A",
}

// ErrorText returns the display text of an error code.
func ErrorText(code byte) string {
	if s, ok := errorTexts[code]; ok {
		return s
	}
	return fmt.Sprintf("#ERR%d!", code)
}

// ErrPtg is an error literal such as #DIV/0!.
type ErrPtg struct {
	Code byte
}

func readErr(r *stream.Reader) (Ptg, error) {
	code, err := r.ReadU8()
	if err != nil {
		return nil, truncated("error code")
	}
	return &ErrPtg{Code: code}, nil
}

func (p *ErrPtg) ID() byte       { return IDErr }
func (p *ErrPtg) Size() int      { return 2 }
func (p *ErrPtg) String() string { return ErrorText(p.Code) }

func (p *ErrPtg) write(w *stream.Writer) {
	w.WriteU8(IDErr)
	w.WriteU8(p.Code)
}

// BoolPtg is TRUE or FALSE.
type BoolPtg struct {
	Value bool
}

func readBool(r *stream.Reader) (Ptg, error) {
	v, err := r.ReadU8()
	if err != nil {
		return nil, truncated("boolean")
	}
	return &BoolPtg{Value: v != 0}, nil
}

func (p *BoolPtg) ID() byte  { return IDBool }
func (p *BoolPtg) Size() int { return 2 }

func (p *BoolPtg) String() string {
	if p.Value {
		return "TRUE"
	}
	return "FALSE"
}

func (p *BoolPtg) write(w *stream.Writer) {
	w.WriteU8(IDBool)
	if p.Value {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// IntPtg is an unsigned 16-bit integer literal.
type IntPtg struct {
	Value uint16
}

func readInt(r *stream.Reader) (Ptg, error) {
	v, err := r.ReadU16()
	if err != nil {
		return nil, truncated("integer")
	}
	return &IntPtg{Value: v}, nil
}

func (p *IntPtg) ID() byte       { return IDInt }
func (p *IntPtg) Size() int      { return 3 }
func (p *IntPtg) String() string { return strconv.Itoa(int(p.Value)) }

func (p *IntPtg) write(w *stream.Writer) {
	w.WriteU8(IDInt)
	w.WriteU16(p.Value)
}

// NumPtg is a floating point literal.
type NumPtg struct {
	Value float64
}

func readNum(r *stream.Reader) (Ptg, error) {
	v, err := r.ReadFloat64()
	if err != nil {
		return nil, truncated("number")
	}
	return &NumPtg{Value: v}, nil
}

func (p *NumPtg) ID() byte  { return IDNum }
func (p *NumPtg) Size() int { return 9 }

func (p *NumPtg) String() string {
	return strconv.FormatFloat(p.Value, 'G', -1, 64)
}

func (p *NumPtg) write(w *stream.Writer) {
	w.WriteU8(IDNum)
	w.WriteFloat64(p.Value)
}

// NumberPtg returns the smallest literal token holding v: an IntPtg for
// whole numbers in 0..65535, otherwise a NumPtg.
func NumberPtg(v float64) Ptg {
	if v >= 0 && v <= 0xFFFF && v == float64(uint16(v)) {
		return &IntPtg{Value: uint16(v)}
	}
	return &NumPtg{Value: v}
}
