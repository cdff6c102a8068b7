package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// Type tags of array constant values.
const (
	constEmpty  = 0
	constNumber = 1
	constString = 2
	constBool   = 4
	constError  = 16
)

// ErrorConstant is an error value inside an array constant.
type ErrorConstant byte

func (e ErrorConstant) String() string { return ErrorText(byte(e)) }

// ArrayPtg is an array constant such as {1,2;3,4}. The token holds seven
// reserved bytes; the values live in a separate block after all tokens of
// the formula. Values are stored row by row and each is nil (empty),
// float64, string, bool or ErrorConstant.
type ArrayPtg struct {
	operand
	Reserved [7]byte
	Cols     int
	Rows     int
	Values   []any
}

// Largest array dimensions the constant block can encode.
const (
	MaxArrayCols = 0x100
	MaxArrayRows = 0x10000
)

// minConstantSize is the smallest encoded constant: a string tag, length and
// flag with no characters.
const minConstantSize = 4

// NewArrayPtg creates an array constant from rows of values.
func NewArrayPtg(rows [][]any) (*ArrayPtg, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: array must have at least one value", ErrInvalidConstant)
	}
	p := &ArrayPtg{operand: operand{class: ClassArray}, Rows: len(rows), Cols: len(rows[0])}
	if err := p.checkDimensions(); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if len(row) != p.Cols {
			return nil, fmt.Errorf("%w: ragged array", ErrInvalidConstant)
		}
		for _, v := range row {
			if err := checkConstant(v); err != nil {
				return nil, err
			}
			p.Values = append(p.Values, v)
		}
	}
	return p, nil
}

func (p *ArrayPtg) checkDimensions() error {
	if p.Cols < 1 || p.Cols > MaxArrayCols || p.Rows < 1 || p.Rows > MaxArrayRows {
		return fmt.Errorf("%w: %dx%d array exceeds %dx%d", ErrInvalidConstant,
			p.Rows, p.Cols, MaxArrayRows, MaxArrayCols)
	}
	return nil
}

// validate checks a constant before it is encoded.
func (p *ArrayPtg) validate() error {
	if err := p.checkDimensions(); err != nil {
		return err
	}
	if len(p.Values) != p.Cols*p.Rows {
		return fmt.Errorf("%w: %d values for %dx%d array", ErrInvalidConstant, len(p.Values), p.Rows, p.Cols)
	}
	for _, v := range p.Values {
		if err := checkConstant(v); err != nil {
			return err
		}
	}
	return nil
}

func checkConstant(v any) error {
	switch v.(type) {
	case nil, float64, string, bool, ErrorConstant:
		return nil
	}
	return fmt.Errorf("%w: %T", ErrInvalidConstant, v)
}

func readArray(id byte, r *stream.Reader) (Ptg, error) {
	p := &ArrayPtg{operand: operandFromID(id)}
	b, err := r.ReadBytesRef(len(p.Reserved))
	if err != nil {
		return nil, truncated("array reserved bytes")
	}
	copy(p.Reserved[:], b)
	return p, nil
}

// readConstantData reads the dimensions and values stored after the tokens.
func (p *ArrayPtg) readConstantData(r *stream.Reader) error {
	cols, err := r.ReadU8()
	if err != nil {
		return truncated("array columns")
	}
	rows, err := r.ReadU16()
	if err != nil {
		return truncated("array rows")
	}
	p.Cols = int(cols) + 1
	p.Rows = int(rows) + 1
	if r.Remaining() < p.Cols*p.Rows*minConstantSize {
		return truncated("array constants")
	}

	p.Values = make([]any, p.Cols*p.Rows)
	for i := range p.Values {
		if p.Values[i], err = readConstant(r); err != nil {
			return err
		}
	}
	return nil
}

func readConstant(r *stream.Reader) (any, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, truncated("constant type")
	}
	switch tag {
	case constEmpty:
		if err := r.Skip(8); err != nil {
			return nil, truncated("empty constant")
		}
		return nil, nil
	case constNumber:
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, truncated("number constant")
		}
		return v, nil
	case constString:
		n, err := r.ReadU16()
		if err != nil {
			return nil, truncated("string constant length")
		}
		flags, err := r.ReadU8()
		if err != nil {
			return nil, truncated("string constant flags")
		}
		var s string
		if flags&strFlagUTF16 != 0 {
			s, err = r.ReadUTF16(int(n))
		} else {
			s, err = r.ReadCompressedUnicode(int(n))
		}
		if err != nil {
			return nil, truncated("string constant")
		}
		return s, nil
	case constBool, constError:
		b, err := r.ReadBytesRef(8)
		if err != nil {
			return nil, truncated("constant")
		}
		if tag == constBool {
			return b[0] != 0, nil
		}
		return ErrorConstant(b[0]), nil
	}
	return nil, fmt.Errorf("%w: type %d", ErrInvalidConstant, tag)
}

func constantSize(v any) int {
	if s, ok := v.(string); ok {
		n := stream.UTF16Len(s)
		if stream.IsCompressible(s) {
			return 4 + n
		}
		return 4 + 2*n
	}
	return 9
}

func writeConstant(w *stream.Writer, v any) {
	switch v := v.(type) {
	case float64:
		w.WriteU8(constNumber)
		w.WriteFloat64(v)
	case string:
		w.WriteU8(constString)
		w.WriteU16(uint16(stream.UTF16Len(v)))
		if stream.IsCompressible(v) {
			w.WriteU8(0)
			w.WriteCompressedUnicode(v)
		} else {
			w.WriteU8(strFlagUTF16)
			w.WriteUTF16(v)
		}
	case bool:
		w.WriteU8(constBool)
		if v {
			w.WriteU8(1)
		} else {
			w.WriteU8(0)
		}
		w.Fill(7, 0)
	case ErrorConstant:
		w.WriteU8(constError)
		w.WriteU8(byte(v))
		w.Fill(7, 0)
	default:
		w.WriteU8(constEmpty)
		w.Fill(8, 0)
	}
}

func (p *ArrayPtg) ID() byte  { return p.id(IDArray) }
func (p *ArrayPtg) Size() int { return 8 }

// ConstantDataSize returns the size of the dimensions and values block.
func (p *ArrayPtg) ConstantDataSize() int {
	n := 3
	for _, v := range p.Values {
		n += constantSize(v)
	}
	return n
}

// Value returns the value at row, col.
func (p *ArrayPtg) Value(row, col int) (any, error) {
	if row < 0 || row >= p.Rows || col < 0 || col >= p.Cols {
		return nil, fmt.Errorf("formula: array index (%d, %d) out of range %dx%d", row, col, p.Rows, p.Cols)
	}
	return p.Values[row*p.Cols+col], nil
}

func (p *ArrayPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteBytes(p.Reserved[:])
}

func (p *ArrayPtg) writeConstantData(w *stream.Writer) {
	w.WriteU8(uint8(p.Cols - 1))
	w.WriteU16(uint16(p.Rows - 1))
	for _, v := range p.Values {
		writeConstant(w, v)
	}
}

func formatConstant(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'G', -1, 64)
	case string:
		return strconv.Quote(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case ErrorConstant:
		return v.String()
	}
	return fmt.Sprint(v)
}

// Literal formats the constant in formula syntax: columns separated by
// commas, rows by semicolons.
func (p *ArrayPtg) Literal() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for r := 0; r < p.Rows; r++ {
		if r > 0 {
			sb.WriteByte(';')
		}
		for c := 0; c < p.Cols; c++ {
			if c > 0 {
				sb.WriteByte(',')
			}
			if i := r*p.Cols + c; i < len(p.Values) {
				sb.WriteString(formatConstant(p.Values[i]))
			}
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func (p *ArrayPtg) String() string {
	return fmt.Sprintf("Array(%dx%d %s)%s", p.Rows, p.Cols, p.Literal(), p.class)
}
