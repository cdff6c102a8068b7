package formula

import (
	"bytes"
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// Formula is an encoded token run as stored in a cell or name record: a
// 16-bit token length, the tokens, then any array constant data.
type Formula struct {
	encoded  []byte
	tokenLen int
}

// ReadFormula reads a length-prefixed formula from r. The tokens are decoded
// once to find where the array constant data ends.
func ReadFormula(r *stream.Reader) (*Formula, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, truncated("formula length")
	}
	start := r.Offset()
	if _, err := ReadTokens(int(n), r); err != nil {
		return nil, err
	}
	encoded := make([]byte, r.Offset()-start)
	copy(encoded, r.Data()[start:r.Offset()])
	return &Formula{encoded: encoded, tokenLen: int(n)}, nil
}

// ParseFormula reads a length-prefixed formula from the start of data and
// returns the number of bytes consumed.
func ParseFormula(data []byte) (*Formula, int, error) {
	r := stream.NewReader(data)
	f, err := ReadFormula(r)
	if err != nil {
		return nil, 0, err
	}
	return f, r.Offset(), nil
}

// FromTokens encodes ptgs into a Formula.
func FromTokens(ptgs []Ptg) (*Formula, error) {
	tokenLen := EncodedSizeWithoutArrayData(ptgs)
	if tokenLen > 0xFFFF {
		return nil, fmt.Errorf("formula: token length %d too large", tokenLen)
	}
	encoded, err := SerializeTokens(ptgs)
	if err != nil {
		return nil, err
	}
	return &Formula{encoded: encoded, tokenLen: tokenLen}, nil
}

// Tokens decodes the formula's tokens.
func (f *Formula) Tokens() ([]Ptg, error) {
	return ReadTokens(f.tokenLen, stream.NewReader(f.encoded))
}

// EncodedTokenSize returns the size of the tokens without array data.
func (f *Formula) EncodedTokenSize() int { return f.tokenLen }

// EncodedSize returns the serialized size, length prefix included.
func (f *Formula) EncodedSize() int { return 2 + len(f.encoded) }

// Serialize writes the length-prefixed formula to w.
func (f *Formula) Serialize(w *stream.Writer) {
	w.WriteU16(uint16(f.tokenLen))
	w.WriteBytes(f.encoded)
}

// MarshalBinary returns the length-prefixed encoding.
func (f *Formula) MarshalBinary() ([]byte, error) {
	buf := make([]byte, f.EncodedSize())
	w := stream.NewWriter(buf)
	f.Serialize(w)
	return buf, w.Err()
}

// Equal reports whether both formulas have identical encodings.
func (f *Formula) Equal(other *Formula) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.tokenLen == other.tokenLen && bytes.Equal(f.encoded, other.encoded)
}

// ExpReference returns the cell a shared or array formula points at, if
// the formula consists of a single Exp or Tbl token.
func (f *Formula) ExpReference() (CellReference, bool) {
	if f.tokenLen != 5 || len(f.encoded) < 5 {
		return CellReference{}, false
	}
	switch f.encoded[0] {
	case IDExp, IDTbl:
	default:
		return CellReference{}, false
	}
	ptgs, err := f.Tokens()
	if err != nil {
		return CellReference{}, false
	}
	exp := ptgs[0].(*ExpPtg)
	return CellReference{Row: int(exp.Row), Col: int(exp.Col)}, true
}

// String renders the formula in infix notation, or a diagnostic if the
// tokens cannot be rendered.
func (f *Formula) String() string {
	ptgs, err := f.Tokens()
	if err != nil {
		return fmt.Sprintf("<invalid formula: %v>", err)
	}
	s, err := Render(ptgs)
	if err != nil {
		return fmt.Sprintf("<unrenderable formula: %v>", err)
	}
	return s
}
