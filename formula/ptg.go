// Package formula decodes and encodes parsed formula tokens ("Ptgs"), the
// reverse-polish byte code used by the legacy spreadsheet format.
package formula

import (
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// Class is the operand class held in bits 5-6 of a classified token id.
type Class byte

const (
	ClassRef   Class = 0x20
	ClassValue Class = 0x40
	ClassArray Class = 0x60
)

func (c Class) String() string {
	switch c {
	case ClassRef:
		return "R"
	case ClassValue:
		return "V"
	case ClassArray:
		return "A"
	default:
		return fmt.Sprintf("Class(0x%02X)", byte(c))
	}
}

// Base token ids. Ids below 0x20 are unclassified; classified ids are listed
// with the reference class and combine with any Class.
const (
	IDExp           byte = 0x01
	IDTbl           byte = 0x02
	IDAdd           byte = 0x03
	IDSub           byte = 0x04
	IDMul           byte = 0x05
	IDDiv           byte = 0x06
	IDPower         byte = 0x07
	IDConcat        byte = 0x08
	IDLessThan      byte = 0x09
	IDLessEqual     byte = 0x0A
	IDEqual         byte = 0x0B
	IDGreaterEqual  byte = 0x0C
	IDGreaterThan   byte = 0x0D
	IDNotEqual      byte = 0x0E
	IDIntersection  byte = 0x0F
	IDUnion         byte = 0x10
	IDRange         byte = 0x11
	IDUnaryPlus     byte = 0x12
	IDUnaryMinus    byte = 0x13
	IDPercent       byte = 0x14
	IDParen         byte = 0x15
	IDMissArg       byte = 0x16
	IDStr           byte = 0x17
	IDAttr          byte = 0x19
	IDErr           byte = 0x1C
	IDBool          byte = 0x1D
	IDInt           byte = 0x1E
	IDNum           byte = 0x1F
	IDArray         byte = 0x20
	IDFunc          byte = 0x21
	IDFuncVar       byte = 0x22
	IDName          byte = 0x23
	IDRef           byte = 0x24
	IDArea          byte = 0x25
	IDMemArea       byte = 0x26
	IDMemErr        byte = 0x27
	IDMemFunc       byte = 0x29
	IDRefErr        byte = 0x2A
	IDAreaErr       byte = 0x2B
	IDRefN          byte = 0x2C
	IDAreaN         byte = 0x2D
	IDNameX         byte = 0x39
	IDRef3D         byte = 0x3A
	IDArea3D        byte = 0x3B
	IDDeletedRef3D  byte = 0x3C
	IDDeletedArea3D byte = 0x3D
)

// Ptg is one formula token.
type Ptg interface {
	// ID returns the token id byte, class bits included.
	ID() byte
	// Size returns the encoded size of the token. Array constant data is
	// not included.
	Size() int
	// String returns a short description of the token.
	String() string

	write(w *stream.Writer)
}

// Operand is a token whose class can change with context.
type Operand interface {
	Ptg
	Class() Class
	SetClass(c Class)
}

// BaseID strips the class bits from a classified id.
func BaseID(id byte) byte {
	if id < 0x20 {
		return id
	}
	return id&0x1F | 0x20
}

// ClassOf returns the class bits of a classified id.
func ClassOf(id byte) Class {
	return Class(id & 0x60)
}

type operand struct {
	class Class
}

func (o *operand) Class() Class     { return o.class }
func (o *operand) SetClass(c Class) { o.class = c }

func (o *operand) id(base byte) byte {
	return base&0x1F | byte(o.class)
}

func operandFromID(id byte) operand {
	return operand{class: ClassOf(id)}
}

func truncated(what string) error {
	return fmt.Errorf("%w: %s", ErrTruncated, what)
}

// readPtg decodes one token. The caller has consumed nothing; the id byte is
// read here.
func readPtg(r *stream.Reader) (Ptg, error) {
	id, err := r.ReadU8()
	if err != nil {
		return nil, truncated("token id")
	}

	if id < 0x20 {
		switch id {
		case IDExp, IDTbl:
			return readExp(id, r)
		case IDStr:
			return readStr(r)
		case IDAttr:
			return readAttr(r)
		case IDErr:
			return readErr(r)
		case IDBool:
			return readBool(r)
		case IDInt:
			return readInt(r)
		case IDNum:
			return readNum(r)
		}
		if op, ok := operatorByID(id); ok {
			return op, nil
		}
		return nil, ErrUnknownPtg
	}

	switch BaseID(id) {
	case IDArray:
		return readArray(id, r)
	case IDFunc:
		return readFunc(id, r)
	case IDFuncVar:
		return readFuncVar(id, r)
	case IDName:
		return readName(id, r)
	case IDRef, IDRefN:
		return readRef(id, r)
	case IDArea, IDAreaN:
		return readArea(id, r)
	case IDMemArea, IDMemErr:
		return readMem(id, r)
	case IDMemFunc:
		return readMemFunc(id, r)
	case IDRefErr:
		return readRefErr(id, r)
	case IDAreaErr:
		return readAreaErr(id, r)
	case IDNameX:
		return readNameX(id, r)
	case IDRef3D:
		return readRef3D(id, r)
	case IDArea3D:
		return readArea3D(id, r)
	case IDDeletedRef3D:
		return readDeletedRef3D(id, r)
	case IDDeletedArea3D:
		return readDeletedArea3D(id, r)
	}
	return nil, ErrUnknownPtg
}

// ReadTokens decodes size bytes of token data from r. Array constants are
// stored after the whole token run, so each ArrayPtg's values are read in a
// second pass, in token order, once the run ends.
func ReadTokens(size int, r *stream.Reader) ([]Ptg, error) {
	start := r.Offset()
	var ptgs []Ptg
	var arrays []*ArrayPtg

	for r.Offset()-start < size {
		pos := r.Offset() - start
		id, _ := r.PeekU8()
		ptg, err := readPtg(r)
		if err != nil {
			return nil, &TokenError{Offset: pos, ID: id, Err: err}
		}
		if a, ok := ptg.(*ArrayPtg); ok {
			arrays = append(arrays, a)
		}
		ptgs = append(ptgs, ptg)
	}
	if consumed := r.Offset() - start; consumed != size {
		return nil, fmt.Errorf("%w: read %d bytes, declared %d", ErrTokenSizeMismatch, consumed, size)
	}

	for _, a := range arrays {
		if err := a.readConstantData(r); err != nil {
			return nil, err
		}
	}
	return ptgs, nil
}

// WriteTokens writes the tokens followed by the array constant data.
func WriteTokens(w *stream.Writer, ptgs []Ptg) {
	for _, p := range ptgs {
		p.write(w)
	}
	for _, p := range ptgs {
		if a, ok := p.(*ArrayPtg); ok {
			a.writeConstantData(w)
		}
	}
}

// SerializeTokens encodes ptgs into a new buffer.
func SerializeTokens(ptgs []Ptg) ([]byte, error) {
	for _, p := range ptgs {
		if a, ok := p.(*ArrayPtg); ok {
			if err := a.validate(); err != nil {
				return nil, err
			}
		}
	}
	buf := make([]byte, EncodedSize(ptgs))
	w := stream.NewWriter(buf)
	WriteTokens(w, ptgs)
	if err := w.Err(); err != nil {
		return nil, err
	}
	if w.Offset() != len(buf) {
		return nil, fmt.Errorf("%w: wrote %d bytes, expected %d", ErrTokenSizeMismatch, w.Offset(), len(buf))
	}
	return buf, nil
}

// EncodedSize returns the size of the tokens plus array constant data.
func EncodedSize(ptgs []Ptg) int {
	n := 0
	for _, p := range ptgs {
		n += p.Size()
		if a, ok := p.(*ArrayPtg); ok {
			n += a.ConstantDataSize()
		}
	}
	return n
}

// EncodedSizeWithoutArrayData returns the size of the tokens alone, the
// value stored as a formula's token length.
func EncodedSizeWithoutArrayData(ptgs []Ptg) int {
	n := 0
	for _, p := range ptgs {
		n += p.Size()
	}
	return n
}
