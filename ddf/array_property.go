package ddf

import (
	"encoding/binary"
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// arrayHeaderSize covers numElements, numReserved and sizeOfElements.
const arrayHeaderSize = 6

// ArrayProperty is a complex property whose data is a counted array of
// fixed-size elements.
//
// The simple part of an array normally declares the full complex length,
// header included. Some writers declare only the element bytes; such arrays
// are read with the header added and written back with the same short
// declaration.
type ArrayProperty struct {
	propertyID
	data                   []byte
	sizeIncludesHeaderSize bool
	declared               int
}

// NewArrayProperty creates an empty array property. sizeOfElements is the raw
// field value; negative values use the packed encoding (see ElementSize).
func NewArrayProperty(number uint16, sizeOfElements int16) *ArrayProperty {
	a := &ArrayProperty{
		propertyID:             propertyID(number&propertyNumberMask | PropertyComplexFlag),
		data:                   make([]byte, arrayHeaderSize),
		sizeIncludesHeaderSize: true,
	}
	binary.LittleEndian.PutUint16(a.data[4:], uint16(sizeOfElements))
	return a
}

// ElementSize converts a raw sizeOfElements field to a byte count.
// Negative values store the size shifted left by two and negated.
func ElementSize(sizeOfElements int16) int {
	if sizeOfElements < 0 {
		return int(-int32(sizeOfElements)) >> 2
	}
	return int(sizeOfElements)
}

func (a *ArrayProperty) readArrayData(r *stream.Reader) error {
	if a.declared == 0 {
		a.data = nil
		a.sizeIncludesHeaderSize = true
		return nil
	}

	head, err := r.Peek(arrayHeaderSize)
	if err != nil {
		return fmt.Errorf("%w: array property %d header", ErrRecordTruncated, a.Number())
	}
	numElements := int(binary.LittleEndian.Uint16(head))
	sizeOfElements := int16(binary.LittleEndian.Uint16(head[4:]))

	length := a.declared
	a.sizeIncludesHeaderSize = true
	if elementBytes := ElementSize(sizeOfElements) * numElements; elementBytes == a.declared {
		length = elementBytes + arrayHeaderSize
		a.sizeIncludesHeaderSize = false
	}

	data, err := r.ReadBytes(length)
	if err != nil {
		return fmt.Errorf("%w: array property %d complex part of %d bytes", ErrRecordTruncated, a.Number(), length)
	}
	a.data = data
	return nil
}

// SizeIncludesHeaderSize reports whether the simple part counts the array
// header in the declared length.
func (a *ArrayProperty) SizeIncludesHeaderSize() bool {
	return a.sizeIncludesHeaderSize
}

// ComplexData returns the array header and elements.
func (a *ArrayProperty) ComplexData() []byte {
	return a.data
}

// NumElements returns the element count stored in the array header.
func (a *ArrayProperty) NumElements() int {
	if len(a.data) < arrayHeaderSize {
		return 0
	}
	return int(binary.LittleEndian.Uint16(a.data))
}

// NumReserved returns the reserved (in-memory) element count.
func (a *ArrayProperty) NumReserved() int {
	if len(a.data) < arrayHeaderSize {
		return 0
	}
	return int(binary.LittleEndian.Uint16(a.data[2:]))
}

// SizeOfElements returns the raw sizeOfElements field.
func (a *ArrayProperty) SizeOfElements() int16 {
	if len(a.data) < arrayHeaderSize {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(a.data[4:]))
}

// ElementSize returns the size in bytes of one element.
func (a *ArrayProperty) ElementSize() int {
	return ElementSize(a.SizeOfElements())
}

// SetNumElements resizes the array to n elements, keeping existing ones, and
// updates both header counts.
func (a *ArrayProperty) SetNumElements(n int) error {
	if n < 0 || n > 0xFFFF {
		return fmt.Errorf("%w: %d elements", ErrIndexOutOfRange, n)
	}
	size := arrayHeaderSize + n*a.ElementSize()
	if len(a.data) < arrayHeaderSize {
		a.data = make([]byte, arrayHeaderSize)
	}
	if size != len(a.data) {
		data := make([]byte, size)
		copy(data, a.data)
		a.data = data
	}
	binary.LittleEndian.PutUint16(a.data, uint16(n))
	binary.LittleEndian.PutUint16(a.data[2:], uint16(n))
	return nil
}

// Element returns a copy of element i.
func (a *ArrayProperty) Element(i int) ([]byte, error) {
	off, err := a.elementOffset(i)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), a.data[off:off+a.ElementSize()]...), nil
}

// SetElement overwrites element i. b must be exactly ElementSize bytes.
func (a *ArrayProperty) SetElement(i int, b []byte) error {
	off, err := a.elementOffset(i)
	if err != nil {
		return err
	}
	if len(b) != a.ElementSize() {
		return fmt.Errorf("%w: element is %d bytes, want %d", ErrInvalidProperty, len(b), a.ElementSize())
	}
	copy(a.data[off:], b)
	return nil
}

func (a *ArrayProperty) elementOffset(i int) (int, error) {
	size := a.ElementSize()
	off := arrayHeaderSize + i*size
	if i < 0 || i >= a.NumElements() || off+size > len(a.data) {
		return 0, fmt.Errorf("%w: element %d of %d", ErrIndexOutOfRange, i, a.NumElements())
	}
	return off, nil
}

func (a *ArrayProperty) PropertySize() int { return simplePartSize + len(a.data) }

func (a *ArrayProperty) writeSimple(w *stream.Writer) {
	w.WriteU16(a.ID())
	length := len(a.data)
	if !a.sizeIncludesHeaderSize {
		length -= arrayHeaderSize
	}
	w.WriteI32(int32(length))
}

func (a *ArrayProperty) writeComplex(w *stream.Writer) {
	w.WriteBytes(a.data)
}

func (a *ArrayProperty) String() string {
	return fmt.Sprintf("%s (%d) = array[%d x %d bytes]", a.Name(), a.Number(), a.NumElements(), a.ElementSize())
}
