// Package stream provides little-endian cursors over byte slices used by the
// container and record codecs.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"unicode/utf16"
)

// Errors returned by Reader and Writer
var (
	ErrUnexpectedEOF  = errors.New("stream: unexpected end of data")
	ErrNegativeOffset = errors.New("stream: negative offset")
	ErrNegativeLength = errors.New("stream: negative length")
	ErrBufferOverflow = errors.New("stream: write past end of buffer")
)

// Reader reads little-endian values from a byte slice.
// Every read is bounds checked; a failed read does not advance the position.
type Reader struct {
	data   []byte
	offset int
}

// NewReader creates a Reader from a byte slice.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.offset
}

// SetOffset sets the read position.
func (r *Reader) SetOffset(offset int) error {
	if offset < 0 {
		return ErrNegativeOffset
	}
	r.offset = offset
	return nil
}

// Len returns the total length of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of bytes remaining.
func (r *Reader) Remaining() int {
	if r.offset >= len(r.data) {
		return 0
	}
	return len(r.data) - r.offset
}

func (r *Reader) has(n int) bool {
	return n >= 0 && r.offset <= len(r.data) && len(r.data)-r.offset >= n
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if !r.has(n) {
		return ErrUnexpectedEOF
	}
	r.offset += n
	return nil
}

// Align aligns the read position to the given boundary.
func (r *Reader) Align(alignment int) {
	if alignment <= 1 {
		return
	}
	if mod := r.offset % alignment; mod != 0 {
		r.offset += alignment - mod
	}
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	if !r.has(1) {
		return 0, ErrUnexpectedEOF
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

// ReadU16 reads an unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	if !r.has(2) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint16(r.data[r.offset:])
	r.offset += 2
	return v, nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	if !r.has(4) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

// ReadU64 reads an unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	if !r.has(8) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

// ReadI8 reads a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadI16 reads a signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadI64 reads a signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadFloat32 reads a 32-bit float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads a 64-bit float.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if !r.has(n) {
		return nil, ErrUnexpectedEOF
	}
	v := make([]byte, n)
	copy(v, r.data[r.offset:r.offset+n])
	r.offset += n
	return v, nil
}

// ReadBytesRef returns a reference to n bytes without copying.
// The returned slice is only valid as long as the underlying data.
func (r *Reader) ReadBytesRef(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if !r.has(n) {
		return nil, ErrUnexpectedEOF
	}
	v := r.data[r.offset : r.offset+n]
	r.offset += n
	return v, nil
}

// ReadUTF16 reads n UTF-16LE code units and decodes them.
func (r *Reader) ReadUTF16(n int) (string, error) {
	if n < 0 {
		return "", ErrNegativeLength
	}
	if !r.has(2 * n) {
		return "", ErrUnexpectedEOF
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(r.data[r.offset+2*i:])
	}
	r.offset += 2 * n
	return string(utf16.Decode(units)), nil
}

// ReadCompressedUnicode reads n single-byte ISO-8859-1 characters.
func (r *Reader) ReadCompressedUnicode(n int) (string, error) {
	if n < 0 {
		return "", ErrNegativeLength
	}
	if !r.has(n) {
		return "", ErrUnexpectedEOF
	}
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = rune(r.data[r.offset+i])
	}
	r.offset += n
	return string(runes), nil
}

// ReadGUID reads a 16-byte GUID.
func (r *Reader) ReadGUID() ([16]byte, error) {
	var guid [16]byte
	if !r.has(16) {
		return guid, ErrUnexpectedEOF
	}
	copy(guid[:], r.data[r.offset:r.offset+16])
	r.offset += 16
	return guid, nil
}

// Peek returns a copy of the next n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if !r.has(n) {
		return nil, ErrUnexpectedEOF
	}
	v := make([]byte, n)
	copy(v, r.data[r.offset:r.offset+n])
	return v, nil
}

// PeekU8 returns the next byte without advancing the position.
func (r *Reader) PeekU8() (uint8, error) {
	if !r.has(1) {
		return 0, ErrUnexpectedEOF
	}
	return r.data[r.offset], nil
}

// PeekU16 returns the next 16-bit integer without advancing the position.
func (r *Reader) PeekU16() (uint16, error) {
	if !r.has(2) {
		return 0, ErrUnexpectedEOF
	}
	return binary.LittleEndian.Uint16(r.data[r.offset:]), nil
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.offset >= len(r.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n = copy(p, r.data[r.offset:])
	r.offset += n
	return n, nil
}

// Slice returns a new Reader for a subset of the data.
func (r *Reader) Slice(offset, length int) (*Reader, error) {
	if offset < 0 || length < 0 || offset > len(r.data) || len(r.data)-offset < length {
		return nil, ErrUnexpectedEOF
	}
	return NewReader(r.data[offset : offset+length]), nil
}

// SubReader returns a new Reader starting at the current position with the given length.
func (r *Reader) SubReader(length int) (*Reader, error) {
	if length < 0 {
		return nil, ErrNegativeLength
	}
	if !r.has(length) {
		return nil, ErrUnexpectedEOF
	}
	sub := NewReader(r.data[r.offset : r.offset+length])
	r.offset += length
	return sub, nil
}

// Data returns the underlying byte slice.
func (r *Reader) Data() []byte {
	return r.data
}

// RemainingData returns the remaining unread data.
func (r *Reader) RemainingData() []byte {
	if r.offset >= len(r.data) {
		return nil
	}
	return r.data[r.offset:]
}
