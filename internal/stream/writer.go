package stream

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Writer writes little-endian values into a fixed-size byte slice.
//
// The first write that does not fit sets a sticky ErrBufferOverflow and all
// later writes are ignored, so a serializer can emit a whole record and check
// Err once.
type Writer struct {
	buf    []byte
	offset int
	err    error
}

// NewWriter creates a Writer over buf, starting at offset 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int {
	return w.offset
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Bytes returns the written portion of the buffer.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.offset]
}

func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	if n < 0 || len(w.buf)-w.offset < n {
		w.err = ErrBufferOverflow
		return nil
	}
	b := w.buf[w.offset : w.offset+n]
	w.offset += n
	return b
}

// WriteU8 writes an unsigned 8-bit integer.
func (w *Writer) WriteU8(v uint8) {
	if b := w.reserve(1); b != nil {
		b[0] = v
	}
}

// WriteU16 writes an unsigned 16-bit integer.
func (w *Writer) WriteU16(v uint16) {
	if b := w.reserve(2); b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
}

// WriteU32 writes an unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) {
	if b := w.reserve(4); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
}

// WriteU64 writes an unsigned 64-bit integer.
func (w *Writer) WriteU64(v uint64) {
	if b := w.reserve(8); b != nil {
		binary.LittleEndian.PutUint64(b, v)
	}
}

// WriteI16 writes a signed 16-bit integer.
func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }

// WriteI32 writes a signed 32-bit integer.
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

// WriteI64 writes a signed 64-bit integer.
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteFloat32 writes a 32-bit float.
func (w *Writer) WriteFloat32(v float32) { w.WriteU32(math.Float32bits(v)) }

// WriteFloat64 writes a 64-bit float.
func (w *Writer) WriteFloat64(v float64) { w.WriteU64(math.Float64bits(v)) }

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	b := w.reserve(len(p))
	if b == nil && len(p) > 0 {
		return 0, w.err
	}
	copy(b, p)
	return len(p), nil
}

// WriteBytes writes p without reporting errors; see Err.
func (w *Writer) WriteBytes(p []byte) {
	if b := w.reserve(len(p)); b != nil {
		copy(b, p)
	}
}

// Fill writes n copies of v.
func (w *Writer) Fill(n int, v byte) {
	b := w.reserve(n)
	for i := range b {
		b[i] = v
	}
}

// WriteUTF16 writes s as UTF-16LE code units without a terminator.
func (w *Writer) WriteUTF16(s string) {
	for _, u := range utf16.Encode([]rune(s)) {
		w.WriteU16(u)
	}
}

// WriteCompressedUnicode writes s as single-byte ISO-8859-1 characters.
// Characters outside that range are written as '?'.
func (w *Writer) WriteCompressedUnicode(s string) {
	for _, c := range s {
		if c > 0xFF {
			c = '?'
		}
		w.WriteU8(uint8(c))
	}
}

// UTF16Len returns the number of UTF-16 code units needed for s.
func UTF16Len(s string) int {
	n := 0
	for _, c := range s {
		if c >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// IsCompressible reports whether every character of s fits in one byte.
func IsCompressible(s string) bool {
	for _, c := range s {
		if c > 0xFF {
			return false
		}
	}
	return true
}
