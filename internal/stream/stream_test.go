package stream

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderLittleEndian(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0xFF})

	u16, err := r.ReadU16()
	require.NoError(err)
	require.Equal(uint16(0x0201), u16)

	u32, err := r.ReadU32()
	require.NoError(err)
	require.Equal(uint32(0x06050403), u32)

	require.Equal(3, r.Remaining())

	_, err = r.ReadU32()
	require.ErrorIs(err, ErrUnexpectedEOF)
	require.Equal(6, r.Offset(), "failed read must not advance")

	i16, err := r.ReadI16()
	require.NoError(err)
	require.Equal(int16(0x0807), i16)

	i8, err := r.ReadI8()
	require.NoError(err)
	require.Equal(int8(-1), i8)

	_, err = r.ReadU8()
	require.ErrorIs(err, ErrUnexpectedEOF)
}

func TestReaderBounds(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{1, 2, 3})
	require.ErrorIs(r.SetOffset(-1), ErrNegativeOffset)
	require.ErrorIs(r.Skip(-1), ErrNegativeLength)
	require.ErrorIs(r.Skip(4), ErrUnexpectedEOF)

	_, err := r.ReadBytes(-2)
	require.ErrorIs(err, ErrNegativeLength)

	_, err = r.Slice(2, 2)
	require.ErrorIs(err, ErrUnexpectedEOF)

	require.NoError(r.SetOffset(10))
	require.Equal(0, r.Remaining())
	_, err = r.ReadU8()
	require.ErrorIs(err, ErrUnexpectedEOF)

	n, err := r.Read(make([]byte, 4))
	require.Equal(0, n)
	require.ErrorIs(err, io.EOF)
}

func TestReaderStrings(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{'H', 0, 'i', 0, 0xE9, 'x'})
	s, err := r.ReadUTF16(2)
	require.NoError(err)
	require.Equal("Hi", s)

	s, err = r.ReadCompressedUnicode(2)
	require.NoError(err)
	require.Equal("éx", s)
}

func TestWriterRoundTrip(t *testing.T) {
	require := require.New(t)

	buf := make([]byte, 23)
	w := NewWriter(buf)
	w.WriteU8(0xAB)
	w.WriteU16(0x1234)
	w.WriteI32(-2)
	w.WriteFloat64(1.5)
	w.WriteUTF16("ok")
	require.NoError(w.Err())
	require.Equal(19, w.Offset())

	r := NewReader(buf)
	u8, _ := r.ReadU8()
	u16, _ := r.ReadU16()
	i32, _ := r.ReadI32()
	f, _ := r.ReadFloat64()
	s, err := r.ReadUTF16(2)
	require.NoError(err)
	require.Equal(uint8(0xAB), u8)
	require.Equal(uint16(0x1234), u16)
	require.Equal(int32(-2), i32)
	require.Equal(1.5, f)
	require.Equal("ok", s)
}

func TestWriterOverflowIsSticky(t *testing.T) {
	require := require.New(t)

	w := NewWriter(make([]byte, 3))
	w.WriteU16(1)
	w.WriteU16(2)
	require.ErrorIs(w.Err(), ErrBufferOverflow)
	w.WriteU8(3)
	require.Equal(2, w.Offset())

	_, err := w.Write([]byte{1})
	require.ErrorIs(err, ErrBufferOverflow)
}

func TestUTF16Helpers(t *testing.T) {
	require := require.New(t)

	require.Equal(3, UTF16Len("abc"))
	require.Equal(2, UTF16Len("\U0001F600"))
	require.True(IsCompressible("café"))
	require.False(IsCompressible("日本"))
}
