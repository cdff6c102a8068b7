package cfb

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStream(t *testing.T, size int) (*DocumentInputStream, []byte) {
	t.Helper()
	fs, err := New()
	require.NoError(t, err)
	data := payload(size, 3)
	doc, err := fs.Root().CreateDocument("Doc", bytes.NewReader(data))
	require.NoError(t, err)
	s, err := doc.Open()
	require.NoError(t, err)
	return s, data
}

func TestDocumentInputStreamAvailable(t *testing.T) {
	for _, size := range []int{300, 4096 + 1500} {
		require := require.New(t)
		s, data := openTestStream(t, size)

		avail, err := s.Available()
		require.NoError(err)
		require.Equal(int64(size), avail)

		buf := make([]byte, 100)
		n, err := s.Read(buf)
		require.NoError(err)
		require.Equal(100, n)
		require.Equal(data[:100], buf)

		avail, err = s.Available()
		require.NoError(err)
		require.Equal(int64(size-100), avail)

		rest, err := io.ReadAll(s)
		require.NoError(err)
		require.Equal(data[100:], rest)
	}
}

func TestDocumentInputStreamMarkReset(t *testing.T) {
	require := require.New(t)
	s, data := openTestStream(t, 5000)

	require.NoError(s.Reset())
	_, err := s.Skip(700)
	require.NoError(err)
	s.Mark(0)

	buf := make([]byte, 1000)
	require.NoError(s.ReadFully(buf))
	require.Equal(data[700:1700], buf)

	require.NoError(s.Reset())
	avail, err := s.Available()
	require.NoError(err)
	require.Equal(int64(5000-700), avail)

	b, err := s.ReadByte()
	require.NoError(err)
	require.Equal(data[700], b)
}

func TestDocumentInputStreamSkip(t *testing.T) {
	require := require.New(t)
	s, _ := openTestStream(t, 1000)

	n, err := s.Skip(-5)
	require.NoError(err)
	require.Zero(n)

	n, err = s.Skip(400)
	require.NoError(err)
	require.Equal(int64(400), n)

	n, err = s.Skip(math.MaxInt64)
	require.NoError(err)
	require.Equal(int64(600), n)

	avail, err := s.Available()
	require.NoError(err)
	require.Zero(avail)

	n, err = s.Skip(1)
	require.NoError(err)
	require.Zero(n)
}

func TestDocumentInputStreamReadBuffer(t *testing.T) {
	require := require.New(t)
	s, data := openTestStream(t, 10)

	_, err := s.ReadBuffer(nil, 0, 1)
	require.ErrorIs(err, ErrNilBuffer)

	buf := make([]byte, 8)
	_, err = s.ReadBuffer(buf, -1, 2)
	require.ErrorIs(err, ErrInvalidRange)
	_, err = s.ReadBuffer(buf, 4, 5)
	require.ErrorIs(err, ErrInvalidRange)
	_, err = s.ReadBuffer(buf, 9, 0)
	require.ErrorIs(err, ErrInvalidRange)

	n, err := s.ReadBuffer(buf, 0, 0)
	require.NoError(err)
	require.Zero(n)
	n, err = s.Read(nil)
	require.NoError(err)
	require.Zero(n)
	avail, _ := s.Available()
	require.Equal(int64(10), avail, "zero-length reads must not advance")

	n, err = s.ReadBuffer(buf, 2, 6)
	require.NoError(err)
	require.Equal(6, n)
	require.Equal(data[:6], buf[2:])

	n, err = s.ReadBuffer(buf, 0, 8)
	require.NoError(err)
	require.Equal(4, n)

	n, err = s.ReadBuffer(buf, 0, 8)
	require.ErrorIs(err, io.EOF)
	require.Equal(-1, n)
}

func TestDocumentInputStreamLittleEndian(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	raw := []byte{
		0x01,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x3F,
	}
	doc, err := fs.Root().CreateDocument("LE", bytes.NewReader(raw))
	require.NoError(err)
	s, err := doc.Open()
	require.NoError(err)

	u8, err := s.ReadU8()
	require.NoError(err)
	require.Equal(uint8(1), u8)
	u16, err := s.ReadU16()
	require.NoError(err)
	require.Equal(uint16(0x0102), u16)
	u32, err := s.ReadU32()
	require.NoError(err)
	require.Equal(uint32(0x01020304), u32)
	u64, err := s.ReadU64()
	require.NoError(err)
	require.Equal(uint64(0x0102030405060708), u64)
	f, err := s.ReadFloat64()
	require.NoError(err)
	require.Equal(1.5, f)

	_, err = s.ReadU16()
	require.ErrorIs(err, io.ErrUnexpectedEOF)
}

func TestDocumentInputStreamClosed(t *testing.T) {
	require := require.New(t)
	s, _ := openTestStream(t, 50)

	require.NoError(s.Close())
	require.NoError(s.Close())

	_, err := s.Available()
	require.ErrorIs(err, ErrStreamClosed)
	_, err = s.Read(make([]byte, 1))
	require.ErrorIs(err, ErrStreamClosed)
	_, err = s.ReadBuffer(make([]byte, 1), 0, 1)
	require.ErrorIs(err, ErrStreamClosed)
	_, err = s.Skip(1)
	require.ErrorIs(err, ErrStreamClosed)
	require.ErrorIs(s.Reset(), ErrStreamClosed)
	_, err = s.Seek(0, io.SeekStart)
	require.ErrorIs(err, ErrStreamClosed)

	s.Mark(10)
	require.ErrorIs(s.Reset(), ErrStreamClosed)
}

func TestDocumentInputStreamAfterFileSystemClose(t *testing.T) {
	for _, size := range []int{300, 4096 + 1500} {
		require := require.New(t)

		fs, err := New()
		require.NoError(err)
		doc, err := fs.Root().CreateDocument("Doc", bytes.NewReader(payload(size, 5)))
		require.NoError(err)
		s, err := doc.Open()
		require.NoError(err)

		require.NoError(fs.Close())

		_, err = s.Read(make([]byte, 16))
		require.ErrorIs(err, ErrClosed)
		require.NotErrorIs(err, ErrTruncatedFile)
		_, err = s.ReadAt(make([]byte, 16), 0)
		require.ErrorIs(err, ErrClosed)
	}
}

func TestDocumentInputStreamSeekAndReadAt(t *testing.T) {
	require := require.New(t)
	s, data := openTestStream(t, 5000)

	pos, err := s.Seek(-10, io.SeekEnd)
	require.NoError(err)
	require.Equal(int64(4990), pos)

	buf := make([]byte, 20)
	n, err := s.ReadAt(buf, 4990)
	require.ErrorIs(err, io.EOF)
	require.Equal(10, n)
	require.Equal(data[4990:], buf[:10])

	n, err = s.ReadAt(buf, 510)
	require.NoError(err)
	require.Equal(20, n)
	require.Equal(data[510:530], buf)

	_, err = s.Seek(-1, io.SeekStart)
	require.ErrorIs(err, ErrInvalidRange)
}
