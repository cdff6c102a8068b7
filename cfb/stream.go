package cfb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// DocumentInputStream reads a document's blocks as one contiguous stream.
// It supports mark/reset with an unlimited mark distance.
type DocumentInputStream struct {
	fs     *FileSystem
	store  blockStore
	chain  []uint32
	size   int64
	pos    int64
	mark   int64
	closed bool
}

func newDocumentInputStream(fs *FileSystem, store blockStore, start uint32, size int64) (*DocumentInputStream, error) {
	var chain []uint32
	if size > 0 {
		var err error
		chain, err = store.table().ResolveSizedChain(start, size, store.blockSize())
		if err != nil {
			return nil, err
		}
	}
	return &DocumentInputStream{fs: fs, store: store, chain: chain, size: size}, nil
}

// Size returns the total length of the document.
func (s *DocumentInputStream) Size() int64 {
	return s.size
}

// Available returns the number of unread bytes.
func (s *DocumentInputStream) Available() (int64, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	return s.size - s.pos, nil
}

// Read implements io.Reader. A zero-length read returns 0 without advancing.
func (s *DocumentInputStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.pos >= s.size {
		return 0, io.EOF
	}
	n, err := s.readAt(p, s.pos)
	s.pos += int64(n)
	return n, err
}

// ReadBuffer reads up to n bytes into b[off:off+n]. It returns -1 and io.EOF
// when the stream is exhausted.
func (s *DocumentInputStream) ReadBuffer(b []byte, off, n int) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if b == nil {
		return 0, ErrNilBuffer
	}
	if off < 0 || n < 0 || off > len(b) || n > len(b)-off {
		return 0, fmt.Errorf("%w: offset %d length %d buffer %d", ErrInvalidRange, off, n, len(b))
	}
	if n == 0 {
		return 0, nil
	}
	if s.pos >= s.size {
		return -1, io.EOF
	}
	return s.Read(b[off : off+n])
}

// ReadAt implements io.ReaderAt without moving the stream position.
func (s *DocumentInputStream) ReadAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrInvalidRange, off)
	}
	if off >= s.size {
		return 0, io.EOF
	}
	n, err := s.readAt(p, off)
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

// readAt copies from the container's blocks, which are released when the
// file system is closed.
func (s *DocumentInputStream) readAt(p []byte, off int64) (int, error) {
	s.fs.mu.RLock()
	defer s.fs.mu.RUnlock()
	if err := s.fs.checkOpen(); err != nil {
		return 0, err
	}

	bs := int64(s.store.blockSize())
	total := 0
	for total < len(p) && off < s.size {
		b, err := s.store.block(s.chain[off/bs])
		if err != nil {
			return total, err
		}
		within := off % bs
		avail := min(bs-within, s.size-off)
		n := copy(p[total:], b[within:within+avail])
		total += n
		off += int64(n)
	}
	return total, nil
}

// ReadByte implements io.ByteReader.
func (s *DocumentInputStream) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := s.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadFully fills p or fails with io.ErrUnexpectedEOF.
func (s *DocumentInputStream) ReadFully(p []byte) error {
	if s.closed {
		return ErrStreamClosed
	}
	if int64(len(p)) > s.size-s.pos {
		return fmt.Errorf("cfb: need %d bytes, %d available: %w", len(p), s.size-s.pos, io.ErrUnexpectedEOF)
	}
	_, err := io.ReadFull(s, p)
	return err
}

// ReadU8 reads an unsigned byte.
func (s *DocumentInputStream) ReadU8() (uint8, error) {
	var b [1]byte
	if err := s.ReadFully(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (s *DocumentInputStream) ReadU16() (uint16, error) {
	var b [2]byte
	if err := s.ReadFully(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadU32 reads a little-endian uint32.
func (s *DocumentInputStream) ReadU32() (uint32, error) {
	var b [4]byte
	if err := s.ReadFully(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadU64 reads a little-endian uint64.
func (s *DocumentInputStream) ReadU64() (uint64, error) {
	var b [8]byte
	if err := s.ReadFully(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// ReadI16 reads a little-endian int16.
func (s *DocumentInputStream) ReadI16() (int16, error) {
	v, err := s.ReadU16()
	return int16(v), err
}

// ReadI32 reads a little-endian int32.
func (s *DocumentInputStream) ReadI32() (int32, error) {
	v, err := s.ReadU32()
	return int32(v), err
}

// ReadI64 reads a little-endian int64.
func (s *DocumentInputStream) ReadI64() (int64, error) {
	v, err := s.ReadU64()
	return int64(v), err
}

// ReadFloat64 reads a little-endian IEEE 754 double.
func (s *DocumentInputStream) ReadFloat64() (float64, error) {
	v, err := s.ReadU64()
	return math.Float64frombits(v), err
}

// Mark remembers the current position. The limit is ignored. Mark does
// nothing on a closed stream; the following Reset reports ErrStreamClosed.
func (s *DocumentInputStream) Mark(limit int) {
	if s.closed {
		return
	}
	s.mark = s.pos
}

// Reset returns to the last mark, or to the start if Mark was never called.
func (s *DocumentInputStream) Reset() error {
	if s.closed {
		return ErrStreamClosed
	}
	s.pos = s.mark
	return nil
}

// Skip advances by up to n bytes and returns the number skipped. Negative n
// skips nothing.
func (s *DocumentInputStream) Skip(n int64) (int64, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if n <= 0 {
		return 0, nil
	}
	n = min(n, s.size-s.pos)
	s.pos += n
	return n, nil
}

// Seek implements io.Seeker. Positions are clamped to the stream bounds.
func (s *DocumentInputStream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = s.size + offset
	default:
		return 0, errors.New("cfb: invalid whence")
	}
	if abs < 0 {
		return 0, fmt.Errorf("%w: seek to %d", ErrInvalidRange, abs)
	}
	s.pos = min(abs, s.size)
	return s.pos, nil
}

// Close closes the stream. Closing twice is allowed.
func (s *DocumentInputStream) Close() error {
	s.closed = true
	return nil
}
