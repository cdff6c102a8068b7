// Package cfb reads and writes OLE2 compound binary files: a small FAT-style
// file system of storages and streams packed into fixed-size sectors.
package cfb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Signature is the eight-byte magic at the start of every compound file.
var Signature = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// HeaderSize is the size of the on-disk header structure.
const HeaderSize = 512

// Sector sizes
const (
	BigBlockSize   = 512  // version 3 sectors
	LargeBlockSize = 4096 // version 4 sectors
	MiniBlockSize  = 64
)

// MiniStreamCutoff is the size below which streams live in the mini stream.
const MiniStreamCutoff = 4096

// HeaderDIFATEntries is the number of FAT sector locations stored in the header.
const HeaderDIFATEntries = 109

// Special sector values
const (
	MaxRegSect uint32 = 0xFFFFFFFA
	DIFATSect  uint32 = 0xFFFFFFFC
	FATSect    uint32 = 0xFFFFFFFD
	EndOfChain uint32 = 0xFFFFFFFE
	FreeSect   uint32 = 0xFFFFFFFF
)

// NoStream marks an absent sibling or child in the directory.
const NoStream uint32 = 0xFFFFFFFF

const (
	byteOrderMark uint16 = 0xFFFE
	minorVersion  uint16 = 0x003E
)

// Header is the fixed 512-byte compound file header.
type Header struct {
	Signature          [8]byte
	CLSID              [16]byte
	MinorVersion       uint16
	MajorVersion       uint16
	ByteOrder          uint16
	SectorShift        uint16
	MiniSectorShift    uint16
	Reserved           [6]byte
	NumDirSectors      uint32 // always 0 for version 3
	NumFATSectors      uint32
	FirstDirSector     uint32
	TransactionSig     uint32
	MiniStreamCutoff   uint32
	FirstMiniFATSector uint32
	NumMiniFATSectors  uint32
	FirstDIFATSector   uint32
	NumDIFATSectors    uint32
	DIFAT              [HeaderDIFATEntries]uint32
}

// NewHeader returns the header of an empty file with the given sector size.
func NewHeader(blockSize int) (*Header, error) {
	h := &Header{
		Signature:          Signature,
		MinorVersion:       minorVersion,
		ByteOrder:          byteOrderMark,
		MiniSectorShift:    6,
		MiniStreamCutoff:   MiniStreamCutoff,
		FirstDirSector:     EndOfChain,
		FirstMiniFATSector: EndOfChain,
		FirstDIFATSector:   EndOfChain,
	}
	switch blockSize {
	case BigBlockSize:
		h.MajorVersion, h.SectorShift = 3, 9
	case LargeBlockSize:
		h.MajorVersion, h.SectorShift = 4, 12
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	for i := range h.DIFAT {
		h.DIFAT[i] = FreeSect
	}
	return h, nil
}

// ReadHeader reads and validates a Header from the given reader.
func ReadHeader(r io.Reader) (*Header, error) {
	var h Header

	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncatedFile
		}
		return nil, fmt.Errorf("cfb: failed to read header: %w", err)
	}

	if h.Signature != Signature {
		return nil, ErrNotOLE2
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	return &h, nil
}

// Validate checks the header fields the reader depends on.
func (h *Header) Validate() error {
	if h.ByteOrder != byteOrderMark {
		return fmt.Errorf("%w: byte order 0x%04X", ErrInvalidHeader, h.ByteOrder)
	}
	switch h.SectorShift {
	case 9, 12:
	default:
		return fmt.Errorf("%w: unsupported sector shift %d", ErrInvalidHeader, h.SectorShift)
	}
	if h.MajorVersion != 3 && h.MajorVersion != 4 {
		return fmt.Errorf("%w: major version %d", ErrInvalidHeader, h.MajorVersion)
	}
	if h.MiniSectorShift != 6 {
		return fmt.Errorf("%w: mini sector shift %d", ErrInvalidHeader, h.MiniSectorShift)
	}
	return nil
}

// BlockSize returns the sector size in bytes.
func (h *Header) BlockSize() int {
	return 1 << h.SectorShift
}

// SectorOffset returns the file offset of the given sector.
// Sector 0 follows the header sector.
func (h *Header) SectorOffset(sector uint32) int64 {
	return int64(sector+1) << h.SectorShift
}

// MarshalBinary encodes the header into one sector; version 4 headers are
// zero padded to 4096 bytes.
func (h *Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(h.BlockSize())
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("cfb: failed to write header: %w", err)
	}
	buf.Write(make([]byte, h.BlockSize()-HeaderSize))
	return buf.Bytes(), nil
}
