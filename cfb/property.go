package cfb

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf16"

	"github.com/richardlehane/msoleps/types"
)

// PropertySize is the size of one directory entry on disk.
const PropertySize = 128

// MaxNameLength is the maximum entry name length in UTF-16 code units.
const MaxNameLength = 31

// EntryType is the object type of a directory entry.
type EntryType uint8

const (
	TypeEmpty   EntryType = 0
	TypeStorage EntryType = 1
	TypeStream  EntryType = 2
	TypeRoot    EntryType = 5
)

func (t EntryType) String() string {
	switch t {
	case TypeEmpty:
		return "empty"
	case TypeStorage:
		return "storage"
	case TypeStream:
		return "stream"
	case TypeRoot:
		return "root"
	default:
		return fmt.Sprintf("EntryType(%d)", uint8(t))
	}
}

// Color is the red-black colour flag of a directory entry.
type Color uint8

const (
	Red   Color = 0
	Black Color = 1
)

// RootName is the name of the root storage.
const RootName = "Root Entry"

// Property is one directory entry. Sibling and child links are ids into the
// owning PropertyTable; the parsed tree is held in the table, not here.
type Property struct {
	Name        string
	Type        EntryType
	Color       Color
	LeftID      uint32
	RightID     uint32
	ChildID     uint32
	CLSID       types.Guid
	StateBits   uint32
	Created     types.FileTime
	Modified    types.FileTime
	StartSector uint32
	Size        uint64

	id       int
	parent   int
	children []int
}

// ID returns the entry's position in the table.
func (p *Property) ID() int { return p.id }

// IsDirectory reports whether the entry is a storage or the root.
func (p *Property) IsDirectory() bool {
	return p.Type == TypeStorage || p.Type == TypeRoot
}

// parseProperty decodes one 128-byte entry. Version 3 files only use the low
// 32 bits of the size.
func parseProperty(b []byte, majorVersion uint16) (*Property, error) {
	if len(b) < PropertySize {
		return nil, fmt.Errorf("%w: short directory entry", ErrCorruptDirectory)
	}

	nameLen := int(binary.LittleEndian.Uint16(b[64:]))
	p := &Property{
		Type:        EntryType(b[66]),
		Color:       Color(b[67]),
		LeftID:      binary.LittleEndian.Uint32(b[68:]),
		RightID:     binary.LittleEndian.Uint32(b[72:]),
		ChildID:     binary.LittleEndian.Uint32(b[76:]),
		CLSID:       types.MustGuid(b[80:96]),
		StateBits:   binary.LittleEndian.Uint32(b[96:]),
		Created:     types.MustFileTime(b[100:108]),
		Modified:    types.MustFileTime(b[108:116]),
		StartSector: binary.LittleEndian.Uint32(b[116:]),
		Size:        binary.LittleEndian.Uint64(b[120:]),
	}
	if majorVersion < 4 {
		p.Size &= 0xFFFFFFFF
	}

	if p.Type == TypeEmpty {
		return p, nil
	}
	if nameLen > 64 || nameLen%2 != 0 {
		return nil, fmt.Errorf("%w: name length %d", ErrCorruptDirectory, nameLen)
	}
	units := make([]uint16, 0, 32)
	for i := 0; i+2 <= nameLen; i += 2 {
		u := binary.LittleEndian.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	p.Name = string(utf16.Decode(units))
	return p, nil
}

// marshal writes the entry into a 128-byte slice.
func (p *Property) marshal(b []byte) {
	clear(b[:PropertySize])

	units := utf16.Encode([]rune(p.Name))
	if len(units) > MaxNameLength {
		units = units[:MaxNameLength]
	}
	for i, u := range units {
		binary.LittleEndian.PutUint16(b[i*2:], u)
	}
	if p.Type != TypeEmpty {
		binary.LittleEndian.PutUint16(b[64:], uint16((len(units)+1)*2))
	}
	b[66] = byte(p.Type)
	b[67] = byte(p.Color)
	binary.LittleEndian.PutUint32(b[68:], p.LeftID)
	binary.LittleEndian.PutUint32(b[72:], p.RightID)
	binary.LittleEndian.PutUint32(b[76:], p.ChildID)
	putGUID(b[80:96], p.CLSID)
	binary.LittleEndian.PutUint32(b[96:], p.StateBits)
	binary.LittleEndian.PutUint32(b[100:], p.Created.Low)
	binary.LittleEndian.PutUint32(b[104:], p.Created.High)
	binary.LittleEndian.PutUint32(b[108:], p.Modified.Low)
	binary.LittleEndian.PutUint32(b[112:], p.Modified.High)
	binary.LittleEndian.PutUint32(b[116:], p.StartSector)
	binary.LittleEndian.PutUint64(b[120:], p.Size)
}

func emptyProperty() *Property {
	return &Property{
		LeftID:      NoStream,
		RightID:     NoStream,
		ChildID:     NoStream,
		StartSector: 0,
	}
}

func putGUID(b []byte, g types.Guid) {
	binary.LittleEndian.PutUint32(b[0:], g.DataA)
	binary.LittleEndian.PutUint16(b[4:], g.DataB)
	binary.LittleEndian.PutUint16(b[6:], g.DataC)
	copy(b[8:16], g.DataD[:])
}

// GUIDBytes returns the on-disk encoding of g.
func GUIDBytes(g types.Guid) [16]byte {
	var b [16]byte
	putGUID(b[:], g)
	return b
}

// ticks between 1601-01-01 and 1970-01-01 in 100ns units
const fileTimeEpochDelta = 116444736000000000

// FileTimeFromTime converts t to a Windows FILETIME.
func FileTimeFromTime(t time.Time) types.FileTime {
	if t.IsZero() {
		return types.FileTime{}
	}
	v := uint64(t.UnixNano()/100) + fileTimeEpochDelta
	return types.FileTime{Low: uint32(v), High: uint32(v >> 32)}
}
