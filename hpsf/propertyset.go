// Package hpsf reads and writes property set streams, the typed metadata
// stored in "\x05SummaryInformation" and "\x05DocumentSummaryInformation"
// entries of a compound file.
package hpsf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/richardlehane/msoleps/types"
	"github.com/skdltmxn/ole-go/internal/stream"
)

const (
	// ByteOrderMark is the first field of every property set stream.
	ByteOrderMark uint16 = 0xFFFE
	formatVersion uint16 = 0

	// OSWin32 in the high word of the OS version field.
	OSWin32 = 2

	streamHeaderSize = 28
	sectionEntrySize = 20
)

// Stream names of the well-known property sets.
const (
	SummaryInformationName         = "\x05SummaryInformation"
	DocumentSummaryInformationName = "\x05DocumentSummaryInformation"
)

// Format IDs of the well-known sections.
var (
	SummaryInformationID         = types.MustGuidFromString("{F29F85E0-4FF9-1068-AB91-08002B27B3D9}")
	DocumentSummaryInformationID = types.MustGuidFromString("{D5CDD502-2E9C-101B-9397-08002B2CF9AE}")
	UserDefinedPropertiesID      = types.MustGuidFromString("{D5CDD505-2E9C-101B-9397-08002B2CF9AE}")
)

// PropertySet is a decoded property set stream.
type PropertySet struct {
	ByteOrder uint16
	Format    uint16
	OSVersion uint32
	ClassID   types.Guid
	Sections  []*Section
}

// New creates an empty property set stamped as written on Win32.
func New() *PropertySet {
	return &PropertySet{
		ByteOrder: ByteOrderMark,
		Format:    formatVersion,
		OSVersion: OSWin32<<16 | 0x0A04,
	}
}

// IsPropertySetStream reports whether data starts with a property set
// stream header.
func IsPropertySetStream(data []byte) bool {
	if len(data) < streamHeaderSize {
		return false
	}
	return binary.LittleEndian.Uint16(data[0:]) == ByteOrderMark &&
		binary.LittleEndian.Uint16(data[2:]) == formatVersion
}

// Read decodes a property set stream.
func Read(data []byte) (*PropertySet, error) {
	if !IsPropertySetStream(data) {
		return nil, ErrNoPropertySet
	}

	r := stream.NewReader(data)
	ps := &PropertySet{}
	ps.ByteOrder, _ = r.ReadU16()
	ps.Format, _ = r.ReadU16()
	ps.OSVersion, _ = r.ReadU32()
	clsid, _ := r.ReadGUID()
	ps.ClassID = types.MustGuid(clsid[:])
	count, _ := r.ReadU32()
	if int64(count)*sectionEntrySize > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d sections do not fit in %d bytes", ErrCorrupt, count, len(data))
	}

	for i := 0; i < int(count); i++ {
		fmtid, _ := r.ReadGUID()
		off, _ := r.ReadU32()
		s, err := readSection(data, types.MustGuid(fmtid[:]), int(off))
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		ps.Sections = append(ps.Sections, s)
	}
	return ps, nil
}

// ReadFrom reads and decodes a whole property set stream from r.
func ReadFrom(r io.Reader) (*PropertySet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Read(data)
}

// FirstSection returns the first section, or nil.
func (ps *PropertySet) FirstSection() *Section {
	if len(ps.Sections) == 0 {
		return nil
	}
	return ps.Sections[0]
}

// Section returns the section with the given format ID.
func (ps *PropertySet) Section(formatID types.Guid) (*Section, bool) {
	for _, s := range ps.Sections {
		if s.FormatID == formatID {
			return s, true
		}
	}
	return nil, false
}

// AddSection appends a section.
func (ps *PropertySet) AddSection(s *Section) {
	ps.Sections = append(ps.Sections, s)
}

// IsSummaryInformation reports whether the first section is summary
// information.
func (ps *PropertySet) IsSummaryInformation() bool {
	s := ps.FirstSection()
	return s != nil && s.FormatID == SummaryInformationID
}

// IsDocumentSummaryInformation reports whether the first section is
// document summary information.
func (ps *PropertySet) IsDocumentSummaryInformation() bool {
	s := ps.FirstSection()
	return s != nil && s.FormatID == DocumentSummaryInformationID
}

// MarshalBinary encodes the stream: header, section list, then the sections
// back to back.
func (ps *PropertySet) MarshalBinary() ([]byte, error) {
	bodies := make([][]byte, len(ps.Sections))
	for i, s := range ps.Sections {
		b, err := s.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		bodies[i] = b
	}

	le := binary.LittleEndian
	out := make([]byte, 0, streamHeaderSize+sectionEntrySize*len(bodies))
	out = le.AppendUint16(out, ps.ByteOrder)
	out = le.AppendUint16(out, ps.Format)
	out = le.AppendUint32(out, ps.OSVersion)
	out = appendGUID(out, ps.ClassID)
	out = le.AppendUint32(out, uint32(len(bodies)))

	offset := streamHeaderSize + sectionEntrySize*len(bodies)
	for i, s := range ps.Sections {
		out = appendGUID(out, s.FormatID)
		out = le.AppendUint32(out, uint32(offset))
		offset += len(bodies[i])
	}
	for _, b := range bodies {
		out = append(out, b...)
	}
	return out, nil
}

// WriteTo writes the encoded stream to w.
func (ps *PropertySet) WriteTo(w io.Writer) (int64, error) {
	b, err := ps.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
