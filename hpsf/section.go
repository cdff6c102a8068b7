package hpsf

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/richardlehane/msoleps/types"
	"github.com/skdltmxn/ole-go/internal/stream"
)

// Reserved property IDs.
const (
	PIDDictionary uint32 = 0
	PIDCodepage   uint32 = 1
	PIDLocale     uint32 = 0x80000000
	PIDBehavior   uint32 = 0x80000003
)

// Property is one typed value of a section.
type Property struct {
	ID    uint32
	Type  VarType
	Value any
}

func (p *Property) String() string {
	return fmt.Sprintf("%d %s %v", p.ID, p.Type, p.Value)
}

// Section is a set of properties identified by a format ID. The dictionary
// (property 0) is kept apart from the typed properties.
type Section struct {
	FormatID   types.Guid
	properties map[uint32]*Property
	dictionary map[uint32]string
}

// NewSection creates an empty section.
func NewSection(formatID types.Guid) *Section {
	return &Section{FormatID: formatID, properties: make(map[uint32]*Property)}
}

// Properties returns the typed properties ordered by ID. The dictionary is
// not included.
func (s *Section) Properties() []*Property {
	props := make([]*Property, 0, len(s.properties))
	for _, p := range s.properties {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].ID < props[j].ID })
	return props
}

// PropertyCount returns the number of entries written for the section,
// dictionary included.
func (s *Section) PropertyCount() int {
	n := len(s.properties)
	if s.dictionary != nil {
		n++
	}
	return n
}

// Property returns the property with the given ID.
func (s *Section) Property(id uint32) (*Property, bool) {
	p, ok := s.properties[id]
	return p, ok
}

// Value returns the value of a property, or nil if it is not set.
func (s *Section) Value(id uint32) any {
	if p, ok := s.properties[id]; ok {
		return p.Value
	}
	return nil
}

// SetProperty stores value with an explicit type. The value is checked
// against the type immediately.
func (s *Section) SetProperty(id uint32, vt VarType, value any) error {
	if id == PIDDictionary {
		return fmt.Errorf("%w: property 0 is the dictionary", ErrInvalidValue)
	}
	cp := s.Codepage()
	if id == PIDCodepage {
		v, ok := value.(int16)
		if vt != VTI2 || !ok {
			return invalid(vt, value)
		}
		cp = int(uint16(v))
	}
	if _, err := appendValue(nil, vt, value, cp); err != nil {
		return err
	}
	s.properties[id] = &Property{ID: id, Type: vt, Value: value}
	return nil
}

// Set stores value with the type chosen by VarTypeOf.
func (s *Section) Set(id uint32, value any) error {
	vt, v, err := VarTypeOf(value)
	if err != nil {
		return err
	}
	return s.SetProperty(id, vt, v)
}

// RemoveProperty deletes a property. Removing property 0 drops the
// dictionary.
func (s *Section) RemoveProperty(id uint32) {
	if id == PIDDictionary {
		s.dictionary = nil
		return
	}
	delete(s.properties, id)
}

// Codepage returns the section's codepage, or -1 if none is set.
func (s *Section) Codepage() int {
	if v, ok := s.Value(PIDCodepage).(int16); ok {
		return int(uint16(v))
	}
	return -1
}

// SetCodepage sets property 1.
func (s *Section) SetCodepage(cp int) {
	s.properties[PIDCodepage] = &Property{ID: PIDCodepage, Type: VTI2, Value: int16(uint16(cp))}
}

// Dictionary returns the ID to name mapping, or nil.
func (s *Section) Dictionary() map[uint32]string {
	return s.dictionary
}

// SetDictionary replaces the dictionary. A section with a dictionary but no
// codepage gets the Unicode codepage. A nil map removes the dictionary but
// keeps the codepage.
func (s *Section) SetDictionary(d map[uint32]string) {
	if d == nil {
		s.dictionary = nil
		return
	}
	s.dictionary = d
	if s.Codepage() < 0 {
		s.SetCodepage(CodepageUnicode)
	}
}

// String returns a string property, or "".
func (s *Section) String(id uint32) string {
	v, _ := s.Value(id).(string)
	return v
}

// Int returns an integer property as int64. 16-bit, 32-bit and unsigned
// values are widened.
func (s *Section) Int(id uint32) (int64, bool) {
	switch v := s.Value(id).(type) {
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	}
	return 0, false
}

// Bool returns a boolean property.
func (s *Section) Bool(id uint32) bool {
	v, _ := s.Value(id).(bool)
	return v
}

// Time returns a FILETIME property as a time, or the zero time.
func (s *Section) Time(id uint32) time.Time {
	if ft, ok := s.Value(id).(types.FileTime); ok {
		return fileTimeToTime(ft)
	}
	return time.Time{}
}

// ticks between 1601-01-01 and 1970-01-01 in 100ns units
const fileTimeEpochDelta = 116444736000000000

func fileTimeTicks(ft types.FileTime) uint64 {
	return uint64(ft.High)<<32 | uint64(ft.Low)
}

func fileTimeToTime(ft types.FileTime) time.Time {
	ticks := fileTimeTicks(ft)
	if ticks < fileTimeEpochDelta {
		return time.Time{}
	}
	d := ticks - fileTimeEpochDelta
	return time.Unix(int64(d/1e7), int64(d%1e7)*100).UTC()
}

func timeToFileTime(t time.Time) types.FileTime {
	if t.IsZero() {
		return types.FileTime{}
	}
	v := uint64(t.UnixNano()/100) + fileTimeEpochDelta
	return types.FileTime{Low: uint32(v), High: uint32(v >> 32)}
}

// readSection decodes the section at offset in a property set stream.
func readSection(data []byte, formatID types.Guid, offset int) (*Section, error) {
	if offset < 0 || offset > len(data)-8 {
		return nil, fmt.Errorf("%w: section offset %d outside stream of %d bytes", ErrCorrupt, offset, len(data))
	}
	size := int(binary.LittleEndian.Uint32(data[offset:]))
	if size < 8 || size > len(data)-offset {
		return nil, fmt.Errorf("%w: section size %d at offset %d", ErrCorrupt, size, offset)
	}
	r := stream.NewReader(data[offset : offset+size])
	r.Skip(4)
	count, _ := r.ReadU32()
	if int64(count)*8 > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d properties do not fit in section of %d bytes", ErrCorrupt, count, size)
	}

	type entry struct {
		id     uint32
		offset int
	}
	entries := make([]entry, count)
	codepage := -1
	for i := range entries {
		id, _ := r.ReadU32()
		off, _ := r.ReadU32()
		if int(off) < 8 || int(off) > size-4 {
			return nil, &PropertyError{ID: id, Offset: int(off), Err: ErrCorrupt}
		}
		entries[i] = entry{id: id, offset: int(off)}
		if id == PIDCodepage {
			if int(off) > size-6 {
				return nil, &PropertyError{ID: id, Offset: int(off), Err: ErrCorrupt}
			}
			vt := VarType(binary.LittleEndian.Uint32(data[offset+int(off):]))
			if vt != VTI2 {
				return nil, &PropertyError{ID: id, Offset: int(off), Err: fmt.Errorf("%w: codepage has type %s", ErrCorrupt, vt)}
			}
			codepage = int(binary.LittleEndian.Uint16(data[offset+int(off)+4:]))
		}
	}

	// Values are read in offset order so each one's length is bounded by
	// the next.
	slices.SortStableFunc(entries, func(a, b entry) int { return a.offset - b.offset })

	s := NewSection(formatID)
	for i, e := range entries {
		end := size
		if i+1 < len(entries) {
			end = entries[i+1].offset
		}
		vr, _ := r.Slice(e.offset, size-e.offset)
		if e.id == PIDDictionary {
			d, err := readDictionary(vr, codepage)
			if err != nil {
				return nil, &PropertyError{ID: e.id, Offset: e.offset, Err: err}
			}
			s.dictionary = d
			continue
		}
		vt, _ := vr.ReadU32()
		v, err := readValue(vr, VarType(vt), end-e.offset-4, codepage)
		if err != nil {
			return nil, &PropertyError{ID: e.id, Offset: e.offset, Err: err}
		}
		s.properties[e.id] = &Property{ID: e.id, Type: VarType(vt), Value: v}
	}
	return s, nil
}

func readDictionary(r *stream.Reader, codepage int) (map[uint32]string, error) {
	n, err := readCount(r, "dictionary")
	if err != nil {
		return nil, err
	}
	d := make(map[uint32]string, min(n, 1024))
	for i := 0; i < n; i++ {
		id, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("%w: dictionary entry %d", ErrCorrupt, i)
		}
		chars, err := readCount(r, "dictionary name")
		if err != nil {
			return nil, err
		}
		size := chars
		if codepage == CodepageUnicode {
			size *= 2
		}
		b, err := r.ReadBytesRef(size)
		if err != nil {
			return nil, fmt.Errorf("%w: dictionary name %d", ErrCorrupt, id)
		}
		name, err := decodeString(b, codepage)
		if err != nil {
			return nil, err
		}
		if codepage == CodepageUnicode {
			r.Align(4)
		}
		d[id] = name
	}
	return d, nil
}

func appendDictionary(b []byte, d map[uint32]string, codepage int) ([]byte, error) {
	le := binary.LittleEndian
	ids := make([]uint32, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	start := len(b)
	b = le.AppendUint32(b, uint32(len(ids)))
	for _, id := range ids {
		enc, err := encodeString(d[id], codepage)
		if err != nil {
			return nil, err
		}
		chars := len(enc)
		if codepage == CodepageUnicode {
			chars /= 2
		}
		b = le.AppendUint32(b, id)
		b = le.AppendUint32(b, uint32(chars))
		b = append(b, enc...)
		if codepage == CodepageUnicode {
			for (len(b)-start)%4 != 0 {
				b = append(b, 0)
			}
		}
	}
	return pad4(b), nil
}

// MarshalBinary encodes the section: size, count, the (id, offset) list and
// the values in ID order.
func (s *Section) MarshalBinary() ([]byte, error) {
	if s.dictionary != nil && s.Codepage() < 0 {
		s.SetCodepage(CodepageUnicode)
	}
	cp := s.Codepage()

	ids := make([]uint32, 0, s.PropertyCount())
	for id := range s.properties {
		ids = append(ids, id)
	}
	if s.dictionary != nil {
		ids = append(ids, PIDDictionary)
	}
	slices.Sort(ids)

	headerLen := 8 + 8*len(ids)
	values := make([]byte, 0, 64)
	list := make([]byte, 0, 8*len(ids))
	for _, id := range ids {
		list = binary.LittleEndian.AppendUint32(list, id)
		list = binary.LittleEndian.AppendUint32(list, uint32(headerLen+len(values)))

		var err error
		if id == PIDDictionary {
			values, err = appendDictionary(values, s.dictionary, cp)
		} else {
			p := s.properties[id]
			values, err = appendValue(values, p.Type, p.Value, cp)
		}
		if err != nil {
			return nil, &PropertyError{ID: id, Offset: headerLen + len(values), Err: err}
		}
	}

	out := make([]byte, 0, headerLen+len(values))
	out = binary.LittleEndian.AppendUint32(out, uint32(headerLen+len(values)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(ids)))
	out = append(out, list...)
	return append(out, values...), nil
}
