package ddf

import (
	"sort"

	"github.com/skdltmxn/ole-go/internal/stream"
)

const optVersion = 3

// OptRecord is a shape property table (0xF00B) or the tertiary table
// (0xF122). The record instance holds the property count.
type OptRecord struct {
	base
	properties []Property
	trailing   []byte
}

// NewOptRecord creates an empty property table.
func NewOptRecord() *OptRecord {
	return &OptRecord{base: newBase(OptID, optVersion, 0)}
}

// NewTertiaryOptRecord creates an empty tertiary property table.
func NewTertiaryOptRecord() *OptRecord {
	return &OptRecord{base: newBase(TertiaryOptID, optVersion, 0)}
}

func (o *OptRecord) decode(body []byte, f *Factory, _ int) error {
	props, n, err := ReadProperties(body, int(o.Instance()))
	if err != nil {
		return err
	}
	o.properties = props
	if n < len(body) {
		f.log.WithField("bytes", len(body)-n).Debug("ddf: trailing bytes after property table")
		o.trailing = append([]byte(nil), body[n:]...)
	}
	return nil
}

// Properties returns the properties in stored order.
func (o *OptRecord) Properties() []Property {
	return o.properties
}

// Property returns the property with the given number, or nil.
func (o *OptRecord) Property(number uint16) Property {
	number &= propertyNumberMask
	for _, p := range o.properties {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

// SetProperty replaces the property with the same number or appends p.
func (o *OptRecord) SetProperty(p Property) {
	for i, old := range o.properties {
		if old.Number() == p.Number() {
			o.properties[i] = p
			return
		}
	}
	o.properties = append(o.properties, p)
}

// RemoveProperty deletes the property with the given number.
func (o *OptRecord) RemoveProperty(number uint16) bool {
	number &= propertyNumberMask
	for i, p := range o.properties {
		if p.Number() == number {
			o.properties = append(o.properties[:i], o.properties[i+1:]...)
			return true
		}
	}
	return false
}

// SortProperties orders properties by number, the order Office writes them.
func (o *OptRecord) SortProperties() {
	sort.SliceStable(o.properties, func(i, j int) bool {
		return o.properties[i].Number() < o.properties[j].Number()
	})
}

func (o *OptRecord) bodySize() int {
	return PropertiesSize(o.properties) + len(o.trailing)
}

func (o *OptRecord) RecordSize() int {
	return HeaderSize + o.bodySize()
}

func (o *OptRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, makeOptions(o.Version(), uint16(len(o.properties))), o.id, o.bodySize())
	WriteProperties(w, o.properties)
	w.WriteBytes(o.trailing)
	return w.Offset(), w.Err()
}
