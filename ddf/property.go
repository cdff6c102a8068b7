package ddf

import (
	"encoding/binary"
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// Property id flag bits.
const (
	PropertyComplexFlag uint16 = 0x8000
	PropertyBlipIDFlag  uint16 = 0x4000

	propertyNumberMask uint16 = 0x3FFF
	simplePartSize            = 6
)

// Property is one entry of an OPT record. The fixed simple part (id and a
// 32-bit value) of every property precedes the variable complex parts.
type Property interface {
	// ID returns the full 16-bit id including flag bits.
	ID() uint16
	// Number returns the id without flag bits.
	Number() uint16
	IsComplex() bool
	IsBlipID() bool
	// Name returns the property's descriptive name.
	Name() string
	// PropertySize returns the size of the simple and complex parts together.
	PropertySize() int

	writeSimple(w *stream.Writer)
	writeComplex(w *stream.Writer)
}

type propertyID uint16

func (p propertyID) ID() uint16      { return uint16(p) }
func (p propertyID) Number() uint16  { return uint16(p) & propertyNumberMask }
func (p propertyID) IsComplex() bool { return uint16(p)&PropertyComplexFlag != 0 }
func (p propertyID) IsBlipID() bool  { return uint16(p)&PropertyBlipIDFlag != 0 }
func (p propertyID) Name() string    { return PropertyName(uint16(p)) }

// SimpleProperty holds a 32-bit value.
type SimpleProperty struct {
	propertyID
	Value int32
}

// NewSimpleProperty creates a simple property.
func NewSimpleProperty(number uint16, value int32) *SimpleProperty {
	return &SimpleProperty{propertyID: propertyID(number & propertyNumberMask), Value: value}
}

// NewBlipProperty creates a simple property whose value is a blip id.
func NewBlipProperty(number uint16, blipID int32) *SimpleProperty {
	return &SimpleProperty{propertyID: propertyID(number&propertyNumberMask | PropertyBlipIDFlag), Value: blipID}
}

func (p *SimpleProperty) PropertySize() int { return simplePartSize }

func (p *SimpleProperty) writeSimple(w *stream.Writer) {
	w.WriteU16(p.ID())
	w.WriteI32(p.Value)
}

func (p *SimpleProperty) writeComplex(*stream.Writer) {}

func (p *SimpleProperty) String() string {
	return fmt.Sprintf("%s (%d) = %d", p.Name(), p.Number(), p.Value)
}

// BoolProperty is a simple property holding flag bits.
type BoolProperty struct {
	SimpleProperty
}

// NewBoolProperty creates a boolean property.
func NewBoolProperty(number uint16, value int32) *BoolProperty {
	return &BoolProperty{SimpleProperty: *NewSimpleProperty(number, value)}
}

// IsTrue reports whether any bit is set.
func (p *BoolProperty) IsTrue() bool { return p.Value != 0 }

// RGBProperty is a simple property holding a colour.
type RGBProperty struct {
	SimpleProperty
}

// NewRGBProperty creates a colour property from a packed 0x00BBGGRR value.
func NewRGBProperty(number uint16, rgb int32) *RGBProperty {
	return &RGBProperty{SimpleProperty: *NewSimpleProperty(number, rgb)}
}

func (p *RGBProperty) Red() uint8   { return uint8(p.Value) }
func (p *RGBProperty) Green() uint8 { return uint8(p.Value >> 8) }
func (p *RGBProperty) Blue() uint8  { return uint8(p.Value >> 16) }

func (p *RGBProperty) String() string {
	return fmt.Sprintf("%s (%d) = #%02X%02X%02X", p.Name(), p.Number(), p.Red(), p.Green(), p.Blue())
}

// Shape path kinds.
const (
	ShapePathLines        = 0
	ShapePathLinesClosed  = 1
	ShapePathCurves       = 2
	ShapePathCurvesClosed = 3
	ShapePathComplex      = 4
)

// ShapePathProperty is a simple property selecting the path kind.
type ShapePathProperty struct {
	SimpleProperty
}

// NewShapePathProperty creates a shape path property.
func NewShapePathProperty(number uint16, kind int32) *ShapePathProperty {
	return &ShapePathProperty{SimpleProperty: *NewSimpleProperty(number, kind)}
}

// ComplexProperty carries a variable-length tail, such as a name or a blob.
type ComplexProperty struct {
	propertyID
	Data []byte
}

// NewComplexProperty creates a complex property.
func NewComplexProperty(number uint16, data []byte) *ComplexProperty {
	return &ComplexProperty{propertyID: propertyID(number&propertyNumberMask | PropertyComplexFlag), Data: data}
}

// NewStringProperty creates a complex property holding a NUL-terminated
// UTF-16 string, the encoding used for shape names and descriptions.
func NewStringProperty(number uint16, s string) *ComplexProperty {
	buf := make([]byte, 2*(stream.UTF16Len(s)+1))
	w := stream.NewWriter(buf)
	w.WriteUTF16(s)
	return NewComplexProperty(number, buf)
}

// StringValue decodes the data as a NUL-terminated UTF-16 string.
func (p *ComplexProperty) StringValue() string {
	n := len(p.Data) / 2
	for i := 0; i < n; i++ {
		if binary.LittleEndian.Uint16(p.Data[2*i:]) == 0 {
			n = i
			break
		}
	}
	s, _ := stream.NewReader(p.Data).ReadUTF16(n)
	return s
}

func (p *ComplexProperty) PropertySize() int { return simplePartSize + len(p.Data) }

func (p *ComplexProperty) writeSimple(w *stream.Writer) {
	w.WriteU16(p.ID())
	w.WriteI32(int32(len(p.Data)))
}

func (p *ComplexProperty) writeComplex(w *stream.Writer) {
	w.WriteBytes(p.Data)
}

func (p *ComplexProperty) String() string {
	return fmt.Sprintf("%s (%d) = [%d bytes]", p.Name(), p.Number(), len(p.Data))
}

// newProperty builds a property from its simple part. Complex data is filled
// in by the second pass.
func newProperty(id uint16, value int32) Property {
	pid := propertyID(id)
	kind := propertyKindOf(id)
	if pid.IsComplex() {
		if kind == kindArray {
			return &ArrayProperty{propertyID: pid, declared: int(value)}
		}
		return &ComplexProperty{propertyID: pid}
	}
	simple := SimpleProperty{propertyID: pid, Value: value}
	if pid.IsBlipID() {
		return &simple
	}
	switch kind {
	case kindBool:
		return &BoolProperty{SimpleProperty: simple}
	case kindRGB:
		return &RGBProperty{SimpleProperty: simple}
	case kindShapePath:
		return &ShapePathProperty{SimpleProperty: simple}
	default:
		return &simple
	}
}

// ReadProperties decodes count properties from data and returns them with
// the number of bytes consumed. All simple parts are read before any complex
// part, in the order the properties appear.
func ReadProperties(data []byte, count int) ([]Property, int, error) {
	r := stream.NewReader(data)
	props := make([]Property, 0, count)
	lengths := make([]int, 0, count)

	for i := 0; i < count; i++ {
		id, err := r.ReadU16()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: property %d simple part", ErrRecordTruncated, i)
		}
		value, err := r.ReadI32()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: property %d simple part", ErrRecordTruncated, i)
		}
		if id&PropertyComplexFlag != 0 && value < 0 {
			return nil, 0, fmt.Errorf("%w: property %d has negative complex length %d", ErrInvalidProperty, id&propertyNumberMask, value)
		}
		props = append(props, newProperty(id, value))
		lengths = append(lengths, int(value))
	}

	for i, p := range props {
		switch cp := p.(type) {
		case *ArrayProperty:
			if err := cp.readArrayData(r); err != nil {
				return nil, 0, err
			}
		case *ComplexProperty:
			b, err := r.ReadBytes(lengths[i])
			if err != nil {
				return nil, 0, fmt.Errorf("%w: property %d complex part of %d bytes", ErrRecordTruncated, cp.Number(), lengths[i])
			}
			cp.Data = b
		}
	}

	return props, r.Offset(), nil
}

// WriteProperties writes every simple part followed by every complex part.
func WriteProperties(w *stream.Writer, props []Property) {
	for _, p := range props {
		p.writeSimple(w)
	}
	for _, p := range props {
		p.writeComplex(w)
	}
}

// PropertiesSize returns the encoded size of props.
func PropertiesSize(props []Property) int {
	n := 0
	for _, p := range props {
		n += p.PropertySize()
	}
	return n
}
