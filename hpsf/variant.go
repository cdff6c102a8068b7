package hpsf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/richardlehane/msoleps/types"
	"github.com/skdltmxn/ole-go/internal/stream"
)

// VarType is the type tag stored before every property value.
type VarType uint32

const (
	VTEmpty    VarType = 0
	VTNull     VarType = 1
	VTI2       VarType = 2
	VTI4       VarType = 3
	VTR4       VarType = 4
	VTR8       VarType = 5
	VTCY       VarType = 6
	VTDate     VarType = 7
	VTBSTR     VarType = 8
	VTError    VarType = 10
	VTBool     VarType = 11
	VTI1       VarType = 16
	VTUI1      VarType = 17
	VTUI2      VarType = 18
	VTUI4      VarType = 19
	VTI8       VarType = 20
	VTUI8      VarType = 21
	VTInt      VarType = 22
	VTUInt     VarType = 23
	VTLPSTR    VarType = 30
	VTLPWSTR   VarType = 31
	VTFileTime VarType = 64
	VTBlob     VarType = 65
	VTCF       VarType = 71
	VTCLSID    VarType = 72

	// VTVector is combined with an element type for counted arrays.
	VTVector VarType = 0x1000
)

var varTypeNames = map[VarType]string{
	VTEmpty:    "VT_EMPTY",
	VTNull:     "VT_NULL",
	VTI2:       "VT_I2",
	VTI4:       "VT_I4",
	VTR4:       "VT_R4",
	VTR8:       "VT_R8",
	VTCY:       "VT_CY",
	VTDate:     "VT_DATE",
	VTBSTR:     "VT_BSTR",
	VTError:    "VT_ERROR",
	VTBool:     "VT_BOOL",
	VTI1:       "VT_I1",
	VTUI1:      "VT_UI1",
	VTUI2:      "VT_UI2",
	VTUI4:      "VT_UI4",
	VTI8:       "VT_I8",
	VTUI8:      "VT_UI8",
	VTInt:      "VT_INT",
	VTUInt:     "VT_UINT",
	VTLPSTR:    "VT_LPSTR",
	VTLPWSTR:   "VT_LPWSTR",
	VTFileTime: "VT_FILETIME",
	VTBlob:     "VT_BLOB",
	VTCF:       "VT_CF",
	VTCLSID:    "VT_CLSID",
}

func (t VarType) String() string {
	if s, ok := varTypeNames[t]; ok {
		return s
	}
	if t&VTVector != 0 {
		return "VT_VECTOR|" + (t &^ VTVector).String()
	}
	return fmt.Sprintf("VT_0x%04X", uint32(t))
}

// ClipboardData is the value of a VT_CF property, typically a thumbnail.
type ClipboardData struct {
	Format int32
	Data   []byte
}

// RawValue holds the bytes of a value whose type is not decoded. It is
// written back unchanged.
type RawValue []byte

func readCount(r *stream.Reader, what string) (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, fmt.Errorf("%w: %s length", ErrCorrupt, what)
	}
	if int64(n) > int64(r.Remaining()) {
		return 0, fmt.Errorf("%w: %s length %d exceeds %d remaining bytes", ErrCorrupt, what, n, r.Remaining())
	}
	return int(n), nil
}

// readValue decodes a value of type vt. length is the number of bytes
// available to the value and bounds types that are kept raw.
func readValue(r *stream.Reader, vt VarType, length, codepage int) (any, error) {
	var err error
	var v any
	switch vt {
	case VTEmpty, VTNull:
		return nil, nil
	case VTI2:
		v, err = r.ReadI16()
	case VTI4, VTInt:
		v, err = r.ReadI32()
	case VTR4:
		v, err = r.ReadFloat32()
	case VTR8:
		v, err = r.ReadFloat64()
	case VTCY:
		var c int64
		c, err = r.ReadI64()
		v = types.Currency(c)
	case VTDate:
		var d float64
		d, err = r.ReadFloat64()
		v = types.Date(d)
	case VTError, VTUI4, VTUInt:
		v, err = r.ReadU32()
	case VTBool:
		var b uint16
		b, err = r.ReadU16()
		v = b != 0
	case VTI1:
		v, err = r.ReadI8()
	case VTUI1:
		v, err = r.ReadU8()
	case VTUI2:
		v, err = r.ReadU16()
	case VTI8:
		v, err = r.ReadI64()
	case VTUI8:
		v, err = r.ReadU64()
	case VTBSTR, VTLPSTR:
		n, cerr := readCount(r, "string")
		if cerr != nil {
			return nil, cerr
		}
		b, _ := r.ReadBytesRef(n)
		return decodeString(b, codepage)
	case VTLPWSTR:
		n, cerr := readCount(r, "unicode string")
		if cerr != nil {
			return nil, cerr
		}
		b, rerr := r.ReadBytesRef(2 * n)
		if rerr != nil {
			return nil, fmt.Errorf("%w: unicode string data", ErrCorrupt)
		}
		return decodeString(b, CodepageUnicode)
	case VTFileTime:
		var lo, hi uint32
		if lo, err = r.ReadU32(); err == nil {
			hi, err = r.ReadU32()
		}
		v = types.FileTime{Low: lo, High: hi}
	case VTBlob:
		n, cerr := readCount(r, "blob")
		if cerr != nil {
			return nil, cerr
		}
		return r.ReadBytes(n)
	case VTCF:
		n, cerr := readCount(r, "clipboard data")
		if cerr != nil {
			return nil, cerr
		}
		if n < 4 {
			return nil, fmt.Errorf("%w: clipboard data of %d bytes", ErrCorrupt, n)
		}
		format, _ := r.ReadI32()
		data, _ := r.ReadBytes(n - 4)
		return ClipboardData{Format: format, Data: data}, nil
	case VTCLSID:
		var g [16]byte
		g, err = r.ReadGUID()
		v = types.MustGuid(g[:])
	default:
		if length < 0 || length > r.Remaining() {
			length = r.Remaining()
		}
		b, _ := r.ReadBytes(length)
		return RawValue(b), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s value truncated", ErrCorrupt, vt)
	}
	return v, nil
}

func pad4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func invalid(vt VarType, v any) error {
	return fmt.Errorf("%w: %T for %s", ErrInvalidValue, v, vt)
}

// appendValue appends the type tag and the encoded value, padded to four
// bytes.
func appendValue(b []byte, vt VarType, value any, codepage int) ([]byte, error) {
	le := binary.LittleEndian
	b = le.AppendUint32(b, uint32(vt))

	ok := true
	switch vt {
	case VTEmpty, VTNull:
	case VTI2:
		var v int16
		v, ok = value.(int16)
		b = le.AppendUint16(b, uint16(v))
	case VTI4, VTInt:
		var v int32
		v, ok = value.(int32)
		b = le.AppendUint32(b, uint32(v))
	case VTR4:
		var v float32
		v, ok = value.(float32)
		b = le.AppendUint32(b, math.Float32bits(v))
	case VTR8:
		var v float64
		v, ok = value.(float64)
		b = le.AppendUint64(b, math.Float64bits(v))
	case VTCY:
		var v types.Currency
		v, ok = value.(types.Currency)
		b = le.AppendUint64(b, uint64(v))
	case VTDate:
		var v types.Date
		v, ok = value.(types.Date)
		b = le.AppendUint64(b, math.Float64bits(float64(v)))
	case VTError, VTUI4, VTUInt:
		var v uint32
		v, ok = value.(uint32)
		b = le.AppendUint32(b, v)
	case VTBool:
		var v bool
		v, ok = value.(bool)
		if v {
			b = le.AppendUint16(b, 0xFFFF)
		} else {
			b = le.AppendUint16(b, 0)
		}
	case VTI1:
		var v int8
		v, ok = value.(int8)
		b = append(b, byte(v))
	case VTUI1:
		var v uint8
		v, ok = value.(uint8)
		b = append(b, v)
	case VTUI2:
		var v uint16
		v, ok = value.(uint16)
		b = le.AppendUint16(b, v)
	case VTI8:
		var v int64
		v, ok = value.(int64)
		b = le.AppendUint64(b, uint64(v))
	case VTUI8:
		var v uint64
		v, ok = value.(uint64)
		b = le.AppendUint64(b, v)
	case VTBSTR, VTLPSTR:
		s, isStr := value.(string)
		if !isStr {
			return nil, invalid(vt, value)
		}
		enc, err := encodeString(s, codepage)
		if err != nil {
			return nil, err
		}
		b = le.AppendUint32(b, uint32(len(enc)))
		b = append(b, enc...)
	case VTLPWSTR:
		s, isStr := value.(string)
		if !isStr {
			return nil, invalid(vt, value)
		}
		enc, err := encodeString(s, CodepageUnicode)
		if err != nil {
			return nil, err
		}
		b = le.AppendUint32(b, uint32(len(enc)/2))
		b = append(b, enc...)
	case VTFileTime:
		var v types.FileTime
		v, ok = value.(types.FileTime)
		b = le.AppendUint32(b, v.Low)
		b = le.AppendUint32(b, v.High)
	case VTBlob:
		var v []byte
		v, ok = value.([]byte)
		b = le.AppendUint32(b, uint32(len(v)))
		b = append(b, v...)
	case VTCF:
		var v ClipboardData
		v, ok = value.(ClipboardData)
		b = le.AppendUint32(b, uint32(len(v.Data)+4))
		b = le.AppendUint32(b, uint32(v.Format))
		b = append(b, v.Data...)
	case VTCLSID:
		var v types.Guid
		v, ok = value.(types.Guid)
		b = appendGUID(b, v)
	default:
		var v RawValue
		v, ok = value.(RawValue)
		b = append(b, v...)
	}
	if !ok {
		return nil, invalid(vt, value)
	}
	return pad4(b), nil
}

func appendGUID(b []byte, g types.Guid) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, g.DataA)
	b = le.AppendUint16(b, g.DataB)
	b = le.AppendUint16(b, g.DataC)
	return append(b, g.DataD[:]...)
}

// VarTypeOf picks the variant type used to store a Go value: strings as
// VT_LPSTR, int as VT_I4 when it fits and VT_I8 otherwise.
func VarTypeOf(value any) (VarType, any, error) {
	switch v := value.(type) {
	case nil:
		return VTEmpty, nil, nil
	case string:
		return VTLPSTR, v, nil
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return VTI4, int32(v), nil
		}
		return VTI8, int64(v), nil
	case int16:
		return VTI2, v, nil
	case int32:
		return VTI4, v, nil
	case int64:
		return VTI8, v, nil
	case uint32:
		return VTUI4, v, nil
	case uint64:
		return VTUI8, v, nil
	case float32:
		return VTR4, v, nil
	case float64:
		return VTR8, v, nil
	case bool:
		return VTBool, v, nil
	case types.FileTime:
		return VTFileTime, v, nil
	case types.Currency:
		return VTCY, v, nil
	case types.Date:
		return VTDate, v, nil
	case types.Guid:
		return VTCLSID, v, nil
	case []byte:
		return VTBlob, v, nil
	case ClipboardData:
		return VTCF, v, nil
	}
	return 0, nil, fmt.Errorf("%w: no variant type for %T", ErrInvalidValue, value)
}
