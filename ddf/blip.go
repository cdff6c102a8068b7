package ddf

import (
	"crypto/md5"
	"fmt"

	"github.com/skdltmxn/ole-go/internal/compress"
	"github.com/skdltmxn/ole-go/internal/stream"
)

// Blip types stored in BSE records.
const (
	BlipTypeError    uint8 = 0x00
	BlipTypeUnknown  uint8 = 0x01
	BlipTypeEMF      uint8 = 0x02
	BlipTypeWMF      uint8 = 0x03
	BlipTypePICT     uint8 = 0x04
	BlipTypeJPEG     uint8 = 0x05
	BlipTypePNG      uint8 = 0x06
	BlipTypeDIB      uint8 = 0x07
	BlipTypeTIFF     uint8 = 0x11
	BlipTypeCMYKJPEG uint8 = 0x12
)

// Blip record ids. A blip's record id is 0xF018 plus its blip type.
const (
	BlipEMFID      uint16 = BlipStartID + uint16(BlipTypeEMF)
	BlipWMFID      uint16 = BlipStartID + uint16(BlipTypeWMF)
	BlipPICTID     uint16 = BlipStartID + uint16(BlipTypePICT)
	BlipJPEGID     uint16 = BlipStartID + uint16(BlipTypeJPEG)
	BlipPNGID      uint16 = BlipStartID + uint16(BlipTypePNG)
	BlipDIBID      uint16 = BlipStartID + uint16(BlipTypeDIB)
	BlipTIFFID     uint16 = BlipStartID + uint16(BlipTypeTIFF)
	BlipCMYKJPEGID uint16 = BlipStartID + uint16(BlipTypeCMYKJPEG)
)

var blipNames = map[uint16]string{
	BlipEMFID:      "BlipEMF",
	BlipWMFID:      "BlipWMF",
	BlipPICTID:     "BlipPICT",
	BlipJPEGID:     "BlipJPEG",
	BlipPNGID:      "BlipPNG",
	BlipDIBID:      "BlipDIB",
	BlipTIFFID:     "BlipTIFF",
	BlipCMYKJPEGID: "BlipCMYKJPEG",
}

// Instance values that identify a blip with a single UID. The same value
// plus one means a second UID follows.
const (
	signatureEMF      uint16 = 0x3D4
	signatureWMF      uint16 = 0x216
	signaturePICT     uint16 = 0x542
	signatureJPEG     uint16 = 0x46A
	signatureCMYKJPEG uint16 = 0x6E2
	signaturePNG      uint16 = 0x6E0
	signatureDIB      uint16 = 0x7A8
	signatureTIFF     uint16 = 0x6E4
)

var blipSignatures = map[uint16]uint16{
	BlipEMFID:      signatureEMF,
	BlipWMFID:      signatureWMF,
	BlipPICTID:     signaturePICT,
	BlipJPEGID:     signatureJPEG,
	BlipPNGID:      signaturePNG,
	BlipDIBID:      signatureDIB,
	BlipTIFFID:     signatureTIFF,
	BlipCMYKJPEGID: signatureCMYKJPEG,
}

// Metafile compression flags.
const (
	CompressionDeflate uint8 = 0x00
	CompressionNone    uint8 = 0xFE
	FilterNone         uint8 = 0xFE
)

// Blip is a picture record.
type Blip interface {
	Record
	// PictureData returns the uncompressed picture bytes.
	PictureData() ([]byte, error)
	// UID returns the primary picture UID.
	UID() [16]byte
}

func newBlipRecord(id uint16) Record {
	switch id {
	case BlipEMFID, BlipWMFID, BlipPICTID:
		return &MetafileBlipRecord{}
	case BlipJPEGID, BlipPNGID, BlipDIBID, BlipTIFFID, BlipCMYKJPEGID:
		return &BitmapBlipRecord{}
	default:
		return &BlipRecord{}
	}
}

func hasSecondUID(id, instance uint16) bool {
	sig, ok := blipSignatures[id]
	return ok && instance == sig+1
}

// BlipRecord is a blip of a type without a dedicated layout. The body is
// kept as is.
type BlipRecord struct {
	base
	Data []byte
}

func (b *BlipRecord) decode(body []byte, _ *Factory, _ int) error {
	b.Data = append([]byte(nil), body...)
	return nil
}

func (b *BlipRecord) PictureData() ([]byte, error) { return b.Data, nil }

func (b *BlipRecord) UID() [16]byte { return [16]byte{} }

func (b *BlipRecord) RecordSize() int { return HeaderSize + len(b.Data) }

func (b *BlipRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, b.options, b.id, len(b.Data))
	w.WriteBytes(b.Data)
	return w.Offset(), w.Err()
}

// BitmapBlipRecord stores a JPEG, PNG, DIB or TIFF picture.
type BitmapBlipRecord struct {
	base
	PrimaryUID   [16]byte
	SecondaryUID *[16]byte
	Marker       uint8
	Data         []byte
}

// NewBitmapBlipRecord creates a bitmap blip for data. The UID is the MD5
// digest of the picture.
func NewBitmapBlipRecord(blipType uint8, data []byte) (*BitmapBlipRecord, error) {
	id := BlipStartID + uint16(blipType)
	sig, ok := blipSignatures[id]
	if !ok || id == BlipEMFID || id == BlipWMFID || id == BlipPICTID {
		return nil, fmt.Errorf("%w: blip type 0x%02X is not a bitmap", ErrInvalidRecord, blipType)
	}
	return &BitmapBlipRecord{
		base:       newBase(id, 0, sig),
		PrimaryUID: md5.Sum(data),
		Marker:     0xFF,
		Data:       data,
	}, nil
}

func (b *BitmapBlipRecord) decode(body []byte, _ *Factory, _ int) error {
	r := stream.NewReader(body)
	var err error
	if b.PrimaryUID, err = r.ReadGUID(); err != nil {
		return fmt.Errorf("%w: bitmap blip uid", ErrInvalidRecord)
	}
	if hasSecondUID(b.id, b.Instance()) {
		uid, err := r.ReadGUID()
		if err != nil {
			return fmt.Errorf("%w: bitmap blip second uid", ErrInvalidRecord)
		}
		b.SecondaryUID = &uid
	}
	if b.Marker, err = r.ReadU8(); err != nil {
		return fmt.Errorf("%w: bitmap blip marker", ErrInvalidRecord)
	}
	b.Data = append([]byte(nil), r.RemainingData()...)
	return nil
}

func (b *BitmapBlipRecord) PictureData() ([]byte, error) { return b.Data, nil }

func (b *BitmapBlipRecord) UID() [16]byte { return b.PrimaryUID }

func (b *BitmapBlipRecord) bodySize() int {
	n := 16 + 1 + len(b.Data)
	if b.SecondaryUID != nil {
		n += 16
	}
	return n
}

func (b *BitmapBlipRecord) RecordSize() int { return HeaderSize + b.bodySize() }

func (b *BitmapBlipRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, b.options, b.id, b.bodySize())
	w.WriteBytes(b.PrimaryUID[:])
	if b.SecondaryUID != nil {
		w.WriteBytes(b.SecondaryUID[:])
	}
	w.WriteU8(b.Marker)
	w.WriteBytes(b.Data)
	return w.Offset(), w.Err()
}

// Rect is a rectangle in metafile bounds.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// MetafileBlipRecord stores an EMF, WMF or PICT picture, usually deflated.
type MetafileBlipRecord struct {
	base
	PrimaryUID      [16]byte
	SecondaryUID    *[16]byte
	CacheSize       uint32 // uncompressed size
	Bounds          Rect
	SizeEMU         [2]int32
	CompressionFlag uint8
	Filter          uint8
	Data            []byte // payload as stored
	RemainingData   []byte
}

// NewMetafileBlipRecord creates a metafile blip, deflating data.
func NewMetafileBlipRecord(blipType uint8, data []byte, bounds Rect) (*MetafileBlipRecord, error) {
	id := BlipStartID + uint16(blipType)
	if id != BlipEMFID && id != BlipWMFID && id != BlipPICTID {
		return nil, fmt.Errorf("%w: blip type 0x%02X is not a metafile", ErrInvalidRecord, blipType)
	}
	packed, err := compress.NewDeflateCodec().Compress(data)
	if err != nil {
		return nil, err
	}
	return &MetafileBlipRecord{
		base:            newBase(id, 0, blipSignatures[id]),
		PrimaryUID:      md5.Sum(data),
		CacheSize:       uint32(len(data)),
		Bounds:          bounds,
		SizeEMU:         [2]int32{(bounds.Right - bounds.Left) * 12700, (bounds.Bottom - bounds.Top) * 12700},
		CompressionFlag: CompressionDeflate,
		Filter:          FilterNone,
		Data:            packed,
	}, nil
}

func (m *MetafileBlipRecord) decode(body []byte, _ *Factory, _ int) error {
	r := stream.NewReader(body)
	var err error
	if m.PrimaryUID, err = r.ReadGUID(); err != nil {
		return fmt.Errorf("%w: metafile blip uid", ErrInvalidRecord)
	}
	if hasSecondUID(m.id, m.Instance()) {
		uid, err := r.ReadGUID()
		if err != nil {
			return fmt.Errorf("%w: metafile blip second uid", ErrInvalidRecord)
		}
		m.SecondaryUID = &uid
	}

	if r.Remaining() < 34 {
		return fmt.Errorf("%w: metafile blip header needs 34 bytes, have %d", ErrInvalidRecord, r.Remaining())
	}
	m.CacheSize, _ = r.ReadU32()
	m.Bounds.Left, _ = r.ReadI32()
	m.Bounds.Top, _ = r.ReadI32()
	m.Bounds.Right, _ = r.ReadI32()
	m.Bounds.Bottom, _ = r.ReadI32()
	m.SizeEMU[0], _ = r.ReadI32()
	m.SizeEMU[1], _ = r.ReadI32()
	compressedSize, _ := r.ReadU32()
	m.CompressionFlag, _ = r.ReadU8()
	m.Filter, _ = r.ReadU8()

	if m.Data, err = r.ReadBytes(int(compressedSize)); err != nil {
		return fmt.Errorf("%w: metafile payload of %d bytes", ErrRecordTruncated, compressedSize)
	}
	m.RemainingData = append([]byte(nil), r.RemainingData()...)
	return nil
}

// Decompress returns the uncompressed picture.
func (m *MetafileBlipRecord) Decompress() ([]byte, error) {
	if m.CompressionFlag != CompressionDeflate {
		return m.Data, nil
	}
	return compress.NewDeflateCodec().Decompress(m.Data)
}

func (m *MetafileBlipRecord) PictureData() ([]byte, error) { return m.Decompress() }

func (m *MetafileBlipRecord) UID() [16]byte { return m.PrimaryUID }

func (m *MetafileBlipRecord) bodySize() int {
	n := 16 + 34 + len(m.Data) + len(m.RemainingData)
	if m.SecondaryUID != nil {
		n += 16
	}
	return n
}

func (m *MetafileBlipRecord) RecordSize() int { return HeaderSize + m.bodySize() }

func (m *MetafileBlipRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, m.options, m.id, m.bodySize())
	w.WriteBytes(m.PrimaryUID[:])
	if m.SecondaryUID != nil {
		w.WriteBytes(m.SecondaryUID[:])
	}
	w.WriteU32(m.CacheSize)
	w.WriteI32(m.Bounds.Left)
	w.WriteI32(m.Bounds.Top)
	w.WriteI32(m.Bounds.Right)
	w.WriteI32(m.Bounds.Bottom)
	w.WriteI32(m.SizeEMU[0])
	w.WriteI32(m.SizeEMU[1])
	w.WriteU32(uint32(len(m.Data)))
	w.WriteU8(m.CompressionFlag)
	w.WriteU8(m.Filter)
	w.WriteBytes(m.Data)
	w.WriteBytes(m.RemainingData)
	return w.Offset(), w.Err()
}
