package ddf

import (
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

const bseFixedSize = 36

// BSERecord is a blip store entry: picture metadata, a reference count and
// usually the embedded blip record itself. The instance holds the blip type.
type BSERecord struct {
	base
	BlipTypeWin32 uint8
	BlipTypeMacOS uint8
	UID           [16]byte
	Tag           uint16
	Size          uint32 // size of the blip record in the delay stream
	Ref           uint32
	DelayOffset   uint32
	Usage         uint8
	Unused2       uint8
	Unused3       uint8
	NameData      []byte // UTF-16 name, cbName bytes
	Blip          Record // nil when the blip lives in the delay stream
	RemainingData []byte
}

// NewBSERecord creates an entry embedding blip with a reference count of one.
func NewBSERecord(blipType uint8, blip Blip) *BSERecord {
	return &BSERecord{
		base:          newBase(BSEID, 2, uint16(blipType)),
		BlipTypeWin32: blipType,
		BlipTypeMacOS: blipType,
		UID:           blip.UID(),
		Size:          uint32(blip.RecordSize()),
		Ref:           1,
		Blip:          blip,
	}
}

func (b *BSERecord) decode(body []byte, f *Factory, depth int) error {
	if err := checkLength(body, bseFixedSize); err != nil {
		return err
	}
	r := stream.NewReader(body)
	b.BlipTypeWin32, _ = r.ReadU8()
	b.BlipTypeMacOS, _ = r.ReadU8()
	b.UID, _ = r.ReadGUID()
	b.Tag, _ = r.ReadU16()
	b.Size, _ = r.ReadU32()
	b.Ref, _ = r.ReadU32()
	b.DelayOffset, _ = r.ReadU32()
	b.Usage, _ = r.ReadU8()
	nameLength, _ := r.ReadU8()
	b.Unused2, _ = r.ReadU8()
	b.Unused3, _ = r.ReadU8()

	if nameLength > 0 {
		name, err := r.ReadBytes(int(nameLength))
		if err != nil {
			return fmt.Errorf("%w: BSE name of %d bytes", ErrRecordTruncated, nameLength)
		}
		b.NameData = name
	}

	// Older writers omit the embedded blip.
	if r.Remaining() >= HeaderSize {
		blip, n, err := f.parseAt(body, r.Offset(), depth+1)
		if err != nil {
			return err
		}
		b.Blip = blip
		_ = r.Skip(n)
	}
	b.RemainingData = append([]byte(nil), r.RemainingData()...)
	return nil
}

// PictureName returns the decoded picture name, if any.
func (b *BSERecord) PictureName() string {
	n := len(b.NameData) / 2
	if n > 0 && b.NameData[2*n-2] == 0 && b.NameData[2*n-1] == 0 {
		n--
	}
	s, _ := stream.NewReader(b.NameData).ReadUTF16(n)
	return s
}

func (b *BSERecord) ChildRecords() []Record {
	if b.Blip == nil {
		return nil
	}
	return []Record{b.Blip}
}

func (b *BSERecord) bodySize() int {
	n := bseFixedSize + len(b.NameData) + len(b.RemainingData)
	if b.Blip != nil {
		n += b.Blip.RecordSize()
	}
	return n
}

func (b *BSERecord) RecordSize() int { return HeaderSize + b.bodySize() }

func (b *BSERecord) Serialize(buf []byte) (int, error) {
	if len(b.NameData) > 0xFF {
		return 0, fmt.Errorf("%w: BSE name is %d bytes", ErrInvalidRecord, len(b.NameData))
	}
	w := stream.NewWriter(buf)
	writeHeader(w, b.options, b.id, b.bodySize())
	w.WriteU8(b.BlipTypeWin32)
	w.WriteU8(b.BlipTypeMacOS)
	w.WriteBytes(b.UID[:])
	w.WriteU16(b.Tag)
	w.WriteU32(b.Size)
	w.WriteU32(b.Ref)
	w.WriteU32(b.DelayOffset)
	w.WriteU8(b.Usage)
	w.WriteU8(uint8(len(b.NameData)))
	w.WriteU8(b.Unused2)
	w.WriteU8(b.Unused3)
	w.WriteBytes(b.NameData)
	if err := w.Err(); err != nil {
		return w.Offset(), err
	}
	off := w.Offset()
	if b.Blip != nil {
		n, err := b.Blip.Serialize(buf[off:])
		if err != nil {
			return off, err
		}
		off += n
	}
	if len(buf)-off < len(b.RemainingData) {
		return off, stream.ErrBufferOverflow
	}
	off += copy(buf[off:], b.RemainingData)
	return off, nil
}
