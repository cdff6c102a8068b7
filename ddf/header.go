package ddf

import (
	"github.com/skdltmxn/ole-go/internal/stream"
)

// HeaderSize is the size of every escher record header.
const HeaderSize = 8

// ContainerVersion marks a record whose body is a sequence of records.
const ContainerVersion = 0xF

// Header is the common escher record header.
type Header struct {
	Options  uint16 // version in the low 4 bits, instance in the high 12
	RecordID uint16
	Length   uint32 // body length, header excluded
}

// Version returns the record version.
func (h Header) Version() uint8 {
	return uint8(h.Options & 0x000F)
}

// Instance returns the record instance.
func (h Header) Instance() uint16 {
	return h.Options >> 4
}

// IsContainer reports whether the header announces a container.
func (h Header) IsContainer() bool {
	return h.Version() == ContainerVersion
}

// ReadHeader decodes a record header from data.
func ReadHeader(data []byte) (Header, error) {
	r := stream.NewReader(data)

	options, err := r.ReadU16()
	if err != nil {
		return Header{}, ErrRecordTruncated
	}
	id, err := r.ReadU16()
	if err != nil {
		return Header{}, ErrRecordTruncated
	}
	length, err := r.ReadU32()
	if err != nil {
		return Header{}, ErrRecordTruncated
	}

	return Header{Options: options, RecordID: id, Length: length}, nil
}

func makeOptions(version uint8, instance uint16) uint16 {
	return instance<<4 | uint16(version&0x0F)
}

func writeHeader(w *stream.Writer, options, id uint16, length int) {
	w.WriteU16(options)
	w.WriteU16(id)
	w.WriteU32(uint32(length))
}
