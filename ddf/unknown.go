package ddf

import (
	"github.com/skdltmxn/ole-go/internal/stream"
	"github.com/skdltmxn/ole-go/record"
)

// UnknownRecord keeps a record the factory has no type for. When the header
// marks a container its children are decoded; otherwise the body is kept as
// raw bytes so the record round-trips unchanged.
type UnknownRecord struct {
	base
	Data     []byte
	children []Record
}

// NewUnknownRecord creates an opaque record.
func NewUnknownRecord(options, id uint16, data []byte) *UnknownRecord {
	return &UnknownRecord{base: base{options: options, id: id}, Data: data}
}

func (u *UnknownRecord) isContainer() bool {
	return u.Version() == ContainerVersion
}

func (u *UnknownRecord) decode(body []byte, f *Factory, depth int) error {
	if u.isContainer() && len(body) > 0 {
		children, err := f.parseRun(body, depth+1)
		if err != nil {
			return err
		}
		u.children = children
		return nil
	}
	u.Data = append([]byte(nil), body...)
	return nil
}

func (u *UnknownRecord) ChildRecords() []Record {
	return u.children
}

func (u *UnknownRecord) bodySize() int {
	if u.children != nil {
		return record.TotalSize(u.children)
	}
	return len(u.Data)
}

func (u *UnknownRecord) RecordSize() int {
	return HeaderSize + u.bodySize()
}

func (u *UnknownRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, u.options, u.id, u.bodySize())
	if u.children == nil {
		w.WriteBytes(u.Data)
		return w.Offset(), w.Err()
	}
	if err := w.Err(); err != nil {
		return w.Offset(), err
	}
	off := w.Offset()
	for _, child := range u.children {
		n, err := record.SerializeInto(child, buf[off:])
		if err != nil {
			return off, err
		}
		off += n
	}
	return off, nil
}
