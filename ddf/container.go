package ddf

import (
	"github.com/skdltmxn/ole-go/internal/stream"
	"github.com/skdltmxn/ole-go/record"
)

// ContainerRecord holds nested records. Ids 0xF000 through 0xF005 are
// containers.
type ContainerRecord struct {
	base
	children []Record
}

// NewContainer creates an empty container with the given id.
func NewContainer(id uint16) *ContainerRecord {
	return &ContainerRecord{base: newBase(id, ContainerVersion, 0)}
}

func (c *ContainerRecord) decode(body []byte, f *Factory, depth int) error {
	children, err := f.parseRun(body, depth+1)
	if err != nil {
		return err
	}
	c.children = children
	return nil
}

// ChildRecords returns the nested records.
func (c *ContainerRecord) ChildRecords() []Record {
	return c.children
}

// SetChildRecords replaces the nested records.
func (c *ContainerRecord) SetChildRecords(children []Record) {
	c.children = children
}

// AddChild appends a record.
func (c *ContainerRecord) AddChild(r Record) {
	c.children = append(c.children, r)
}

// AddChildBefore inserts r before the first child with the given id, or
// appends it when there is none.
func (c *ContainerRecord) AddChildBefore(r Record, id uint16) {
	for i, child := range c.children {
		if child.RecordID() == id {
			c.children = append(c.children[:i], append([]Record{r}, c.children[i:]...)...)
			return
		}
	}
	c.AddChild(r)
}

// Child returns the first direct child with the given id, or nil.
func (c *ContainerRecord) Child(id uint16) Record {
	for _, child := range c.children {
		if child.RecordID() == id {
			return child
		}
	}
	return nil
}

// RemoveChild removes the first direct child with the given id.
func (c *ContainerRecord) RemoveChild(id uint16) bool {
	for i, child := range c.children {
		if child.RecordID() == id {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// Containers returns the direct children that are containers.
func (c *ContainerRecord) Containers() []*ContainerRecord {
	var out []*ContainerRecord
	for _, child := range c.children {
		if cc, ok := child.(*ContainerRecord); ok {
			out = append(out, cc)
		}
	}
	return out
}

func (c *ContainerRecord) RecordSize() int {
	return HeaderSize + record.TotalSize(c.children)
}

func (c *ContainerRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, c.options, c.id, record.TotalSize(c.children))
	if err := w.Err(); err != nil {
		return w.Offset(), err
	}
	off := w.Offset()
	for _, child := range c.children {
		n, err := record.SerializeInto(child, buf[off:])
		if err != nil {
			return off, err
		}
		off += n
	}
	return off, nil
}
