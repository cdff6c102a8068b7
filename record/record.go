// Package record defines the contract shared by every binary record codec:
// a record knows its tag, its encoded size, and how to write itself.
package record

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch indicates a record wrote a different number of bytes than
// it declared.
var ErrSizeMismatch = errors.New("record: serialized size does not match declared size")

// Record is a self-describing binary record.
type Record interface {
	// Sid returns the record's type tag.
	Sid() uint16
	// RecordSize returns the number of bytes Serialize writes.
	RecordSize() int
	// Serialize writes the record at the start of buf and returns the number
	// of bytes written.
	Serialize(buf []byte) (int, error)
}

// SizeMismatchError reports a record whose output disagrees with RecordSize.
type SizeMismatchError struct {
	Sid      uint16
	Declared int
	Written  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("record: sid 0x%04X declared %d bytes but wrote %d", e.Sid, e.Declared, e.Written)
}

func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }

// Marshal serializes r into a new buffer of exactly RecordSize bytes.
func Marshal(r Record) ([]byte, error) {
	buf := make([]byte, r.RecordSize())
	if _, err := SerializeInto(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// SerializeInto writes r at the start of buf and checks the written count.
func SerializeInto(r Record, buf []byte) (int, error) {
	declared := r.RecordSize()
	if len(buf) < declared {
		return 0, fmt.Errorf("record: sid 0x%04X needs %d bytes, buffer has %d", r.Sid(), declared, len(buf))
	}
	n, err := r.Serialize(buf[:declared])
	if err != nil {
		return n, fmt.Errorf("record: sid 0x%04X: %w", r.Sid(), err)
	}
	if n != declared {
		return n, &SizeMismatchError{Sid: r.Sid(), Declared: declared, Written: n}
	}
	return n, nil
}

// MarshalAll serializes records back to back.
func MarshalAll[R Record](records []R) ([]byte, error) {
	total := 0
	for _, r := range records {
		total += r.RecordSize()
	}
	buf := make([]byte, total)
	off := 0
	for _, r := range records {
		n, err := SerializeInto(r, buf[off:])
		if err != nil {
			return nil, err
		}
		off += n
	}
	return buf, nil
}

// TotalSize returns the summed RecordSize of records.
func TotalSize[R Record](records []R) int {
	total := 0
	for _, r := range records {
		total += r.RecordSize()
	}
	return total
}
