package ddf

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrRecordTruncated indicates a record header or body extends past the buffer.
	ErrRecordTruncated = errors.New("ddf: record extends past end of data")

	// ErrRecordTooLarge indicates a declared record length above the configured maximum.
	ErrRecordTooLarge = errors.New("ddf: record length exceeds maximum")

	// ErrNestingTooDeep indicates containers nested deeper than the parser allows.
	ErrNestingTooDeep = errors.New("ddf: containers nested too deeply")

	// ErrInvalidRecord indicates a record body that does not match its fixed layout.
	ErrInvalidRecord = errors.New("ddf: invalid record")

	// ErrInvalidProperty indicates a malformed OPT property.
	ErrInvalidProperty = errors.New("ddf: invalid property")

	// ErrIndexOutOfRange indicates an array element index outside the array.
	ErrIndexOutOfRange = errors.New("ddf: index out of range")

	// ErrBlipNotFound indicates a blip id that has no entry in the store.
	ErrBlipNotFound = errors.New("ddf: blip not found")
)

// RecordError locates a failure inside an escher record stream.
type RecordError struct {
	Offset   int    // Offset of the record header
	RecordID uint16 // Record id, zero when the header itself could not be read
	Err      error
}

func (e *RecordError) Error() string {
	if e.RecordID == 0 {
		return fmt.Sprintf("ddf: at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("ddf: %s (0x%04X) at offset %d: %v", RecordName(e.RecordID), e.RecordID, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
