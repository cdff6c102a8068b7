package hpsf

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoPropertySet indicates data that does not start with a property
	// set stream header.
	ErrNoPropertySet = errors.New("hpsf: not a property set stream")

	// ErrMarkUnexpected indicates a property set whose first section has a
	// format ID other than the one the caller asked for, such as reading
	// document summary information as summary information.
	ErrMarkUnexpected = errors.New("hpsf: unexpected property set type")

	// ErrCorrupt indicates inconsistent offsets or lengths inside a stream.
	ErrCorrupt = errors.New("hpsf: corrupt property set")

	// ErrUnsupportedCodepage indicates a codepage with no known encoding.
	ErrUnsupportedCodepage = errors.New("hpsf: unsupported codepage")

	// ErrInvalidValue indicates a Go value that cannot be stored with the
	// given variant type.
	ErrInvalidValue = errors.New("hpsf: value does not match variant type")
)

// PropertyError locates a decoding failure inside a section.
type PropertyError struct {
	ID     uint32 // Property ID
	Offset int    // Offset of the property within its section
	Err    error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("hpsf: property %d at offset %d: %v", e.ID, e.Offset, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}
