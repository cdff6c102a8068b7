package ole

import "errors"

// Sentinel errors for common conditions.
var (
	// ErrFileClosed indicates the document has been closed.
	ErrFileClosed = errors.New("ole: file is closed")

	// ErrNoPropertySet indicates the requested property set stream is absent.
	ErrNoPropertySet = errors.New("ole: property set stream not present")
)
