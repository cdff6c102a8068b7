package cfb

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotOLE2 indicates the data does not start with the compound file signature.
	ErrNotOLE2 = errors.New("cfb: not an OLE2 compound document")

	// ErrOOXMLFormat indicates the data is an Office Open XML package.
	ErrOOXMLFormat = errors.New("cfb: data is an Office Open XML package, not an OLE2 compound document")

	// ErrInvalidHeader indicates a header field holds an unsupported value.
	ErrInvalidHeader = errors.New("cfb: invalid header")

	// ErrTruncatedFile indicates the file ended before a referenced sector.
	ErrTruncatedFile = errors.New("cfb: file is truncated")

	// ErrCorruptChain indicates a sector chain loops, leaves the table or is mis-sized.
	ErrCorruptChain = errors.New("cfb: corrupt sector chain")

	// ErrSectorOutOfRange indicates a sector index beyond the allocation table.
	ErrSectorOutOfRange = errors.New("cfb: sector index out of range")

	// ErrCorruptDirectory indicates the directory tree references invalid or repeated entries.
	ErrCorruptDirectory = errors.New("cfb: corrupt directory")

	// ErrEntryNotFound indicates a named entry does not exist.
	ErrEntryNotFound = errors.New("cfb: entry not found")

	// ErrDuplicateEntry indicates a sibling with an equal name already exists.
	ErrDuplicateEntry = errors.New("cfb: duplicate entry name")

	// ErrNameTooLong indicates an entry name longer than 31 UTF-16 code units.
	ErrNameTooLong = errors.New("cfb: entry name too long")

	// ErrInvalidName indicates an empty name or one containing a path separator.
	ErrInvalidName = errors.New("cfb: invalid entry name")

	// ErrDirectoryNotEmpty indicates an attempt to delete a storage that has children.
	ErrDirectoryNotEmpty = errors.New("cfb: directory is not empty")

	// ErrNotDirectory indicates a path component is a stream.
	ErrNotDirectory = errors.New("cfb: entry is not a directory")

	// ErrNotDocument indicates an entry is a storage where a stream was expected.
	ErrNotDocument = errors.New("cfb: entry is not a document")

	// ErrRootEntry indicates an operation that is not allowed on the root storage.
	ErrRootEntry = errors.New("cfb: operation not allowed on root entry")

	// ErrStreamTooLarge indicates a stream exceeds the configured maximum size.
	ErrStreamTooLarge = errors.New("cfb: stream too large")

	// ErrInvalidBlockSize indicates a big block size other than 512 or 4096.
	ErrInvalidBlockSize = errors.New("cfb: invalid block size")

	// ErrClosed indicates the file system has been closed.
	ErrClosed = errors.New("cfb: file system is closed")

	// ErrStreamClosed indicates the document stream has been closed.
	ErrStreamClosed = errors.New("cfb: stream is closed")

	// ErrNilBuffer indicates a read into a nil buffer.
	ErrNilBuffer = errors.New("cfb: nil buffer")

	// ErrInvalidRange indicates a negative or overflowing offset/length pair.
	ErrInvalidRange = errors.New("cfb: invalid buffer range")
)

// ChainError describes a corrupt sector chain.
type ChainError struct {
	Start  uint32 // First sector of the chain
	Sector uint32 // Sector at which the problem was found
	Reason string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("cfb: corrupt sector chain starting at %d: %s at sector %d",
		e.Start, e.Reason, e.Sector)
}

func (e *ChainError) Unwrap() error { return ErrCorruptChain }

// FormatError reports data that is not an OLE2 compound file, with a hint
// naming the format that was detected instead.
type FormatError struct {
	Format Format
	Hint   string
}

func (e *FormatError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("cfb: not an OLE2 compound document (%s): %s", e.Format, e.Hint)
	}
	return fmt.Sprintf("cfb: not an OLE2 compound document (%s)", e.Format)
}

// Is matches ErrNotOLE2 for every format and ErrOOXMLFormat for OOXML packages.
func (e *FormatError) Is(target error) bool {
	switch target {
	case ErrNotOLE2:
		return true
	case ErrOOXMLFormat:
		return e.Format == FormatOOXML
	}
	return false
}

// ParseError provides detailed information about parsing failures.
type ParseError struct {
	Stream  string // Structure being parsed (header, fat, directory, ...)
	Offset  int64  // Byte offset within the file
	Message string // Description of the error
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cfb: parse error in %s at offset 0x%x: %s: %v",
			e.Stream, e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("cfb: parse error in %s at offset 0x%x: %s",
		e.Stream, e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }
