package cfb

import (
	"bytes"
	"encoding/binary"
)

// Format identifies the kind of file found at the start of a byte source.
type Format int

const (
	FormatUnknown Format = iota
	FormatOLE2
	FormatOOXML
	FormatXML
	FormatOldExcel
)

func (f Format) String() string {
	switch f {
	case FormatOLE2:
		return "OLE2"
	case FormatOOXML:
		return "OOXML"
	case FormatXML:
		return "XML"
	case FormatOldExcel:
		return "BIFF2-4"
	default:
		return "unknown"
	}
}

var (
	ooxmlMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	xmlMagic   = []byte("<?xml")
)

// DetectFormat inspects the first bytes of a file.
func DetectFormat(head []byte) Format {
	switch {
	case len(head) >= len(Signature) && bytes.Equal(head[:len(Signature)], Signature[:]):
		return FormatOLE2
	case bytes.HasPrefix(head, ooxmlMagic):
		return FormatOOXML
	case bytes.HasPrefix(bytes.TrimPrefix(head, []byte{0xEF, 0xBB, 0xBF}), xmlMagic):
		return FormatXML
	case isOldExcel(head):
		return FormatOldExcel
	}
	return FormatUnknown
}

// BIFF2, BIFF3 and BIFF4 workbooks are raw record streams starting with a BOF.
func isOldExcel(head []byte) bool {
	if len(head) < 4 {
		return false
	}
	switch binary.LittleEndian.Uint16(head) {
	case 0x0009, 0x0209, 0x0409:
	default:
		return false
	}
	switch binary.LittleEndian.Uint16(head[2:]) {
	case 0x0004, 0x0006:
		return true
	}
	return false
}

func formatError(head []byte) error {
	f := DetectFormat(head)
	switch f {
	case FormatOOXML:
		return &FormatError{Format: f, Hint: "the data appears to be an Office 2007+ XML package; open it with a zip reader"}
	case FormatXML:
		return &FormatError{Format: f, Hint: "the data appears to be a raw XML file"}
	case FormatOldExcel:
		return &FormatError{Format: f, Hint: "the data appears to be a BIFF2-4 Excel file, which has no compound container"}
	}
	return &FormatError{Format: f}
}
