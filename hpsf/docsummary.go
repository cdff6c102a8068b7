package hpsf

import "fmt"

// Property IDs of the document summary information section.
const (
	PIDCategory           uint32 = 2
	PIDPresentationFormat uint32 = 3
	PIDByteCount          uint32 = 4
	PIDLineCount          uint32 = 5
	PIDParCount           uint32 = 6
	PIDSlideCount         uint32 = 7
	PIDNoteCount          uint32 = 8
	PIDHiddenCount        uint32 = 9
	PIDMMClipCount        uint32 = 10
	PIDScale              uint32 = 11
	PIDHeadingPair        uint32 = 12
	PIDDocParts           uint32 = 13
	PIDManager            uint32 = 14
	PIDCompany            uint32 = 15
	PIDLinksDirty         uint32 = 16
)

var documentSummaryNames = map[uint32]string{
	PIDCategory:           "Category",
	PIDPresentationFormat: "Presentation Format",
	PIDByteCount:          "Byte Count",
	PIDLineCount:          "Line Count",
	PIDParCount:           "Paragraph Count",
	PIDSlideCount:         "Slide Count",
	PIDNoteCount:          "Note Count",
	PIDHiddenCount:        "Hidden Slide Count",
	PIDMMClipCount:        "Multimedia Clip Count",
	PIDScale:              "Scale",
	PIDHeadingPair:        "Heading Pair",
	PIDDocParts:           "Document Parts",
	PIDManager:            "Manager",
	PIDCompany:            "Company",
	PIDLinksDirty:         "Links Dirty",
}

var reservedNames = map[uint32]string{
	PIDDictionary: "Dictionary",
	PIDCodepage:   "Codepage",
	PIDLocale:     "Locale",
	PIDBehavior:   "Behavior",
}

// PropertyName returns a display name for a property: the section's
// dictionary entry, the well-known name for its format ID, or the ID.
func (s *Section) PropertyName(id uint32) string {
	if name, ok := reservedNames[id]; ok {
		return name
	}
	if name, ok := s.dictionary[id]; ok {
		return name
	}
	var names map[uint32]string
	switch s.FormatID {
	case SummaryInformationID:
		names = summaryNames
	case DocumentSummaryInformationID:
		names = documentSummaryNames
	}
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", id)
}

// DocumentSummaryInformation wraps a property set whose first section is
// document summary information. A second section, if present, holds the
// custom properties.
type DocumentSummaryInformation struct {
	*PropertySet
}

// NewDocumentSummaryInformation creates an empty document summary set
// using codepage 1252.
func NewDocumentSummaryInformation() *DocumentSummaryInformation {
	ps := New()
	s := NewSection(DocumentSummaryInformationID)
	s.SetCodepage(CodepageDefault)
	ps.AddSection(s)
	return &DocumentSummaryInformation{PropertySet: ps}
}

// AsDocumentSummaryInformation checks the first section's format ID and
// wraps ps.
func AsDocumentSummaryInformation(ps *PropertySet) (*DocumentSummaryInformation, error) {
	if !ps.IsDocumentSummaryInformation() {
		return nil, fmt.Errorf("%w: expected document summary information", ErrMarkUnexpected)
	}
	return &DocumentSummaryInformation{PropertySet: ps}, nil
}

func (d *DocumentSummaryInformation) section() *Section { return d.FirstSection() }

func (d *DocumentSummaryInformation) getInt(id uint32) int {
	v, _ := d.section().Int(id)
	return int(v)
}

func (d *DocumentSummaryInformation) Category() string { return d.section().String(PIDCategory) }
func (d *DocumentSummaryInformation) Manager() string  { return d.section().String(PIDManager) }
func (d *DocumentSummaryInformation) Company() string  { return d.section().String(PIDCompany) }

func (d *DocumentSummaryInformation) PresentationFormat() string {
	return d.section().String(PIDPresentationFormat)
}

func (d *DocumentSummaryInformation) SetCategory(v string) {
	d.section().SetProperty(PIDCategory, VTLPSTR, v)
}

func (d *DocumentSummaryInformation) SetManager(v string) {
	d.section().SetProperty(PIDManager, VTLPSTR, v)
}

func (d *DocumentSummaryInformation) SetCompany(v string) {
	d.section().SetProperty(PIDCompany, VTLPSTR, v)
}

func (d *DocumentSummaryInformation) SetPresentationFormat(v string) {
	d.section().SetProperty(PIDPresentationFormat, VTLPSTR, v)
}

func (d *DocumentSummaryInformation) ByteCount() int   { return d.getInt(PIDByteCount) }
func (d *DocumentSummaryInformation) LineCount() int   { return d.getInt(PIDLineCount) }
func (d *DocumentSummaryInformation) ParCount() int    { return d.getInt(PIDParCount) }
func (d *DocumentSummaryInformation) SlideCount() int  { return d.getInt(PIDSlideCount) }
func (d *DocumentSummaryInformation) NoteCount() int   { return d.getInt(PIDNoteCount) }
func (d *DocumentSummaryInformation) HiddenCount() int { return d.getInt(PIDHiddenCount) }
func (d *DocumentSummaryInformation) MMClipCount() int { return d.getInt(PIDMMClipCount) }

// SetCount stores one of the count properties (byte, line, paragraph,
// slide, note, hidden or clip count).
func (d *DocumentSummaryInformation) SetCount(id uint32, n int) error {
	if id < PIDByteCount || id > PIDMMClipCount {
		return fmt.Errorf("%w: property %d is not a count", ErrInvalidValue, id)
	}
	return d.section().SetProperty(id, VTI4, int32(n))
}

func (d *DocumentSummaryInformation) Scale() bool      { return d.section().Bool(PIDScale) }
func (d *DocumentSummaryInformation) LinksDirty() bool { return d.section().Bool(PIDLinksDirty) }

func (d *DocumentSummaryInformation) SetScale(v bool) {
	d.section().SetProperty(PIDScale, VTBool, v)
}

func (d *DocumentSummaryInformation) SetLinksDirty(v bool) {
	d.section().SetProperty(PIDLinksDirty, VTBool, v)
}

// CustomProperties returns the user-defined section as custom properties,
// or nil if the set has none.
func (d *DocumentSummaryInformation) CustomProperties() *CustomProperties {
	s, ok := d.Section(UserDefinedPropertiesID)
	if !ok {
		return nil
	}
	return customFromSection(s)
}

// SetCustomProperties replaces the user-defined section.
func (d *DocumentSummaryInformation) SetCustomProperties(cp *CustomProperties) {
	s := cp.section()
	for i, existing := range d.Sections {
		if existing.FormatID == UserDefinedPropertiesID {
			d.Sections[i] = s
			return
		}
	}
	d.AddSection(s)
}

// RemoveCustomProperties drops the user-defined section.
func (d *DocumentSummaryInformation) RemoveCustomProperties() {
	for i, s := range d.Sections {
		if s.FormatID == UserDefinedPropertiesID {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return
		}
	}
}
