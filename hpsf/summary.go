package hpsf

import (
	"fmt"
	"time"

	"github.com/richardlehane/msoleps/types"
)

// Property IDs of the summary information section.
const (
	PIDTitle            uint32 = 2
	PIDSubject          uint32 = 3
	PIDAuthor           uint32 = 4
	PIDKeywords         uint32 = 5
	PIDComments         uint32 = 6
	PIDTemplate         uint32 = 7
	PIDLastAuthor       uint32 = 8
	PIDRevNumber        uint32 = 9
	PIDEditTime         uint32 = 10
	PIDLastPrinted      uint32 = 11
	PIDCreateDateTime   uint32 = 12
	PIDLastSaveDateTime uint32 = 13
	PIDPageCount        uint32 = 14
	PIDWordCount        uint32 = 15
	PIDCharCount        uint32 = 16
	PIDThumbnail        uint32 = 17
	PIDAppName          uint32 = 18
	PIDSecurity         uint32 = 19
)

var summaryNames = map[uint32]string{
	PIDTitle:            "Title",
	PIDSubject:          "Subject",
	PIDAuthor:           "Author",
	PIDKeywords:         "Keywords",
	PIDComments:         "Comments",
	PIDTemplate:         "Template",
	PIDLastAuthor:       "Last Author",
	PIDRevNumber:        "Revision Number",
	PIDEditTime:         "Total Editing Time",
	PIDLastPrinted:      "Last Printed",
	PIDCreateDateTime:   "Create Time/Date",
	PIDLastSaveDateTime: "Last Saved Time/Date",
	PIDPageCount:        "Number of Pages",
	PIDWordCount:        "Number of Words",
	PIDCharCount:        "Number of Characters",
	PIDThumbnail:        "Thumbnail",
	PIDAppName:          "Name of Creating Application",
	PIDSecurity:         "Security",
}

// SummaryInformation wraps a property set whose first section is summary
// information.
type SummaryInformation struct {
	*PropertySet
}

// NewSummaryInformation creates an empty summary information set using
// codepage 1252.
func NewSummaryInformation() *SummaryInformation {
	ps := New()
	s := NewSection(SummaryInformationID)
	s.SetCodepage(CodepageDefault)
	ps.AddSection(s)
	return &SummaryInformation{PropertySet: ps}
}

// AsSummaryInformation checks the first section's format ID and wraps ps.
func AsSummaryInformation(ps *PropertySet) (*SummaryInformation, error) {
	if !ps.IsSummaryInformation() {
		return nil, fmt.Errorf("%w: expected summary information", ErrMarkUnexpected)
	}
	return &SummaryInformation{PropertySet: ps}, nil
}

func (si *SummaryInformation) section() *Section { return si.FirstSection() }

func (si *SummaryInformation) setString(id uint32, v string) {
	si.section().SetProperty(id, VTLPSTR, v)
}

func (si *SummaryInformation) setInt(id uint32, v int32) {
	si.section().SetProperty(id, VTI4, v)
}

func (si *SummaryInformation) setTime(id uint32, t time.Time) {
	si.section().SetProperty(id, VTFileTime, timeToFileTime(t))
}

func (si *SummaryInformation) getInt(id uint32) int {
	v, _ := si.section().Int(id)
	return int(v)
}

func (si *SummaryInformation) Title() string           { return si.section().String(PIDTitle) }
func (si *SummaryInformation) SetTitle(v string)       { si.setString(PIDTitle, v) }
func (si *SummaryInformation) Subject() string         { return si.section().String(PIDSubject) }
func (si *SummaryInformation) SetSubject(v string)     { si.setString(PIDSubject, v) }
func (si *SummaryInformation) Author() string          { return si.section().String(PIDAuthor) }
func (si *SummaryInformation) SetAuthor(v string)      { si.setString(PIDAuthor, v) }
func (si *SummaryInformation) Keywords() string        { return si.section().String(PIDKeywords) }
func (si *SummaryInformation) SetKeywords(v string)    { si.setString(PIDKeywords, v) }
func (si *SummaryInformation) Comments() string        { return si.section().String(PIDComments) }
func (si *SummaryInformation) SetComments(v string)    { si.setString(PIDComments, v) }
func (si *SummaryInformation) Template() string        { return si.section().String(PIDTemplate) }
func (si *SummaryInformation) SetTemplate(v string)    { si.setString(PIDTemplate, v) }
func (si *SummaryInformation) LastAuthor() string      { return si.section().String(PIDLastAuthor) }
func (si *SummaryInformation) SetLastAuthor(v string)  { si.setString(PIDLastAuthor, v) }
func (si *SummaryInformation) RevNumber() string       { return si.section().String(PIDRevNumber) }
func (si *SummaryInformation) SetRevNumber(v string)   { si.setString(PIDRevNumber, v) }
func (si *SummaryInformation) ApplicationName() string { return si.section().String(PIDAppName) }

func (si *SummaryInformation) SetApplicationName(v string) { si.setString(PIDAppName, v) }

func (si *SummaryInformation) PageCount() int      { return si.getInt(PIDPageCount) }
func (si *SummaryInformation) SetPageCount(n int)  { si.setInt(PIDPageCount, int32(n)) }
func (si *SummaryInformation) WordCount() int      { return si.getInt(PIDWordCount) }
func (si *SummaryInformation) SetWordCount(n int)  { si.setInt(PIDWordCount, int32(n)) }
func (si *SummaryInformation) CharCount() int      { return si.getInt(PIDCharCount) }
func (si *SummaryInformation) SetCharCount(n int)  { si.setInt(PIDCharCount, int32(n)) }
func (si *SummaryInformation) Security() int       { return si.getInt(PIDSecurity) }
func (si *SummaryInformation) SetSecurity(n int)   { si.setInt(PIDSecurity, int32(n)) }

func (si *SummaryInformation) LastPrinted() time.Time        { return si.section().Time(PIDLastPrinted) }
func (si *SummaryInformation) SetLastPrinted(t time.Time)    { si.setTime(PIDLastPrinted, t) }
func (si *SummaryInformation) CreateDateTime() time.Time     { return si.section().Time(PIDCreateDateTime) }
func (si *SummaryInformation) SetCreateDateTime(t time.Time) { si.setTime(PIDCreateDateTime, t) }

func (si *SummaryInformation) LastSaveDateTime() time.Time     { return si.section().Time(PIDLastSaveDateTime) }
func (si *SummaryInformation) SetLastSaveDateTime(t time.Time) { si.setTime(PIDLastSaveDateTime, t) }

// EditTime returns the total editing time. It is stored as a FILETIME
// holding a duration in 100ns ticks.
func (si *SummaryInformation) EditTime() time.Duration {
	ft, ok := si.section().Value(PIDEditTime).(types.FileTime)
	if !ok {
		return 0
	}
	return time.Duration(fileTimeTicks(ft) * 100)
}

// SetEditTime stores the total editing time.
func (si *SummaryInformation) SetEditTime(d time.Duration) {
	ticks := uint64(d / 100)
	si.section().SetProperty(PIDEditTime, VTFileTime, types.FileTime{Low: uint32(ticks), High: uint32(ticks >> 32)})
}

// Thumbnail returns the clipboard data of the thumbnail, if any.
func (si *SummaryInformation) Thumbnail() (ClipboardData, bool) {
	cf, ok := si.section().Value(PIDThumbnail).(ClipboardData)
	return cf, ok
}

// SetThumbnail stores a thumbnail.
func (si *SummaryInformation) SetThumbnail(cf ClipboardData) {
	si.section().SetProperty(PIDThumbnail, VTCF, cf)
}
