// Package ddf decodes and encodes escher drawing records, the binary drawing
// layer shared by the legacy spreadsheet, presentation and word processing
// formats.
package ddf

import (
	"fmt"

	"github.com/skdltmxn/ole-go/record"
)

// Record ids.
const (
	DggContainerID    uint16 = 0xF000
	BStoreContainerID uint16 = 0xF001
	DgContainerID     uint16 = 0xF002
	SpgrContainerID   uint16 = 0xF003
	SpContainerID     uint16 = 0xF004
	SolverContainerID uint16 = 0xF005
	DggID             uint16 = 0xF006
	BSEID             uint16 = 0xF007
	DgID              uint16 = 0xF008
	SpgrID            uint16 = 0xF009
	SpID              uint16 = 0xF00A
	OptID             uint16 = 0xF00B
	TextboxID         uint16 = 0xF00C
	ClientTextboxID   uint16 = 0xF00D
	AnchorID          uint16 = 0xF00E
	ChildAnchorID     uint16 = 0xF00F
	ClientAnchorID    uint16 = 0xF010
	ClientDataID      uint16 = 0xF011
	ConnectorRuleID   uint16 = 0xF012
	AlignRuleID       uint16 = 0xF013
	ArcRuleID         uint16 = 0xF014
	ClientRuleID      uint16 = 0xF015
	CLSIDID           uint16 = 0xF016
	CalloutRuleID     uint16 = 0xF017
	BlipStartID       uint16 = 0xF018
	BlipEndID         uint16 = 0xF117
	RegroupItemsID    uint16 = 0xF118
	SelectionID       uint16 = 0xF119
	ColorMRUID        uint16 = 0xF11A
	DeletedPsplID     uint16 = 0xF11D
	SplitMenuColorsID uint16 = 0xF11E
	OleObjectID       uint16 = 0xF11F
	ColorSchemeID     uint16 = 0xF120
	TertiaryOptID     uint16 = 0xF122
)

var recordNames = map[uint16]string{
	DggContainerID:    "DggContainer",
	BStoreContainerID: "BStoreContainer",
	DgContainerID:     "DgContainer",
	SpgrContainerID:   "SpgrContainer",
	SpContainerID:     "SpContainer",
	SolverContainerID: "SolverContainer",
	DggID:             "Dgg",
	BSEID:             "BSE",
	DgID:              "Dg",
	SpgrID:            "Spgr",
	SpID:              "Sp",
	OptID:             "Opt",
	TextboxID:         "Textbox",
	ClientTextboxID:   "ClientTextbox",
	AnchorID:          "Anchor",
	ChildAnchorID:     "ChildAnchor",
	ClientAnchorID:    "ClientAnchor",
	ClientDataID:      "ClientData",
	ConnectorRuleID:   "ConnectorRule",
	AlignRuleID:       "AlignRule",
	ArcRuleID:         "ArcRule",
	ClientRuleID:      "ClientRule",
	CLSIDID:           "CLSID",
	CalloutRuleID:     "CalloutRule",
	RegroupItemsID:    "RegroupItems",
	SelectionID:       "Selection",
	ColorMRUID:        "ColorMRU",
	DeletedPsplID:     "DeletedPspl",
	SplitMenuColorsID: "SplitMenuColors",
	OleObjectID:       "OleObject",
	ColorSchemeID:     "ColorScheme",
	TertiaryOptID:     "TertiaryOpt",
}

// RecordName returns a human readable name for a record id.
func RecordName(id uint16) string {
	if name, ok := recordNames[id]; ok {
		return name
	}
	if id >= BlipStartID && id <= BlipEndID {
		if name, ok := blipNames[id]; ok {
			return name
		}
		return "Blip"
	}
	return fmt.Sprintf("Unknown 0x%04X", id)
}

// Record is a decoded escher record. The set of implementations is closed;
// ids without a dedicated type decode to *UnknownRecord.
type Record interface {
	record.Record

	// RecordID returns the record id (same as Sid).
	RecordID() uint16
	// Options returns the raw version/instance word.
	Options() uint16
	Version() uint8
	Instance() uint16
	// Name returns the record's display name.
	Name() string
	// ChildRecords returns nested records, nil for leaf records.
	ChildRecords() []Record

	setHeader(h Header)
	decode(body []byte, f *Factory, depth int) error
}

type base struct {
	options uint16
	id      uint16
}

func newBase(id uint16, version uint8, instance uint16) base {
	return base{id: id, options: makeOptions(version, instance)}
}

func (b *base) setHeader(h Header) {
	b.options = h.Options
	b.id = h.RecordID
}

func (b *base) Sid() uint16      { return b.id }
func (b *base) RecordID() uint16 { return b.id }
func (b *base) Options() uint16  { return b.options }
func (b *base) Version() uint8   { return uint8(b.options & 0x000F) }
func (b *base) Instance() uint16 { return b.options >> 4 }
func (b *base) Name() string     { return RecordName(b.id) }

func (b *base) ChildRecords() []Record { return nil }

// SetOptions replaces the version/instance word.
func (b *base) SetOptions(options uint16) { b.options = options }

// SetInstance replaces the instance and keeps the version.
func (b *base) SetInstance(instance uint16) {
	b.options = makeOptions(b.Version(), instance)
}

// SetVersion replaces the version and keeps the instance.
func (b *base) SetVersion(version uint8) {
	b.options = makeOptions(version, b.Instance())
}

// Walk visits records depth first. Returning false from fn skips the
// children of that record.
func Walk(records []Record, fn func(r Record, depth int) bool) {
	walk(records, 0, fn)
}

func walk(records []Record, depth int, fn func(Record, int) bool) {
	for _, r := range records {
		if fn(r, depth) {
			walk(r.ChildRecords(), depth+1, fn)
		}
	}
}

// Find returns the first record with the given id, searching depth first.
func Find(records []Record, id uint16) Record {
	var found Record
	Walk(records, func(r Record, _ int) bool {
		if found != nil {
			return false
		}
		if r.RecordID() == id {
			found = r
			return false
		}
		return true
	})
	return found
}

// FindAll returns every record with the given id in depth-first order.
func FindAll(records []Record, id uint16) []Record {
	var out []Record
	Walk(records, func(r Record, _ int) bool {
		if r.RecordID() == id {
			out = append(out, r)
		}
		return true
	})
	return out
}
