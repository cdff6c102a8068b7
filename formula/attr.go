package formula

import (
	"fmt"
	"strings"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// Attribute option bits of an AttrPtg.
const (
	AttrSemiVolatile byte = 0x01
	AttrIf           byte = 0x02
	AttrChoose       byte = 0x04
	AttrGoto         byte = 0x08
	AttrSum          byte = 0x10
	AttrBaxcel       byte = 0x20
	AttrSpace        byte = 0x40
)

// Whitespace kinds stored in the low byte of a space attribute.
const (
	SpaceBefore           byte = 0x00
	CRBefore              byte = 0x01
	SpaceBeforeOpenParen  byte = 0x02
	CRBeforeOpenParen     byte = 0x03
	SpaceBeforeCloseParen byte = 0x04
	CRBeforeCloseParen    byte = 0x05
	SpaceAfterEquality    byte = 0x06
)

// AttrPtg carries control information: volatility, IF and CHOOSE jump
// offsets, the single-argument SUM shortcut and whitespace.
type AttrPtg struct {
	Options byte
	Data    uint16

	// JumpTable and ChooseFuncOffset are set only for CHOOSE attributes.
	JumpTable        []uint16
	ChooseFuncOffset uint16
}

// NewSumAttr creates the attribute used for SUM with one argument.
func NewSumAttr() *AttrPtg {
	return &AttrPtg{Options: AttrSum}
}

// NewSemiAttr marks a formula as volatile.
func NewSemiAttr() *AttrPtg {
	return &AttrPtg{Options: AttrSemiVolatile}
}

// NewIfAttr creates an IF jump over the true branch.
func NewIfAttr(offset uint16) *AttrPtg {
	return &AttrPtg{Options: AttrIf, Data: offset}
}

// NewGotoAttr creates an unconditional jump.
func NewGotoAttr(offset uint16) *AttrPtg {
	return &AttrPtg{Options: AttrGoto, Data: offset}
}

// NewSpaceAttr creates a whitespace attribute of the given kind.
func NewSpaceAttr(kind byte, count uint8) *AttrPtg {
	return &AttrPtg{Options: AttrSpace, Data: uint16(count)<<8 | uint16(kind)}
}

// NewChooseAttr creates a CHOOSE jump table.
func NewChooseAttr(jumpTable []uint16, funcOffset uint16) *AttrPtg {
	return &AttrPtg{
		Options:          AttrChoose,
		Data:             uint16(len(jumpTable)),
		JumpTable:        jumpTable,
		ChooseFuncOffset: funcOffset,
	}
}

func readAttr(r *stream.Reader) (Ptg, error) {
	opts, err := r.ReadU8()
	if err != nil {
		return nil, truncated("attribute options")
	}
	data, err := r.ReadU16()
	if err != nil {
		return nil, truncated("attribute data")
	}
	p := &AttrPtg{Options: opts, Data: data}
	if !p.IsChoose() {
		return p, nil
	}

	p.JumpTable = make([]uint16, data)
	for i := range p.JumpTable {
		if p.JumpTable[i], err = r.ReadU16(); err != nil {
			return nil, truncated("choose jump table")
		}
	}
	if p.ChooseFuncOffset, err = r.ReadU16(); err != nil {
		return nil, truncated("choose function offset")
	}
	return p, nil
}

func (p *AttrPtg) IsSemiVolatile() bool { return p.Options&AttrSemiVolatile != 0 }
func (p *AttrPtg) IsIf() bool           { return p.Options&AttrIf != 0 }
func (p *AttrPtg) IsChoose() bool       { return p.Options&AttrChoose != 0 }
func (p *AttrPtg) IsGoto() bool         { return p.Options&AttrGoto != 0 }
func (p *AttrPtg) IsSum() bool          { return p.Options&AttrSum != 0 }
func (p *AttrPtg) IsBaxcel() bool       { return p.Options&AttrBaxcel != 0 }
func (p *AttrPtg) IsSpace() bool        { return p.Options&AttrSpace != 0 }

// SpaceKind returns the whitespace kind of a space attribute.
func (p *AttrPtg) SpaceKind() byte { return byte(p.Data) }

// SpaceCount returns the number of whitespace characters.
func (p *AttrPtg) SpaceCount() int { return int(p.Data >> 8) }

func (p *AttrPtg) ID() byte { return IDAttr }

func (p *AttrPtg) Size() int {
	if p.IsChoose() {
		return 4 + 2*(len(p.JumpTable)+1)
	}
	return 4
}

func (p *AttrPtg) String() string {
	var parts []string
	if p.IsSemiVolatile() {
		parts = append(parts, "volatile")
	}
	if p.IsSpace() {
		parts = append(parts, fmt.Sprintf("space count=%d type=%d", p.SpaceCount(), p.SpaceKind()))
	}
	if p.IsIf() {
		parts = append(parts, fmt.Sprintf("if dist=%d", p.Data))
	}
	if p.IsChoose() {
		parts = append(parts, fmt.Sprintf("choose nCases=%d", p.Data))
	}
	if p.IsGoto() {
		parts = append(parts, fmt.Sprintf("skip dist=%d", p.Data))
	}
	if p.IsSum() {
		parts = append(parts, "sum")
	}
	if p.IsBaxcel() {
		parts = append(parts, "assign")
	}
	return "Attr[" + strings.Join(parts, " ") + "]"
}

func (p *AttrPtg) write(w *stream.Writer) {
	w.WriteU8(IDAttr)
	w.WriteU8(p.Options)
	if !p.IsChoose() {
		w.WriteU16(p.Data)
		return
	}
	w.WriteU16(uint16(len(p.JumpTable)))
	for _, j := range p.JumpTable {
		w.WriteU16(j)
	}
	w.WriteU16(p.ChooseFuncOffset)
}
