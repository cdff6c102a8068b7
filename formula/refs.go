package formula

import (
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// RefPtg references one cell. The same layout with id 0x2C (RefN) holds
// offsets relative to the formula's cell in shared formulas.
type RefPtg struct {
	operand
	base byte
	Cell CellReference
}

// NewRefPtg creates a cell reference of the given class.
func NewRefPtg(cell CellReference, class Class) *RefPtg {
	return &RefPtg{operand: operand{class: class}, base: IDRef, Cell: cell}
}

func readRef(id byte, r *stream.Reader) (Ptg, error) {
	row, err := r.ReadU16()
	if err != nil {
		return nil, truncated("reference row")
	}
	col, err := r.ReadU16()
	if err != nil {
		return nil, truncated("reference column")
	}
	return &RefPtg{operand: operandFromID(id), base: BaseID(id), Cell: unpackCell(row, col)}, nil
}

func (p *RefPtg) ID() byte  { return p.id(p.base) }
func (p *RefPtg) Size() int { return 5 }

// IsRelative reports whether this is a RefN token.
func (p *RefPtg) IsRelative() bool { return p.base == IDRefN }

func (p *RefPtg) String() string {
	name := "Ref"
	if p.IsRelative() {
		name = "RefN"
	}
	return fmt.Sprintf("%s(%s)%s", name, p.Cell, p.class)
}

func (p *RefPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(uint16(p.Cell.Row))
	w.WriteU16(p.Cell.packColumn())
}

// AreaPtg references a rectangle of cells. Id 0x2D (AreaN) is the shared
// formula form.
type AreaPtg struct {
	operand
	base byte
	Area AreaReference
}

// NewAreaPtg creates an area reference of the given class.
func NewAreaPtg(area AreaReference, class Class) *AreaPtg {
	return &AreaPtg{operand: operand{class: class}, base: IDArea, Area: area}
}

func readAreaFields(r *stream.Reader) (AreaReference, error) {
	var v [4]uint16
	for i := range v {
		var err error
		if v[i], err = r.ReadU16(); err != nil {
			return AreaReference{}, truncated("area")
		}
	}
	return AreaReference{
		First: unpackCell(v[0], v[2]),
		Last:  unpackCell(v[1], v[3]),
	}, nil
}

func writeAreaFields(w *stream.Writer, a AreaReference) {
	w.WriteU16(uint16(a.First.Row))
	w.WriteU16(uint16(a.Last.Row))
	w.WriteU16(a.First.packColumn())
	w.WriteU16(a.Last.packColumn())
}

func readArea(id byte, r *stream.Reader) (Ptg, error) {
	area, err := readAreaFields(r)
	if err != nil {
		return nil, err
	}
	return &AreaPtg{operand: operandFromID(id), base: BaseID(id), Area: area}, nil
}

func (p *AreaPtg) ID() byte  { return p.id(p.base) }
func (p *AreaPtg) Size() int { return 9 }

// IsRelative reports whether this is an AreaN token.
func (p *AreaPtg) IsRelative() bool { return p.base == IDAreaN }

func (p *AreaPtg) String() string {
	name := "Area"
	if p.IsRelative() {
		name = "AreaN"
	}
	return fmt.Sprintf("%s(%s)%s", name, p.Area, p.class)
}

func (p *AreaPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	writeAreaFields(w, p.Area)
}

// Ref3DPtg references a cell on another sheet through the external sheet
// table.
type Ref3DPtg struct {
	operand
	ExternSheet uint16
	Cell        CellReference
}

func readRef3D(id byte, r *stream.Reader) (Ptg, error) {
	sheet, err := r.ReadU16()
	if err != nil {
		return nil, truncated("extern sheet")
	}
	ref, err := readRef(id, r)
	if err != nil {
		return nil, err
	}
	return &Ref3DPtg{operand: operandFromID(id), ExternSheet: sheet, Cell: ref.(*RefPtg).Cell}, nil
}

func (p *Ref3DPtg) ID() byte  { return p.id(IDRef3D) }
func (p *Ref3DPtg) Size() int { return 7 }

func (p *Ref3DPtg) String() string {
	return fmt.Sprintf("Ref3D(sheet=%d, %s)%s", p.ExternSheet, p.Cell, p.class)
}

func (p *Ref3DPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.ExternSheet)
	w.WriteU16(uint16(p.Cell.Row))
	w.WriteU16(p.Cell.packColumn())
}

// Area3DPtg references an area on another sheet.
type Area3DPtg struct {
	operand
	ExternSheet uint16
	Area        AreaReference
}

func readArea3D(id byte, r *stream.Reader) (Ptg, error) {
	sheet, err := r.ReadU16()
	if err != nil {
		return nil, truncated("extern sheet")
	}
	area, err := readAreaFields(r)
	if err != nil {
		return nil, err
	}
	return &Area3DPtg{operand: operandFromID(id), ExternSheet: sheet, Area: area}, nil
}

func (p *Area3DPtg) ID() byte  { return p.id(IDArea3D) }
func (p *Area3DPtg) Size() int { return 11 }

func (p *Area3DPtg) String() string {
	return fmt.Sprintf("Area3D(sheet=%d, %s)%s", p.ExternSheet, p.Area, p.class)
}

func (p *Area3DPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.ExternSheet)
	writeAreaFields(w, p.Area)
}

// RefErrPtg is a cell reference that became invalid. Its four payload
// bytes are unused and kept as read.
type RefErrPtg struct {
	operand
	Reserved uint32
}

func readRefErr(id byte, r *stream.Reader) (Ptg, error) {
	v, err := r.ReadU32()
	if err != nil {
		return nil, truncated("ref error")
	}
	return &RefErrPtg{operand: operandFromID(id), Reserved: v}, nil
}

func (p *RefErrPtg) ID() byte       { return p.id(IDRefErr) }
func (p *RefErrPtg) Size() int      { return 5 }
func (p *RefErrPtg) String() string { return "RefErr" + p.class.String() }

func (p *RefErrPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU32(p.Reserved)
}

// AreaErrPtg is an area reference that became invalid.
type AreaErrPtg struct {
	operand
	Reserved [2]uint32
}

func readAreaErr(id byte, r *stream.Reader) (Ptg, error) {
	p := &AreaErrPtg{operand: operandFromID(id)}
	for i := range p.Reserved {
		var err error
		if p.Reserved[i], err = r.ReadU32(); err != nil {
			return nil, truncated("area error")
		}
	}
	return p, nil
}

func (p *AreaErrPtg) ID() byte       { return p.id(IDAreaErr) }
func (p *AreaErrPtg) Size() int      { return 9 }
func (p *AreaErrPtg) String() string { return "AreaErr" + p.class.String() }

func (p *AreaErrPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU32(p.Reserved[0])
	w.WriteU32(p.Reserved[1])
}

// DeletedRef3DPtg is a 3D cell reference to a deleted sheet or cell.
type DeletedRef3DPtg struct {
	operand
	ExternSheet uint16
	Unused      uint32
}

func readDeletedRef3D(id byte, r *stream.Reader) (Ptg, error) {
	sheet, err := r.ReadU16()
	if err != nil {
		return nil, truncated("extern sheet")
	}
	unused, err := r.ReadU32()
	if err != nil {
		return nil, truncated("deleted ref3d")
	}
	return &DeletedRef3DPtg{operand: operandFromID(id), ExternSheet: sheet, Unused: unused}, nil
}

func (p *DeletedRef3DPtg) ID() byte  { return p.id(IDDeletedRef3D) }
func (p *DeletedRef3DPtg) Size() int { return 7 }

func (p *DeletedRef3DPtg) String() string {
	return fmt.Sprintf("DeletedRef3D(sheet=%d)%s", p.ExternSheet, p.class)
}

func (p *DeletedRef3DPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.ExternSheet)
	w.WriteU32(p.Unused)
}

// DeletedArea3DPtg is a 3D area reference to a deleted sheet or range.
type DeletedArea3DPtg struct {
	operand
	ExternSheet uint16
	Unused      [2]uint32
}

func readDeletedArea3D(id byte, r *stream.Reader) (Ptg, error) {
	sheet, err := r.ReadU16()
	if err != nil {
		return nil, truncated("extern sheet")
	}
	p := &DeletedArea3DPtg{operand: operandFromID(id), ExternSheet: sheet}
	for i := range p.Unused {
		if p.Unused[i], err = r.ReadU32(); err != nil {
			return nil, truncated("deleted area3d")
		}
	}
	return p, nil
}

func (p *DeletedArea3DPtg) ID() byte  { return p.id(IDDeletedArea3D) }
func (p *DeletedArea3DPtg) Size() int { return 11 }

func (p *DeletedArea3DPtg) String() string {
	return fmt.Sprintf("DeletedArea3D(sheet=%d)%s", p.ExternSheet, p.class)
}

func (p *DeletedArea3DPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.ExternSheet)
	w.WriteU32(p.Unused[0])
	w.WriteU32(p.Unused[1])
}

// NamePtg references a defined name by its one-based index.
type NamePtg struct {
	operand
	Index    uint16
	Reserved uint16
}

// NewNamePtg creates a defined-name reference.
func NewNamePtg(index uint16, class Class) *NamePtg {
	return &NamePtg{operand: operand{class: class}, Index: index}
}

func readName(id byte, r *stream.Reader) (Ptg, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, truncated("name index")
	}
	res, err := r.ReadU16()
	if err != nil {
		return nil, truncated("name")
	}
	return &NamePtg{operand: operandFromID(id), Index: idx, Reserved: res}, nil
}

func (p *NamePtg) ID() byte  { return p.id(IDName) }
func (p *NamePtg) Size() int { return 5 }

func (p *NamePtg) String() string {
	return fmt.Sprintf("Name(%d)%s", p.Index, p.class)
}

func (p *NamePtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.Index)
	w.WriteU16(p.Reserved)
}

// NameXPtg references a name in an external workbook or an add-in
// function.
type NameXPtg struct {
	operand
	SheetRef  uint16
	NameIndex uint16
	Reserved  uint16
}

func readNameX(id byte, r *stream.Reader) (Ptg, error) {
	p := &NameXPtg{operand: operandFromID(id)}
	var err error
	if p.SheetRef, err = r.ReadU16(); err != nil {
		return nil, truncated("namex sheet")
	}
	if p.NameIndex, err = r.ReadU16(); err != nil {
		return nil, truncated("namex index")
	}
	if p.Reserved, err = r.ReadU16(); err != nil {
		return nil, truncated("namex")
	}
	return p, nil
}

func (p *NameXPtg) ID() byte  { return p.id(IDNameX) }
func (p *NameXPtg) Size() int { return 7 }

func (p *NameXPtg) String() string {
	return fmt.Sprintf("NameX(sheet=%d, name=%d)%s", p.SheetRef, p.NameIndex, p.class)
}

func (p *NameXPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.SheetRef)
	w.WriteU16(p.NameIndex)
	w.WriteU16(p.Reserved)
}

// MemAreaPtg precedes a subexpression whose value is a precomputed area.
// Id 0x27 (MemErr) uses the same layout for a subexpression that
// evaluated to an error.
type MemAreaPtg struct {
	operand
	base     byte
	Reserved uint32
	// SubexLen is the size in bytes of the tokens that follow.
	SubexLen uint16
}

func readMem(id byte, r *stream.Reader) (Ptg, error) {
	res, err := r.ReadU32()
	if err != nil {
		return nil, truncated("mem reserved")
	}
	n, err := r.ReadU16()
	if err != nil {
		return nil, truncated("mem length")
	}
	return &MemAreaPtg{operand: operandFromID(id), base: BaseID(id), Reserved: res, SubexLen: n}, nil
}

func (p *MemAreaPtg) ID() byte  { return p.id(p.base) }
func (p *MemAreaPtg) Size() int { return 7 }

// IsError reports whether this is a MemErr token.
func (p *MemAreaPtg) IsError() bool { return p.base == IDMemErr }

func (p *MemAreaPtg) String() string {
	name := "MemArea"
	if p.IsError() {
		name = "MemErr"
	}
	return fmt.Sprintf("%s(len=%d)%s", name, p.SubexLen, p.class)
}

func (p *MemAreaPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU32(p.Reserved)
	w.WriteU16(p.SubexLen)
}

// MemFuncPtg precedes a subexpression that evaluates to a reference.
type MemFuncPtg struct {
	operand
	SubexLen uint16
}

func readMemFunc(id byte, r *stream.Reader) (Ptg, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, truncated("memfunc length")
	}
	return &MemFuncPtg{operand: operandFromID(id), SubexLen: n}, nil
}

func (p *MemFuncPtg) ID() byte  { return p.id(IDMemFunc) }
func (p *MemFuncPtg) Size() int { return 3 }

func (p *MemFuncPtg) String() string {
	return fmt.Sprintf("MemFunc(len=%d)%s", p.SubexLen, p.class)
}

func (p *MemFuncPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.SubexLen)
}
