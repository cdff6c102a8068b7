package ddf

import (
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

// Shape flags stored in SpRecord.Flags.
const (
	SpFlagGroup      uint32 = 0x0001
	SpFlagChild      uint32 = 0x0002
	SpFlagPatriarch  uint32 = 0x0004
	SpFlagDeleted    uint32 = 0x0008
	SpFlagOleShape   uint32 = 0x0010
	SpFlagHaveMaster uint32 = 0x0020
	SpFlagFlipHoriz  uint32 = 0x0040
	SpFlagFlipVert   uint32 = 0x0080
	SpFlagConnector  uint32 = 0x0100
	SpFlagHaveAnchor uint32 = 0x0200
	SpFlagBackground uint32 = 0x0400
	SpFlagHaveSpt    uint32 = 0x0800
)

func checkLength(body []byte, want int) error {
	if len(body) < want {
		return fmt.Errorf("%w: body is %d bytes, need %d", ErrInvalidRecord, len(body), want)
	}
	return nil
}

// SpRecord describes one shape. The instance holds the shape type.
type SpRecord struct {
	base
	ShapeID uint32
	Flags   uint32
}

// NewSpRecord creates a shape record.
func NewSpRecord(shapeType uint16, shapeID, flags uint32) *SpRecord {
	return &SpRecord{base: newBase(SpID, 2, shapeType), ShapeID: shapeID, Flags: flags}
}

func (s *SpRecord) decode(body []byte, _ *Factory, _ int) error {
	if err := checkLength(body, 8); err != nil {
		return err
	}
	r := stream.NewReader(body)
	s.ShapeID, _ = r.ReadU32()
	s.Flags, _ = r.ReadU32()
	return nil
}

// ShapeType returns the shape type stored in the instance.
func (s *SpRecord) ShapeType() uint16 { return s.Instance() }

func (s *SpRecord) RecordSize() int { return HeaderSize + 8 }

func (s *SpRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, s.options, s.id, 8)
	w.WriteU32(s.ShapeID)
	w.WriteU32(s.Flags)
	return w.Offset(), w.Err()
}

// SpgrRecord holds the coordinate system of a group.
type SpgrRecord struct {
	base
	X1, Y1, X2, Y2 int32
}

// NewSpgrRecord creates a group coordinate record.
func NewSpgrRecord(x1, y1, x2, y2 int32) *SpgrRecord {
	return &SpgrRecord{base: newBase(SpgrID, 1, 0), X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (s *SpgrRecord) decode(body []byte, _ *Factory, _ int) error {
	if err := checkLength(body, 16); err != nil {
		return err
	}
	r := stream.NewReader(body)
	s.X1, _ = r.ReadI32()
	s.Y1, _ = r.ReadI32()
	s.X2, _ = r.ReadI32()
	s.Y2, _ = r.ReadI32()
	return nil
}

func (s *SpgrRecord) RecordSize() int { return HeaderSize + 16 }

func (s *SpgrRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, s.options, s.id, 16)
	w.WriteI32(s.X1)
	w.WriteI32(s.Y1)
	w.WriteI32(s.X2)
	w.WriteI32(s.Y2)
	return w.Offset(), w.Err()
}

// DgRecord holds per-drawing counters. The instance is the drawing id.
type DgRecord struct {
	base
	NumShapes   uint32
	LastShapeID uint32
}

// NewDgRecord creates a drawing record.
func NewDgRecord(drawingID uint16) *DgRecord {
	return &DgRecord{base: newBase(DgID, 0, drawingID)}
}

func (d *DgRecord) decode(body []byte, _ *Factory, _ int) error {
	if err := checkLength(body, 8); err != nil {
		return err
	}
	r := stream.NewReader(body)
	d.NumShapes, _ = r.ReadU32()
	d.LastShapeID, _ = r.ReadU32()
	return nil
}

// DrawingID returns the drawing id stored in the instance.
func (d *DgRecord) DrawingID() uint16 { return d.Instance() }

func (d *DgRecord) RecordSize() int { return HeaderSize + 8 }

func (d *DgRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, d.options, d.id, 8)
	w.WriteU32(d.NumShapes)
	w.WriteU32(d.LastShapeID)
	return w.Offset(), w.Err()
}

// FileIDCluster records shape id usage for one drawing.
type FileIDCluster struct {
	DrawingGroupID  uint32
	NumShapeIDsUsed uint32
}

// DggRecord holds document-wide drawing counters and the shape id clusters.
type DggRecord struct {
	base
	ShapeIDMax       uint32
	NumShapesSaved   uint32
	NumDrawingsSaved uint32
	Clusters         []FileIDCluster
}

// NewDggRecord creates an empty drawing group record.
func NewDggRecord() *DggRecord {
	return &DggRecord{base: newBase(DggID, 0, 0)}
}

func (d *DggRecord) decode(body []byte, _ *Factory, _ int) error {
	if err := checkLength(body, 16); err != nil {
		return err
	}
	r := stream.NewReader(body)
	d.ShapeIDMax, _ = r.ReadU32()
	// The stored cluster count is unreliable; the body length decides.
	_, _ = r.ReadU32()
	d.NumShapesSaved, _ = r.ReadU32()
	d.NumDrawingsSaved, _ = r.ReadU32()

	n := r.Remaining() / 8
	if r.Remaining()%8 != 0 {
		return fmt.Errorf("%w: %d stray bytes after clusters", ErrInvalidRecord, r.Remaining()%8)
	}
	d.Clusters = make([]FileIDCluster, n)
	for i := range d.Clusters {
		d.Clusters[i].DrawingGroupID, _ = r.ReadU32()
		d.Clusters[i].NumShapeIDsUsed, _ = r.ReadU32()
	}
	return nil
}

// NumIDClusters returns the stored cluster count, one more than the number
// of clusters.
func (d *DggRecord) NumIDClusters() uint32 {
	if len(d.Clusters) == 0 {
		return 0
	}
	return uint32(len(d.Clusters) + 1)
}

// AddCluster records numShapes ids used by drawing dgID.
func (d *DggRecord) AddCluster(dgID, numShapes uint32) {
	d.Clusters = append(d.Clusters, FileIDCluster{DrawingGroupID: dgID, NumShapeIDsUsed: numShapes})
}

// AllocateShapeID hands out the next shape id for drawing dg and updates
// the counters on both records. Each cluster covers 1024 ids.
func (d *DggRecord) AllocateShapeID(dg *DgRecord) uint32 {
	dgID := uint32(dg.DrawingID())
	dg.NumShapes++
	for i := range d.Clusters {
		c := &d.Clusters[i]
		if c.DrawingGroupID == dgID && c.NumShapeIDsUsed < 1024 {
			id := uint32(i+1)*1024 + c.NumShapeIDsUsed
			c.NumShapeIDsUsed++
			d.NumShapesSaved++
			if id >= d.ShapeIDMax {
				d.ShapeIDMax = id + 1
			}
			dg.LastShapeID = id
			return id
		}
	}
	d.AddCluster(dgID, 1)
	id := uint32(len(d.Clusters)) * 1024
	d.NumShapesSaved++
	if id >= d.ShapeIDMax {
		d.ShapeIDMax = id + 1
	}
	dg.LastShapeID = id
	return id
}

func (d *DggRecord) bodySize() int { return 16 + 8*len(d.Clusters) }

func (d *DggRecord) RecordSize() int { return HeaderSize + d.bodySize() }

func (d *DggRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, d.options, d.id, d.bodySize())
	w.WriteU32(d.ShapeIDMax)
	w.WriteU32(d.NumIDClusters())
	w.WriteU32(d.NumShapesSaved)
	w.WriteU32(d.NumDrawingsSaved)
	for _, c := range d.Clusters {
		w.WriteU32(c.DrawingGroupID)
		w.WriteU32(c.NumShapeIDsUsed)
	}
	return w.Offset(), w.Err()
}

// ClientAnchorRecord anchors a shape to cells. Some writers emit only the
// first 8 bytes (flag, col1, dx1, row1); that short form is preserved.
type ClientAnchorRecord struct {
	base
	Flag            uint16
	Col1, Dx1       uint16
	Row1, Dy1       uint16
	Col2, Dx2       uint16
	Row2, Dy2       uint16
	Short           bool
	RemainingData   []byte
	hasAnchorFields bool
}

// NewClientAnchorRecord creates a full 18-byte anchor.
func NewClientAnchorRecord() *ClientAnchorRecord {
	return &ClientAnchorRecord{base: newBase(ClientAnchorID, 0, 0), hasAnchorFields: true}
}

func (c *ClientAnchorRecord) decode(body []byte, _ *Factory, _ int) error {
	r := stream.NewReader(body)
	if len(body) >= 8 {
		c.hasAnchorFields = true
		c.Flag, _ = r.ReadU16()
		c.Col1, _ = r.ReadU16()
		c.Dx1, _ = r.ReadU16()
		c.Row1, _ = r.ReadU16()
		if len(body) >= 18 {
			c.Dy1, _ = r.ReadU16()
			c.Col2, _ = r.ReadU16()
			c.Dx2, _ = r.ReadU16()
			c.Row2, _ = r.ReadU16()
			c.Dy2, _ = r.ReadU16()
		} else {
			c.Short = true
		}
	}
	c.RemainingData = append([]byte(nil), r.RemainingData()...)
	return nil
}

func (c *ClientAnchorRecord) fieldSize() int {
	switch {
	case !c.hasAnchorFields:
		return 0
	case c.Short:
		return 8
	default:
		return 18
	}
}

func (c *ClientAnchorRecord) bodySize() int { return c.fieldSize() + len(c.RemainingData) }

func (c *ClientAnchorRecord) RecordSize() int { return HeaderSize + c.bodySize() }

func (c *ClientAnchorRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, c.options, c.id, c.bodySize())
	if c.hasAnchorFields {
		w.WriteU16(c.Flag)
		w.WriteU16(c.Col1)
		w.WriteU16(c.Dx1)
		w.WriteU16(c.Row1)
		if !c.Short {
			w.WriteU16(c.Dy1)
			w.WriteU16(c.Col2)
			w.WriteU16(c.Dx2)
			w.WriteU16(c.Row2)
			w.WriteU16(c.Dy2)
		}
	}
	w.WriteBytes(c.RemainingData)
	return w.Offset(), w.Err()
}

// ChildAnchorRecord anchors a shape inside its group.
type ChildAnchorRecord struct {
	base
	Dx1, Dy1, Dx2, Dy2 int32
}

// NewChildAnchorRecord creates a child anchor.
func NewChildAnchorRecord(dx1, dy1, dx2, dy2 int32) *ChildAnchorRecord {
	return &ChildAnchorRecord{base: newBase(ChildAnchorID, 0, 0), Dx1: dx1, Dy1: dy1, Dx2: dx2, Dy2: dy2}
}

func (c *ChildAnchorRecord) decode(body []byte, _ *Factory, _ int) error {
	if err := checkLength(body, 16); err != nil {
		return err
	}
	r := stream.NewReader(body)
	c.Dx1, _ = r.ReadI32()
	c.Dy1, _ = r.ReadI32()
	c.Dx2, _ = r.ReadI32()
	c.Dy2, _ = r.ReadI32()
	return nil
}

func (c *ChildAnchorRecord) RecordSize() int { return HeaderSize + 16 }

func (c *ChildAnchorRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, c.options, c.id, 16)
	w.WriteI32(c.Dx1)
	w.WriteI32(c.Dy1)
	w.WriteI32(c.Dx2)
	w.WriteI32(c.Dy2)
	return w.Offset(), w.Err()
}

// SplitMenuColorsRecord holds the four most recently used colours.
type SplitMenuColorsRecord struct {
	base
	Colors [4]uint32
}

// NewSplitMenuColorsRecord creates the record with the given colours.
func NewSplitMenuColorsRecord(fill, line, shadow, threeD uint32) *SplitMenuColorsRecord {
	return &SplitMenuColorsRecord{
		base:   newBase(SplitMenuColorsID, 0, 4),
		Colors: [4]uint32{fill, line, shadow, threeD},
	}
}

func (s *SplitMenuColorsRecord) decode(body []byte, _ *Factory, _ int) error {
	if err := checkLength(body, 16); err != nil {
		return err
	}
	r := stream.NewReader(body)
	for i := range s.Colors {
		s.Colors[i], _ = r.ReadU32()
	}
	return nil
}

func (s *SplitMenuColorsRecord) RecordSize() int { return HeaderSize + 16 }

func (s *SplitMenuColorsRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, s.options, s.id, 16)
	for _, c := range s.Colors {
		w.WriteU32(c)
	}
	return w.Offset(), w.Err()
}

// ClientDataRecord carries host-specific shape data.
type ClientDataRecord struct {
	base
	Data []byte
}

// NewClientDataRecord creates an empty client data record.
func NewClientDataRecord() *ClientDataRecord {
	return &ClientDataRecord{base: newBase(ClientDataID, 0, 0)}
}

func (c *ClientDataRecord) decode(body []byte, _ *Factory, _ int) error {
	c.Data = append([]byte(nil), body...)
	return nil
}

func (c *ClientDataRecord) RecordSize() int { return HeaderSize + len(c.Data) }

func (c *ClientDataRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, c.options, c.id, len(c.Data))
	w.WriteBytes(c.Data)
	return w.Offset(), w.Err()
}

// TextboxRecord carries host text attached to a shape (0xF00D).
type TextboxRecord struct {
	base
	Data []byte
}

// NewTextboxRecord creates an empty client textbox record.
func NewTextboxRecord() *TextboxRecord {
	return &TextboxRecord{base: newBase(ClientTextboxID, 0, 0)}
}

func (t *TextboxRecord) decode(body []byte, _ *Factory, _ int) error {
	t.Data = append([]byte(nil), body...)
	return nil
}

func (t *TextboxRecord) RecordSize() int { return HeaderSize + len(t.Data) }

func (t *TextboxRecord) Serialize(buf []byte) (int, error) {
	w := stream.NewWriter(buf)
	writeHeader(w, t.options, t.id, len(t.Data))
	w.WriteBytes(t.Data)
	return w.Offset(), w.Err()
}
