package geom

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/skdltmxn/ole-go/ddf"
)

// ErrVerticesExhausted indicates segment info that refers to more vertices
// than the vertex array holds.
var ErrVerticesExhausted = errors.New("geom: segment info refers past the last vertex")

// ErrInvalidVertices indicates a vertex array with an unsupported element size.
var ErrInvalidVertices = errors.New("geom: unsupported vertex element size")

// SegmentType is the kind of a path segment, bits 13-15 of a segment entry.
type SegmentType uint8

const (
	SegmentLineTo       SegmentType = 0
	SegmentCurveTo      SegmentType = 1
	SegmentMoveTo       SegmentType = 2
	SegmentClose        SegmentType = 3
	SegmentEnd          SegmentType = 4
	SegmentEscape       SegmentType = 5
	SegmentClientEscape SegmentType = 6
)

// EscapeCode selects an escape segment's meaning, bits 8-12.
type EscapeCode uint8

const (
	EscapeExtension      EscapeCode = 0x00
	EscapeAngleEllipseTo EscapeCode = 0x01
	EscapeAngleEllipse   EscapeCode = 0x02
	EscapeArcTo          EscapeCode = 0x03
	EscapeArc            EscapeCode = 0x04
	EscapeClockwiseArcTo EscapeCode = 0x05
	EscapeClockwiseArc   EscapeCode = 0x06
	EscapeQuadrantX      EscapeCode = 0x07
	EscapeQuadrantY      EscapeCode = 0x08
	EscapeQuadBezier     EscapeCode = 0x09
	EscapeNoFill         EscapeCode = 0x0A
	EscapeNoLine         EscapeCode = 0x0B
)

// Segment is one decoded segment info entry.
type Segment struct {
	Type   SegmentType
	Count  int        // repeat count, or vertex count for escapes
	Escape EscapeCode // escapes only
}

// ParseSegment decodes a 16-bit segment info entry.
func ParseSegment(v uint16) Segment {
	s := Segment{Type: SegmentType(v >> 13)}
	if s.Type == SegmentEscape || s.Type == SegmentClientEscape {
		s.Escape = EscapeCode((v >> 8) & 0x1F)
		s.Count = int(v & 0xFF)
		return s
	}
	s.Count = int(v & 0x1FFF)
	return s
}

// CommandType is the kind of a decoded path command.
type CommandType uint8

const (
	MoveTo CommandType = iota
	LineTo
	CurveTo
	Close
	End
	AngleEllipseTo
	AngleEllipse
	ArcSegment
	Escape
)

func (c CommandType) String() string {
	switch c {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case CurveTo:
		return "CurveTo"
	case Close:
		return "Close"
	case End:
		return "End"
	case AngleEllipseTo:
		return "AngleEllipseTo"
	case AngleEllipse:
		return "AngleEllipse"
	case ArcSegment:
		return "Arc"
	case Escape:
		return "Escape"
	default:
		return fmt.Sprintf("CommandType(%d)", uint8(c))
	}
}

// Command is one path command with the vertices it consumed.
//
// AngleEllipse commands carry the centre and the radii as points and their
// start and sweep angles, in degrees, in Start and Sweep. Arc commands carry
// the bounding box corners followed by the start and end points.
type Command struct {
	Type   CommandType
	Escape EscapeCode
	Points []Point
	Start  float64
	Sweep  float64
}

// Path is a decoded shape path.
type Path struct {
	Commands []Command
}

// Vertices decodes a GEOMETRY__VERTICES array. Four-byte elements hold two
// int16 coordinates, eight-byte elements two int32.
func Vertices(prop *ddf.ArrayProperty) ([]Point, error) {
	if prop == nil {
		return nil, nil
	}
	size := prop.ElementSize()
	if size != 4 && size != 8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidVertices, size)
	}
	points := make([]Point, prop.NumElements())
	for i := range points {
		e, err := prop.Element(i)
		if err != nil {
			return nil, err
		}
		if size == 4 {
			points[i] = Point{
				X: float64(int16(binary.LittleEndian.Uint16(e))),
				Y: float64(int16(binary.LittleEndian.Uint16(e[2:]))),
			}
		} else {
			points[i] = Point{
				X: float64(int32(binary.LittleEndian.Uint32(e))),
				Y: float64(int32(binary.LittleEndian.Uint32(e[4:]))),
			}
		}
	}
	return points, nil
}

// Segments decodes a GEOMETRY__SEGMENTINFO array.
func Segments(prop *ddf.ArrayProperty) ([]Segment, error) {
	if prop == nil {
		return nil, nil
	}
	if prop.ElementSize() < 2 {
		return nil, fmt.Errorf("%w: segment element of %d bytes", ErrInvalidVertices, prop.ElementSize())
	}
	segments := make([]Segment, prop.NumElements())
	for i := range segments {
		e, err := prop.Element(i)
		if err != nil {
			return nil, err
		}
		segments[i] = ParseSegment(binary.LittleEndian.Uint16(e))
	}
	return segments, nil
}

// FixedToDegrees converts a 16.16 fixed-point angle to degrees.
func FixedToDegrees(v float64) float64 {
	return v / 65536
}

type vertexCursor struct {
	points []Point
	next   int
}

func (c *vertexCursor) take(n int) ([]Point, error) {
	if n < 0 || c.next+n > len(c.points) {
		return nil, fmt.Errorf("%w: need %d at vertex %d of %d", ErrVerticesExhausted, n, c.next, len(c.points))
	}
	p := c.points[c.next : c.next+n]
	c.next += n
	return p, nil
}

// DecodePath builds a path from vertices and segment info. Without segment
// info the vertices form an open polyline.
func DecodePath(vertices []Point, segments []Segment) (*Path, error) {
	path := &Path{}
	if len(segments) == 0 {
		for i, p := range vertices {
			t := LineTo
			if i == 0 {
				t = MoveTo
			}
			path.Commands = append(path.Commands, Command{Type: t, Points: []Point{p}})
		}
		return path, nil
	}

	cur := &vertexCursor{points: vertices}
	for _, seg := range segments {
		switch seg.Type {
		case SegmentLineTo, SegmentMoveTo:
			t := LineTo
			if seg.Type == SegmentMoveTo {
				t = MoveTo
			}
			n := max(seg.Count, 1)
			for i := 0; i < n; i++ {
				p, err := cur.take(1)
				if err != nil {
					return nil, err
				}
				path.Commands = append(path.Commands, Command{Type: t, Points: p})
			}
		case SegmentCurveTo:
			for i := 0; i < seg.Count; i++ {
				p, err := cur.take(3)
				if err != nil {
					return nil, err
				}
				path.Commands = append(path.Commands, Command{Type: CurveTo, Points: p})
			}
		case SegmentClose:
			path.Commands = append(path.Commands, Command{Type: Close})
		case SegmentEnd:
			path.Commands = append(path.Commands, Command{Type: End})
		case SegmentEscape, SegmentClientEscape:
			cmd, err := decodeEscape(seg, cur)
			if err != nil {
				return nil, err
			}
			path.Commands = append(path.Commands, cmd)
		default:
			return nil, fmt.Errorf("geom: unknown segment type %d", seg.Type)
		}
	}
	return path, nil
}

func decodeEscape(seg Segment, cur *vertexCursor) (Command, error) {
	switch seg.Escape {
	case EscapeAngleEllipseTo, EscapeAngleEllipse:
		p, err := cur.take(3)
		if err != nil {
			return Command{}, err
		}
		t := AngleEllipseTo
		if seg.Escape == EscapeAngleEllipse {
			t = AngleEllipse
		}
		return Command{
			Type:   t,
			Escape: seg.Escape,
			Points: p[:2],
			Start:  FixedToDegrees(p[2].X),
			Sweep:  FixedToDegrees(p[2].Y),
		}, nil
	case EscapeArcTo, EscapeArc, EscapeClockwiseArcTo, EscapeClockwiseArc:
		p, err := cur.take(4)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: ArcSegment, Escape: seg.Escape, Points: p}, nil
	default:
		p, err := cur.take(seg.Count)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: Escape, Escape: seg.Escape, Points: p}, nil
	}
}

// ShapePath decodes the geometry properties of a shape's OPT record.
// It returns nil when the shape has no vertices.
func ShapePath(opt *ddf.OptRecord) (*Path, error) {
	verticesProp, _ := opt.Property(ddf.PropGeometryVertices).(*ddf.ArrayProperty)
	if verticesProp == nil {
		return nil, nil
	}
	vertices, err := Vertices(verticesProp)
	if err != nil {
		return nil, err
	}
	segmentsProp, _ := opt.Property(ddf.PropGeometrySegmentInfo).(*ddf.ArrayProperty)
	segments, err := Segments(segmentsProp)
	if err != nil {
		return nil, err
	}
	return DecodePath(vertices, segments)
}
