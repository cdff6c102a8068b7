package geom

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/ole-go/ddf"
)

func TestStandardAngle(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		deg, w, h float64
		want      float64
	}{
		{deg: 0, w: 1, h: 1, want: 0},
		{deg: 45, w: 1, h: 1, want: -45},
		{deg: 90, w: 1, h: 1, want: -90},
		{deg: 180, w: 1, h: 1, want: -180},
		{deg: 270, w: 1, h: 1, want: -270},
		{deg: 360, w: 1, h: 1, want: -360},
		{deg: -90, w: 1, h: 1, want: 90},
		{deg: 45, w: 2, h: 1, want: -math.Atan(2) * 180 / math.Pi},
		{deg: 135, w: 2, h: 1, want: -180 + math.Atan(2)*180/math.Pi},
		{deg: 450, w: 1, h: 1, want: -450},
	}
	for _, tc := range cases {
		require.InDelta(tc.want, StandardAngle(tc.deg, tc.w, tc.h), 1e-9, "deg=%v w=%v h=%v", tc.deg, tc.w, tc.h)
	}
}

func TestArcToQuarterCircle(t *testing.T) {
	require := require.New(t)

	cmd := ArcTo{WR: 10, HR: 10, StAng: 0, SwAng: 90 * AngleUnit}
	arc := cmd.Arc(Point{X: 20, Y: 10})

	require.InDelta(0, arc.Bounds.X, 1e-9)
	require.InDelta(0, arc.Bounds.Y, 1e-9)
	require.InDelta(20, arc.Bounds.Width, 1e-9)
	require.InDelta(20, arc.Bounds.Height, 1e-9)
	require.InDelta(0, arc.Start, 1e-9)
	require.InDelta(-90, arc.Extent, 1e-9)

	start, extent := arc.Radians()
	require.InDelta(0, start, 1e-12)
	require.InDelta(-math.Pi/2, extent, 1e-9)

	p := arc.StartPoint()
	require.InDelta(20, p.X, 1e-9)
	require.InDelta(10, p.Y, 1e-9)

	// Clockwise in screen space: from the right-hand point down to the bottom.
	e := arc.EndPoint()
	require.InDelta(10, e.X, 1e-9)
	require.InDelta(20, e.Y, 1e-9)
}

func TestArcToEllipseStartsAtCurrentPoint(t *testing.T) {
	require := require.New(t)

	cmd := ArcTo{WR: 40, HR: 10, StAng: 30 * AngleUnit, SwAng: 120 * AngleUnit}
	current := Point{X: 100, Y: 50}
	arc := cmd.Arc(current)

	p := arc.StartPoint()
	require.InDelta(current.X, p.X, 1e-6)
	require.InDelta(current.Y, p.Y, 1e-6)
	require.InDelta(80, arc.Bounds.Width, 1e-9)
	require.InDelta(20, arc.Bounds.Height, 1e-9)
}

func arrayProp(t *testing.T, number uint16, size int16, elements [][]byte) *ddf.ArrayProperty {
	t.Helper()
	p := ddf.NewArrayProperty(number, size)
	require.NoError(t, p.SetNumElements(len(elements)))
	for i, e := range elements {
		require.NoError(t, p.SetElement(i, e))
	}
	return p
}

func vertex16(x, y int16) []byte {
	b := binary.LittleEndian.AppendUint16(nil, uint16(x))
	return binary.LittleEndian.AppendUint16(b, uint16(y))
}

func vertex32(x, y int32) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(x))
	return binary.LittleEndian.AppendUint32(b, uint32(y))
}

func segment(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

func TestParseSegment(t *testing.T) {
	require := require.New(t)

	require.Equal(Segment{Type: SegmentMoveTo, Count: 1}, ParseSegment(0x4001))
	require.Equal(Segment{Type: SegmentLineTo, Count: 3}, ParseSegment(0x0003))
	require.Equal(Segment{Type: SegmentCurveTo, Count: 2}, ParseSegment(0x2002))
	require.Equal(Segment{Type: SegmentClose}, ParseSegment(0x6000))
	require.Equal(Segment{Type: SegmentEnd}, ParseSegment(0x8000))
	require.Equal(Segment{Type: SegmentEscape, Escape: EscapeAngleEllipseTo, Count: 3}, ParseSegment(0xA103))
	require.Equal(Segment{Type: SegmentEscape, Escape: EscapeNoFill, Count: 0}, ParseSegment(0xAA00))
}

func TestShapePathFromOpt(t *testing.T) {
	require := require.New(t)

	// 0xFFF0 encodes 4-byte elements.
	vertices := arrayProp(t, ddf.PropGeometryVertices, int16(-16), [][]byte{
		vertex16(0, 0), vertex16(100, 0), vertex16(100, 100),
		vertex16(60, 120), vertex16(40, 120), vertex16(0, 100),
	})
	segments := arrayProp(t, ddf.PropGeometrySegmentInfo, 2, [][]byte{
		segment(0x4000), // MoveTo
		segment(0x0002), // LineTo x2
		segment(0x2001), // CurveTo x1
		segment(0x6001), // Close
		segment(0x8000), // End
	})

	opt := ddf.NewOptRecord()
	opt.SetProperty(vertices)
	opt.SetProperty(segments)

	path, err := ShapePath(opt)
	require.NoError(err)

	var types []CommandType
	for _, c := range path.Commands {
		types = append(types, c.Type)
	}
	require.Equal([]CommandType{MoveTo, LineTo, LineTo, CurveTo, Close, End}, types)
	require.Equal([]Point{{X: 100, Y: 100}}, path.Commands[2].Points)
	require.Len(path.Commands[3].Points, 3)
	require.Equal(Point{X: 0, Y: 100}, path.Commands[3].Points[2])

	none, err := ShapePath(ddf.NewOptRecord())
	require.NoError(err)
	require.Nil(none)
}

func TestDecodePathEscapes(t *testing.T) {
	require := require.New(t)

	vertices := arrayProp(t, ddf.PropGeometryVertices, 8, [][]byte{
		vertex32(50, 50),
		vertex32(20, 10),
		vertex32(90<<16, 180<<16),
	})
	points, err := Vertices(vertices)
	require.NoError(err)

	path, err := DecodePath(points, []Segment{ParseSegment(0xA103)})
	require.NoError(err)
	require.Len(path.Commands, 1)

	cmd := path.Commands[0]
	require.Equal(AngleEllipseTo, cmd.Type)
	require.Equal([]Point{{X: 50, Y: 50}, {X: 20, Y: 10}}, cmd.Points)
	require.Equal(90.0, cmd.Start)
	require.Equal(180.0, cmd.Sweep)
}

func TestDecodePathVerticesExhausted(t *testing.T) {
	require := require.New(t)

	points := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	_, err := DecodePath(points, []Segment{
		{Type: SegmentMoveTo, Count: 1},
		{Type: SegmentCurveTo, Count: 1},
	})
	require.ErrorIs(err, ErrVerticesExhausted)
}

func TestDecodePathWithoutSegments(t *testing.T) {
	require := require.New(t)

	path, err := DecodePath([]Point{{X: 1}, {X: 2}, {X: 3}}, nil)
	require.NoError(err)
	require.Len(path.Commands, 3)
	require.Equal(MoveTo, path.Commands[0].Type)
	require.Equal(LineTo, path.Commands[2].Type)
}

func TestVerticesRejectsOddElementSize(t *testing.T) {
	prop := arrayProp(t, ddf.PropGeometryVertices, 3, [][]byte{{1, 2, 3}})
	_, err := Vertices(prop)
	require.ErrorIs(t, err, ErrInvalidVertices)
}
