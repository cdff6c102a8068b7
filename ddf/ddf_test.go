package ddf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/ole-go/record"
)

func appendHeader(b []byte, options, id uint16, length int) []byte {
	b = binary.LittleEndian.AppendUint16(b, options)
	b = binary.LittleEndian.AppendUint16(b, id)
	return binary.LittleEndian.AppendUint32(b, uint32(length))
}

func appendProp(b []byte, id uint16, value int32) []byte {
	b = binary.LittleEndian.AppendUint16(b, id)
	return binary.LittleEndian.AppendUint32(b, uint32(value))
}

func arrayData(numElements, sizeOfElements int16, elements ...byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, uint16(numElements))
	b = binary.LittleEndian.AppendUint16(b, uint16(numElements))
	b = binary.LittleEndian.AppendUint16(b, uint16(sizeOfElements))
	return append(b, elements...)
}

func TestReadHeader(t *testing.T) {
	require := require.New(t)

	h, err := ReadHeader([]byte{0x33, 0x00, 0x0B, 0xF0, 0x12, 0x00, 0x00, 0x00})
	require.NoError(err)
	require.Equal(uint8(3), h.Version())
	require.Equal(uint16(3), h.Instance())
	require.Equal(OptID, h.RecordID)
	require.Equal(uint32(0x12), h.Length)
	require.False(h.IsContainer())

	_, err = ReadHeader([]byte{0x0F, 0x00, 0x00})
	require.ErrorIs(err, ErrRecordTruncated)
}

func TestElementSize(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		raw  int16
		want int
	}{
		{raw: 4, want: 4},
		{raw: 8, want: 8},
		{raw: int16(-16), want: 4}, // 0xFFF0
		{raw: int16(-32), want: 8},
		{raw: int16(-8), want: 2},
		{raw: 0, want: 0},
	}
	for _, tc := range cases {
		require.Equal(tc.want, ElementSize(tc.raw), "raw %d", tc.raw)
		if tc.raw < 0 {
			require.Equal(int(-tc.raw)>>2, ElementSize(tc.raw))
		}
	}
}

func TestOptTwoPhaseDecode(t *testing.T) {
	require := require.New(t)

	name := []byte{'A', 0, 0, 0}
	vertices := arrayData(2, 4, 1, 0, 2, 0, 3, 0, 4, 0)

	var body []byte
	body = appendProp(body, PropGroupShapeShapeName|PropertyComplexFlag, int32(len(name)))
	body = appendProp(body, PropFillFillColor, 0x00336699)
	body = appendProp(body, PropGeometryVertices|PropertyComplexFlag, int32(len(vertices)))
	body = append(body, name...)
	body = append(body, vertices...)

	data := appendHeader(nil, makeOptions(optVersion, 3), OptID, len(body))
	data = append(data, body...)

	records, err := ParseRecords(data)
	require.NoError(err)
	require.Len(records, 1)

	opt, ok := records[0].(*OptRecord)
	require.True(ok)
	require.Len(opt.Properties(), 3)

	nameProp, ok := opt.Property(PropGroupShapeShapeName).(*ComplexProperty)
	require.True(ok)
	require.Equal("A", nameProp.StringValue())
	require.Equal("groupshape.shapename", nameProp.Name())

	color, ok := opt.Property(PropFillFillColor).(*RGBProperty)
	require.True(ok)
	require.Equal(uint8(0x99), color.Red())
	require.Equal(uint8(0x66), color.Green())
	require.Equal(uint8(0x33), color.Blue())

	arr, ok := opt.Property(PropGeometryVertices).(*ArrayProperty)
	require.True(ok)
	require.True(arr.SizeIncludesHeaderSize())
	require.Equal(2, arr.NumElements())
	require.Equal(4, arr.ElementSize())
	second, err := arr.Element(1)
	require.NoError(err)
	require.Equal([]byte{3, 0, 4, 0}, second)

	out, err := record.Marshal(opt)
	require.NoError(err)
	require.Equal(data, out)
}

func TestArrayPropertyHeaderExcludedFromLength(t *testing.T) {
	require := require.New(t)

	vertices := arrayData(2, int16(-16), 1, 1, 1, 1, 2, 2, 2, 2)

	var body []byte
	// Declared length counts only the 8 element bytes.
	body = appendProp(body, PropGeometryVertices|PropertyComplexFlag, 8)
	body = append(body, vertices...)
	data := appendHeader(nil, makeOptions(optVersion, 1), OptID, len(body))
	data = append(data, body...)

	records, err := ParseRecords(data)
	require.NoError(err)
	opt := records[0].(*OptRecord)
	arr := opt.Property(PropGeometryVertices).(*ArrayProperty)
	require.False(arr.SizeIncludesHeaderSize())
	require.Equal(4, arr.ElementSize())
	require.Equal(vertices, arr.ComplexData())

	out, err := record.Marshal(opt)
	require.NoError(err)
	require.Equal(data, out)
}

func TestArrayPropertyRoundTrip(t *testing.T) {
	require := require.New(t)

	arr := NewArrayProperty(PropGeometrySegmentInfo, 2)
	require.NoError(arr.SetNumElements(3))
	require.NoError(arr.SetElement(0, []byte{0x00, 0x40}))
	require.NoError(arr.SetElement(1, []byte{0x01, 0x00}))
	require.NoError(arr.SetElement(2, []byte{0x00, 0x80}))

	_, err := arr.Element(3)
	require.ErrorIs(err, ErrIndexOutOfRange)
	_, err = arr.Element(-1)
	require.ErrorIs(err, ErrIndexOutOfRange)
	require.ErrorIs(arr.SetElement(0, []byte{1}), ErrInvalidProperty)

	opt := NewOptRecord()
	opt.SetProperty(NewSimpleProperty(PropTransformRotation, 90<<16))
	opt.SetProperty(arr)

	data, err := record.Marshal(opt)
	require.NoError(err)

	records, err := ParseRecords(data)
	require.NoError(err)
	got := records[0].(*OptRecord).Property(PropGeometrySegmentInfo).(*ArrayProperty)
	require.Equal(arr.NumElements(), got.NumElements())
	require.Equal(arr.ElementSize(), got.ElementSize())
	for i := 0; i < arr.NumElements(); i++ {
		want, _ := arr.Element(i)
		have, err := got.Element(i)
		require.NoError(err)
		require.Equal(want, have)
	}
}

func TestEmptyArrayProperty(t *testing.T) {
	require := require.New(t)

	var body []byte
	body = appendProp(body, PropFillShadeColors|PropertyComplexFlag, 0)
	data := appendHeader(nil, makeOptions(optVersion, 1), OptID, len(body))
	data = append(data, body...)

	records, err := ParseRecords(data)
	require.NoError(err)
	arr := records[0].(*OptRecord).Property(PropFillShadeColors).(*ArrayProperty)
	require.Equal(0, arr.NumElements())

	out, err := record.Marshal(records[0])
	require.NoError(err)
	require.Equal(data, out)
}

func TestNegativeComplexLength(t *testing.T) {
	require := require.New(t)

	body := appendProp(nil, PropGroupShapeShapeName|PropertyComplexFlag, -1)
	data := appendHeader(nil, makeOptions(optVersion, 1), OptID, len(body))
	data = append(data, body...)

	_, err := ParseRecords(data)
	require.ErrorIs(err, ErrInvalidProperty)
}

func buildDrawingGroup(t *testing.T) *ContainerRecord {
	t.Helper()

	dggContainer := NewContainer(DggContainerID)

	dgg := NewDggRecord()
	dgg.ShapeIDMax = 1026
	dgg.NumDrawingsSaved = 1
	dgg.AddCluster(1, 2)
	dgg.NumShapesSaved = 2
	dggContainer.AddChild(dgg)

	store, err := NewBlipStore(nil)
	require.NoError(t, err)
	_, err = store.Add(BlipTypePNG, []byte("\x89PNG fake picture"))
	require.NoError(t, err)
	dggContainer.AddChild(store.Container())

	opt := NewOptRecord()
	opt.SetProperty(NewBoolProperty(PropTextSizeTextToFitShape, 0x00080008))
	opt.SetProperty(NewRGBProperty(PropFillFillColor, 0x08000041))
	dggContainer.AddChild(opt)

	dggContainer.AddChild(NewSplitMenuColorsRecord(0x0800000D, 0x0800000C, 0x08000017, 0x100000F7))
	return dggContainer
}

func TestContainerRoundTrip(t *testing.T) {
	require := require.New(t)

	tree := buildDrawingGroup(t)
	data, err := record.Marshal(tree)
	require.NoError(err)

	records, err := ParseRecords(data)
	require.NoError(err)
	require.Len(records, 1)

	c, ok := records[0].(*ContainerRecord)
	require.True(ok)
	require.Len(c.ChildRecords(), 4)

	dgg := c.Child(DggID).(*DggRecord)
	require.Equal(uint32(1026), dgg.ShapeIDMax)
	require.Equal(uint32(2), dgg.NumIDClusters())
	require.Equal([]FileIDCluster{{DrawingGroupID: 1, NumShapeIDsUsed: 2}}, dgg.Clusters)

	bse := Find(records, BSEID).(*BSERecord)
	require.Equal(BlipTypePNG, bse.BlipTypeWin32)
	require.Equal(uint32(1), bse.Ref)
	blip := bse.Blip.(*BitmapBlipRecord)
	require.Equal([]byte("\x89PNG fake picture"), blip.Data)
	require.Equal(bse.UID, blip.PrimaryUID)

	again, err := record.Marshal(c)
	require.NoError(err)
	require.Equal(data, again)
}

func TestUnknownRecordsArePreserved(t *testing.T) {
	require := require.New(t)

	leaf := appendHeader(nil, 0x0010, 0xF1FF, 3)
	leaf = append(leaf, 0xAA, 0xBB, 0xCC)

	inner := appendHeader(nil, makeOptions(2, 0), SpID, 8)
	inner = append(inner, 1, 4, 0, 0, 0x00, 0x0A, 0, 0)
	container := appendHeader(nil, 0x000F, 0xF1FE, len(inner))
	container = append(container, inner...)

	data := append(append([]byte(nil), leaf...), container...)
	records, err := ParseRecords(data)
	require.NoError(err)
	require.Len(records, 2)

	u := records[0].(*UnknownRecord)
	require.Equal([]byte{0xAA, 0xBB, 0xCC}, u.Data)
	require.Equal(uint16(1), u.Instance())

	uc := records[1].(*UnknownRecord)
	require.Len(uc.ChildRecords(), 1)
	sp := uc.ChildRecords()[0].(*SpRecord)
	require.Equal(uint32(0x0401), sp.ShapeID)
	require.Equal(SpFlagHaveAnchor|SpFlagHaveSpt, sp.Flags)

	out, err := record.MarshalAll(records)
	require.NoError(err)
	require.Equal(data, out)
}

func TestFactoryLimits(t *testing.T) {
	t.Run("truncated body", func(t *testing.T) {
		require := require.New(t)

		data := appendHeader(nil, 0, SpID, 8)
		data = append(data, 1, 2, 3)
		_, err := ParseRecords(data)
		require.ErrorIs(err, ErrRecordTruncated)

		var re *RecordError
		require.True(errors.As(err, &re))
		require.Equal(SpID, re.RecordID)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := ParseRecords([]byte{0x0F, 0x00, 0x00, 0xF0})
		require.ErrorIs(t, err, ErrRecordTruncated)
	})

	t.Run("child overruns container", func(t *testing.T) {
		require := require.New(t)

		child := appendHeader(nil, 0, ClientDataID, 100)
		data := appendHeader(nil, 0x000F, SpContainerID, len(child))
		data = append(data, child...)
		_, err := ParseRecords(data)
		require.ErrorIs(err, ErrRecordTruncated)

		var re *RecordError
		require.True(errors.As(err, &re))
		require.Equal(HeaderSize, re.Offset)
		require.Equal(ClientDataID, re.RecordID)
	})

	t.Run("too large", func(t *testing.T) {
		data := appendHeader(nil, 0, ClientDataID, 64)
		data = append(data, make([]byte, 64)...)
		_, err := ParseRecords(data, WithMaxRecordLength(32))
		require.ErrorIs(t, err, ErrRecordTooLarge)
	})

	t.Run("nesting", func(t *testing.T) {
		var data []byte
		for i := 0; i < maxDepth+2; i++ {
			data = append(appendHeader(nil, 0x000F, SpContainerID, len(data)), data...)
		}
		_, err := ParseRecords(data)
		require.ErrorIs(t, err, ErrNestingTooDeep)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := NewFactory(WithMaxRecordLength(0))
		require.Error(t, err)
	})
}

func TestClientAnchorShortForm(t *testing.T) {
	require := require.New(t)

	data := appendHeader(nil, 0, ClientAnchorID, 8)
	data = append(data, 2, 0, 3, 0, 0x10, 0, 5, 0)

	records, err := ParseRecords(data)
	require.NoError(err)
	anchor := records[0].(*ClientAnchorRecord)
	require.True(anchor.Short)
	require.Equal(uint16(3), anchor.Col1)
	require.Equal(uint16(0x10), anchor.Dx1)
	require.Equal(uint16(5), anchor.Row1)

	out, err := record.Marshal(anchor)
	require.NoError(err)
	require.Equal(data, out)

	full := NewClientAnchorRecord()
	full.Col2, full.Row2 = 4, 9
	require.Equal(HeaderSize+18, full.RecordSize())
	out, err = record.Marshal(full)
	require.NoError(err)
	records, err = ParseRecords(out)
	require.NoError(err)
	require.Equal(uint16(9), records[0].(*ClientAnchorRecord).Row2)
}

func TestBlipStoreDeduplicates(t *testing.T) {
	require := require.New(t)

	store, err := NewBlipStore(nil)
	require.NoError(err)

	png := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 16)
	id1, err := store.Add(BlipTypePNG, png)
	require.NoError(err)
	id2, err := store.Add(BlipTypeJPEG, []byte{0xFF, 0xD8, 0xFF})
	require.NoError(err)
	id3, err := store.Add(BlipTypePNG, append([]byte(nil), png...))
	require.NoError(err)

	require.Equal(1, id1)
	require.Equal(2, id2)
	require.Equal(id1, id3)
	require.Equal(2, store.Len())
	require.Equal(uint16(2), store.Container().Instance())

	bse, err := store.Entry(1)
	require.NoError(err)
	require.Equal(uint32(2), bse.Ref)

	require.NoError(store.Release(1))
	require.Equal(uint32(1), bse.Ref)

	_, err = store.Entry(3)
	require.ErrorIs(err, ErrBlipNotFound)

	// Reloading a serialized store keeps the dedup index.
	data, err := record.Marshal(store.Container())
	require.NoError(err)
	records, err := ParseRecords(data)
	require.NoError(err)
	reloaded, err := NewBlipStore(records[0].(*ContainerRecord))
	require.NoError(err)
	id, err := reloaded.Add(BlipTypePNG, png)
	require.NoError(err)
	require.Equal(1, id)

	_, err = NewBlipStore(NewContainer(DgContainerID))
	require.ErrorIs(err, ErrInvalidRecord)
}

func TestMetafileBlipCompression(t *testing.T) {
	require := require.New(t)

	wmf := bytes.Repeat([]byte("metafile record "), 64)
	blip, err := NewMetafileBlipRecord(BlipTypeWMF, wmf, Rect{Right: 10, Bottom: 20})
	require.NoError(err)
	require.Equal(uint32(len(wmf)), blip.CacheSize)
	require.Less(len(blip.Data), len(wmf))

	data, err := record.Marshal(blip)
	require.NoError(err)
	records, err := ParseRecords(data)
	require.NoError(err)

	got := records[0].(*MetafileBlipRecord)
	require.Equal(Rect{Right: 10, Bottom: 20}, got.Bounds)
	require.Nil(got.SecondaryUID)
	plain, err := got.Decompress()
	require.NoError(err)
	require.Equal(wmf, plain)

	_, err = NewMetafileBlipRecord(BlipTypePNG, wmf, Rect{})
	require.ErrorIs(err, ErrInvalidRecord)
}

func TestDggAllocateShapeID(t *testing.T) {
	require := require.New(t)

	dgg := NewDggRecord()
	dg := NewDgRecord(1)

	first := dgg.AllocateShapeID(dg)
	second := dgg.AllocateShapeID(dg)
	require.Equal(uint32(1024), first)
	require.Equal(uint32(1025), second)
	require.Equal(uint32(2), dg.NumShapes)
	require.Equal(second, dg.LastShapeID)
	require.Equal(uint32(1026), dgg.ShapeIDMax)
	require.Equal(uint32(2), dgg.Clusters[0].NumShapeIDsUsed)
}

func TestDump(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(Dump(&buf, []Record{buildDrawingGroup(t)}))

	out := buf.String()
	require.Contains(out, "DggContainer (0xF000)")
	require.Contains(out, "  Dgg (0xF006)")
	require.Contains(out, "BlipPNG (0xF01E)")
	require.Contains(out, "text.sizetexttofitshape (191)")
	require.Contains(out, "fill.fillcolor (385) = #410000")
}
