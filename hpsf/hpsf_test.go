package hpsf

import (
	"bytes"
	"testing"
	"time"

	"github.com/richardlehane/msoleps"
	"github.com/richardlehane/msoleps/types"
	"github.com/stretchr/testify/require"
)

func TestSummaryInformationRoundTrip(t *testing.T) {
	require := require.New(t)

	created := time.Date(2024, 3, 9, 14, 30, 0, 1200, time.UTC)
	si := NewSummaryInformation()
	si.SetTitle("Quarterly report")
	si.SetAuthor("Dana")
	si.SetPageCount(3)
	si.SetCreateDateTime(created)
	si.SetEditTime(90 * time.Minute)

	data, err := si.MarshalBinary()
	require.NoError(err)
	require.True(IsPropertySetStream(data))

	ps, err := Read(data)
	require.NoError(err)
	require.True(ps.IsSummaryInformation())
	require.Equal(ByteOrderMark, ps.ByteOrder)

	got, err := AsSummaryInformation(ps)
	require.NoError(err)
	require.Equal("Quarterly report", got.Title())
	require.Equal("Dana", got.Author())
	require.Equal(3, got.PageCount())
	require.True(created.Equal(got.CreateDateTime()))
	require.Equal(90*time.Minute, got.EditTime())
	require.Equal(CodepageDefault, got.FirstSection().Codepage())
	require.Empty(got.Subject())

	_, err = AsDocumentSummaryInformation(ps)
	require.ErrorIs(err, ErrMarkUnexpected)
}

func TestSummaryInformationReadableByMsoleps(t *testing.T) {
	require := require.New(t)

	si := NewSummaryInformation()
	si.SetTitle("Budget")
	si.SetAuthor("Sam")
	si.SetWordCount(120)

	data, err := si.MarshalBinary()
	require.NoError(err)

	r, err := msoleps.NewFrom(bytes.NewReader(data))
	require.NoError(err)

	values := make(map[string]string)
	for _, p := range r.Property {
		values[p.Name] = p.String()
	}
	require.Equal("Budget", values["Title"])
	require.Equal("Sam", values["Author"])
}

func TestIsPropertySetStream(t *testing.T) {
	require := require.New(t)

	require.False(IsPropertySetStream(nil))
	require.False(IsPropertySetStream(make([]byte, 10)))

	data := make([]byte, streamHeaderSize)
	require.False(IsPropertySetStream(data))
	data[0], data[1] = 0xFE, 0xFF
	require.True(IsPropertySetStream(data))

	_, err := Read([]byte("not a property set stream at all"))
	require.ErrorIs(err, ErrNoPropertySet)
}

func TestVariantsRoundTrip(t *testing.T) {
	require := require.New(t)

	clsid := types.MustGuidFromString("{00020820-0000-0000-C000-000000000046}")
	values := map[uint32]struct {
		vt VarType
		v  any
	}{
		2:  {VTEmpty, nil},
		3:  {VTI1, int8(-5)},
		4:  {VTUI1, uint8(200)},
		5:  {VTUI2, uint16(60000)},
		6:  {VTUI4, uint32(4000000000)},
		7:  {VTI8, int64(-1) << 40},
		8:  {VTUI8, uint64(1) << 63},
		9:  {VTR4, float32(1.5)},
		10: {VTR8, 3.25},
		11: {VTCY, types.Currency(52500)},
		12: {VTDate, types.Date(45000.5)},
		13: {VTBool, false},
		14: {VTBool, true},
		15: {VTError, uint32(0x80004005)},
		16: {VTBlob, []byte{1, 2, 3}},
		17: {VTCF, ClipboardData{Format: -1, Data: []byte{9, 8, 7, 6, 5}}},
		18: {VTCLSID, clsid},
		19: {VTLPWSTR, "日本語"},
		20: {VTLPSTR, "café"},
		21: {VTI2, int16(-2)},
	}

	s := NewSection(DocumentSummaryInformationID)
	s.SetCodepage(1252)
	for id, tv := range values {
		require.NoError(s.SetProperty(id, tv.vt, tv.v), "property %d", id)
	}

	ps := New()
	ps.AddSection(s)
	data, err := ps.MarshalBinary()
	require.NoError(err)

	got, err := Read(data)
	require.NoError(err)
	sec := got.FirstSection()
	for id, tv := range values {
		p, ok := sec.Property(id)
		require.True(ok, "property %d", id)
		require.Equal(tv.vt, p.Type, "property %d", id)
		require.Equal(tv.v, p.Value, "property %d", id)
	}
	require.Equal(1252, sec.Codepage())
}

func TestSetPropertyChecksType(t *testing.T) {
	require := require.New(t)

	s := NewSection(SummaryInformationID)
	require.ErrorIs(s.SetProperty(2, VTI4, "text"), ErrInvalidValue)
	require.ErrorIs(s.SetProperty(PIDCodepage, VTI4, int32(1252)), ErrInvalidValue)
	require.ErrorIs(s.SetProperty(PIDDictionary, VTLPSTR, "x"), ErrInvalidValue)
	require.ErrorIs(s.Set(2, struct{}{}), ErrInvalidValue)

	require.NoError(s.Set(2, 7))
	p, _ := s.Property(2)
	require.Equal(VTI4, p.Type)
	require.Equal(int32(7), p.Value)

	require.NoError(s.Set(3, 1<<40))
	p, _ = s.Property(3)
	require.Equal(VTI8, p.Type)
}

func TestUnknownTypeKeepsRawBytes(t *testing.T) {
	require := require.New(t)

	// VT_VECTOR | VT_LPWSTR with one element "a".
	raw := RawValue{1, 0, 0, 0, 2, 0, 0, 0, 'a', 0, 0, 0}
	vt := VTVector | VTLPWSTR

	s := NewSection(DocumentSummaryInformationID)
	require.NoError(s.SetProperty(PIDDocParts, vt, raw))
	require.NoError(s.SetProperty(PIDCompany, VTLPSTR, "Acme"))

	ps := New()
	ps.AddSection(s)
	data, err := ps.MarshalBinary()
	require.NoError(err)

	got, err := Read(data)
	require.NoError(err)
	p, ok := got.FirstSection().Property(PIDDocParts)
	require.True(ok)
	require.Equal(vt, p.Type)
	require.Equal(raw, p.Value)
	require.Equal("VT_VECTOR|VT_LPWSTR", p.Type.String())

	again, err := got.MarshalBinary()
	require.NoError(err)
	require.Equal(data, again)
}

func TestDictionary(t *testing.T) {
	for _, cp := range []int{CodepageUnicode, 1252} {
		require := require.New(t)

		s := NewSection(UserDefinedPropertiesID)
		s.SetCodepage(cp)
		dict := map[uint32]string{2: "ab", 3: "Größe", 4: "xyz"}
		s.SetDictionary(dict)
		require.NoError(s.Set(2, "one"))
		require.NoError(s.Set(3, int32(2)))
		require.NoError(s.Set(4, true))

		ps := New()
		ps.AddSection(s)
		data, err := ps.MarshalBinary()
		require.NoError(err)

		got, err := Read(data)
		require.NoError(err)
		sec := got.FirstSection()
		require.Equal(dict, sec.Dictionary(), "codepage %d", cp)
		require.Equal("one", sec.String(2))
		require.Equal("Größe", sec.PropertyName(3))
		require.Equal(4, sec.PropertyCount()-1)
	}
}

func TestDictionaryWithoutCodepage(t *testing.T) {
	require := require.New(t)

	s := NewSection(UserDefinedPropertiesID)
	s.SetDictionary(map[uint32]string{2: "name"})
	require.Equal(CodepageUnicode, s.Codepage())

	s.SetDictionary(nil)
	require.Nil(s.Dictionary())
	require.Equal(CodepageUnicode, s.Codepage())
}

func TestCustomProperties(t *testing.T) {
	require := require.New(t)

	doc := NewDocumentSummaryInformation()
	doc.SetCompany("Acme")
	require.NoError(doc.SetCount(PIDSlideCount, 12))
	require.Error(doc.SetCount(PIDCompany, 1))

	cp := NewCustomProperties()
	require.NoError(cp.Put("Client", "Zoë"))
	require.NoError(cp.Put("Budget", 1250))
	require.NoError(cp.Put("Approved", true))
	require.NoError(cp.Put("Client", "Other"))
	require.Error(cp.Put("", 1))

	id, ok := cp.ID("Client")
	require.True(ok)
	require.Equal(uint32(2), id)
	id, _ = cp.ID("Approved")
	require.Equal(uint32(4), id)

	doc.SetCustomProperties(cp)
	data, err := doc.MarshalBinary()
	require.NoError(err)

	ps, err := Read(data)
	require.NoError(err)
	got, err := AsDocumentSummaryInformation(ps)
	require.NoError(err)
	require.Equal("Acme", got.Company())
	require.Equal(12, got.SlideCount())

	custom := got.CustomProperties()
	require.NotNil(custom)
	require.True(custom.IsPure())
	require.Equal(CodepageUnicode, custom.Codepage())
	require.Equal([]string{"Client", "Budget", "Approved"}, custom.Names())

	v, ok := custom.Get("Budget")
	require.True(ok)
	require.Equal(int32(1250), v)
	v, _ = custom.Get("Client")
	require.Equal("Other", v)

	require.True(custom.Remove("Budget"))
	require.False(custom.Remove("Budget"))
	require.NoError(custom.Put("Region", "EMEA"))
	id, _ = custom.ID("Region")
	require.Equal(uint32(5), id)

	got.RemoveCustomProperties()
	require.Nil(got.CustomProperties())
}

func TestCustomPropertiesPurity(t *testing.T) {
	require := require.New(t)

	dup := NewSection(UserDefinedPropertiesID)
	dup.SetDictionary(map[uint32]string{2: "a", 3: "a"})
	require.NoError(dup.Set(2, "x"))
	require.NoError(dup.Set(3, "y"))
	require.False(customFromSection(dup).IsPure())

	missing := NewSection(UserDefinedPropertiesID)
	missing.SetDictionary(map[uint32]string{2: "a"})
	require.NoError(missing.Set(2, "x"))
	require.NoError(missing.Set(4, "y"))
	require.False(customFromSection(missing).IsPure())

	pure := NewSection(UserDefinedPropertiesID)
	pure.SetDictionary(map[uint32]string{2: "a"})
	require.NoError(pure.Set(2, "x"))
	require.True(customFromSection(pure).IsPure())
}

func TestCorruptStreams(t *testing.T) {
	si := NewSummaryInformation()
	si.SetTitle("x")
	data, err := si.MarshalBinary()
	require.NoError(t, err)

	t.Run("section offset past end", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[streamHeaderSize+16] = 0xF0
		_, err := Read(bad)
		require.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("too many sections", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[24] = 0xFF
		_, err := Read(bad)
		require.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Read(data[:len(data)-4])
		require.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestCodepages(t *testing.T) {
	require := require.New(t)

	for _, cp := range []int{437, 850, 1250, 1251, 10000, 28591, 28605, CodepageUTF8} {
		b, err := encodeString("abc", cp)
		require.NoError(err, "codepage %d", cp)
		s, err := decodeString(b, cp)
		require.NoError(err)
		require.Equal("abc", s)
	}

	_, err := encodeString("x", 42)
	require.ErrorIs(err, ErrUnsupportedCodepage)
	require.False(IsSupportedCodepage(42))

	b, err := encodeString("Ж", 1251)
	require.NoError(err)
	require.Equal([]byte{0xC6, 0x00}, b)
}
