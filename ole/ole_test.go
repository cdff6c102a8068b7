package ole

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/ole-go/cfb"
	"github.com/skdltmxn/ole-go/ddf"
	"github.com/skdltmxn/ole-go/hpsf"
	"github.com/skdltmxn/ole-go/record"
)

func saveAndReopen(t *testing.T, f *File) *File {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, f.Save(&buf))

	reopened, err := OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	return reopened
}

func TestPropertySetsRoundTrip(t *testing.T) {
	require := require.New(t)

	f, err := New()
	require.NoError(err)

	_, err = f.SummaryInformation()
	require.ErrorIs(err, ErrNoPropertySet)

	si := hpsf.NewSummaryInformation()
	si.SetTitle("Quarterly report")
	si.SetAuthor("Finance")
	f.SetSummaryInformation(si)

	dsi := hpsf.NewDocumentSummaryInformation()
	dsi.SetCompany("Example Ltd")
	f.SetDocumentSummaryInformation(dsi)

	got, err := f.SummaryInformation()
	require.NoError(err)
	require.Same(si, got)

	reopened := saveAndReopen(t, f)
	require.NoError(f.Close())

	si2, err := reopened.SummaryInformation()
	require.NoError(err)
	require.Equal("Quarterly report", si2.Title())
	require.Equal("Finance", si2.Author())

	dsi2, err := reopened.DocumentSummaryInformation()
	require.NoError(err)
	require.Equal("Example Ltd", dsi2.Company())

	root, err := reopened.Root()
	require.NoError(err)
	require.True(root.HasEntry(hpsf.SummaryInformationName))
	require.True(root.HasEntry(hpsf.DocumentSummaryInformationName))
}

func TestLoadedPropertySetIsWrittenBack(t *testing.T) {
	require := require.New(t)

	f, err := New()
	require.NoError(err)
	f.SetSummaryInformation(hpsf.NewSummaryInformation())
	reopened := saveAndReopen(t, f)

	si, err := reopened.SummaryInformation()
	require.NoError(err)
	si.SetKeywords("edited")

	again := saveAndReopen(t, reopened)
	si, err = again.SummaryInformation()
	require.NoError(err)
	require.Equal("edited", si.Keywords())
}

func TestEscherRecords(t *testing.T) {
	require := require.New(t)

	dg := ddf.NewContainer(ddf.DgContainerID)
	dg.AddChild(ddf.NewDgRecord(1))
	spgr := ddf.NewContainer(ddf.SpgrContainerID)
	sp := ddf.NewContainer(ddf.SpContainerID)
	sp.AddChild(ddf.NewSpgrRecord(0, 0, 100, 50))
	spgr.AddChild(sp)
	dg.AddChild(spgr)

	data, err := record.Marshal(dg)
	require.NoError(err)

	f, err := New()
	require.NoError(err)
	defer f.Close()

	root, err := f.Root()
	require.NoError(err)
	_, err = root.CreateDocument("Drawing", bytes.NewReader(data))
	require.NoError(err)

	records, err := f.EscherRecords("/Drawing")
	require.NoError(err)
	require.Len(records, 1)
	require.Equal(ddf.DgContainerID, records[0].RecordID())

	got := ddf.Find(records, ddf.SpgrID).(*ddf.SpgrRecord)
	require.Equal(int32(100), got.X2)

	_, err = f.EscherRecords("/Missing")
	require.ErrorIs(err, cfb.ErrEntryNotFound)
}

func TestFormula(t *testing.T) {
	require := require.New(t)

	f, err := New()
	require.NoError(err)
	defer f.Close()

	fm, err := f.Formula([]byte{0x07, 0x00, 0x1E, 0x01, 0x00, 0x1E, 0x02, 0x00, 0x03, 0xAA})
	require.NoError(err)
	require.Equal("1+2", fm.String())

	_, err = f.Formula([]byte{0x05, 0x00, 0x1E})
	require.Error(err)
}

func TestClosedFile(t *testing.T) {
	require := require.New(t)

	f, err := New()
	require.NoError(err)
	require.NoError(f.Close())
	require.NoError(f.Close())

	_, err = f.Root()
	require.ErrorIs(err, ErrFileClosed)
	_, err = f.Entry("/")
	require.ErrorIs(err, ErrFileClosed)
	_, err = f.SummaryInformation()
	require.ErrorIs(err, ErrFileClosed)
	require.ErrorIs(f.Save(&bytes.Buffer{}), ErrFileClosed)
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := OpenReader(bytes.NewReader([]byte("not a compound file")), 19)
	require.Error(t, err)
}
