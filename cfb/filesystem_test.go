package cfb

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func payload(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i*7)
	}
	return b
}

func roundTrip(t *testing.T, fs *FileSystem, opts ...Option) *FileSystem {
	t.Helper()
	var buf bytes.Buffer
	_, err := fs.WriteTo(&buf)
	require.NoError(t, err)
	require.Zero(t, buf.Len()%fs.BlockSize())

	out, err := Parse(buf.Bytes(), opts...)
	require.NoError(t, err)
	return out
}

func TestNewFileSystemLayout(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	require.Equal(BigBlockSize, fs.BlockSize())
	require.Equal(uint32(1), fs.Header().FirstDirSector)

	next, err := fs.FAT().Next(0)
	require.NoError(err)
	require.Equal(FATSect, next)
	next, err = fs.FAT().Next(1)
	require.NoError(err)
	require.Equal(EndOfChain, next)

	var buf bytes.Buffer
	n, err := fs.WriteTo(&buf)
	require.NoError(err)
	require.Equal(int64(512*3), n)
	require.Equal(Signature[:], buf.Bytes()[:8])
}

func TestRoundTrip(t *testing.T) {
	sizes := map[string]int{
		"Empty":   0,
		"Tiny":    199,
		"Edge":    4095,
		"Cutoff":  4096,
		"Over":    4097,
		"Large":   20000,
		"Unicode": 10,
	}

	for _, blockSize := range []int{BigBlockSize, LargeBlockSize} {
		require := require.New(t)

		fs, err := New(WithBigBlockSize(blockSize))
		require.NoError(err)

		root := fs.Root()
		sub, err := root.CreateDirectory("Storage")
		require.NoError(err)
		nested, err := sub.CreateDirectory("Nested")
		require.NoError(err)

		seed := byte(1)
		for name, size := range sizes {
			_, err := root.CreateDocument(name, bytes.NewReader(payload(size, seed)))
			require.NoError(err)
			seed++
		}
		_, err = nested.CreateDocument("Deep", bytes.NewReader(payload(300, 9)))
		require.NoError(err)
		_, err = sub.CreateDocument("Été", bytes.NewReader(payload(5000, 3)))
		require.NoError(err)

		got := roundTrip(t, fs)
		want, err := fs.Root().EntryNames()
		require.NoError(err)
		names, err := got.Root().EntryNames()
		require.NoError(err)
		require.Equal(want, names)

		eq, err := DirectoriesEqual(fs.Root(), got.Root())
		require.NoError(err)
		require.True(eq, "block size %d", blockSize)

		data, err := got.ReadDocument("/Storage/Nested/Deep")
		require.NoError(err)
		require.Equal(payload(300, 9), data)

		again := roundTrip(t, got)
		eq, err = DirectoriesEqual(got.Root(), again.Root())
		require.NoError(err)
		require.True(eq)
	}
}

func TestChainLengths(t *testing.T) {
	tests := []struct {
		size      int
		mini      bool
		numBlocks int
	}{
		{4096, false, 8},
		{4097, false, 9},
		{199, true, 4},
		{64, true, 1},
		{1, true, 1},
		{0, true, 0},
	}

	fs, err := New()
	require.NoError(t, err)

	for i, tt := range tests {
		doc, err := fs.Root().CreateDocument(string(rune('A'+i)), bytes.NewReader(payload(tt.size, 0)))
		require.NoError(t, err)
		require.Equal(t, tt.mini, doc.InMiniStream(), "size %d", tt.size)

		chain, err := doc.Chain()
		require.NoError(t, err)
		require.Len(t, chain, tt.numBlocks, "size %d", tt.size)
	}

	got := roundTrip(t, fs)
	for i, tt := range tests {
		doc, err := got.Root().Document(string(rune('A' + i)))
		require.NoError(t, err)
		chain, err := doc.Chain()
		require.NoError(t, err)
		require.Len(t, chain, tt.numBlocks)
	}
}

func TestPaddingIsFF(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	big, err := fs.Root().CreateDocument("Big", bytes.NewReader(payload(4097, 0)))
	require.NoError(err)
	small, err := fs.Root().CreateDocument("Small", bytes.NewReader(payload(199, 0)))
	require.NoError(err)

	var buf bytes.Buffer
	_, err = fs.WriteTo(&buf)
	require.NoError(err)
	file := buf.Bytes()

	chain, err := big.Chain()
	require.NoError(err)
	last := fs.Header().SectorOffset(chain[len(chain)-1])
	require.Equal(bytes.Repeat([]byte{0xFF}, 511), file[last+1:last+512])

	got, err := Parse(file)
	require.NoError(err)
	doc, err := got.Root().Document("Small")
	require.NoError(err)
	miniChain, err := doc.Chain()
	require.NoError(err)
	require.Len(miniChain, 4)
	block, err := got.mini.block(miniChain[3])
	require.NoError(err)
	require.Equal(bytes.Repeat([]byte{0xFF}, 64-7), block[7:])
	_ = small
}

func TestReplaceContentsMovesBetweenStores(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	doc, err := fs.Root().CreateDocument("Doc", bytes.NewReader(payload(100, 1)))
	require.NoError(err)
	require.True(doc.InMiniStream())
	miniFree := fs.MiniFAT().FreeCount()

	require.NoError(doc.ReplaceContents(bytes.NewReader(payload(9000, 2))))
	require.False(doc.InMiniStream())
	require.Equal(miniFree+2, fs.MiniFAT().FreeCount())

	require.NoError(doc.ReplaceContents(bytes.NewReader(payload(10, 3))))
	require.True(doc.InMiniStream())

	got := roundTrip(t, fs)
	data, err := got.ReadDocument("Doc")
	require.NoError(err)
	require.Equal(payload(10, 3), data)
}

func TestDeleteFreesSectors(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	before := fs.FAT().FreeCount()

	_, err = fs.Root().CreateDocument("Doc", bytes.NewReader(payload(10000, 1)))
	require.NoError(err)
	require.Less(fs.FAT().FreeCount(), before)

	require.NoError(fs.Root().Delete("Doc"))
	require.Equal(before, fs.FAT().FreeCount())
	require.False(fs.Root().HasEntry("Doc"))

	dir, err := fs.Root().CreateDirectory("Dir")
	require.NoError(err)
	_, err = dir.CreateDocument("Child", bytes.NewReader(nil))
	require.NoError(err)
	require.ErrorIs(fs.Root().Delete("Dir"), ErrDirectoryNotEmpty)
	require.NoError(dir.Delete("Child"))
	require.NoError(fs.Root().Delete("Dir"))

	require.ErrorIs(fs.Root().Delete("Missing"), ErrEntryNotFound)
}

func TestNameValidation(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	root := fs.Root()

	_, err = root.CreateDirectory("Sheet1")
	require.NoError(err)
	_, err = root.CreateDirectory("Sheet1")
	require.ErrorIs(err, ErrDuplicateEntry)
	_, err = root.CreateDocument("SHEET1", bytes.NewReader(nil))
	require.ErrorIs(err, ErrDuplicateEntry)
	_, err = root.CreateDirectory("abcdefghijklmnopqrstuvwxyz123456")
	require.ErrorIs(err, ErrNameTooLong)
	_, err = root.CreateDirectory("a/b")
	require.ErrorIs(err, ErrInvalidName)
	_, err = root.CreateDirectory("")
	require.ErrorIs(err, ErrInvalidName)

	require.NoError(root.Rename("Sheet1", "Renamed"))
	require.True(root.HasEntry("Renamed"))
	require.False(root.HasEntry("Sheet1"))

	e, err := root.EntryCaseInsensitive("RENAMED")
	require.NoError(err)
	require.Equal("Renamed", e.Name())
	require.Equal("/Renamed", e.Path())
}

func TestSiblingLinksAreBalanced(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	for _, name := range []string{"E", "B", "D", "A", "C"} {
		_, err := fs.Root().CreateDocument(name, bytes.NewReader(nil))
		require.NoError(err)
	}

	got := roundTrip(t, fs)
	table := got.Properties()
	root := table.Root()

	byName := map[string]*Property{}
	ids := map[string]uint32{}
	for i, p := range table.props {
		if p != nil {
			byName[p.Name] = p
			ids[p.Name] = uint32(i)
		}
	}

	require.Equal(ids["C"], root.ChildID)
	require.Equal(ids["B"], byName["C"].LeftID)
	require.Equal(ids["A"], byName["B"].LeftID)
	require.Equal(NoStream, byName["A"].LeftID)
	require.Equal(ids["D"], byName["C"].RightID)
	require.Equal(ids["E"], byName["D"].RightID)
	require.Equal(NoStream, byName["E"].RightID)
	for _, p := range byName {
		require.Equal(Black, p.Color)
	}
}

func TestFATGrowsPastHeaderDIFAT(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates several megabytes")
	}
	require := require.New(t)

	fs, err := New()
	require.NoError(err)

	// 110 FAT sectors of 128 entries need a DIFAT sector.
	size := 110 * 128 * BigBlockSize
	data := payload(size, 5)
	_, err = fs.Root().CreateDocument("Huge", bytes.NewReader(data))
	require.NoError(err)
	require.Greater(len(fs.fatSectors), HeaderDIFATEntries)
	require.Len(fs.difatSectors, 1)

	got := roundTrip(t, fs)
	require.Equal(uint32(1), got.Header().NumDIFATSectors)
	require.Equal(len(fs.fatSectors), int(got.Header().NumFATSectors))

	back, err := got.ReadDocument("Huge")
	require.NoError(err)
	require.True(bytes.Equal(data, back))
}

func TestFormatDetection(t *testing.T) {
	require := require.New(t)

	_, err := Parse([]byte("PK\x03\x04 rest of a zip archive"))
	require.ErrorIs(err, ErrOOXMLFormat)
	require.ErrorIs(err, ErrNotOLE2)
	var fe *FormatError
	require.True(errors.As(err, &fe))
	require.Equal(FormatOOXML, fe.Format)
	require.NotEmpty(fe.Hint)

	_, err = Parse([]byte("<?xml version=\"1.0\"?><root/>"))
	require.ErrorIs(err, ErrNotOLE2)
	require.NotErrorIs(err, ErrOOXMLFormat)

	_, err = Parse([]byte{0x09, 0x04, 0x06, 0x00, 0, 0})
	require.True(errors.As(err, &fe))
	require.Equal(FormatOldExcel, fe.Format)

	_, err = Parse(Signature[:])
	require.ErrorIs(err, ErrTruncatedFile)
}

func TestCorruptHeader(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	var buf bytes.Buffer
	_, err = fs.WriteTo(&buf)
	require.NoError(err)

	data := buf.Bytes()
	data[30] = 10 // sector shift
	_, err = Parse(data)
	require.ErrorIs(err, ErrInvalidHeader)
}

func TestCorruptDirectoryLoop(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	_, err = fs.Root().CreateDocument("A", bytes.NewReader(nil))
	require.NoError(err)
	var buf bytes.Buffer
	_, err = fs.WriteTo(&buf)
	require.NoError(err)

	data := buf.Bytes()
	entryA := fs.Header().SectorOffset(fs.Header().FirstDirSector) + PropertySize
	data[entryA+68] = 1 // left sibling points back at itself
	data[entryA+69], data[entryA+70], data[entryA+71] = 0, 0, 0
	_, err = Parse(data)
	require.ErrorIs(err, ErrCorruptDirectory)
}

func TestLookupAndClose(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	dir, err := fs.Root().CreateDirectory("A")
	require.NoError(err)
	_, err = dir.CreateDocument("B", bytes.NewReader([]byte("hello")))
	require.NoError(err)

	e, err := fs.Lookup("/A/B")
	require.NoError(err)
	require.True(e.IsDocument())
	require.Equal("A", e.Parent().Name())

	_, err = fs.Lookup("/A/B/C")
	require.ErrorIs(err, ErrNotDirectory)
	_, err = fs.OpenDocument("/A")
	require.ErrorIs(err, ErrNotDocument)

	root, err := fs.Lookup("/")
	require.NoError(err)
	require.True(root.(*DirectoryEntry).IsRoot())

	require.NoError(fs.Close())
	_, err = fs.ReadDocument("/A/B")
	require.ErrorIs(err, ErrClosed)
	_, err = fs.WriteTo(&bytes.Buffer{})
	require.ErrorIs(err, ErrClosed)

	_, err = dir.Entries()
	require.ErrorIs(err, ErrClosed)
	_, err = dir.EntryNames()
	require.ErrorIs(err, ErrClosed)
	_, err = dir.EntryCount()
	require.ErrorIs(err, ErrClosed)
}

func TestDocumentWriter(t *testing.T) {
	require := require.New(t)

	fs, err := New(WithMaxStreamSize(10))
	require.NoError(err)

	w, err := fs.Root().CreateDocumentWriter("Out")
	require.NoError(err)
	_, err = w.Write([]byte("12345"))
	require.NoError(err)
	_, err = w.Write([]byte("678901"))
	require.ErrorIs(err, ErrStreamTooLarge)
	require.NoError(w.Close())
	require.NoError(w.Close())
	require.Equal(int64(5), w.Entry().Size())

	_, err = w.Write([]byte("x"))
	require.ErrorIs(err, ErrStreamClosed)

	_, err = fs.Root().CreateDocument("TooBig", bytes.NewReader(make([]byte, 11)))
	require.ErrorIs(err, ErrStreamTooLarge)
}

func TestCopyEntries(t *testing.T) {
	require := require.New(t)

	src, err := New()
	require.NoError(err)
	dir, err := src.Root().CreateDirectory("Macros")
	require.NoError(err)
	_, err = dir.CreateDocument("Module1", bytes.NewReader(payload(5000, 1)))
	require.NoError(err)
	_, err = src.Root().CreateDocument("Workbook", bytes.NewReader(payload(700, 2)))
	require.NoError(err)

	dst, err := New(WithBigBlockSize(LargeBlockSize))
	require.NoError(err)
	require.NoError(CopyEntries(src.Root(), dst.Root()))

	eq, err := DirectoriesEqual(src.Root(), dst.Root())
	require.NoError(err)
	require.True(eq)

	filtered, err := New()
	require.NoError(err)
	require.NoError(CopyEntries(src.Root(), filtered.Root(), "Macros"))
	names, err := filtered.Root().EntryNames()
	require.NoError(err)
	require.Equal([]string{"Workbook"}, names)
}
