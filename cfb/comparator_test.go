package cfb

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

var vbaFixture = []string{
	"dir", "JML", "UTIL", "Loader", "Sheet1", "Sheet2", "Sheet3",
	"__SRP_0", "__SRP_1", "__SRP_2", "__SRP_3", "__SRP_4", "__SRP_5",
	"ThisWorkbook", "_VBA_PROJECT",
}

func shuffled(names []string) []string {
	out := slices.Clone(names)
	slices.Reverse(out)
	out[0], out[len(out)/2] = out[len(out)/2], out[0]
	return out
}

func TestCompareNamesFixtureOrder(t *testing.T) {
	names := shuffled(vbaFixture)
	slices.SortFunc(names, CompareNames)
	require.Equal(t, vbaFixture, names)
}

func TestLegacyCompareNamesDiffers(t *testing.T) {
	require := require.New(t)

	names := shuffled(vbaFixture)
	slices.SortFunc(names, LegacyCompareNames)
	require.NotEqual(vbaFixture, names)
	require.Equal("JML", names[0], "case-sensitive order puts upper case first")
	require.Equal("dir", names[1])
}

func TestCompareNames(t *testing.T) {
	tests := []struct {
		a, b string
		sign int
	}{
		{"a", "bb", -1},
		{"abc", "ABD", -1},
		{"abc", "ABC", 0},
		{"__a", "zzz", 1},
		{"zzz", "__a", -1},
		{"__A", "__b", -1},
		{"_VBA_PROJECT", "ZZZZZZZZZZZZ", 1},
		{"ZZZZZZZZZZZZ", "_VBA_PROJECT", -1},
		{"_VBA_PROJECT", "_VBA_PROJECT", 0},
	}

	for _, tt := range tests {
		got := CompareNames(tt.a, tt.b)
		switch {
		case tt.sign < 0:
			require.Negative(t, got, "%q vs %q", tt.a, tt.b)
		case tt.sign > 0:
			require.Positive(t, got, "%q vs %q", tt.a, tt.b)
		default:
			require.Zero(t, got, "%q vs %q", tt.a, tt.b)
		}
	}
}

func TestDirectoryOrderSurvivesRoundTrip(t *testing.T) {
	require := require.New(t)

	fs, err := New()
	require.NoError(err)
	vba, err := fs.Root().CreateDirectory("VBA")
	require.NoError(err)
	for _, name := range shuffled(vbaFixture) {
		_, err := vba.CreateDocument(name, nil)
		require.NoError(err)
	}
	names, err := vba.EntryNames()
	require.NoError(err)
	require.Equal(vbaFixture, names)

	got := roundTrip(t, fs)
	dir, err := got.Root().Directory("VBA")
	require.NoError(err)
	names, err = dir.EntryNames()
	require.NoError(err)
	require.Equal(vbaFixture, names)
}
