package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteName(t *testing.T) {
	require := require.New(t)

	require.Equal(`\x05SummaryInformation`, quoteName("\x05SummaryInformation"))
	require.Equal("Workbook", quoteName("Workbook"))
}

func TestLocalPath(t *testing.T) {
	require := require.New(t)

	require.Equal(filepath.Join("ObjectPool", "_1234", "Ole"), localPath("/ObjectPool/_1234/\x01Ole"))
	require.Equal(filepath.Join("_", "a_b"), localPath("/../a:b"))
}

func TestFormulaCommand(t *testing.T) {
	require := require.New(t)

	out := filepath.Join(t.TempDir(), "out.txt")
	rootCmd.SetArgs([]string{"formula", "-o", out, "0700 1e0100 1e0200 03"})
	require.NoError(rootCmd.Execute())

	got, err := os.ReadFile(out)
	require.NoError(err)
	require.Equal("=1+2\n", string(got))
}
