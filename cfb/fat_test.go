package cfb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveChain(t *testing.T) {
	require := require.New(t)

	table := newAllocationTable([]uint32{1, 2, EndOfChain, FreeSect}, nil)
	chain, err := table.ResolveChain(0)
	require.NoError(err)
	require.Equal([]uint32{0, 1, 2}, chain)

	chain, err = table.ResolveChain(EndOfChain)
	require.NoError(err)
	require.Empty(chain)

	chain, err = table.ResolveSizedChain(0, 1500, 512)
	require.NoError(err)
	require.Len(chain, 3)

	_, err = table.ResolveSizedChain(0, 1024, 512)
	require.ErrorIs(err, ErrCorruptChain, "chain longer than the declared size")
	_, err = table.ResolveSizedChain(0, 2000, 512)
	require.ErrorIs(err, ErrCorruptChain, "chain shorter than the declared size")
}

func TestResolveChainDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		entries []uint32
	}{
		{"Loop", []uint32{1, 2, 0}},
		{"SelfLoop", []uint32{0}},
		{"OutOfRange", []uint32{1, 7}},
		{"FreeInChain", []uint32{1, FreeSect}},
		{"FATSectorInChain", []uint32{FATSect}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newAllocationTable(tt.entries, nil)
			_, err := table.ResolveChain(0)
			require.ErrorIs(t, err, ErrCorruptChain)

			var ce *ChainError
			require.True(t, errors.As(err, &ce))
			require.Equal(t, uint32(0), ce.Start)
		})
	}
}

func TestAllocateAndFree(t *testing.T) {
	require := require.New(t)

	grown := 0
	var table *AllocationTable
	table = newAllocationTable([]uint32{FATSect, FreeSect, EndOfChain, FreeSect}, func() error {
		grown++
		table.grow(4)
		return nil
	})

	chain, err := table.Allocate(3)
	require.NoError(err)
	require.Equal([]uint32{1, 3, 4}, chain)
	require.Equal(1, grown)

	resolved, err := table.ResolveChain(1)
	require.NoError(err)
	require.Equal(chain, resolved)

	table.Free(chain)
	require.Equal(6, table.FreeCount())

	chain, err = table.Allocate(2)
	require.NoError(err)
	require.Equal([]uint32{1, 3}, chain, "lowest free entries are reused")
	require.NoError(table.FreeChain(1))

	_, err = newAllocationTable([]uint32{FATSect}, nil).Allocate(1)
	require.Error(err)
}

func TestBlocksNeeded(t *testing.T) {
	require := require.New(t)

	require.Equal(int64(8), BlocksNeeded(4096, 512))
	require.Equal(int64(9), BlocksNeeded(4097, 512))
	require.Equal(int64(4), BlocksNeeded(199, 64))
	require.Equal(int64(0), BlocksNeeded(0, 64))
}
