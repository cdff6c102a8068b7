package cfb

import (
	"fmt"
)

// blockStore is a pool of equally sized blocks addressed through an
// allocation table: the file's big blocks or the mini stream's 64-byte blocks.
type blockStore interface {
	blockSize() int
	table() *AllocationTable
	// block returns the existing block at idx for reading.
	block(idx uint32) ([]byte, error)
	// writableBlock returns the block at idx, creating backing storage as needed.
	writableBlock(idx uint32) ([]byte, error)
}

// bigStore exposes the file's sectors.
type bigStore struct {
	fs *FileSystem
}

func (s bigStore) blockSize() int          { return s.fs.blockSize }
func (s bigStore) table() *AllocationTable { return s.fs.fat }

func (s bigStore) block(idx uint32) ([]byte, error) {
	if int64(idx) >= int64(len(s.fs.blocks)) {
		return nil, fmt.Errorf("%w: sector %d of %d", ErrTruncatedFile, idx, len(s.fs.blocks))
	}
	b := s.fs.blocks[idx]
	if b == nil {
		b = make([]byte, s.fs.blockSize)
		s.fs.blocks[idx] = b
	}
	return b, nil
}

func (s bigStore) writableBlock(idx uint32) ([]byte, error) {
	if int64(idx) >= int64(s.fs.fat.Len()) {
		return nil, fmt.Errorf("%w: %d >= %d", ErrSectorOutOfRange, idx, s.fs.fat.Len())
	}
	s.fs.ensureBlocks(int(idx) + 1)
	return s.block(idx)
}

// readChain copies size bytes stored along the chain starting at start.
func readChain(s blockStore, start uint32, size int64) ([]byte, error) {
	chain, err := s.table().ResolveSizedChain(start, size, s.blockSize())
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	bs := s.blockSize()
	for i, idx := range chain {
		b, err := s.block(idx)
		if err != nil {
			return nil, err
		}
		copy(out[i*bs:], b)
	}
	return out, nil
}

// readWholeChain copies every block of the chain starting at start.
func readWholeChain(s blockStore, start uint32) ([]byte, error) {
	chain, err := s.table().ResolveChain(start)
	if err != nil {
		return nil, err
	}
	bs := s.blockSize()
	out := make([]byte, len(chain)*bs)
	for i, idx := range chain {
		b, err := s.block(idx)
		if err != nil {
			return nil, err
		}
		copy(out[i*bs:], b)
	}
	return out, nil
}

// writeChain stores data in the chain starting at start, reusing its blocks,
// allocating more or freeing the surplus, and returns the new first block.
// Bytes past the end of data in the last block are set to 0xFF.
func writeChain(s blockStore, start uint32, data []byte) (uint32, error) {
	t := s.table()
	bs := s.blockSize()
	n := int(BlocksNeeded(int64(len(data)), bs))

	var old []uint32
	if start != EndOfChain && start != FreeSect {
		var err error
		if old, err = t.ResolveChain(start); err != nil {
			return EndOfChain, err
		}
	}

	chain := make([]uint32, 0, n)
	chain = append(chain, old[:min(n, len(old))]...)
	if len(old) > n {
		t.Free(old[n:])
		if n > 0 {
			if err := t.SetNext(chain[n-1], EndOfChain); err != nil {
				return EndOfChain, err
			}
		}
	}
	if n > len(chain) {
		more, err := t.Allocate(n - len(chain))
		if err != nil {
			return EndOfChain, err
		}
		if len(chain) > 0 {
			if err := t.SetNext(chain[len(chain)-1], more[0]); err != nil {
				return EndOfChain, err
			}
		}
		chain = append(chain, more...)
	}

	for i, idx := range chain {
		b, err := s.writableBlock(idx)
		if err != nil {
			return EndOfChain, err
		}
		m := copy(b, data[i*bs:])
		for j := m; j < len(b); j++ {
			b[j] = 0xFF
		}
	}

	if n == 0 {
		return EndOfChain, nil
	}
	return chain[0], nil
}
