package cfb

import (
	"encoding/binary"
	"fmt"
)

// AllocationTable maps each sector to the next sector of its chain. The same
// type backs the FAT (big blocks) and the mini FAT (64-byte blocks).
type AllocationTable struct {
	entries []uint32
	hint    int // no free entry below this index

	// extend grows entries by one table sector when no free entry is left.
	extend func() error
}

func newAllocationTable(entries []uint32, extend func() error) *AllocationTable {
	return &AllocationTable{entries: entries, extend: extend}
}

// parseAllocationTable decodes little-endian sector entries.
func parseAllocationTable(data []byte) []uint32 {
	entries := make([]uint32, len(data)/4)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return entries
}

// Len returns the number of entries.
func (t *AllocationTable) Len() int {
	return len(t.entries)
}

// Next returns the entry for sector i.
func (t *AllocationTable) Next(i uint32) (uint32, error) {
	if int64(i) >= int64(len(t.entries)) {
		return 0, fmt.Errorf("%w: %d >= %d", ErrSectorOutOfRange, i, len(t.entries))
	}
	return t.entries[i], nil
}

// SetNext sets the entry for sector i.
func (t *AllocationTable) SetNext(i, next uint32) error {
	if int64(i) >= int64(len(t.entries)) {
		return fmt.Errorf("%w: %d >= %d", ErrSectorOutOfRange, i, len(t.entries))
	}
	t.entries[i] = next
	if next == FreeSect && int(i) < t.hint {
		t.hint = int(i)
	}
	return nil
}

// ResolveChain follows the chain starting at start and returns its sectors.
// A start of EndOfChain yields an empty chain.
func (t *AllocationTable) ResolveChain(start uint32) ([]uint32, error) {
	if start == EndOfChain {
		return nil, nil
	}

	var chain []uint32
	seen := make(map[uint32]struct{})
	for cur := start; cur != EndOfChain; {
		if cur > MaxRegSect {
			return nil, &ChainError{Start: start, Sector: cur, Reason: "unexpected special sector"}
		}
		if int64(cur) >= int64(len(t.entries)) {
			return nil, &ChainError{Start: start, Sector: cur, Reason: "sector beyond allocation table"}
		}
		if _, dup := seen[cur]; dup {
			return nil, &ChainError{Start: start, Sector: cur, Reason: "loop detected"}
		}
		seen[cur] = struct{}{}
		chain = append(chain, cur)
		cur = t.entries[cur]
	}
	return chain, nil
}

// ResolveSizedChain resolves a chain that must hold exactly size bytes in
// blocks of blockSize.
func (t *AllocationTable) ResolveSizedChain(start uint32, size int64, blockSize int) ([]uint32, error) {
	chain, err := t.ResolveChain(start)
	if err != nil {
		return nil, err
	}
	want := BlocksNeeded(size, blockSize)
	if int64(len(chain)) != want {
		reason := fmt.Sprintf("chain of %d sectors for %d bytes (want %d)", len(chain), size, want)
		return nil, &ChainError{Start: start, Sector: start, Reason: reason}
	}
	return chain, nil
}

// BlocksNeeded returns the number of blocks of blockSize needed for size bytes.
func BlocksNeeded(size int64, blockSize int) int64 {
	bs := int64(blockSize)
	return (size + bs - 1) / bs
}

func (t *AllocationTable) freeIndex() (uint32, error) {
	for {
		for i := t.hint; i < len(t.entries); i++ {
			if t.entries[i] == FreeSect {
				t.hint = i + 1
				return uint32(i), nil
			}
		}
		t.hint = len(t.entries)
		if t.extend == nil {
			return 0, fmt.Errorf("cfb: allocation table is full")
		}
		before := len(t.entries)
		if err := t.extend(); err != nil {
			return 0, err
		}
		if len(t.entries) == before {
			return 0, fmt.Errorf("cfb: allocation table did not grow")
		}
	}
}

// Allocate claims n free sectors, lowest index first, and links them into a
// chain terminated by EndOfChain. The table grows when it runs out of free
// entries.
func (t *AllocationTable) Allocate(n int) ([]uint32, error) {
	chain := make([]uint32, 0, n)
	for range n {
		idx, err := t.freeIndex()
		if err != nil {
			t.Free(chain)
			return nil, err
		}
		t.entries[idx] = EndOfChain
		if len(chain) > 0 {
			t.entries[chain[len(chain)-1]] = idx
		}
		chain = append(chain, idx)
	}
	return chain, nil
}

// Free marks every sector of chain as free.
func (t *AllocationTable) Free(chain []uint32) {
	for _, idx := range chain {
		if int64(idx) < int64(len(t.entries)) {
			t.entries[idx] = FreeSect
			if int(idx) < t.hint {
				t.hint = int(idx)
			}
		}
	}
}

// FreeChain resolves the chain starting at start and frees it.
func (t *AllocationTable) FreeChain(start uint32) error {
	chain, err := t.ResolveChain(start)
	if err != nil {
		return err
	}
	t.Free(chain)
	return nil
}

// FreeCount returns the number of free entries.
func (t *AllocationTable) FreeCount() int {
	n := 0
	for _, v := range t.entries {
		if v == FreeSect {
			n++
		}
	}
	return n
}

// usedLen returns one past the highest non-free entry.
func (t *AllocationTable) usedLen() int {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i] != FreeSect {
			return i + 1
		}
	}
	return 0
}

func (t *AllocationTable) grow(n int) uint32 {
	offset := uint32(len(t.entries))
	for range n {
		t.entries = append(t.entries, FreeSect)
	}
	return offset
}

// sectorBytes encodes entries [from, from+n) as one table sector.
func (t *AllocationTable) sectorBytes(from, n int) []byte {
	b := make([]byte, n*4)
	for i := range n {
		v := FreeSect
		if from+i < len(t.entries) {
			v = t.entries[from+i]
		}
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b
}
