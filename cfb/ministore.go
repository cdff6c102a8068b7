package cfb

import (
	"fmt"
)

// miniStore holds streams smaller than the cutoff in 64-byte blocks packed
// into the mini stream, which is itself the root entry's big-block chain.
type miniStore struct {
	fs  *FileSystem
	fat *AllocationTable

	// stream is the big-block chain of the mini stream.
	stream []uint32
}

func newMiniStore(fs *FileSystem, entries []uint32, stream []uint32) *miniStore {
	m := &miniStore{fs: fs, stream: stream}
	m.fat = newAllocationTable(entries, m.extend)
	return m
}

func (m *miniStore) blockSize() int          { return MiniBlockSize }
func (m *miniStore) table() *AllocationTable { return m.fat }

func (m *miniStore) perBigBlock() int {
	return m.fs.blockSize / MiniBlockSize
}

// extend adds one big block worth of mini FAT entries. The mini FAT sectors
// themselves are allocated when the file is written.
func (m *miniStore) extend() error {
	m.fat.grow(m.fs.blockSize / 4)
	m.fs.log.WithField("entries", m.fat.Len()).Debug("extended mini FAT")
	return nil
}

func (m *miniStore) locate(idx uint32) (big uint32, off int, err error) {
	per := m.perBigBlock()
	i := int(idx) / per
	if i >= len(m.stream) {
		return 0, 0, fmt.Errorf("%w: mini block %d beyond mini stream of %d sectors",
			ErrTruncatedFile, idx, len(m.stream))
	}
	return m.stream[i], (int(idx) % per) * MiniBlockSize, nil
}

func (m *miniStore) block(idx uint32) ([]byte, error) {
	big, off, err := m.locate(idx)
	if err != nil {
		return nil, err
	}
	b, err := bigStore{m.fs}.block(big)
	if err != nil {
		return nil, err
	}
	return b[off : off+MiniBlockSize], nil
}

func (m *miniStore) writableBlock(idx uint32) ([]byte, error) {
	if int64(idx) >= int64(m.fat.Len()) {
		return nil, fmt.Errorf("%w: mini %d >= %d", ErrSectorOutOfRange, idx, m.fat.Len())
	}
	if err := m.ensureStream(int(idx)/m.perBigBlock() + 1); err != nil {
		return nil, err
	}
	big, off, err := m.locate(idx)
	if err != nil {
		return nil, err
	}
	b, err := bigStore{m.fs}.writableBlock(big)
	if err != nil {
		return nil, err
	}
	return b[off : off+MiniBlockSize], nil
}

// ensureStream grows the mini stream chain to at least n big blocks.
func (m *miniStore) ensureStream(n int) error {
	if len(m.stream) >= n {
		return nil
	}
	more, err := m.fs.fat.Allocate(n - len(m.stream))
	if err != nil {
		return err
	}
	if len(m.stream) == 0 {
		m.fs.props.Root().StartSector = more[0]
	} else if err := m.fs.fat.SetNext(m.stream[len(m.stream)-1], more[0]); err != nil {
		return err
	}
	for _, idx := range more {
		if _, err := (bigStore{m.fs}).writableBlock(idx); err != nil {
			return err
		}
		b := m.fs.blocks[idx]
		for i := range b {
			b[i] = 0
		}
	}
	m.stream = append(m.stream, more...)
	m.fs.log.WithField("sectors", len(m.stream)).Debug("extended mini stream")
	return nil
}

// sync trims the mini stream to the blocks in use, writes the mini FAT and
// records the mini stream size on the root entry.
func (m *miniStore) sync() error {
	h := m.fs.header
	root := m.fs.props.Root()

	used := m.fat.usedLen()
	need := int(BlocksNeeded(int64(used*MiniBlockSize), m.fs.blockSize))
	if len(m.stream) > need {
		m.fs.fat.Free(m.stream[need:])
		m.stream = m.stream[:need]
		if need > 0 {
			if err := m.fs.fat.SetNext(m.stream[need-1], EndOfChain); err != nil {
				return err
			}
		}
	}
	if need == 0 {
		root.StartSector = EndOfChain
	}
	root.Size = uint64(used * MiniBlockSize)

	var fatData []byte
	if used > 0 {
		per := m.fs.blockSize / 4
		sectors := (used + per - 1) / per
		fatData = m.fat.sectorBytes(0, sectors*per)
	}
	start, err := writeChain(bigStore{m.fs}, h.FirstMiniFATSector, fatData)
	if err != nil {
		return fmt.Errorf("cfb: failed to write mini FAT: %w", err)
	}
	h.FirstMiniFATSector = start
	h.NumMiniFATSectors = uint32(BlocksNeeded(int64(len(fatData)), m.fs.blockSize))
	return nil
}
