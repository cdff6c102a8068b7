package cfb

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/skdltmxn/ole-go/internal/options"
)

// FileSystem is an in-memory compound file. All sectors are held in memory;
// changes are written out with WriteTo.
//
// A FileSystem is safe for concurrent readers. Mutations must not run
// concurrently with anything else on the same FileSystem.
type FileSystem struct {
	header    *Header
	blockSize int
	blocks    [][]byte

	fat          *AllocationTable
	fatSectors   []uint32
	difatSectors []uint32
	mini         *miniStore
	props        *PropertyTable

	cfg *config
	log logrus.FieldLogger

	closed bool
	mu     sync.RWMutex
}

// New creates an empty file system. The first FAT sector is sector 0 and the
// directory starts at sector 1.
func New(opts ...Option) (*FileSystem, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	h, err := NewHeader(cfg.blockSize)
	if err != nil {
		return nil, err
	}

	fs := &FileSystem{
		header:    h,
		blockSize: cfg.blockSize,
		cfg:       cfg,
		log:       cfg.logger.WithField("component", "cfb"),
	}
	fs.fat = newAllocationTable(nil, fs.extendFAT)
	fs.props = NewPropertyTable(cfg.compare, fs.log)
	fs.mini = newMiniStore(fs, nil, nil)

	dir, err := fs.fat.Allocate(1)
	if err != nil {
		return nil, err
	}
	h.FirstDirSector = dir[0]
	fs.ensureBlocks(int(dir[0]) + 1)

	return fs, nil
}

// Open reads a compound file from the given path into memory.
func Open(path string, opts ...Option) (*FileSystem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cfb: failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cfb: failed to stat file: %w", err)
	}

	return NewFileSystem(f, stat.Size(), opts...)
}

// NewFileSystem reads a compound file of the given size from r.
func NewFileSystem(r io.ReaderAt, size int64, opts ...Option) (*FileSystem, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("cfb: negative size %d", size)
	}

	data := make([]byte, size)
	if n, err := r.ReadAt(data, 0); err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, fmt.Errorf("cfb: failed to read data: %w", err)
	}
	return parse(data, cfg)
}

// Parse reads a compound file held in data. The slice is copied.
func Parse(data []byte, opts ...Option) (*FileSystem, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return parse(append([]byte(nil), data...), cfg)
}

func parse(data []byte, cfg *config) (*FileSystem, error) {
	if DetectFormat(data) != FormatOLE2 {
		return nil, formatError(data)
	}
	if len(data) < HeaderSize {
		return nil, ErrTruncatedFile
	}

	h, err := ReadHeader(bytes.NewReader(data[:HeaderSize]))
	if err != nil {
		return nil, err
	}

	fs := &FileSystem{
		header:    h,
		blockSize: h.BlockSize(),
		cfg:       cfg,
		log:       cfg.logger.WithField("component", "cfb"),
	}
	fs.loadBlocks(data)

	if err := fs.loadFAT(); err != nil {
		return nil, err
	}

	dirData, err := readWholeChain(bigStore{fs}, h.FirstDirSector)
	if err != nil {
		return nil, fmt.Errorf("cfb: failed to read directory: %w", err)
	}
	fs.props, err = ParsePropertyTable(dirData, h.MajorVersion, cfg.compare, fs.log)
	if err != nil {
		return nil, err
	}

	if err := fs.loadMiniStore(); err != nil {
		return nil, err
	}

	fs.log.WithFields(logrus.Fields{
		"version": h.MajorVersion,
		"sectors": len(fs.blocks),
		"entries": fs.props.Len(),
	}).Debug("opened compound file")
	return fs, nil
}

func (fs *FileSystem) loadBlocks(data []byte) {
	body := data[min(len(data), fs.blockSize):]
	n := (len(body) + fs.blockSize - 1) / fs.blockSize
	fs.blocks = make([][]byte, n)
	for i := range n {
		b := make([]byte, fs.blockSize)
		copy(b, body[i*fs.blockSize:])
		fs.blocks[i] = b
	}
}

// loadFAT collects the FAT sector list from the header and the DIFAT chain,
// then concatenates the FAT sectors.
func (fs *FileSystem) loadFAT() error {
	h := fs.header
	per := fs.blockSize / 4
	want := int(h.NumFATSectors)
	if int64(want) > int64(len(fs.blocks)) {
		return &ParseError{Stream: "header", Offset: 0x2C,
			Message: fmt.Sprintf("%d FAT sectors in a file of %d sectors", want, len(fs.blocks)),
			Err:     ErrInvalidHeader}
	}

	sectors := make([]uint32, 0, want)
	for i := 0; i < HeaderDIFATEntries && len(sectors) < want; i++ {
		sectors = append(sectors, h.DIFAT[i])
	}

	seen := make(map[uint32]struct{})
	next := h.FirstDIFATSector
	for len(sectors) < want {
		if next == EndOfChain || next == FreeSect {
			return &ParseError{Stream: "difat", Offset: 0x44,
				Message: fmt.Sprintf("found %d of %d FAT sectors", len(sectors), want),
				Err:     ErrCorruptChain}
		}
		if _, dup := seen[next]; dup {
			return &ChainError{Start: h.FirstDIFATSector, Sector: next, Reason: "DIFAT loop detected"}
		}
		seen[next] = struct{}{}

		b, err := bigStore{fs}.block(next)
		if err != nil {
			return &ParseError{Stream: "difat", Offset: h.SectorOffset(next), Message: "reading DIFAT sector", Err: err}
		}
		fs.difatSectors = append(fs.difatSectors, next)
		for i := 0; i < per-1 && len(sectors) < want; i++ {
			sectors = append(sectors, binary.LittleEndian.Uint32(b[i*4:]))
		}
		next = binary.LittleEndian.Uint32(b[(per-1)*4:])
	}

	entries := make([]uint32, 0, want*per)
	for _, s := range sectors {
		b, err := bigStore{fs}.block(s)
		if err != nil {
			return &ParseError{Stream: "fat", Offset: h.SectorOffset(s), Message: "reading FAT sector", Err: err}
		}
		entries = append(entries, parseAllocationTable(b)...)
	}
	fs.fatSectors = sectors
	fs.fat = newAllocationTable(entries, fs.extendFAT)

	fs.log.WithFields(logrus.Fields{"fatSectors": len(sectors), "difatSectors": len(fs.difatSectors)}).Debug("loaded FAT")
	return nil
}

func (fs *FileSystem) loadMiniStore() error {
	h := fs.header
	var entries []uint32
	if h.FirstMiniFATSector != EndOfChain && h.FirstMiniFATSector != FreeSect {
		data, err := readWholeChain(bigStore{fs}, h.FirstMiniFATSector)
		if err != nil {
			return fmt.Errorf("cfb: failed to read mini FAT: %w", err)
		}
		entries = parseAllocationTable(data)
	}

	root := fs.props.Root()
	var stream []uint32
	if root.Size > 0 {
		var err error
		if stream, err = fs.fat.ResolveChain(root.StartSector); err != nil {
			return fmt.Errorf("cfb: failed to resolve mini stream: %w", err)
		}
	}
	fs.mini = newMiniStore(fs, entries, stream)

	fs.log.WithFields(logrus.Fields{"miniFAT": len(entries), "miniStream": len(stream)}).Debug("loaded mini store")
	return nil
}

// extendFAT appends one FAT sector. The new sector is stored in the first
// block it describes; when the header's DIFAT slots are used up, the next
// block becomes a DIFAT sector.
func (fs *FileSystem) extendFAT() error {
	per := fs.blockSize / 4
	offset := fs.fat.grow(per)
	fs.fat.entries[offset] = FATSect
	fs.fatSectors = append(fs.fatSectors, offset)

	if extra := len(fs.fatSectors) - HeaderDIFATEntries; extra > len(fs.difatSectors)*(per-1) {
		fs.fat.entries[offset+1] = DIFATSect
		fs.difatSectors = append(fs.difatSectors, offset+1)
	}

	fs.log.WithFields(logrus.Fields{"fatSectors": len(fs.fatSectors), "at": offset}).Debug("extended FAT")
	return nil
}

func (fs *FileSystem) ensureBlocks(n int) {
	for len(fs.blocks) < n {
		fs.blocks = append(fs.blocks, nil)
	}
}

// Header returns the file header. It is updated by WriteTo.
func (fs *FileSystem) Header() *Header {
	return fs.header
}

// BlockSize returns the big block size.
func (fs *FileSystem) BlockSize() int {
	return fs.blockSize
}

// FAT returns the big block allocation table.
func (fs *FileSystem) FAT() *AllocationTable {
	return fs.fat
}

// MiniFAT returns the mini stream allocation table.
func (fs *FileSystem) MiniFAT() *AllocationTable {
	return fs.mini.fat
}

// Properties returns the directory.
func (fs *FileSystem) Properties() *PropertyTable {
	return fs.props
}

// Root returns the root storage.
func (fs *FileSystem) Root() *DirectoryEntry {
	return &DirectoryEntry{fs: fs, prop: fs.props.Root()}
}

// Close releases the file system. Later calls fail with ErrClosed.
func (fs *FileSystem) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.closed = true
	fs.blocks = nil
	return nil
}

func (fs *FileSystem) checkOpen() error {
	if fs.closed {
		return ErrClosed
	}
	return nil
}

// WriteTo serializes the file system: mini FAT and mini stream, directory,
// header, then every sector with FAT and DIFAT sectors generated from the
// allocation table.
func (fs *FileSystem) WriteTo(w io.Writer) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkOpen(); err != nil {
		return 0, err
	}

	h := fs.header
	if err := fs.mini.sync(); err != nil {
		return 0, err
	}

	dir := fs.props.Serialize(fs.blockSize)
	start, err := writeChain(bigStore{fs}, h.FirstDirSector, dir)
	if err != nil {
		return 0, fmt.Errorf("cfb: failed to write directory: %w", err)
	}
	h.FirstDirSector = start
	if h.MajorVersion >= 4 {
		h.NumDirSectors = uint32(len(dir) / fs.blockSize)
	} else {
		h.NumDirSectors = 0
	}

	fatSector, difatSector := fs.layoutFAT()

	hdr, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	written := int64(0)
	n, err := bw.Write(hdr)
	written += int64(n)
	if err != nil {
		return written, err
	}

	zero := make([]byte, fs.blockSize)
	used := fs.fat.usedLen()
	for i := range used {
		var b []byte
		k, isFAT := fatSector[uint32(i)]
		switch {
		case isFAT:
			per := fs.blockSize / 4
			b = fs.fat.sectorBytes(k*per, per)
		case difatSector[uint32(i)] != nil:
			b = difatSector[uint32(i)]
		case i < len(fs.blocks) && fs.blocks[i] != nil:
			b = fs.blocks[i]
		default:
			b = zero
		}
		n, err := bw.Write(b)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	if err := bw.Flush(); err != nil {
		return written, err
	}

	fs.log.WithFields(logrus.Fields{"sectors": used, "bytes": written}).Debug("wrote compound file")
	return written, nil
}

// layoutFAT fills the header DIFAT and returns, per sector, the FAT sector
// ordinal and the encoded DIFAT sectors.
func (fs *FileSystem) layoutFAT() (map[uint32]int, map[uint32][]byte) {
	h := fs.header
	per := fs.blockSize / 4

	fatSector := make(map[uint32]int, len(fs.fatSectors))
	for i, s := range fs.fatSectors {
		fatSector[s] = i
	}

	h.NumFATSectors = uint32(len(fs.fatSectors))
	for i := range h.DIFAT {
		h.DIFAT[i] = FreeSect
		if i < len(fs.fatSectors) {
			h.DIFAT[i] = fs.fatSectors[i]
		}
	}

	difatSector := make(map[uint32][]byte, len(fs.difatSectors))
	rest := fs.fatSectors[min(len(fs.fatSectors), HeaderDIFATEntries):]
	for j, s := range fs.difatSectors {
		b := make([]byte, fs.blockSize)
		for i := range per - 1 {
			v := FreeSect
			if k := j*(per-1) + i; k < len(rest) {
				v = rest[k]
			}
			binary.LittleEndian.PutUint32(b[i*4:], v)
		}
		next := EndOfChain
		if j+1 < len(fs.difatSectors) {
			next = fs.difatSectors[j+1]
		}
		binary.LittleEndian.PutUint32(b[(per-1)*4:], next)
		difatSector[s] = b
	}

	h.NumDIFATSectors = uint32(len(fs.difatSectors))
	h.FirstDIFATSector = EndOfChain
	if len(fs.difatSectors) > 0 {
		h.FirstDIFATSector = fs.difatSectors[0]
	}
	return fatSector, difatSector
}

// WriteFile serializes the file system to path.
func (fs *FileSystem) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cfb: failed to create file: %w", err)
	}
	if _, err := fs.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
