package cfb

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/msoleps/types"
	"github.com/sirupsen/logrus"
)

// Entry is a storage or stream in the directory tree.
type Entry interface {
	Name() string
	IsDirectory() bool
	IsDocument() bool
	Parent() *DirectoryEntry
	Path() string
	Property() *Property
}

// DirectoryEntry is a storage (or the root).
type DirectoryEntry struct {
	fs   *FileSystem
	prop *Property
}

// DocumentEntry is a stream.
type DocumentEntry struct {
	fs   *FileSystem
	prop *Property
}

func (fs *FileSystem) wrap(p *Property) Entry {
	if p.IsDirectory() {
		return &DirectoryEntry{fs: fs, prop: p}
	}
	return &DocumentEntry{fs: fs, prop: p}
}

func (fs *FileSystem) parentOf(p *Property) *DirectoryEntry {
	parent := fs.props.Parent(p)
	if parent == nil {
		return nil
	}
	return &DirectoryEntry{fs: fs, prop: parent}
}

func (fs *FileSystem) pathOf(p *Property) string {
	var parts []string
	for cur := p; cur != nil && cur.Type != TypeRoot; cur = fs.props.Parent(cur) {
		parts = append(parts, cur.Name)
	}
	if len(parts) == 0 {
		return "/"
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(parts[i])
	}
	return sb.String()
}

func (d *DirectoryEntry) Name() string            { return d.prop.Name }
func (d *DirectoryEntry) IsDirectory() bool       { return true }
func (d *DirectoryEntry) IsDocument() bool        { return false }
func (d *DirectoryEntry) Parent() *DirectoryEntry { return d.fs.parentOf(d.prop) }
func (d *DirectoryEntry) Path() string            { return d.fs.pathOf(d.prop) }
func (d *DirectoryEntry) Property() *Property     { return d.prop }

// IsRoot reports whether d is the root storage.
func (d *DirectoryEntry) IsRoot() bool { return d.prop.Type == TypeRoot }

// Entry returns the child with exactly the given name.
func (d *DirectoryEntry) Entry(name string) (Entry, error) {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()
	if err := d.fs.checkOpen(); err != nil {
		return nil, err
	}

	p, err := d.fs.props.Find(d.prop, name)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, d.Path())
	}
	return d.fs.wrap(p), nil
}

// EntryCaseInsensitive returns the child whose name matches ignoring case.
func (d *DirectoryEntry) EntryCaseInsensitive(name string) (Entry, error) {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()
	if err := d.fs.checkOpen(); err != nil {
		return nil, err
	}

	p, err := d.fs.props.FindFold(d.prop, name)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, d.Path())
	}
	return d.fs.wrap(p), nil
}

// HasEntry reports whether a child with the given name exists.
func (d *DirectoryEntry) HasEntry(name string) bool {
	_, err := d.Entry(name)
	return err == nil
}

// Directory returns the named child storage.
func (d *DirectoryEntry) Directory(name string) (*DirectoryEntry, error) {
	e, err := d.Entry(name)
	if err != nil {
		return nil, err
	}
	dir, ok := e.(*DirectoryEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, e.Path())
	}
	return dir, nil
}

// Document returns the named child stream.
func (d *DirectoryEntry) Document(name string) (*DocumentEntry, error) {
	e, err := d.Entry(name)
	if err != nil {
		return nil, err
	}
	doc, ok := e.(*DocumentEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDocument, e.Path())
	}
	return doc, nil
}

// Entries returns the children in sibling order.
func (d *DirectoryEntry) Entries() ([]Entry, error) {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()
	if err := d.fs.checkOpen(); err != nil {
		return nil, err
	}

	kids := d.fs.props.Children(d.prop)
	out := make([]Entry, 0, len(kids))
	for _, p := range kids {
		out = append(out, d.fs.wrap(p))
	}
	return out, nil
}

// EntryNames returns the names of the children in sibling order.
func (d *DirectoryEntry) EntryNames() ([]string, error) {
	entries, err := d.Entries()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// EntryCount returns the number of children.
func (d *DirectoryEntry) EntryCount() (int, error) {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()
	if err := d.fs.checkOpen(); err != nil {
		return 0, err
	}
	return len(d.prop.children), nil
}

// StorageClsid returns the class id of the storage.
func (d *DirectoryEntry) StorageClsid() types.Guid {
	return d.prop.CLSID
}

// SetStorageClsid sets the class id of the storage.
func (d *DirectoryEntry) SetStorageClsid(g types.Guid) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()
	d.prop.CLSID = g
}

// CreateDirectory adds an empty child storage.
func (d *DirectoryEntry) CreateDirectory(name string) (*DirectoryEntry, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()
	if err := d.fs.checkOpen(); err != nil {
		return nil, err
	}

	p, err := d.fs.props.Insert(d.prop, name, TypeStorage)
	if err != nil {
		return nil, err
	}
	d.fs.log.WithField("path", d.fs.pathOf(p)).Debug("created directory")
	return &DirectoryEntry{fs: d.fs, prop: p}, nil
}

// CreateDocument adds a child stream holding everything read from r.
func (d *DirectoryEntry) CreateDocument(name string, r io.Reader) (*DocumentEntry, error) {
	data, err := d.fs.readLimited(r)
	if err != nil {
		return nil, err
	}

	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()
	if err := d.fs.checkOpen(); err != nil {
		return nil, err
	}

	p, err := d.fs.props.Insert(d.prop, name, TypeStream)
	if err != nil {
		return nil, err
	}
	if err := d.fs.setContents(p, data); err != nil {
		d.fs.props.Remove(p)
		return nil, err
	}
	return &DocumentEntry{fs: d.fs, prop: p}, nil
}

// CreateOrUpdateDocument replaces the contents of an existing stream or
// creates a new one.
func (d *DirectoryEntry) CreateOrUpdateDocument(name string, r io.Reader) (*DocumentEntry, error) {
	e, err := d.Entry(name)
	if err != nil {
		return d.CreateDocument(name, r)
	}
	doc, ok := e.(*DocumentEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDocument, e.Path())
	}
	if err := doc.ReplaceContents(r); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateDocumentWriter returns a writer whose contents become a new child
// stream when it is closed.
func (d *DirectoryEntry) CreateDocumentWriter(name string) (*DocumentWriter, error) {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()
	if err := d.fs.checkOpen(); err != nil {
		return nil, err
	}
	if err := d.fs.props.checkName(d.prop, name, -1); err != nil {
		return nil, err
	}
	return &DocumentWriter{dir: d, name: name, limit: d.fs.cfg.maxStreamSize}, nil
}

// Delete removes the named child. Storages must be empty; a stream's sectors
// are returned to the free list.
func (d *DirectoryEntry) Delete(name string) error {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()
	if err := d.fs.checkOpen(); err != nil {
		return err
	}

	p, err := d.fs.props.Find(d.prop, name)
	if err != nil {
		return err
	}
	if !p.IsDirectory() {
		if err := d.fs.freeContents(p); err != nil {
			return err
		}
	}
	if err := d.fs.props.Remove(p); err != nil {
		return err
	}
	d.fs.log.WithFields(logrus.Fields{"dir": d.Path(), "name": name}).Debug("deleted entry")
	return nil
}

// Rename renames the named child.
func (d *DirectoryEntry) Rename(oldName, newName string) error {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()
	if err := d.fs.checkOpen(); err != nil {
		return err
	}

	p, err := d.fs.props.Find(d.prop, oldName)
	if err != nil {
		return err
	}
	return d.fs.props.Rename(p, newName)
}

func (e *DocumentEntry) Name() string            { return e.prop.Name }
func (e *DocumentEntry) IsDirectory() bool       { return false }
func (e *DocumentEntry) IsDocument() bool        { return true }
func (e *DocumentEntry) Parent() *DirectoryEntry { return e.fs.parentOf(e.prop) }
func (e *DocumentEntry) Path() string            { return e.fs.pathOf(e.prop) }
func (e *DocumentEntry) Property() *Property     { return e.prop }

// Size returns the stream length in bytes.
func (e *DocumentEntry) Size() int64 {
	return int64(e.prop.Size)
}

// InMiniStream reports whether the stream is stored in 64-byte mini blocks.
func (e *DocumentEntry) InMiniStream() bool {
	return e.fs.isMini(e.prop)
}

// Chain returns the block indices holding the stream, in the mini store
// when InMiniStream is true.
func (e *DocumentEntry) Chain() ([]uint32, error) {
	e.fs.mu.RLock()
	defer e.fs.mu.RUnlock()
	if err := e.fs.checkOpen(); err != nil {
		return nil, err
	}
	if e.prop.Size == 0 {
		return nil, nil
	}
	s := e.fs.storeFor(e.prop)
	return s.table().ResolveSizedChain(e.prop.StartSector, int64(e.prop.Size), s.blockSize())
}

// Open returns a stream over the document's contents.
func (e *DocumentEntry) Open() (*DocumentInputStream, error) {
	e.fs.mu.RLock()
	defer e.fs.mu.RUnlock()
	if err := e.fs.checkOpen(); err != nil {
		return nil, err
	}
	return newDocumentInputStream(e.fs, e.fs.storeFor(e.prop), e.prop.StartSector, int64(e.prop.Size))
}

// Bytes reads the whole document.
func (e *DocumentEntry) Bytes() ([]byte, error) {
	e.fs.mu.RLock()
	defer e.fs.mu.RUnlock()
	if err := e.fs.checkOpen(); err != nil {
		return nil, err
	}
	if int64(e.prop.Size) > e.fs.cfg.maxStreamSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrStreamTooLarge, e.Path(), e.prop.Size)
	}
	if e.prop.Size == 0 {
		return []byte{}, nil
	}
	return readChain(e.fs.storeFor(e.prop), e.prop.StartSector, int64(e.prop.Size))
}

// ReplaceContents rewrites the document with everything read from r,
// moving it between the mini store and big blocks when the size crosses
// the cutoff.
func (e *DocumentEntry) ReplaceContents(r io.Reader) error {
	data, err := e.fs.readLimited(r)
	if err != nil {
		return err
	}

	e.fs.mu.Lock()
	defer e.fs.mu.Unlock()
	if err := e.fs.checkOpen(); err != nil {
		return err
	}
	return e.fs.setContents(e.prop, data)
}

// DocumentWriter buffers a new stream and adds it to its directory on Close.
type DocumentWriter struct {
	dir    *DirectoryEntry
	name   string
	buf    bytes.Buffer
	limit  int64
	closed bool
	entry  *DocumentEntry
}

// Write implements io.Writer.
func (w *DocumentWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrStreamClosed
	}
	if int64(w.buf.Len())+int64(len(p)) > w.limit {
		return 0, fmt.Errorf("%w: %q exceeds %d bytes", ErrStreamTooLarge, w.name, w.limit)
	}
	return w.buf.Write(p)
}

// Close creates the document. Closing twice is a no-op.
func (w *DocumentWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	entry, err := w.dir.CreateDocument(w.name, &w.buf)
	if err != nil {
		return err
	}
	w.entry = entry
	return nil
}

// Entry returns the created document after Close.
func (w *DocumentWriter) Entry() *DocumentEntry {
	return w.entry
}

func (fs *FileSystem) readLimited(r io.Reader) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, fs.cfg.maxStreamSize+1))
	if err != nil {
		return nil, fmt.Errorf("cfb: failed to read document source: %w", err)
	}
	if int64(len(data)) > fs.cfg.maxStreamSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrStreamTooLarge, fs.cfg.maxStreamSize)
	}
	return data, nil
}

func (fs *FileSystem) isMini(p *Property) bool {
	return p.Type == TypeStream && p.Size < uint64(fs.header.MiniStreamCutoff)
}

func (fs *FileSystem) storeFor(p *Property) blockStore {
	if fs.isMini(p) {
		return fs.mini
	}
	return bigStore{fs}
}

// setContents stores data for a stream, picking the mini store for data
// below the cutoff.
func (fs *FileSystem) setContents(p *Property, data []byte) error {
	start := p.StartSector
	if p.Size == 0 {
		start = EndOfChain
	}
	oldStore := fs.storeFor(p)
	useMini := uint64(len(data)) < uint64(fs.header.MiniStreamCutoff)
	if useMini != fs.isMini(p) && start != EndOfChain {
		if err := oldStore.table().FreeChain(start); err != nil {
			return err
		}
		start = EndOfChain
	}

	var store blockStore = bigStore{fs}
	if useMini {
		store = fs.mini
	}
	start, err := writeChain(store, start, data)
	if err != nil {
		return err
	}
	p.StartSector = start
	p.Size = uint64(len(data))

	fs.log.WithFields(logrus.Fields{"path": fs.pathOf(p), "size": len(data), "mini": useMini}).Debug("stored document")
	return nil
}

func (fs *FileSystem) freeContents(p *Property) error {
	if p.Size == 0 || p.StartSector == EndOfChain {
		return nil
	}
	if err := fs.storeFor(p).table().FreeChain(p.StartSector); err != nil {
		return err
	}
	p.StartSector = EndOfChain
	p.Size = 0
	return nil
}

// Lookup resolves a slash-separated path from the root. "/" and "" name the
// root itself.
func (fs *FileSystem) Lookup(path string) (Entry, error) {
	var cur Entry = fs.Root()
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		dir, ok := cur.(*DirectoryEntry)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotDirectory, cur.Path())
		}
		next, err := dir.Entry(part)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// OpenDocument opens the stream at path.
func (fs *FileSystem) OpenDocument(path string) (*DocumentInputStream, error) {
	e, err := fs.Lookup(path)
	if err != nil {
		return nil, err
	}
	doc, ok := e.(*DocumentEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDocument, path)
	}
	return doc.Open()
}

// ReadDocument reads the whole stream at path.
func (fs *FileSystem) ReadDocument(path string) ([]byte, error) {
	e, err := fs.Lookup(path)
	if err != nil {
		return nil, err
	}
	doc, ok := e.(*DocumentEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDocument, path)
	}
	return doc.Bytes()
}
