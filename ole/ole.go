// Package ole ties the compound file container to the codecs that read its
// well-known streams: property sets, escher drawing records and formulas.
package ole

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/skdltmxn/ole-go/cfb"
	"github.com/skdltmxn/ole-go/ddf"
	"github.com/skdltmxn/ole-go/formula"
	"github.com/skdltmxn/ole-go/hpsf"
)

// File is an opened compound document.
// It is safe for concurrent read access after opening.
type File struct {
	fs     *cfb.FileSystem
	closed bool
	mu     sync.RWMutex

	// Lazy-loaded property sets
	summary     *hpsf.SummaryInformation
	summaryOnce sync.Once
	summaryErr  error

	docSummary     *hpsf.DocumentSummaryInformation
	docSummaryOnce sync.Once
	docSummaryErr  error
}

// Open opens a compound document from the given path.
func Open(path string, opts ...cfb.Option) (*File, error) {
	fs, err := cfb.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("ole: failed to open file: %w", err)
	}
	return &File{fs: fs}, nil
}

// OpenReader opens a compound document from an io.ReaderAt.
func OpenReader(r io.ReaderAt, size int64, opts ...cfb.Option) (*File, error) {
	fs, err := cfb.NewFileSystem(r, size, opts...)
	if err != nil {
		return nil, fmt.Errorf("ole: failed to open file: %w", err)
	}
	return &File{fs: fs}, nil
}

// New creates an empty document.
func New(opts ...cfb.Option) (*File, error) {
	fs, err := cfb.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ole: failed to create file: %w", err)
	}
	return &File{fs: fs}, nil
}

// Close releases resources associated with the document.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	f.closed = true
	return f.fs.Close()
}

func (f *File) checkOpen() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrFileClosed
	}
	return nil
}

// FileSystem returns the underlying container.
func (f *File) FileSystem() *cfb.FileSystem {
	return f.fs
}

// Root returns the root storage.
func (f *File) Root() (*cfb.DirectoryEntry, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	return f.fs.Root(), nil
}

// Entry resolves a slash-separated path from the root.
func (f *File) Entry(path string) (cfb.Entry, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	return f.fs.Lookup(path)
}

// OpenDocument opens the stream at path.
func (f *File) OpenDocument(path string) (*cfb.DocumentInputStream, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	return f.fs.OpenDocument(path)
}

// ReadDocument reads the whole stream at path.
func (f *File) ReadDocument(path string) ([]byte, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	return f.fs.ReadDocument(path)
}

// SummaryInformation returns the "\x05SummaryInformation" property set.
// ErrNoPropertySet is returned when the stream is absent.
func (f *File) SummaryInformation() (*hpsf.SummaryInformation, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	f.summaryOnce.Do(func() {
		ps, err := f.readPropertySet(hpsf.SummaryInformationName)
		if err != nil {
			f.summaryErr = err
			return
		}
		f.summary, f.summaryErr = hpsf.AsSummaryInformation(ps)
	})

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summary, nil
}

// DocumentSummaryInformation returns the "\x05DocumentSummaryInformation"
// property set. ErrNoPropertySet is returned when the stream is absent.
func (f *File) DocumentSummaryInformation() (*hpsf.DocumentSummaryInformation, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	f.docSummaryOnce.Do(func() {
		ps, err := f.readPropertySet(hpsf.DocumentSummaryInformationName)
		if err != nil {
			f.docSummaryErr = err
			return
		}
		f.docSummary, f.docSummaryErr = hpsf.AsDocumentSummaryInformation(ps)
	})

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.docSummaryErr != nil {
		return nil, f.docSummaryErr
	}
	return f.docSummary, nil
}

// SetSummaryInformation replaces the summary property set. It is written on
// the next Save.
func (f *File) SetSummaryInformation(si *hpsf.SummaryInformation) {
	f.summaryOnce.Do(func() {})
	f.mu.Lock()
	f.summary, f.summaryErr = si, nil
	f.mu.Unlock()
}

// SetDocumentSummaryInformation replaces the document summary property set.
// It is written on the next Save.
func (f *File) SetDocumentSummaryInformation(dsi *hpsf.DocumentSummaryInformation) {
	f.docSummaryOnce.Do(func() {})
	f.mu.Lock()
	f.docSummary, f.docSummaryErr = dsi, nil
	f.mu.Unlock()
}

func (f *File) readPropertySet(name string) (*hpsf.PropertySet, error) {
	data, err := f.fs.ReadDocument(name)
	if errors.Is(err, cfb.ErrEntryNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNoPropertySet, name)
	}
	if err != nil {
		return nil, fmt.Errorf("ole: failed to read %q: %w", name, err)
	}
	return hpsf.Read(data)
}

// EscherRecords decodes the stream at path as a run of escher records.
func (f *File) EscherRecords(path string, opts ...ddf.Option) ([]ddf.Record, error) {
	data, err := f.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	records, err := ddf.ParseRecords(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("ole: failed to parse escher records in %q: %w", path, err)
	}
	return records, nil
}

// Formula decodes a length-prefixed formula token block. Bytes after the
// formula are ignored.
func (f *File) Formula(data []byte) (*formula.Formula, error) {
	fm, _, err := formula.ParseFormula(data)
	if err != nil {
		return nil, fmt.Errorf("ole: failed to parse formula: %w", err)
	}
	return fm, nil
}

// Save writes the document to w. Property sets that were loaded or replaced
// are written back to their streams first.
func (f *File) Save(w io.Writer) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	if err := f.flushPropertySets(); err != nil {
		return err
	}
	if _, err := f.fs.WriteTo(w); err != nil {
		return fmt.Errorf("ole: failed to save: %w", err)
	}
	return nil
}

// SaveFile writes the document to path.
func (f *File) SaveFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ole: failed to create file: %w", err)
	}
	if err := f.Save(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type namedSet struct {
	name string
	ps   *hpsf.PropertySet
}

func (f *File) flushPropertySets() error {
	f.mu.RLock()
	var sets []namedSet
	if f.summary != nil {
		sets = append(sets, namedSet{hpsf.SummaryInformationName, f.summary.PropertySet})
	}
	if f.docSummary != nil {
		sets = append(sets, namedSet{hpsf.DocumentSummaryInformationName, f.docSummary.PropertySet})
	}
	f.mu.RUnlock()

	root := f.fs.Root()
	for _, s := range sets {
		data, err := s.ps.MarshalBinary()
		if err != nil {
			return fmt.Errorf("ole: failed to encode %q: %w", s.name, err)
		}
		if _, err := root.CreateOrUpdateDocument(s.name, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("ole: failed to write %q: %w", s.name, err)
		}
	}
	return nil
}
