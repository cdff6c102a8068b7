package cfb

import (
	"bytes"
	"fmt"
)

// CopyEntries copies every child of src into dst, recursing into storages.
// src and dst may belong to different file systems. Names in skip are not
// copied.
func CopyEntries(src, dst *DirectoryEntry, skip ...string) error {
	excluded := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		excluded[name] = struct{}{}
	}

	entries, err := src.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, ok := excluded[e.Name()]; ok {
			continue
		}
		switch e := e.(type) {
		case *DirectoryEntry:
			sub, err := dst.CreateDirectory(e.Name())
			if err != nil {
				return fmt.Errorf("cfb: copying %s: %w", e.Path(), err)
			}
			sub.SetStorageClsid(e.StorageClsid())
			if err := CopyEntries(e, sub); err != nil {
				return err
			}
		case *DocumentEntry:
			data, err := e.Bytes()
			if err != nil {
				return fmt.Errorf("cfb: copying %s: %w", e.Path(), err)
			}
			if _, err := dst.CreateDocument(e.Name(), bytes.NewReader(data)); err != nil {
				return fmt.Errorf("cfb: copying %s: %w", e.Path(), err)
			}
		}
	}
	return nil
}

// DirectoriesEqual reports whether two storages hold the same names, class
// ids and stream contents, recursively.
func DirectoriesEqual(a, b *DirectoryEntry) (bool, error) {
	if a.StorageClsid() != b.StorageClsid() {
		return false, nil
	}
	ea, err := a.Entries()
	if err != nil {
		return false, err
	}
	eb, err := b.Entries()
	if err != nil {
		return false, err
	}
	if len(ea) != len(eb) {
		return false, nil
	}
	for i := range ea {
		if ea[i].Name() != eb[i].Name() || ea[i].IsDirectory() != eb[i].IsDirectory() {
			return false, nil
		}
		switch x := ea[i].(type) {
		case *DirectoryEntry:
			eq, err := DirectoriesEqual(x, eb[i].(*DirectoryEntry))
			if err != nil || !eq {
				return eq, err
			}
		case *DocumentEntry:
			y := eb[i].(*DocumentEntry)
			if x.Size() != y.Size() {
				return false, nil
			}
			da, err := x.Bytes()
			if err != nil {
				return false, err
			}
			db, err := y.Bytes()
			if err != nil {
				return false, err
			}
			if !bytes.Equal(da, db) {
				return false, nil
			}
		}
	}
	return true, nil
}
