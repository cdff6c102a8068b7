package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/cfb"
	"github.com/skdltmxn/ole-go/internal/compress"
)

var (
	extractCodec string
	extractDir   string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> [stream...]",
	Short: "Extract streams to files",
	Long: `Extract streams into a directory, optionally compressing each one.

Without stream arguments every stream in the document is extracted, keeping
the storage hierarchy as directories.

Supported codecs: none (default), deflate, zstd, s2, lz4.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractCodec, "codec", "c", "none", "compress extracted streams (none, deflate, zstd, s2, lz4)")
	extractCmd.Flags().StringVarP(&extractDir, "dir", "d", ".", "destination directory")
}

func runExtract(cmd *cobra.Command, args []string) error {
	t, err := compress.ParseType(extractCodec)
	if err != nil {
		return err
	}
	codec, err := compress.GetCodec(t)
	if err != nil {
		return err
	}

	f, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var docs []*cfb.DocumentEntry
	if len(args) > 1 {
		for _, p := range args[1:] {
			e, err := f.Entry(p)
			if err != nil {
				return fmt.Errorf("failed to find %s: %w", p, err)
			}
			doc, ok := e.(*cfb.DocumentEntry)
			if !ok {
				return fmt.Errorf("%s is not a stream", p)
			}
			docs = append(docs, doc)
		}
	} else {
		root, err := f.Root()
		if err != nil {
			return err
		}
		if docs, err = collectDocuments(root, docs); err != nil {
			return err
		}
	}

	for _, doc := range docs {
		data, err := doc.Bytes()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", doc.Path(), err)
		}
		packed, err := codec.Compress(data)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", doc.Path(), err)
		}

		dst := filepath.Join(extractDir, localPath(doc.Path()))
		if t != compress.None {
			dst += "." + t.String()
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, packed, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(output, "%s -> %s (%d bytes)\n", quoteName(doc.Path()), dst, len(packed))
	}
	return nil
}

func collectDocuments(dir *cfb.DirectoryEntry, docs []*cfb.DocumentEntry) ([]*cfb.DocumentEntry, error) {
	entries, err := dir.Entries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		switch e := e.(type) {
		case *cfb.DocumentEntry:
			docs = append(docs, e)
		case *cfb.DirectoryEntry:
			if docs, err = collectDocuments(e, docs); err != nil {
				return nil, err
			}
		}
	}
	return docs, nil
}

// localPath maps an entry path to a relative file path. Control characters
// are dropped and path separators inside names are replaced.
func localPath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		part = strings.Map(func(r rune) rune {
			switch {
			case r < 0x20:
				return -1
			case r == '\\' || r == ':':
				return '_'
			}
			return r
		}, part)
		if part == "" || part == "." || part == ".." {
			part = "_"
		}
		parts[i] = part
	}
	return filepath.Join(parts...)
}
