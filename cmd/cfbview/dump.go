package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/cfb"
	"github.com/skdltmxn/ole-go/hpsf"
	"github.com/skdltmxn/ole-go/ole"
)

var (
	dumpFormat string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Dump all document information",
	Long: `Dump the header, directory tree and property sets of a compound
document in structured format.

Supported formats:
  - text: Human-readable text (default)
  - json: JSON format`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text, json)")
}

type DocumentDump struct {
	File       string         `json:"file"`
	Header     *HeaderDump    `json:"header"`
	Entries    []EntryDump    `json:"entries"`
	Properties []PropertyDump `json:"properties,omitempty"`
}

type HeaderDump struct {
	MajorVersion     uint16 `json:"major_version"`
	MinorVersion     uint16 `json:"minor_version"`
	BlockSize        int    `json:"block_size"`
	MiniStreamCutoff uint32 `json:"mini_stream_cutoff"`
	FATSectors       uint32 `json:"fat_sectors"`
	DIFATSectors     uint32 `json:"difat_sectors"`
	MiniFATSectors   uint32 `json:"mini_fat_sectors"`
}

type EntryDump struct {
	Path        string     `json:"path"`
	Type        string     `json:"type"`
	Size        uint64     `json:"size"`
	CLSID       string     `json:"clsid,omitempty"`
	StartSector uint32     `json:"start_sector"`
	Created     *time.Time `json:"created,omitempty"`
	Modified    *time.Time `json:"modified,omitempty"`
}

type PropertyDump struct {
	Stream  string `json:"stream"`
	Section string `json:"section"`
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value"`
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := openDocument(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dump, err := collectDump(f, path)
	if err != nil {
		return err
	}

	switch dumpFormat {
	case "json":
		enc := json.NewEncoder(output)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	case "text":
		return dumpText(dump)
	default:
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}
}

func collectDump(f *ole.File, path string) (*DocumentDump, error) {
	fs := f.FileSystem()
	h := fs.Header()
	dump := &DocumentDump{
		File: path,
		Header: &HeaderDump{
			MajorVersion:     h.MajorVersion,
			MinorVersion:     h.MinorVersion,
			BlockSize:        fs.BlockSize(),
			MiniStreamCutoff: h.MiniStreamCutoff,
			FATSectors:       h.NumFATSectors,
			DIFATSectors:     h.NumDIFATSectors,
			MiniFATSectors:   h.NumMiniFATSectors,
		},
	}

	root, err := f.Root()
	if err != nil {
		return nil, err
	}
	dump.Entries = append(dump.Entries, entryDump(root))
	if dump.Entries, err = walkEntries(root, dump.Entries); err != nil {
		return nil, err
	}

	for _, name := range []string{hpsf.SummaryInformationName, hpsf.DocumentSummaryInformationName} {
		data, err := f.ReadDocument(name)
		if errors.Is(err, cfb.ErrEntryNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		ps, err := hpsf.Read(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", quoteName(name), err)
		}
		for _, s := range ps.Sections {
			for _, p := range s.Properties() {
				dump.Properties = append(dump.Properties, PropertyDump{
					Stream:  quoteName(name),
					Section: s.FormatID.String(),
					ID:      p.ID,
					Name:    s.PropertyName(p.ID),
					Type:    p.Type.String(),
					Value:   formatValue(p.Value),
				})
			}
		}
	}
	return dump, nil
}

func walkEntries(dir *cfb.DirectoryEntry, out []EntryDump) ([]EntryDump, error) {
	entries, err := dir.Entries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		out = append(out, entryDump(e))
		if child, ok := e.(*cfb.DirectoryEntry); ok {
			if out, err = walkEntries(child, out); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func entryDump(e cfb.Entry) EntryDump {
	p := e.Property()
	d := EntryDump{
		Path:        quoteName(e.Path()),
		Type:        p.Type.String(),
		Size:        p.Size,
		StartSector: p.StartSector,
	}
	if p.IsDirectory() {
		d.CLSID = p.CLSID.String()
	}
	if p.Created.Low != 0 || p.Created.High != 0 {
		t := p.Created.Time().UTC()
		d.Created = &t
	}
	if p.Modified.Low != 0 || p.Modified.High != 0 {
		t := p.Modified.Time().UTC()
		d.Modified = &t
	}
	return d
}

func dumpText(dump *DocumentDump) error {
	fmt.Fprintf(output, "=== Document: %s ===\n\n", dump.File)

	h := dump.Header
	fmt.Fprintf(output, "=== Header ===\n")
	fmt.Fprintf(output, "Version: %d.%d\n", h.MajorVersion, h.MinorVersion)
	fmt.Fprintf(output, "Block Size: %d\n", h.BlockSize)
	fmt.Fprintf(output, "Mini Stream Cutoff: %d\n", h.MiniStreamCutoff)
	fmt.Fprintf(output, "FAT/DIFAT/MiniFAT Sectors: %d/%d/%d\n\n", h.FATSectors, h.DIFATSectors, h.MiniFATSectors)

	fmt.Fprintf(output, "=== Entries (%d) ===\n", len(dump.Entries))
	for _, e := range dump.Entries {
		fmt.Fprintf(output, "%-8s %10d  start=%-10d %s\n", e.Type, e.Size, e.StartSector, e.Path)
	}

	if len(dump.Properties) > 0 {
		fmt.Fprintf(output, "\n=== Properties (%d) ===\n", len(dump.Properties))
		for _, p := range dump.Properties {
			fmt.Fprintf(output, "%s  %-24s %-12s %s\n", p.Stream, p.Name, p.Type, p.Value)
		}
	}
	return nil
}
