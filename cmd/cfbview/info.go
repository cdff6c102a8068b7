package main

import (
	"errors"
	"fmt"

	"github.com/richardlehane/msoleps/types"
	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/ole"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display compound document information",
	Long:  `Display the header, directory statistics and summary properties of a compound document.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := openDocument(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fs := f.FileSystem()
	h := fs.Header()

	fmt.Fprintf(output, "File: %s\n", path)
	fmt.Fprintf(output, "Version: %d.%d\n", h.MajorVersion, h.MinorVersion)
	fmt.Fprintf(output, "Block Size: %d\n", fs.BlockSize())
	fmt.Fprintf(output, "Mini Stream Cutoff: %d\n", h.MiniStreamCutoff)
	fmt.Fprintf(output, "FAT Sectors: %d\n", h.NumFATSectors)
	fmt.Fprintf(output, "DIFAT Sectors: %d\n", h.NumDIFATSectors)
	fmt.Fprintf(output, "Directory Entries: %d\n", fs.Properties().Len())

	root, err := f.Root()
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Root CLSID: %s\n", root.StorageClsid())
	fmt.Fprintf(output, "Header CLSID: %s\n", types.MustGuid(h.CLSID[:]))

	si, err := f.SummaryInformation()
	switch {
	case errors.Is(err, ole.ErrNoPropertySet):
		return nil
	case err != nil:
		fmt.Fprintf(output, "Warning: could not read summary information: %v\n", err)
		return nil
	}
	if v := si.Title(); v != "" {
		fmt.Fprintf(output, "Title: %s\n", v)
	}
	if v := si.Author(); v != "" {
		fmt.Fprintf(output, "Author: %s\n", v)
	}
	if v := si.ApplicationName(); v != "" {
		fmt.Fprintf(output, "Application: %s\n", v)
	}
	return nil
}
