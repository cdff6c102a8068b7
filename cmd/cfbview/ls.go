package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/cfb"
)

var (
	lsLong      bool
	lsRecursive bool
)

var lsCmd = &cobra.Command{
	Use:   "ls <file> [storage]",
	Short: "List entries in a storage",
	Long: `List the streams and storages below a storage path (default: the root).

Use --recursive to descend into child storages and --long to show class ids
and timestamps.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "show class ids and timestamps")
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "list child storages recursively")
}

func runLs(cmd *cobra.Command, args []string) error {
	f, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	path := "/"
	if len(args) > 1 {
		path = args[1]
	}
	e, err := f.Entry(path)
	if err != nil {
		return fmt.Errorf("failed to find %s: %w", path, err)
	}
	dir, ok := e.(*cfb.DirectoryEntry)
	if !ok {
		printEntry(e, 0)
		return nil
	}

	return listDirectory(dir, 0)
}

func listDirectory(dir *cfb.DirectoryEntry, depth int) error {
	entries, err := dir.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		printEntry(e, depth)
		if child, ok := e.(*cfb.DirectoryEntry); ok && lsRecursive {
			if err := listDirectory(child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func printEntry(e cfb.Entry, depth int) {
	indent := strings.Repeat("  ", depth)
	p := e.Property()

	kind := "D"
	if e.IsDocument() {
		kind = "-"
	}
	fmt.Fprintf(output, "%s %s%-32s %10d", kind, indent, quoteName(e.Name()), p.Size)
	if lsLong {
		fmt.Fprintf(output, "  %s", p.CLSID)
		if p.Modified.Low != 0 || p.Modified.High != 0 {
			fmt.Fprintf(output, "  %s", p.Modified.Time().UTC().Format("2006-01-02 15:04:05"))
		}
	}
	fmt.Fprintln(output)
}

// quoteName makes control characters such as the \x05 prefix of property
// set streams visible.
func quoteName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 {
			fmt.Fprintf(&b, "\\x%02X", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
