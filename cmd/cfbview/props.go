package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/hpsf"
	"github.com/skdltmxn/ole-go/ole"
)

var propsStreams []string

var propsCmd = &cobra.Command{
	Use:   "props <file>",
	Short: "Display property set streams",
	Long: `Decode and print property set streams.

By default the summary and document summary information streams are shown,
including user-defined custom properties. Use --stream to decode any other
property set stream by path.`,
	Args: cobra.ExactArgs(1),
	RunE: runProps,
}

func init() {
	propsCmd.Flags().StringSliceVarP(&propsStreams, "stream", "s", nil, "property set stream path (repeatable)")
}

func runProps(cmd *cobra.Command, args []string) error {
	f, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if len(propsStreams) > 0 {
		for _, p := range propsStreams {
			data, err := f.ReadDocument(p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			ps, err := hpsf.Read(data)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", p, err)
			}
			printPropertySet(quoteName(p), ps)
		}
		return nil
	}

	si, err := f.SummaryInformation()
	switch {
	case err == nil:
		printPropertySet("SummaryInformation", si.PropertySet)
	case !errors.Is(err, ole.ErrNoPropertySet):
		return err
	}

	dsi, err := f.DocumentSummaryInformation()
	switch {
	case err == nil:
		printPropertySet("DocumentSummaryInformation", dsi.PropertySet)
		if cp := dsi.CustomProperties(); cp != nil && cp.Len() > 0 {
			fmt.Fprintf(output, "\nCustom properties (pure=%t):\n", cp.IsPure())
			for _, p := range cp.Properties() {
				fmt.Fprintf(output, "  %-24s %-12s %s\n", p.Name, p.Type, formatValue(p.Value))
			}
		}
	case !errors.Is(err, ole.ErrNoPropertySet):
		return err
	}
	return nil
}

func printPropertySet(title string, ps *hpsf.PropertySet) {
	fmt.Fprintf(output, "%s\n", title)
	fmt.Fprintf(output, "  OS Version: 0x%08X\n", ps.OSVersion)
	fmt.Fprintf(output, "  Class ID: %s\n", ps.ClassID)

	for i, s := range ps.Sections {
		fmt.Fprintf(output, "  Section %d: %s\n", i, s.FormatID)
		if cp := s.Codepage(); cp >= 0 {
			fmt.Fprintf(output, "    Codepage: %d\n", cp)
		}
		for _, p := range s.Properties() {
			if p.ID == hpsf.PIDCodepage {
				continue
			}
			fmt.Fprintf(output, "    %-24s %-12s %s\n", s.PropertyName(p.ID), p.Type, formatValue(p.Value))
		}
		if dict := s.Dictionary(); len(dict) > 0 {
			fmt.Fprintf(output, "    Dictionary: %d entries\n", len(dict))
		}
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		return formatBytes(v)
	case hpsf.RawValue:
		return formatBytes(v)
	case hpsf.ClipboardData:
		return fmt.Sprintf("clipboard format=%d %s", v.Format, formatBytes(v.Data))
	default:
		return fmt.Sprint(v)
	}
}

func formatBytes(b []byte) string {
	const limit = 32
	if len(b) > limit {
		return fmt.Sprintf("%d bytes %s...", len(b), hex.EncodeToString(b[:limit]))
	}
	return fmt.Sprintf("%d bytes %s", len(b), hex.EncodeToString(b))
}
