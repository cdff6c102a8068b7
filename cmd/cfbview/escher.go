package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/ddf"
	"github.com/skdltmxn/ole-go/geom"
	"github.com/skdltmxn/ole-go/ole"
)

var (
	escherOffset int
	escherPaths  bool
)

var escherCmd = &cobra.Command{
	Use:   "escher <file> <stream>",
	Short: "Dump escher drawing records",
	Long: `Decode a stream as a run of escher drawing records and print the tree.

Use --offset when the records start part way into the stream, and --paths to
decode the geometry of every shape that carries custom vertices.`,
	Args: cobra.ExactArgs(2),
	RunE: runEscher,
}

func init() {
	escherCmd.Flags().IntVar(&escherOffset, "offset", 0, "byte offset of the first record")
	escherCmd.Flags().BoolVarP(&escherPaths, "paths", "p", false, "decode shape geometry paths")
}

func runEscher(cmd *cobra.Command, args []string) error {
	f, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var records []ddf.Record
	if escherOffset == 0 {
		records, err = f.EscherRecords(args[1], ddfOptions()...)
	} else {
		records, err = parseAt(f, args[1], escherOffset)
	}
	if err != nil {
		return err
	}
	if err := ddf.Dump(output, records); err != nil {
		return err
	}

	if escherPaths {
		return printShapePaths(records)
	}
	return nil
}

func parseAt(f *ole.File, path string, offset int) ([]ddf.Record, error) {
	data, err := f.ReadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("offset %d outside stream of %d bytes", offset, len(data))
	}
	records, err := ddf.ParseRecords(data[offset:], ddfOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	return records, nil
}

func printShapePaths(records []ddf.Record) error {
	for _, r := range ddf.FindAll(records, ddf.SpContainerID) {
		c := r.(*ddf.ContainerRecord)
		opt, _ := c.Child(ddf.OptID).(*ddf.OptRecord)
		if opt == nil {
			continue
		}
		path, err := geom.ShapePath(opt)
		if err != nil {
			return fmt.Errorf("failed to decode shape path: %w", err)
		}
		if path == nil {
			continue
		}

		shapeID := uint32(0)
		if sp, ok := c.Child(ddf.SpID).(*ddf.SpRecord); ok {
			shapeID = sp.ShapeID
		}
		fmt.Fprintf(output, "\nShape %d: %d commands\n", shapeID, len(path.Commands))
		for _, cmd := range path.Commands {
			fmt.Fprintf(output, "  %s", cmd.Type)
			if cmd.Type == geom.AngleEllipse || cmd.Type == geom.AngleEllipseTo {
				fmt.Fprintf(output, " start=%g sweep=%g", cmd.Start, cmd.Sweep)
			}
			if len(cmd.Points) > 0 {
				pts := make([]string, len(cmd.Points))
				for i, p := range cmd.Points {
					pts[i] = fmt.Sprintf("(%g,%g)", p.X, p.Y)
				}
				fmt.Fprintf(output, " %s", strings.Join(pts, " "))
			}
			fmt.Fprintln(output)
		}
	}
	return nil
}
