package ddf

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented description of a record tree to w.
func Dump(w io.Writer, records []Record) error {
	var err error
	Walk(records, func(r Record, depth int) bool {
		if err != nil {
			return false
		}
		err = dumpRecord(w, r, depth)
		return err == nil
	})
	return err
}

func dumpRecord(w io.Writer, r Record, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s (0x%04X) ver=0x%X inst=0x%03X size=%d\n",
		indent, r.Name(), r.RecordID(), r.Version(), r.Instance(), r.RecordSize()); err != nil {
		return err
	}

	var lines []string
	switch rec := r.(type) {
	case *OptRecord:
		for _, p := range rec.Properties() {
			lines = append(lines, propertyLine(p))
		}
	case *SpRecord:
		lines = append(lines, fmt.Sprintf("shapeId=%d flags=0x%04X", rec.ShapeID, rec.Flags))
	case *SpgrRecord:
		lines = append(lines, fmt.Sprintf("rect=(%d,%d)-(%d,%d)", rec.X1, rec.Y1, rec.X2, rec.Y2))
	case *DgRecord:
		lines = append(lines, fmt.Sprintf("shapes=%d lastShapeId=%d", rec.NumShapes, rec.LastShapeID))
	case *DggRecord:
		lines = append(lines, fmt.Sprintf("shapeIdMax=%d clusters=%d shapesSaved=%d drawingsSaved=%d",
			rec.ShapeIDMax, len(rec.Clusters), rec.NumShapesSaved, rec.NumDrawingsSaved))
		for i, c := range rec.Clusters {
			lines = append(lines, fmt.Sprintf("cluster %d: drawing=%d used=%d", i, c.DrawingGroupID, c.NumShapeIDsUsed))
		}
	case *ClientAnchorRecord:
		if rec.Short {
			lines = append(lines, fmt.Sprintf("flag=%d col1=%d dx1=%d row1=%d (short)", rec.Flag, rec.Col1, rec.Dx1, rec.Row1))
		} else {
			lines = append(lines, fmt.Sprintf("flag=%d col1=%d dx1=%d row1=%d dy1=%d col2=%d dx2=%d row2=%d dy2=%d",
				rec.Flag, rec.Col1, rec.Dx1, rec.Row1, rec.Dy1, rec.Col2, rec.Dx2, rec.Row2, rec.Dy2))
		}
	case *ChildAnchorRecord:
		lines = append(lines, fmt.Sprintf("rect=(%d,%d)-(%d,%d)", rec.Dx1, rec.Dy1, rec.Dx2, rec.Dy2))
	case *BSERecord:
		lines = append(lines, fmt.Sprintf("win32=0x%02X mac=0x%02X uid=%X size=%d ref=%d offset=%d",
			rec.BlipTypeWin32, rec.BlipTypeMacOS, rec.UID, rec.Size, rec.Ref, rec.DelayOffset))
	case *MetafileBlipRecord:
		lines = append(lines, fmt.Sprintf("uid=%X cacheSize=%d stored=%d compression=0x%02X",
			rec.PrimaryUID, rec.CacheSize, len(rec.Data), rec.CompressionFlag))
	case *BitmapBlipRecord:
		lines = append(lines, fmt.Sprintf("uid=%X marker=0x%02X data=%d bytes", rec.PrimaryUID, rec.Marker, len(rec.Data)))
	case *SplitMenuColorsRecord:
		lines = append(lines, fmt.Sprintf("colors=%08X %08X %08X %08X", rec.Colors[0], rec.Colors[1], rec.Colors[2], rec.Colors[3]))
	case *UnknownRecord:
		if rec.ChildRecords() == nil {
			lines = append(lines, fmt.Sprintf("data=%d bytes", len(rec.Data)))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s  %s\n", indent, line); err != nil {
			return err
		}
	}
	return nil
}

func propertyLine(p Property) string {
	if s, ok := p.(fmt.Stringer); ok {
		line := s.String()
		if p.IsBlipID() {
			line += " (blip)"
		}
		return line
	}
	return fmt.Sprintf("%s (%d)", p.Name(), p.Number())
}
