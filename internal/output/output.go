// Package output renders rows of display cells as aligned tables, CSV or
// vertical field blocks.
package output

import (
	"fmt"
	"io"
)

// Format selects how rows are rendered.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatVertical Format = "vertical"
)

// Formats lists the accepted format names.
func Formats() []string {
	return []string{"table", "csv", "v", "vertical"}
}

// ParseFormat resolves a format name. "v" is shorthand for vertical.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "v", "vertical":
		return FormatVertical, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Writer renders one row of cells at a time. Flush must be called once after
// the last row.
type Writer interface {
	Write(cells []string) error
	Flush() error
}

// NewWriter returns a writer for the given format. The headers row is
// rendered immediately by table and CSV writers and used as field labels by
// the vertical writer.
func NewWriter(out io.Writer, format Format, headers []string) Writer {
	switch format {
	case FormatCSV:
		return NewCSV(out, headers)
	case FormatVertical:
		return NewVertical(out, headers)
	default:
		return NewTable(out, headers)
	}
}
