package cmds

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/fraugster/xpq/internal/config"
	"github.com/fraugster/xpq/internal/output"
	"github.com/fraugster/xpq/internal/schema"
	"github.com/fraugster/xpq/internal/value"
)

// column is one selected leaf column: its display header and the component
// names to follow through assembled rows.
type column struct {
	header string
	parts  []string
}

// selectColumns resolves the requested column paths, which may name groups
// as well as leaves. When none are requested, every top-level field is
// selected, mirroring the layout of the schema.
func selectColumns(root *schema.Node, names []string) ([]column, error) {
	if len(names) == 0 {
		cols := make([]column, 0, len(root.Children))
		for _, c := range root.Children {
			cols = append(cols, column{header: c.Name, parts: []string{c.Name}})
		}
		return cols, nil
	}

	cols := make([]column, 0, len(names))
	for _, name := range names {
		parts, _, ok := root.RowPath(name)
		if !ok {
			return nil, fmt.Errorf("column %q does not exist", name)
		}
		cols = append(cols, column{header: name, parts: parts})
	}
	return cols, nil
}

func columnHeaders(cols []column) []string {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	return headers
}

// rowCells renders one assembled row into one display cell per column.
func rowCells(row value.Group, cols []column) []string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = value.Format(resolve(row, c.parts))
	}
	return cells
}

// resolve walks a row along a column path. A repeated ancestor turns the
// remainder into a list of resolved values; a collapsed optional ancestor
// resolves to null.
func resolve(v value.Value, parts []string) value.Value {
	if len(parts) == 0 {
		return v
	}
	switch t := v.(type) {
	case value.Group:
		sub, ok := t.Get(parts[0])
		if !ok {
			return value.Null{}
		}
		return resolve(sub, parts[1:])
	case value.List:
		out := make(value.List, len(t))
		for i, el := range t {
			out[i] = resolve(el, parts)
		}
		return out
	default:
		return value.Null{}
	}
}

// newRowWriter builds the output writer for row-shaped results, capping
// table cells at the configured width or, failing that, at a share of the
// terminal width.
func newRowWriter(out io.Writer, format output.Format, headers []string, cfg *config.Config) output.Writer {
	w := output.NewWriter(out, format, headers)
	t, ok := w.(*output.Table)
	if !ok {
		return w
	}

	max := cfg.Output.MaxCellWidth
	if max == 0 {
		max = terminalCellWidth(out, len(headers))
	}
	if max > 0 {
		t.MaxCellWidth(max)
	}
	return w
}

// terminalCellWidth divides the terminal width evenly among the columns
// when stdout is a terminal. Piped output stays untruncated.
func terminalCellWidth(out io.Writer, columns int) int {
	f, ok := out.(*os.File)
	if !ok || columns == 0 {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}

	cell := (width - 2*(columns-1)) / columns
	if cell < 8 {
		return 8
	}
	return cell
}
