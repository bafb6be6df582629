package output

import (
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

const defaultBatchSize = 500

// Table renders rows as a padded text table. Column widths are measured over
// the first batch of rows; later cells wider than the measured width are
// truncated with an ellipsis so a few oversized values cannot blow up the
// layout of a long listing.
type Table struct {
	tw     *tabwriter.Writer
	widths []int
	max    int
	batch  int
	rows   int
	err    error
}

// NewTable returns a table writer with the headers as its first row.
func NewTable(out io.Writer, headers []string) *Table {
	t := &Table{
		tw:     tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
		widths: make([]int, len(headers)),
		batch:  defaultBatchSize,
	}
	t.err = t.writeRow(headers)
	return t
}

// MaxCellWidth caps every column at n display runes. Zero means no cap.
func (t *Table) MaxCellWidth(n int) *Table {
	t.max = n
	return t
}

func (t *Table) Write(cells []string) error {
	if t.err != nil {
		return t.err
	}
	t.err = t.writeRow(cells)
	if t.err == nil && t.rows%t.batch == 0 {
		t.err = t.tw.Flush()
	}
	return t.err
}

func (t *Table) writeRow(cells []string) error {
	formatted := make([]string, len(cells))
	for i, cell := range cells {
		formatted[i] = t.formatCell(i, cell)
	}
	t.rows++
	_, err := io.WriteString(t.tw, strings.Join(formatted, "\t")+"\n")
	return err
}

// formatCell measures widths while inside the first batch and pads or
// truncates afterwards, keeping a closing quote on truncated quoted cells.
func (t *Table) formatCell(col int, cell string) string {
	length := utf8.RuneCountInString(cell)

	if t.rows < t.batch {
		if col < len(t.widths) && length > t.widths[col] {
			t.widths[col] = length
		}
		if t.max > 0 && length > t.max {
			return truncateCell(cell, t.max)
		}
		return cell
	}

	width := t.max
	if col < len(t.widths) && (width == 0 || t.widths[col] < width) {
		width = t.widths[col]
	}
	switch {
	case width == 0 || length == width:
		return cell
	case length < width:
		return cell + strings.Repeat(" ", width-length)
	default:
		return truncateCell(cell, width)
	}
}

func truncateCell(cell string, width int) string {
	ellipsis := "..."
	if strings.HasPrefix(cell, `"`) {
		ellipsis = `..."`
	}
	take := width - len(ellipsis)
	if take < 0 {
		take = 0
	}
	runes := []rune(cell)
	return string(runes[:take]) + ellipsis
}

func (t *Table) Flush() error {
	if t.err != nil {
		return t.err
	}
	t.err = t.tw.Flush()
	return t.err
}
