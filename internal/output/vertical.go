package output

import (
	"fmt"
	"io"
)

// Vertical renders each row as a block of "LABEL:  value" lines, one line
// per column, with a blank line before every block. Labels are the headers,
// padded so the values align.
type Vertical struct {
	out    io.Writer
	labels []string
	err    error
}

func NewVertical(out io.Writer, headers []string) *Vertical {
	width := 0
	for _, h := range headers {
		if len(h) > width {
			width = len(h)
		}
	}
	labels := make([]string, len(headers))
	for i, h := range headers {
		labels[i] = fmt.Sprintf("%-*s", width+1, h+":")
	}
	return &Vertical{out: out, labels: labels}
}

func (v *Vertical) Write(cells []string) error {
	if v.err != nil {
		return v.err
	}
	if _, err := fmt.Fprintln(v.out); err != nil {
		v.err = err
		return err
	}
	for i, cell := range cells {
		label := ""
		if i < len(v.labels) {
			label = v.labels[i]
		}
		if _, err := fmt.Fprintf(v.out, "%s  %s\n", label, cell); err != nil {
			v.err = err
			return err
		}
	}
	return nil
}

func (v *Vertical) Flush() error {
	return v.err
}
