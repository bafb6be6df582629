package output

import (
	"encoding/csv"
	"io"
)

// CSV renders rows as RFC 4180 records, headers first.
type CSV struct {
	cw  *csv.Writer
	err error
}

func NewCSV(out io.Writer, headers []string) *CSV {
	c := &CSV{cw: csv.NewWriter(out)}
	c.err = c.cw.Write(headers)
	return c
}

func (c *CSV) Write(cells []string) error {
	if c.err != nil {
		return c.err
	}
	c.err = c.cw.Write(cells)
	return c.err
}

func (c *CSV) Flush() error {
	if c.err != nil {
		return c.err
	}
	c.cw.Flush()
	c.err = c.cw.Error()
	return c.err
}
