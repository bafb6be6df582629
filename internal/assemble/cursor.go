package assemble

import (
	"errors"
	"io"

	"github.com/parquet-go/parquet-go"
)

// levelSource yields one leaf column's values for a single row group, in
// storage order. Each value carries its repetition and definition level.
// Next returns io.EOF when the column chunk is exhausted.
type levelSource interface {
	Next() (parquet.Value, error)
	Close() error
}

// pageSource streams a column chunk page by page. Only one page is held at a
// time; it is released as soon as its values are consumed.
type pageSource struct {
	pages  parquet.Pages
	page   parquet.Page
	values parquet.ValueReader
	buf    []parquet.Value
	pos    int
	n      int
}

func newPageSource(pages parquet.Pages) *pageSource {
	return &pageSource{
		pages: pages,
		buf:   make([]parquet.Value, 128),
	}
}

func (s *pageSource) Next() (parquet.Value, error) {
	for s.pos >= s.n {
		if err := s.fill(); err != nil {
			return parquet.Value{}, err
		}
	}
	v := s.buf[s.pos]
	s.pos++
	return v, nil
}

func (s *pageSource) fill() error {
	if s.values != nil {
		n, err := s.values.ReadValues(s.buf)
		s.pos, s.n = 0, n
		if n > 0 {
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		s.values = nil
	}

	s.release()
	p, err := s.pages.ReadPage()
	if err != nil {
		return err
	}
	s.page = p
	s.values = p.Values()
	return nil
}

func (s *pageSource) release() {
	if s.page != nil {
		parquet.Release(s.page)
		s.page = nil
	}
}

func (s *pageSource) Close() error {
	s.release()
	s.values = nil
	return s.pages.Close()
}

// cursor adds single-value lookahead on top of a levelSource. The assembler
// peeks at repetition and definition levels to decide how deep the next
// value nests before consuming it.
type cursor struct {
	src    levelSource
	cur    parquet.Value
	loaded bool
	err    error
}

func newCursor(src levelSource) *cursor {
	return &cursor{src: src}
}

// peek returns the next value without consuming it. ok is false once the
// source is exhausted.
func (c *cursor) peek() (v parquet.Value, ok bool, err error) {
	if c.err != nil {
		if errors.Is(c.err, io.EOF) {
			return parquet.Value{}, false, nil
		}
		return parquet.Value{}, false, c.err
	}
	if !c.loaded {
		c.cur, c.err = c.src.Next()
		if c.err != nil {
			return c.peek()
		}
		c.loaded = true
	}
	return c.cur, true, nil
}

// take consumes and returns the next value.
func (c *cursor) take() (parquet.Value, bool, error) {
	v, ok, err := c.peek()
	c.loaded = false
	return v, ok, err
}

func (c *cursor) Close() error {
	return c.src.Close()
}
