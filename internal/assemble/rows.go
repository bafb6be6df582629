package assemble

import (
	"errors"
	"fmt"
	"io"

	"github.com/fraugster/xpq/internal/value"
)

// RowReader streams assembled rows across all row groups of a file, in file
// order. It is not safe for concurrent use.
type RowReader struct {
	file  *File
	next  int
	limit int
	rg    int
	asm   *assembler
	seen  int64
}

// Rows returns a reader over every row of the file.
func (f *File) Rows() *RowReader {
	return &RowReader{file: f, limit: len(f.pf.RowGroups())}
}

// RowGroupRows returns a reader over the rows of a single row group. Readers
// of distinct row groups are independent and may be used concurrently.
func (f *File) RowGroupRows(idx int) *RowReader {
	return &RowReader{file: f, next: idx, limit: idx + 1}
}

// Read assembles and returns the next row. It returns io.EOF after the last
// row of the last row group.
func (r *RowReader) Read() (value.Group, error) {
	for {
		if r.asm == nil {
			if r.next >= r.limit {
				return nil, io.EOF
			}
			r.rg = r.next
			r.next++
			r.asm = r.file.openGroup(r.rg)
			r.seen = 0
		}

		row, err := r.asm.Next()
		if err == nil {
			r.seen++
			return row, nil
		}
		if !errors.Is(err, io.EOF) {
			r.closeGroup()
			return nil, &AssemblyError{RowGroup: r.rg, Err: err}
		}

		want := r.file.pf.Metadata().RowGroups[r.rg].NumRows
		seen := r.seen
		r.closeGroup()
		if seen != want {
			return nil, &AssemblyError{
				RowGroup: r.rg,
				Err:      fmt.Errorf("assembled %d rows, metadata declares %d", seen, want),
			}
		}
	}
}

// Close releases the resources of the row group currently being read.
func (r *RowReader) Close() error {
	return r.closeGroup()
}

// openGroup builds an assembler over the column chunks of one row group.
func (f *File) openGroup(idx int) *assembler {
	rg := f.pf.RowGroups()[idx]
	sources := make([]levelSource, len(f.leaves))
	for i, chunk := range rg.ColumnChunks() {
		sources[i] = newPageSource(chunk.Pages())
	}
	return newAssembler(f.root, sources)
}

func (r *RowReader) closeGroup() error {
	if r.asm == nil {
		return nil
	}
	err := r.asm.Close()
	r.asm = nil
	return err
}
