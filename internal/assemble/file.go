// Package assemble opens parquet files through the low-level columnar
// decoder and reconstructs nested rows from the per-leaf streams of
// (value, repetition level, definition level) triples it emits.
package assemble

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/fraugster/xpq/internal/schema"
)

// MetadataError reports a file whose metadata could not be read or whose
// schema is malformed. It is fatal and never retried.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("%s: reading parquet metadata failed: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// File is an open parquet file. The schema tree is built once from the file
// metadata; rows are assembled lazily, one row group at a time.
type File struct {
	path   string
	file   *os.File
	pf     *parquet.File
	root   *schema.Node
	leaves []schema.LeafColumn
}

// Open opens a local parquet file and reads its metadata.
func Open(path string) (*File, error) {
	fl, err := os.Open(path)
	if err != nil {
		return nil, &MetadataError{Path: path, Err: err}
	}

	st, err := fl.Stat()
	if err != nil {
		fl.Close()
		return nil, &MetadataError{Path: path, Err: err}
	}

	pf, err := parquet.OpenFile(fl, st.Size())
	if err != nil {
		fl.Close()
		return nil, &MetadataError{Path: path, Err: err}
	}

	root := schema.FromParquet(pf.Root())

	return &File{
		path:   path,
		file:   fl,
		pf:     pf,
		root:   root,
		leaves: root.Leaves(),
	}, nil
}

func (f *File) Close() error {
	return f.file.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Schema returns the immutable schema tree.
func (f *File) Schema() *schema.Node {
	return f.root
}

// NumRows sums the row count recorded in every row group's metadata. No
// column data is decoded; the cost is linear in the number of row groups,
// not in the number of rows.
func (f *File) NumRows() int64 {
	var total int64
	for _, rg := range f.pf.Metadata().RowGroups {
		total += rg.NumRows
	}
	return total
}

// RowGroups returns the number of row groups in the file.
func (f *File) RowGroups() int {
	return len(f.pf.RowGroups())
}
