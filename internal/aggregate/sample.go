// Package aggregate implements the row-level analyses that consume assembled
// rows: reservoir sampling and per-column value frequency tabulation.
package aggregate

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/fraugster/xpq/internal/value"
)

// InvalidSampleSizeError reports a negative sample size.
type InvalidSampleSizeError struct {
	Size int
}

func (e *InvalidSampleSizeError) Error() string {
	return fmt.Sprintf("invalid sample size %d: must not be negative", e.Size)
}

// RowSource yields assembled rows and io.EOF at the end. assemble.RowReader
// satisfies it.
type RowSource interface {
	Read() (value.Group, error)
}

// Reservoir holds a uniform random sample of at most k rows out of a stream
// of unknown length, using Vitter's algorithm R. The selection is driven by
// a caller-provided seed, so the same seed over the same stream always
// selects the same rows.
type Reservoir struct {
	k    int
	rng  *rand.Rand
	rows []value.Group
	seen int64
}

// NewReservoir returns a reservoir for at most size rows.
func NewReservoir(size int, seed int64) (*Reservoir, error) {
	if size < 0 {
		return nil, &InvalidSampleSizeError{Size: size}
	}
	return &Reservoir{
		k:   size,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Add offers one row to the reservoir.
func (r *Reservoir) Add(row value.Group) {
	r.seen++
	if r.k == 0 {
		return
	}
	if len(r.rows) < r.k {
		r.rows = append(r.rows, row)
		return
	}
	if j := r.rng.Int63n(r.seen); j < int64(r.k) {
		r.rows[j] = row
	}
}

// Rows returns the sampled rows. When fewer rows were offered than the
// reservoir holds, all of them are returned. Order is not meaningful.
func (r *Reservoir) Rows() []value.Group {
	return r.rows
}

// Seen returns how many rows were offered.
func (r *Reservoir) Seen() int64 {
	return r.seen
}

// Sample drains src through a reservoir of the given size.
func Sample(src RowSource, size int, seed int64) ([]value.Group, error) {
	res, err := NewReservoir(size, seed)
	if err != nil {
		return nil, err
	}
	for {
		row, err := src.Read()
		if errors.Is(err, io.EOF) {
			return res.Rows(), nil
		}
		if err != nil {
			return nil, err
		}
		res.Add(row)
	}
}
