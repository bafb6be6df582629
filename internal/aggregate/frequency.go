package aggregate

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fraugster/xpq/internal/assemble"
	"github.com/fraugster/xpq/internal/schema"
	"github.com/fraugster/xpq/internal/value"
)

// InvalidColumnError reports a frequency target that does not name a leaf
// column of the schema.
type InvalidColumnError struct {
	Path   string
	Reason string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid column %q: %s", e.Path, e.Reason)
}

// Entry is one distinct column value together with its occurrence count.
// The value is rendered without quoting so entries sort by their natural
// text.
type Entry struct {
	Value string
	Count int64
}

// counter tabulates one leaf column over a row stream. The parts slice is
// the path through assembled rows, which differs from the schema path
// wherever a LIST wrapper group was flattened away.
type counter struct {
	parts  []string
	counts map[string]int64
}

// newCounter validates path against the schema and returns a counter for
// it. Paths are matched case-insensitively; the path must exist and must
// name a leaf.
func newCounter(root *schema.Node, path string) (*counter, error) {
	parts, err := leafParts(root, path)
	if err != nil {
		return nil, err
	}
	return &counter{parts: parts, counts: make(map[string]int64)}, nil
}

// leafParts resolves the dotted path through the schema and requires it to
// name a leaf column.
func leafParts(root *schema.Node, path string) ([]string, error) {
	parts, node, ok := root.RowPath(path)
	if !ok {
		return nil, &InvalidColumnError{Path: path, Reason: "does not exist"}
	}
	if !node.Leaf() {
		return nil, &InvalidColumnError{Path: path, Reason: "not a leaf column"}
	}
	return parts, nil
}

func (c *counter) add(row value.Group) {
	c.collect(row, c.parts)
}

// collect walks one row along the column path. Repeated ancestors fan out,
// so one row may contribute several occurrences; a collapsed optional
// ancestor contributes a single null.
func (c *counter) collect(v value.Value, parts []string) {
	switch t := v.(type) {
	case value.List:
		for _, el := range t {
			c.collect(el, parts)
		}
	case value.Group:
		if len(parts) == 0 {
			return
		}
		sub, ok := t.Get(parts[0])
		if !ok {
			return
		}
		c.collect(sub, parts[1:])
	default:
		c.counts[columnKey(v)]++
	}
}

// columnKey renders a scalar for tabulation. Byte arrays stay unquoted so
// that values sort by their own text rather than by a leading quote.
func columnKey(v value.Value) string {
	if b, ok := v.(value.ByteArray); ok {
		return string(b)
	}
	return value.Format(v)
}

func (c *counter) merge(other *counter) {
	for k, n := range other.counts {
		c.counts[k] += n
	}
}

// entries returns the tabulated counts ordered by descending count, ties
// broken by ascending value text. The order is total, so equal inputs
// always produce equal output.
func (c *counter) entries() []Entry {
	out := make([]Entry, 0, len(c.counts))
	for k, n := range c.counts {
		out = append(out, Entry{Value: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func newCounters(root *schema.Node, paths []string) ([]*counter, error) {
	counters := make([]*counter, len(paths))
	for i, path := range paths {
		c, err := newCounter(root, path)
		if err != nil {
			return nil, err
		}
		counters[i] = c
	}
	return counters, nil
}

// Frequency tabulates the values of one leaf column over a row stream.
func Frequency(src RowSource, root *schema.Node, path string) ([]Entry, error) {
	res, err := Frequencies(src, root, []string{path})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// Frequencies tabulates several leaf columns in a single pass over a row
// stream. The result slice is parallel to paths.
func Frequencies(src RowSource, root *schema.Node, paths []string) ([][]Entry, error) {
	counters, err := newCounters(root, paths)
	if err != nil {
		return nil, err
	}
	for {
		row, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, c := range counters {
			c.add(row)
		}
	}

	res := make([][]Entry, len(counters))
	for i, c := range counters {
		res[i] = c.entries()
	}
	return res, nil
}

// FrequencyFile tabulates leaf columns over a whole file, assembling row
// groups concurrently. Counting is commutative, so the merged result is
// identical to a sequential pass.
func FrequencyFile(f *assemble.File, paths []string) ([][]Entry, error) {
	root := f.Schema()
	totals, err := newCounters(root, paths)
	if err != nil {
		return nil, err
	}

	parts := make([][]*counter, f.RowGroups())
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range parts {
		i := i
		g.Go(func() error {
			counters, err := newCounters(root, paths)
			if err != nil {
				return err
			}
			r := f.RowGroupRows(i)
			defer r.Close()
			for {
				row, err := r.Read()
				if errors.Is(err, io.EOF) {
					parts[i] = counters
					return nil
				}
				if err != nil {
					return err
				}
				for _, c := range counters {
					c.add(row)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make([][]Entry, len(totals))
	for i, total := range totals {
		for _, counters := range parts {
			total.merge(counters[i])
		}
		res[i] = total.entries()
	}
	return res, nil
}
