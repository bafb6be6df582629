package assemble

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/fraugster/xpq/internal/schema"
	"github.com/fraugster/xpq/internal/value"
)

// AssemblyError reports a row group whose level sequences are inconsistent
// with the schema, or whose decoded values contradict the declared physical
// types. Assembly of the file stops at the first such error.
type AssemblyError struct {
	RowGroup int
	Err      error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembling rows of row group %d failed: %v", e.RowGroup, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// nodeInfo carries the per-node level bookkeeping the assembler needs. The
// repetition depth counts repeated nodes on the path from root to the node
// inclusive; the definition depth counts optional and repeated nodes the
// same way. leaves lists the column indexes of all leaves at or below the
// node.
type nodeInfo struct {
	repDepth int
	defDepth int
	leaves   []int
}

// assembler reconstructs the rows of one row group from the per-leaf level
// streams. Cursors advance in lockstep: every leaf contributes exactly one
// value per row plus one per extra repeated element, so a row boundary is
// wherever every cursor sits at repetition level zero.
type assembler struct {
	root    *schema.Node
	info    map[*schema.Node]*nodeInfo
	cursors []*cursor
}

func newAssembler(root *schema.Node, sources []levelSource) *assembler {
	a := &assembler{
		root:    root,
		info:    make(map[*schema.Node]*nodeInfo),
		cursors: make([]*cursor, len(sources)),
	}
	for i, src := range sources {
		a.cursors[i] = newCursor(src)
	}

	next := 0
	var walk func(n *schema.Node, rep, def int) []int
	walk = func(n *schema.Node, rep, def int) []int {
		switch n.Repetition {
		case schema.Repeated:
			rep++
			def++
		case schema.Optional:
			def++
		}
		in := &nodeInfo{repDepth: rep, defDepth: def}
		if n.Leaf() {
			in.leaves = []int{next}
			next++
		} else {
			for _, c := range n.Children {
				in.leaves = append(in.leaves, walk(c, rep, def)...)
			}
		}
		a.info[n] = in
		return in.leaves
	}
	rootInfo := &nodeInfo{}
	for _, c := range root.Children {
		rootInfo.leaves = append(rootInfo.leaves, walk(c, 0, 0)...)
	}
	a.info[root] = rootInfo
	return a
}

func (a *assembler) Close() error {
	var first error
	for _, c := range a.cursors {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Next assembles one row. It returns io.EOF once every column of the row
// group is exhausted.
func (a *assembler) Next() (value.Group, error) {
	exhausted := 0
	for i, c := range a.cursors {
		v, ok, err := c.peek()
		if err != nil {
			return nil, err
		}
		if !ok {
			exhausted++
			continue
		}
		if v.RepetitionLevel() != 0 {
			return nil, fmt.Errorf("column %d starts a row at repetition level %d", i, v.RepetitionLevel())
		}
	}
	if exhausted == len(a.cursors) {
		return nil, io.EOF
	}
	if exhausted > 0 {
		return nil, fmt.Errorf("%d of %d columns ended before the others", exhausted, len(a.cursors))
	}

	row := make(value.Group, 0, len(a.root.Children))
	for _, c := range a.root.Children {
		v, err := a.buildField(c)
		if err != nil {
			return nil, err
		}
		row = append(row, value.Field{Name: c.Name, Value: v})
	}
	return row, nil
}

// buildField materializes the value of node n for the current row, given
// that n's parent is present. It consumes exactly the level run belonging to
// this occurrence from every leaf cursor below n.
func (a *assembler) buildField(n *schema.Node) (value.Value, error) {
	if n.Repetition == schema.Repeated {
		return a.buildList(n)
	}
	return a.buildSingle(n)
}

func (a *assembler) buildSingle(n *schema.Node) (value.Value, error) {
	in := a.info[n]
	head, err := a.peekLeaf(in)
	if err != nil {
		return nil, err
	}

	if head.DefinitionLevel() < in.defDepth {
		if n.Repetition != schema.Optional {
			return nil, fmt.Errorf("required field %q has definition level %d, want at least %d",
				n.Name, head.DefinitionLevel(), in.defDepth)
		}
		if err := a.skipAbsent(n, in); err != nil {
			return nil, err
		}
		return value.Null{}, nil
	}

	if n.Leaf() {
		v, _, err := a.cursors[in.leaves[0]].take()
		if err != nil {
			return nil, err
		}
		if v.IsNull() {
			return nil, fmt.Errorf("field %q has definition level %d but a null value", n.Name, v.DefinitionLevel())
		}
		return convert(v, n)
	}
	return a.buildGroup(n)
}

// buildGroup materializes a present group node, unwrapping LIST-annotated
// wrapper groups into plain lists.
func (a *assembler) buildGroup(n *schema.Node) (value.Value, error) {
	if n.Annotation == "LIST" && len(n.Children) == 1 && n.Children[0].Repetition == schema.Repeated {
		return a.buildUnwrappedList(n.Children[0])
	}

	g := make(value.Group, 0, len(n.Children))
	for _, c := range n.Children {
		v, err := a.buildField(c)
		if err != nil {
			return nil, err
		}
		g = append(g, value.Field{Name: c.Name, Value: v})
	}
	return g, nil
}

// buildList materializes a repeated node as a List. An absent or empty
// repetition yields an empty list.
func (a *assembler) buildList(n *schema.Node) (value.Value, error) {
	in := a.info[n]
	head, err := a.peekLeaf(in)
	if err != nil {
		return nil, err
	}

	if head.DefinitionLevel() < in.defDepth {
		if err := a.skipAbsent(n, in); err != nil {
			return nil, err
		}
		return value.List{}, nil
	}

	list := value.List{}
	for {
		el, err := a.buildElement(n)
		if err != nil {
			return nil, err
		}
		list = append(list, el)

		next, ok, err := a.cursors[in.leaves[0]].peek()
		if err != nil {
			return nil, err
		}
		if !ok || next.RepetitionLevel() < in.repDepth {
			return list, nil
		}
		if next.RepetitionLevel() > in.repDepth {
			return nil, fmt.Errorf("field %q: unconsumed repetition level %d inside element",
				n.Name, next.RepetitionLevel())
		}
	}
}

// buildUnwrappedList is buildList for the repeated node inside a LIST
// wrapper. The three-level list shape stores each element inside a
// single-field group; that indirection is not part of the logical value.
func (a *assembler) buildUnwrappedList(n *schema.Node) (value.Value, error) {
	v, err := a.buildList(n)
	if err != nil {
		return nil, err
	}
	if n.Leaf() || len(n.Children) != 1 {
		return v, nil
	}
	list := v.(value.List)
	for i, el := range list {
		if g, ok := el.(value.Group); ok && len(g) == 1 {
			list[i] = g[0].Value
		}
	}
	return list, nil
}

// buildElement materializes one element of repeated node n.
func (a *assembler) buildElement(n *schema.Node) (value.Value, error) {
	in := a.info[n]
	if !n.Leaf() {
		return a.buildGroup(n)
	}

	v, _, err := a.cursors[in.leaves[0]].take()
	if err != nil {
		return nil, err
	}
	if v.DefinitionLevel() < in.defDepth || v.IsNull() {
		return nil, fmt.Errorf("repeated field %q has an absent element at definition level %d",
			n.Name, v.DefinitionLevel())
	}
	return convert(v, n)
}

// peekLeaf peeks at the first leaf cursor below n. Running out of values in
// the middle of a row means the level streams disagree about row boundaries.
func (a *assembler) peekLeaf(in *nodeInfo) (parquet.Value, error) {
	v, ok, err := a.cursors[in.leaves[0]].peek()
	if err != nil {
		return parquet.Value{}, err
	}
	if !ok {
		return parquet.Value{}, errors.New("column ended in the middle of a row")
	}
	return v, nil
}

// skipAbsent consumes the placeholder value every leaf below n carries for
// an absent occurrence, verifying that all of them agree on the absence.
func (a *assembler) skipAbsent(n *schema.Node, in *nodeInfo) error {
	for _, idx := range in.leaves {
		v, ok, err := a.cursors[idx].take()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("column ended in the middle of a row")
		}
		if v.DefinitionLevel() >= in.defDepth {
			return fmt.Errorf("columns below %q disagree on presence: definition level %d, want below %d",
				n.Name, v.DefinitionLevel(), in.defDepth)
		}
	}
	return nil
}

// convert turns one decoded scalar into its model value, verifying the
// payload kind against the schema's physical type.
func convert(v parquet.Value, n *schema.Node) (value.Value, error) {
	if v.IsNull() {
		return value.Null{}, nil
	}

	if want := physicalKind(n.Physical); v.Kind() != want {
		return nil, &value.TypeError{Expected: n.Physical.String(), Actual: v.Kind().String()}
	}

	switch n.Physical {
	case schema.Boolean:
		return value.Boolean(v.Boolean()), nil
	case schema.Int32:
		return value.Int32(v.Int32()), nil
	case schema.Int64:
		return value.Int64(v.Int64()), nil
	case schema.Int96:
		words := v.Int96()
		var b value.Int96
		binary.LittleEndian.PutUint32(b[0:4], words[0])
		binary.LittleEndian.PutUint32(b[4:8], words[1])
		binary.LittleEndian.PutUint32(b[8:12], words[2])
		return b, nil
	case schema.Float:
		return value.Float(v.Float()), nil
	case schema.Double:
		return value.Double(v.Double()), nil
	case schema.ByteArray, schema.FixedLenByteArray:
		// The decoder's byte slices alias page buffers; copy before the
		// page is released.
		return value.ByteArray(append([]byte(nil), v.ByteArray()...)), nil
	default:
		return nil, &value.TypeError{Expected: n.Physical.String(), Actual: v.Kind().String()}
	}
}

func physicalKind(p schema.Physical) parquet.Kind {
	switch p {
	case schema.Boolean:
		return parquet.Boolean
	case schema.Int32:
		return parquet.Int32
	case schema.Int64:
		return parquet.Int64
	case schema.Int96:
		return parquet.Int96
	case schema.Float:
		return parquet.Float
	case schema.Double:
		return parquet.Double
	case schema.FixedLenByteArray:
		return parquet.FixedLenByteArray
	default:
		return parquet.ByteArray
	}
}
