// Package schema holds the logical schema model of a parquet file: an
// immutable tree of groups and leaves mirroring the file metadata, plus a
// renderer and parser for the textual message-definition format.
package schema

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
)

// Repetition is the field repetition type of a schema node.
type Repetition int

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return fmt.Sprintf("Repetition(%d)", int(r))
	}
}

// Physical is the physical storage type of a leaf. Groups carry None.
type Physical int

const (
	None Physical = iota
	Boolean
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (p Physical) String() string {
	switch p {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return fmt.Sprintf("Physical(%d)", int(p))
	}
}

// Node is one element of the schema tree. A node with Physical == None is a
// group and carries its children in declaration order; any other node is a
// leaf. The tree is built once from file metadata and never mutated.
type Node struct {
	Name       string
	Repetition Repetition
	Physical   Physical
	Annotation string // logical type annotation, empty if none
	TypeLength int    // element length for FIXED_LEN_BYTE_ARRAY
	Children   []*Node
}

// Leaf reports whether the node is a leaf column.
func (n *Node) Leaf() bool {
	return n.Physical != None
}

// Child returns the direct child with the given name, matched
// case-insensitively, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Lookup resolves a dotted path like "a.b.c" relative to n. It returns nil
// if any path element does not exist.
func (n *Node) Lookup(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, ".") {
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// LeafColumn describes one leaf of the schema together with the level
// information the row assembler needs: the path from root (excluding the
// root itself), the maximum repetition and definition levels of that path,
// and the leaf's index in depth-first declaration order, which is also the
// column index the decoder uses.
type LeafColumn struct {
	Node   *Node
	Path   []*Node
	MaxRep int
	MaxDef int
	Index  int
}

// DottedPath returns the leaf path as "a.b.c".
func (l LeafColumn) DottedPath() string {
	parts := make([]string, len(l.Path))
	for i, n := range l.Path {
		parts[i] = n.Name
	}
	return strings.Join(parts, ".")
}

// Leaves returns all leaf columns of the tree rooted at n, in depth-first
// declaration order.
func (n *Node) Leaves() []LeafColumn {
	var leaves []LeafColumn
	var walk func(node *Node, path []*Node, rep, def int)
	walk = func(node *Node, path []*Node, rep, def int) {
		switch node.Repetition {
		case Repeated:
			rep++
			def++
		case Optional:
			def++
		}
		path = append(path, node)
		if node.Leaf() {
			leaves = append(leaves, LeafColumn{
				Node:   node,
				Path:   append([]*Node(nil), path...),
				MaxRep: rep,
				MaxDef: def,
				Index:  len(leaves),
			})
			return
		}
		for _, c := range node.Children {
			walk(c, path, rep, def)
		}
	}
	for _, c := range n.Children {
		walk(c, nil, 0, 0)
	}
	return leaves
}

// RowPath resolves a dotted column path case-insensitively and returns the
// field names to follow through assembled rows together with the resolved
// node. Components that the row assembler flattens away are dropped from
// the result: the repeated child of a LIST-annotated wrapper group, and
// that child's single element field in the three-level shape. ok is false
// when any component does not exist.
func (n *Node) RowPath(path string) (parts []string, node *Node, ok bool) {
	cur := n
	skip := 0
	for _, part := range strings.Split(path, ".") {
		if cur.Leaf() {
			return nil, nil, false
		}
		child := cur.Child(part)
		if child == nil {
			return nil, nil, false
		}
		if skip > 0 {
			skip--
		} else {
			parts = append(parts, child.Name)
		}
		if child.Annotation == "LIST" && len(child.Children) == 1 && child.Children[0].Repetition == Repeated {
			if rep := child.Children[0]; rep.Leaf() || len(rep.Children) != 1 {
				skip = 1
			} else {
				skip = 2
			}
		}
		cur = child
	}
	return parts, cur, true
}

// FromParquet converts the decoder's column tree into a schema tree. The
// repetition of the root is irrelevant and normalized to REQUIRED.
func FromParquet(root *parquet.Column) *Node {
	n := fromColumn(root)
	n.Repetition = Required
	return n
}

func fromColumn(col *parquet.Column) *Node {
	n := &Node{Name: col.Name()}

	switch {
	case col.Repeated():
		n.Repetition = Repeated
	case col.Optional():
		n.Repetition = Optional
	default:
		n.Repetition = Required
	}

	if col.Leaf() {
		typ := col.Type()
		switch typ.Kind() {
		case parquet.Boolean:
			n.Physical = Boolean
		case parquet.Int32:
			n.Physical = Int32
		case parquet.Int64:
			n.Physical = Int64
		case parquet.Int96:
			n.Physical = Int96
		case parquet.Float:
			n.Physical = Float
		case parquet.Double:
			n.Physical = Double
		case parquet.ByteArray:
			n.Physical = ByteArray
		case parquet.FixedLenByteArray:
			n.Physical = FixedLenByteArray
			n.TypeLength = typ.Length()
		}
		n.Annotation = annotation(typ.LogicalType())
		return n
	}

	n.Children = make([]*Node, 0, len(col.Columns()))
	n.Annotation = annotation(col.Type().LogicalType())
	for _, c := range col.Columns() {
		n.Children = append(n.Children, fromColumn(c))
	}
	return n
}

// annotation renders a logical type the way the textual schema format spells
// it, e.g. UTF8, LIST, DECIMAL(9,2) or TIMESTAMP(MILLIS,true).
func annotation(lt *format.LogicalType) string {
	if lt == nil {
		return ""
	}
	switch {
	case lt.UTF8 != nil:
		return "UTF8"
	case lt.List != nil:
		return "LIST"
	case lt.Map != nil:
		return "MAP"
	case lt.Enum != nil:
		return "ENUM"
	case lt.Json != nil:
		return "JSON"
	case lt.Bson != nil:
		return "BSON"
	case lt.UUID != nil:
		return "UUID"
	case lt.Date != nil:
		return "DATE"
	case lt.Decimal != nil:
		return fmt.Sprintf("DECIMAL(%d,%d)", lt.Decimal.Precision, lt.Decimal.Scale)
	case lt.Integer != nil:
		return fmt.Sprintf("INT(%d,%t)", lt.Integer.BitWidth, lt.Integer.IsSigned)
	case lt.Timestamp != nil:
		return fmt.Sprintf("TIMESTAMP(%s,%t)", timeUnit(lt.Timestamp.Unit), lt.Timestamp.IsAdjustedToUTC)
	case lt.Time != nil:
		return fmt.Sprintf("TIME(%s,%t)", timeUnit(lt.Time.Unit), lt.Time.IsAdjustedToUTC)
	default:
		return ""
	}
}

func timeUnit(u format.TimeUnit) string {
	switch {
	case u.Millis != nil:
		return "MILLIS"
	case u.Micros != nil:
		return "MICROS"
	default:
		return "NANOS"
	}
}
