package schema

import (
	"bytes"
	"fmt"
	"io"
)

// String renders the tree as canonical message-definition text. The output
// is deterministic: depth-first, declaration order, two spaces of indent per
// nesting level.
func (n *Node) String() string {
	buf := new(bytes.Buffer)
	n.Print(buf)
	return buf.String()
}

// Print writes the canonical textual schema to w.
func (n *Node) Print(w io.Writer) {
	fmt.Fprintf(w, "message %s {\n", n.Name)
	printNodes(w, n.Children, 2)
	fmt.Fprintf(w, "}\n")
}

func printNodes(w io.Writer, nodes []*Node, indent int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%*s%s ", indent, "", n.Repetition)

		if !n.Leaf() {
			fmt.Fprintf(w, "group %s", n.Name)
			if n.Annotation != "" {
				fmt.Fprintf(w, " (%s)", n.Annotation)
			}
			fmt.Fprintf(w, " {\n")
			printNodes(w, n.Children, indent+2)
			fmt.Fprintf(w, "%*s}\n", indent, "")
			continue
		}

		if n.Physical == FixedLenByteArray {
			fmt.Fprintf(w, "%s(%d) %s", n.Physical, n.TypeLength, n.Name)
		} else {
			fmt.Fprintf(w, "%s %s", n.Physical, n.Name)
		}
		if n.Annotation != "" {
			fmt.Fprintf(w, " (%s)", n.Annotation)
		}
		fmt.Fprintf(w, ";\n")
	}
}
