package parser

import "strings"

// Placeholder labels for abstracted leaves.
const (
	LabelIdentifier = "<ID>"
	LabelNumber     = "<NUM>"
	LabelString     = "<STR>"
	LabelBool       = "<BOOL>"
	LabelNone       = "<NONE>"
)

// Node is one node of an arena Tree. Children are indices into Tree.Nodes.
type Node struct {
	Label     string
	Kind      string
	Children  []int
	StartLine int
	EndLine   int
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is an owned, arena-indexed syntax tree. The zero Tree is empty.
// Nodes are stored in pre-order, so a parent always precedes its children.
type Tree struct {
	Nodes []Node
	Root  int
}

// Size returns the number of nodes
func (t *Tree) Size() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Node returns the node at index i
func (t *Tree) Node(i int) *Node {
	return &t.Nodes[i]
}

// PostOrder returns node indices in post-order (children before parents).
func (t *Tree) PostOrder() []int {
	if t.Size() == 0 {
		return nil
	}
	order := make([]int, 0, len(t.Nodes))
	type frame struct {
		node int
		next int
	}
	stack := []frame{{node: t.Root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := t.Nodes[top.node].Children
		if top.next < len(children) {
			child := children[top.next]
			top.next++
			stack = append(stack, frame{node: child})
			continue
		}
		order = append(order, top.node)
		stack = stack[:len(stack)-1]
	}
	return order
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	if t.Size() == 0 {
		return 0
	}
	depth := make([]int, len(t.Nodes))
	height := 0
	// pre-order storage: parents are visited before children
	depth[t.Root] = 1
	for i := range t.Nodes {
		for _, c := range t.Nodes[i].Children {
			depth[c] = depth[i] + 1
		}
		if depth[i] > height {
			height = depth[i]
		}
	}
	return height
}

// String renders the tree as an S-expression, mainly for tests and debugging.
func (t *Tree) String() string {
	if t.Size() == 0 {
		return "()"
	}
	var sb strings.Builder
	var write func(i int)
	write = func(i int) {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			sb.WriteString(n.Label)
			return
		}
		sb.WriteByte('(')
		sb.WriteString(n.Label)
		for _, c := range n.Children {
			sb.WriteByte(' ')
			write(c)
		}
		sb.WriteByte(')')
	}
	write(t.Root)
	return sb.String()
}
