package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Leaf types replaced by placeholders.
var placeholderLabels = map[string]string{
	"identifier":          LabelIdentifier,
	"keyword_identifier":  LabelIdentifier,
	"integer":             LabelNumber,
	"float":               LabelNumber,
	"string":              LabelString,
	"concatenated_string": LabelString,
	"true":                LabelBool,
	"false":               LabelBool,
	"none":                LabelNone,
}

// Node types whose operator is kept in the label, e.g. "binary_operator(+)".
var operatorNodes = map[string]bool{
	"binary_operator":      true,
	"unary_operator":       true,
	"comparison_operator":  true,
	"boolean_operator":     true,
	"augmented_assignment": true,
}

// Normalize converts a parse result into an arena Tree with identifiers and
// literals replaced by placeholders. Comments and docstrings are dropped.
// Trees containing syntax errors are rejected with ErrSyntax.
func Normalize(result *ParseResult) (*Tree, error) {
	if result == nil || result.RootNode == nil {
		return nil, ErrParseFailed
	}
	if result.HasErrors {
		if line, col, ok := FirstError(result.RootNode); ok {
			return nil, fmt.Errorf("%w at %d:%d", ErrSyntax, line, col)
		}
		return nil, ErrSyntax
	}

	b := &treeBuilder{source: result.SourceCode}
	root := b.build(result.RootNode, "")
	return &Tree{Nodes: b.nodes, Root: root}, nil
}

// NormalizeSource parses source with a fresh parser and normalizes it.
func NormalizeSource(ctx context.Context, source []byte) (*Tree, error) {
	p := New()
	defer p.Close()

	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return Normalize(result)
}

type treeBuilder struct {
	source []byte
	nodes  []Node
}

func (b *treeBuilder) build(n *sitter.Node, parentType string) int {
	nodeType := n.Type()
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Label:     b.label(n),
		Kind:      nodeType,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
	})

	if _, ok := placeholderLabels[nodeType]; ok {
		return idx
	}

	var doc *sitter.Node
	if isDocstringContainer(nodeType, parentType) {
		doc = docstringOf(n)
	}

	var children []int
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if skippedLeaves[child.Type()] || (doc != nil && sameNode(child, doc)) {
			continue
		}
		children = append(children, b.build(child, nodeType))
	}
	b.nodes[idx].Children = children
	return idx
}

func (b *treeBuilder) label(n *sitter.Node) string {
	nodeType := n.Type()
	if ph, ok := placeholderLabels[nodeType]; ok {
		return ph
	}
	if !operatorNodes[nodeType] {
		return nodeType
	}

	var ops []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			continue
		}
		switch t := child.Type(); t {
		case "(", ")":
		default:
			ops = append(ops, t)
		}
	}
	if len(ops) == 0 {
		return nodeType
	}
	return nodeType + "(" + strings.Join(ops, ",") + ")"
}
