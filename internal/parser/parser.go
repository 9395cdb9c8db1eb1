package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	// ErrInvalidEncoding is returned for sources that are not valid UTF-8 or contain NUL bytes.
	ErrInvalidEncoding = errors.New("source is not valid UTF-8 text")
	// ErrParseFailed is returned when tree-sitter produces no tree (cancellation, timeout).
	ErrParseFailed = errors.New("parser produced no syntax tree")
	// ErrUnlexable is returned when no token can be recovered from non-blank source.
	ErrUnlexable = errors.New("no tokens could be recovered from source")
	// ErrSyntax is returned by Normalize when the tree contains syntax errors.
	ErrSyntax = errors.New("syntax error")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser provides Python code parsing capabilities using tree-sitter
type Parser struct {
	parser  *sitter.Parser
	timeout time.Duration
}

// New creates a new Parser instance with Python grammar
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Parser{
		parser: parser,
	}
}

// WithTimeout bounds every Parse call; zero disables the bound.
func (p *Parser) WithTimeout(d time.Duration) *Parser {
	p.timeout = d
	return p
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// ParseResult represents the result of parsing Python code
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
	// HasErrors is set when the tree contains ERROR or MISSING nodes.
	// Tokens can still be recovered from such trees.
	HasErrors bool
}

// Close releases the syntax tree.
func (r *ParseResult) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}

// Parse parses Python source code. Syntax errors do not fail the parse; they
// are reported through HasErrors.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	if !utf8.Valid(source) || bytes.IndexByte(source, 0) >= 0 {
		return nil, ErrInvalidEncoding
	}
	source = bytes.TrimPrefix(source, utf8BOM)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if tree == nil {
		return nil, ErrParseFailed
	}

	rootNode := tree.RootNode()
	return &ParseResult{
		Tree:       tree,
		RootNode:   rootNode,
		SourceCode: source,
		HasErrors:  rootNode.HasError(),
	}, nil
}

// ParseFile parses a Python file from a reader
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	source, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	return p.Parse(ctx, source)
}

// FirstError returns the 1-based position of the first ERROR or MISSING node.
func FirstError(node *sitter.Node) (line, col int, ok bool) {
	if node == nil || !node.HasError() && !node.IsMissing() {
		return 0, 0, false
	}
	if node.IsError() || node.IsMissing() {
		pt := node.StartPoint()
		return int(pt.Row) + 1, int(pt.Column) + 1, true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if line, col, ok := FirstError(node.Child(i)); ok {
			return line, col, true
		}
	}
	return 0, 0, false
}

// isDocstringContainer reports whether a node's first statement may be a docstring.
func isDocstringContainer(nodeType, parentType string) bool {
	if nodeType == "module" {
		return true
	}
	return nodeType == "block" && (parentType == "function_definition" || parentType == "class_definition")
}

// docstringOf returns the docstring statement of a container, or nil.
func docstringOf(container *sitter.Node) *sitter.Node {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		stmt := container.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return nil
		}
		switch stmt.NamedChild(0).Type() {
		case "string", "concatenated_string":
			return stmt
		}
		return nil
	}
	return nil
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
