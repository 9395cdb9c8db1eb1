// Package parser turns Python source into the two representations the
// detectors compare: a cleaned token sequence and a normalized syntax tree.
//
// Both come from a single tree-sitter parse. Tokens are the leaves of the
// concrete syntax tree with comments and docstrings removed. The syntax tree
// is copied into an owned arena (nodes in one slice, children by index) with
// identifiers and literals replaced by type-tagged placeholders.
//
// Tree-sitter parsers are not safe for concurrent use; create one Parser
// per goroutine.
//
// Basic usage:
//
//	p := parser.New()
//	defer p.Close()
//	result, err := p.Parse(ctx, source)
//	if err != nil {
//	    // invalid encoding or parser failure
//	}
//	defer result.Close()
//	tokens, err := parser.Tokenize(result)
//	tree, err := parser.Normalize(result) // fails on syntax errors
package parser
