package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// TokenKind classifies a lexical token
type TokenKind uint8

const (
	TokenKeyword TokenKind = iota + 1
	TokenIdentifier
	TokenNumber
	TokenString
	TokenOperator
	TokenPunctuation
	TokenUnknown
)

var tokenKindNames = map[TokenKind]string{
	TokenKeyword:     "keyword",
	TokenIdentifier:  "identifier",
	TokenNumber:      "number",
	TokenString:      "string",
	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",
	TokenUnknown:     "unknown",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Token is one lexical unit of cleaned source. Line and Column are 1-based.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

var punctuation = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
	",": true, ":": true, ";": true, ".": true, "->": true,
}

// Leaves whose text never reaches the token stream.
var skippedLeaves = map[string]bool{
	"comment":           true,
	"line_continuation": true,
}

// Tokenize returns the cleaned token sequence of a parsed file: comments and
// docstrings removed, whitespace collapsed, every string literal a single
// token. Trees with syntax errors still yield tokens.
func Tokenize(result *ParseResult) ([]Token, error) {
	if result == nil || result.RootNode == nil {
		return nil, ErrParseFailed
	}

	lx := &lexer{source: result.SourceCode}
	lx.walk(result.RootNode, "")

	if len(lx.tokens) == 0 && result.HasErrors && strings.TrimSpace(string(result.SourceCode)) != "" {
		return nil, ErrUnlexable
	}
	return lx.tokens, nil
}

// TokenizeSource parses source with a fresh parser and tokenizes it.
func TokenizeSource(ctx context.Context, source []byte) ([]Token, error) {
	p := New()
	defer p.Close()

	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return Tokenize(result)
}

type lexer struct {
	source []byte
	tokens []Token
}

func (lx *lexer) walk(n *sitter.Node, parentType string) {
	nodeType := n.Type()
	if skippedLeaves[nodeType] {
		return
	}

	switch nodeType {
	case "string", "concatenated_string":
		lx.emit(n, TokenString)
		return
	}

	count := int(n.ChildCount())
	if count == 0 {
		if n.StartByte() == n.EndByte() {
			// MISSING nodes and zero-width externals carry no text
			return
		}
		lx.emit(n, classifyLeaf(n))
		return
	}

	var doc *sitter.Node
	if isDocstringContainer(nodeType, parentType) {
		doc = docstringOf(n)
	}
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if doc != nil && sameNode(child, doc) {
			continue
		}
		lx.walk(child, nodeType)
	}
}

func (lx *lexer) emit(n *sitter.Node, kind TokenKind) {
	pt := n.StartPoint()
	lx.tokens = append(lx.tokens, Token{
		Kind:   kind,
		Text:   n.Content(lx.source),
		Line:   int(pt.Row) + 1,
		Column: int(pt.Column) + 1,
	})
}

func classifyLeaf(n *sitter.Node) TokenKind {
	nodeType := n.Type()
	if n.IsError() {
		return TokenUnknown
	}
	if n.IsNamed() {
		switch nodeType {
		case "identifier":
			return TokenIdentifier
		case "integer", "float":
			return TokenNumber
		case "true", "false", "none", "ellipsis":
			return TokenKeyword
		}
		return TokenUnknown
	}
	if punctuation[nodeType] {
		return TokenPunctuation
	}
	if isWord(nodeType) {
		return TokenKeyword
	}
	return TokenOperator
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != ' ' {
			return false
		}
	}
	return true
}
