package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := TokenizeSource(context.Background(), []byte(src))
	require.NoError(t, err)
	return tokens
}

func TestTokenize_StripsCommentsAndDocstrings(t *testing.T) {
	src := `"""Module docstring."""
# leading comment
def f(a):
    """Function docstring."""
    return a  # trailing comment
`
	assert.Equal(t, []string{"def", "f", "(", "a", ")", ":", "return", "a"}, texts(tokenize(t, src)))
}

func TestTokenize_KeepsNonDocstringStrings(t *testing.T) {
	src := `def f():
    x = 1
    "not a docstring"
`
	got := texts(tokenize(t, src))
	assert.Contains(t, got, `"not a docstring"`)
}

func TestTokenize_CollapsesWhitespace(t *testing.T) {
	a := tokenize(t, "x=1\nif x:\n    y = x+2\n")
	b := tokenize(t, "x   =   1\n\n\nif   x :\n        y   =   x  +  2\n")
	assert.Equal(t, texts(a), texts(b))
}

func TestTokenize_Kinds(t *testing.T) {
	tokens := tokenize(t, "if value >= 10:\n    name = 'abc' 'def'\n")

	kinds := map[string]TokenKind{}
	for _, tok := range tokens {
		kinds[tok.Text] = tok.Kind
	}
	assert.Equal(t, TokenKeyword, kinds["if"])
	assert.Equal(t, TokenIdentifier, kinds["value"])
	assert.Equal(t, TokenOperator, kinds[">="])
	assert.Equal(t, TokenNumber, kinds["10"])
	assert.Equal(t, TokenPunctuation, kinds[":"])
	assert.Equal(t, TokenString, kinds["'abc' 'def'"], "implicit concatenation is one token")
}

func TestTokenize_Positions(t *testing.T) {
	tokens := tokenize(t, "a = 1\n  \nbb = 2\n")
	require.Len(t, tokens, 6)
	assert.Equal(t, "bb", tokens[3].Text)
	assert.Equal(t, 3, tokens[3].Line)
	assert.Equal(t, 1, tokens[3].Column)
}

func TestTokenize_EmptyAndCommentOnly(t *testing.T) {
	assert.Empty(t, tokenize(t, ""))
	assert.Empty(t, tokenize(t, "# just a comment\n\n"))
}

func TestTokenize_SyntaxErrorStillLexes(t *testing.T) {
	tokens := tokenize(t, "def broken(:\n    pass\n\nx = 1\n")
	assert.GreaterOrEqual(t, len(tokens), 5)
}

func TestTokenize_InvalidEncoding(t *testing.T) {
	_, err := TokenizeSource(context.Background(), []byte{0xc3, 0x28})
	assert.True(t, errors.Is(err, ErrInvalidEncoding))
}

func TestTokenize_NilResult(t *testing.T) {
	_, err := Tokenize(nil)
	assert.True(t, errors.Is(err, ErrParseFailed))
}

func TestTokenKind_String(t *testing.T) {
	assert.Equal(t, "identifier", TokenIdentifier.String())
	assert.Equal(t, "invalid", TokenKind(0).String())
}
