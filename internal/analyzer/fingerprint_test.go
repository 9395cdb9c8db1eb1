package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codeguard/internal/parser"
)

func TestKGramHashes_RollingMatchesDirect(t *testing.T) {
	tokens := fields("w1 w2 w3 w4 w5 w6 w7 w8 w9")
	rolled := KGramHashes(tokens, 4)
	require.Len(t, rolled, 6)

	for i := range rolled {
		direct := KGramHashes(tokens[i:i+4], 4)
		require.Len(t, direct, 1)
		assert.Equal(t, direct[0], rolled[i], "k-gram %d", i)
	}
	assert.Nil(t, KGramHashes(tokens[:3], 4))
}

func TestWinnow_SmallInputs(t *testing.T) {
	assert.Equal(t, 0, Winnow(nil, 5, 4).Len())

	short := Winnow(fields("a b c"), 5, 4)
	assert.Equal(t, 1, short.Len())
	assert.Equal(t, 3, short.K())

	// fewer k-grams than the window: one fingerprint
	assert.Equal(t, 1, Winnow(fields("a b c d e f"), 5, 4).Len())
}

func TestWinnow_Deterministic(t *testing.T) {
	tokens := fields(strings.Repeat("x = y + 1 ; ", 20))
	a := Winnow(tokens, 5, 4)
	b := Winnow(tokens, 5, 4)
	assert.True(t, a.Bitmap().Equals(b.Bitmap()))
}

func TestWinnow_SharedRunGuarantee(t *testing.T) {
	// a run of k+w-1 = 8 identical tokens embedded in unrelated context
	run := "alpha beta gamma delta epsilon zeta eta theta"
	var left, right []string
	for i := 0; i < 30; i++ {
		left = append(left, fmt.Sprintf("l%d", i))
		right = append(right, fmt.Sprintf("r%d", i))
	}
	a := fields(strings.Join(left[:15], " ") + " " + run + " " + strings.Join(left[15:], " "))
	b := fields(strings.Join(right[:7], " ") + " " + run + " " + strings.Join(right[7:], " "))

	fa, fb := Winnow(a, 5, 4), Winnow(b, 5, 4)
	assert.Greater(t, fa.Bitmap().AndCardinality(fb.Bitmap()), uint64(0))
}

func TestWinnow_DensityBound(t *testing.T) {
	var words []string
	for i := 0; i < 400; i++ {
		words = append(words, fmt.Sprintf("t%d", i))
	}
	fp := Winnow(toks(words...), 5, 4)
	kgrams := len(words) - 5 + 1
	assert.Less(t, fp.Len(), kgrams)
	// at least one fingerprint per window of 4
	assert.GreaterOrEqual(t, fp.Len(), kgrams/4)
}

func TestSharedSpans_MergesNeighbours(t *testing.T) {
	var words []string
	for i := 0; i < 60; i++ {
		words = append(words, fmt.Sprintf("v%d", i))
	}
	tokens := make([]parser.Token, len(words))
	for i, w := range words {
		tokens[i] = parser.Token{Text: w, Line: i/6 + 1}
	}
	fa := Winnow(tokens, 5, 4)
	fb := Winnow(tokens, 5, 4)

	spans := sharedSpans(fa, fb, roaring64.And(fa.Bitmap(), fb.Bitmap()))
	require.Len(t, spans, 1)
	assert.Equal(t, fa.Len(), spans[0].count)
	assert.Equal(t, spans[0].startA, spans[0].startB)
}
