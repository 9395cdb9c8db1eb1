package analyzer

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/cespare/xxhash/v2"

	"github.com/ludo-technologies/codeguard/internal/parser"
)

var tokenSeparator = []byte{0}

// NGramSet hashes every n-gram of raw token texts into a set.
// Sequences shorter than n contribute a single n-gram over the whole sequence.
func NGramSet(tokens []parser.Token, n int) *roaring64.Bitmap {
	set := roaring64.New()
	if len(tokens) == 0 || n < 1 {
		return set
	}
	if len(tokens) < n {
		n = len(tokens)
	}

	d := xxhash.New()
	for i := 0; i+n <= len(tokens); i++ {
		d.Reset()
		for _, tok := range tokens[i : i+n] {
			_, _ = d.WriteString(tok.Text)
			_, _ = d.Write(tokenSeparator)
		}
		set.Add(d.Sum64())
	}
	return set
}

// Jaccard returns |A∩B| / |A∪B|. Two empty sets are identical.
func Jaccard(a, b *roaring64.Bitmap) float64 {
	ca, cb := a.GetCardinality(), b.GetCardinality()
	if ca == 0 && cb == 0 {
		return 1.0
	}
	if ca == 0 || cb == 0 {
		return 0.0
	}
	inter := a.AndCardinality(b)
	union := ca + cb - inter
	return float64(inter) / float64(union)
}

// Containment returns |A∩B| / min(|A|,|B|). Two empty sets are identical.
func Containment(a, b *roaring64.Bitmap) float64 {
	ca, cb := a.GetCardinality(), b.GetCardinality()
	if ca == 0 && cb == 0 {
		return 1.0
	}
	if ca == 0 || cb == 0 {
		return 0.0
	}
	return float64(a.AndCardinality(b)) / float64(min(ca, cb))
}
