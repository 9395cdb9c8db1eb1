package analyzer

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/cespare/xxhash/v2"

	"github.com/ludo-technologies/codeguard/internal/constants"
	"github.com/ludo-technologies/codeguard/internal/parser"
)

// FingerprintSet is the winnowed k-gram fingerprint set of one token sequence.
// positions maps each selected hash to the token offsets of its k-grams.
type FingerprintSet struct {
	hashes    *roaring64.Bitmap
	positions map[uint64][]int
	k         int
}

// Len returns the number of distinct fingerprints
func (s *FingerprintSet) Len() int {
	return int(s.hashes.GetCardinality())
}

// Bitmap returns the fingerprint hashes
func (s *FingerprintSet) Bitmap() *roaring64.Bitmap {
	return s.hashes
}

// Positions returns the token offsets at which hash was selected
func (s *FingerprintSet) Positions(hash uint64) []int {
	return s.positions[hash]
}

// K returns the k-gram width the set was built with
func (s *FingerprintSet) K() int {
	return s.k
}

// KGramHashes computes the polynomial rolling hash of every k-gram of token
// texts. Each token is first hashed with xxhash; arithmetic is modulo 2^64.
func KGramHashes(tokens []parser.Token, k int) []uint64 {
	if len(tokens) < k || k < 1 {
		return nil
	}

	th := make([]uint64, len(tokens))
	for i, tok := range tokens {
		th[i] = xxhash.Sum64String(tok.Text)
	}

	base := constants.RollingHashBase
	// high = base^(k-1), the weight of the token leaving the window
	high := uint64(1)
	for i := 1; i < k; i++ {
		high *= base
	}

	out := make([]uint64, 0, len(tokens)-k+1)
	var h uint64
	for i := 0; i < k; i++ {
		h = h*base + th[i]
	}
	out = append(out, h)
	for i := k; i < len(tokens); i++ {
		h = (h-th[i-k]*high)*base + th[i]
		out = append(out, h)
	}
	return out
}

// Winnow selects fingerprints from the k-gram hashes of tokens: within every
// window of w consecutive hashes the minimum is kept (rightmost on ties).
// Any shared run of at least k+w-1 tokens yields a shared fingerprint.
// Sequences shorter than k produce one fingerprint over the whole sequence.
func Winnow(tokens []parser.Token, k, w int) *FingerprintSet {
	set := &FingerprintSet{
		hashes:    roaring64.New(),
		positions: make(map[uint64][]int),
		k:         k,
	}
	if len(tokens) == 0 {
		return set
	}
	if len(tokens) < k {
		set.k = len(tokens)
		h := KGramHashes(tokens, len(tokens))[0]
		set.add(h, 0)
		return set
	}

	hashes := KGramHashes(tokens, k)
	if len(hashes) <= w {
		set.add(minRightmost(hashes, 0, len(hashes)))
		return set
	}

	last := -1
	for start := 0; start+w <= len(hashes); start++ {
		h, pos := minRightmost(hashes, start, start+w)
		if pos != last {
			set.add(h, pos)
			last = pos
		}
	}
	return set
}

func minRightmost(hashes []uint64, from, to int) (uint64, int) {
	best := from
	for i := from + 1; i < to; i++ {
		if hashes[i] <= hashes[best] {
			best = i
		}
	}
	return hashes[best], best
}

func (s *FingerprintSet) add(hash uint64, pos int) {
	s.hashes.Add(hash)
	s.positions[hash] = append(s.positions[hash], pos)
}

// tokenSpan is a matched region expressed as token offsets in both sequences.
type tokenSpan struct {
	startA, endA int
	startB, endB int
	count        int
}

// sharedSpans pairs the first occurrence of every shared fingerprint and
// merges neighbouring matches into spans.
func sharedSpans(a, b *FingerprintSet, shared *roaring64.Bitmap) []tokenSpan {
	type match struct{ posA, posB int }
	matches := make([]match, 0, shared.GetCardinality())
	it := shared.Iterator()
	for it.HasNext() {
		h := it.Next()
		pa, pb := a.positions[h], b.positions[h]
		if len(pa) == 0 || len(pb) == 0 {
			continue
		}
		matches = append(matches, match{posA: pa[0], posB: pb[0]})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].posA != matches[j].posA {
			return matches[i].posA < matches[j].posA
		}
		return matches[i].posB < matches[j].posB
	})

	var spans []tokenSpan
	for _, m := range matches {
		endA, endB := m.posA+a.k-1, m.posB+b.k-1
		if n := len(spans); n > 0 {
			cur := &spans[n-1]
			if m.posA-cur.endA <= constants.EvidenceMergeGap && m.posB >= cur.startB && m.posB-cur.endB <= constants.EvidenceMergeGap {
				cur.endA = max(cur.endA, endA)
				cur.endB = max(cur.endB, endB)
				cur.count++
				continue
			}
		}
		spans = append(spans, tokenSpan{startA: m.posA, endA: endA, startB: m.posB, endB: endB, count: 1})
	}
	return spans
}
