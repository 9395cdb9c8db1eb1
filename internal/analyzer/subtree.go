package analyzer

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/ludo-technologies/codeguard/internal/parser"
)

// Container nodes whose children are hashed in sorted order, so reordering
// statements does not change the container's hash.
var unorderedContainers = map[string]bool{
	"module": true,
	"block":  true,
}

// SubtreeHashes returns the sorted multiset of structural hashes of every
// internal node of t, plus the root. Leaves only contribute through their parents.
func SubtreeHashes(t *parser.Tree) []uint64 {
	if t.Size() == 0 {
		return nil
	}

	hashes := make([]uint64, t.Size())
	out := make([]uint64, 0, t.Size()/2+1)
	d := xxhash.New()
	var buf [8]byte

	for _, i := range t.PostOrder() {
		n := t.Node(i)
		children := make([]uint64, len(n.Children))
		for j, c := range n.Children {
			children[j] = hashes[c]
		}
		if unorderedContainers[n.Kind] {
			slices.Sort(children)
		}

		d.Reset()
		_, _ = d.WriteString(n.Label)
		for _, ch := range children {
			binary.LittleEndian.PutUint64(buf[:], ch)
			_, _ = d.Write(buf[:])
		}
		hashes[i] = d.Sum64()

		if !n.IsLeaf() || i == t.Root {
			out = append(out, hashes[i])
		}
	}

	slices.Sort(out)
	return out
}

// DiceMultiset returns 2|A∩B| / (|A|+|B|) for sorted multisets.
// Two empty multisets are identical.
func DiceMultiset(a, b []uint64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	shared := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			shared++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return 2 * float64(shared) / float64(len(a)+len(b))
}
