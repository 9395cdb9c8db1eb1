package analyzer

import (
	"github.com/ludo-technologies/codeguard/internal/parser"
)

// postOrderTree is a tree renumbered in post-order for Zhang-Shasha.
type postOrderTree struct {
	labels   []string
	leftmost []int
	keyRoots []int
}

func newPostOrderTree(t *parser.Tree) *postOrderTree {
	order := t.PostOrder()
	pos := make([]int, t.Size())
	for p, i := range order {
		pos[i] = p
	}

	pt := &postOrderTree{
		labels:   make([]string, len(order)),
		leftmost: make([]int, len(order)),
	}
	for p, i := range order {
		n := t.Node(i)
		pt.labels[p] = n.Label
		if n.IsLeaf() {
			pt.leftmost[p] = p
		} else {
			pt.leftmost[p] = pt.leftmost[pos[n.Children[0]]]
		}
	}

	// A key root is the highest node sharing its leftmost leaf.
	seen := make(map[int]bool, len(order))
	for p := len(order) - 1; p >= 0; p-- {
		l := pt.leftmost[p]
		if !seen[l] {
			seen[l] = true
			pt.keyRoots = append(pt.keyRoots, p)
		}
	}
	// ascending order: smaller subproblems first
	for i, j := 0, len(pt.keyRoots)-1; i < j; i, j = i+1, j-1 {
		pt.keyRoots[i], pt.keyRoots[j] = pt.keyRoots[j], pt.keyRoots[i]
	}
	return pt
}

// TreeEditDistance computes the unit-cost Zhang-Shasha edit distance
// (insert, delete, relabel) between two trees.
func TreeEditDistance(a, b *parser.Tree) int {
	if a.Size() == 0 {
		return b.Size()
	}
	if b.Size() == 0 {
		return a.Size()
	}

	t1, t2 := newPostOrderTree(a), newPostOrderTree(b)
	n1, n2 := len(t1.labels), len(t2.labels)

	td := make([][]int32, n1)
	for i := range td {
		td[i] = make([]int32, n2)
	}
	fd := make([][]int32, n1+1)
	for i := range fd {
		fd[i] = make([]int32, n2+1)
	}

	for _, i := range t1.keyRoots {
		for _, j := range t2.keyRoots {
			forestDistance(t1, t2, i, j, td, fd)
		}
	}
	return int(td[n1-1][n2-1])
}

func forestDistance(t1, t2 *postOrderTree, i, j int, td, fd [][]int32) {
	li, lj := t1.leftmost[i], t2.leftmost[j]
	rows, cols := i-li+2, j-lj+2

	fd[0][0] = 0
	for x := 1; x < rows; x++ {
		fd[x][0] = fd[x-1][0] + 1
	}
	for y := 1; y < cols; y++ {
		fd[0][y] = fd[0][y-1] + 1
	}

	for x := 1; x < rows; x++ {
		ni := li + x - 1
		for y := 1; y < cols; y++ {
			nj := lj + y - 1
			del := fd[x-1][y] + 1
			ins := fd[x][y-1] + 1

			if t1.leftmost[ni] == li && t2.leftmost[nj] == lj {
				var relabel int32
				if t1.labels[ni] != t2.labels[nj] {
					relabel = 1
				}
				fd[x][y] = min(del, ins, fd[x-1][y-1]+relabel)
				td[ni][nj] = fd[x][y]
			} else {
				p, q := t1.leftmost[ni]-li, t2.leftmost[nj]-lj
				fd[x][y] = min(del, ins, fd[p][q]+td[ni][nj])
			}
		}
	}
}

// EditSimilarity converts the edit distance to a ratio in [0,1]:
// 1 - distance / max(|a|,|b|), floored at 0.
func EditSimilarity(a, b *parser.Tree) float64 {
	larger := max(a.Size(), b.Size())
	if larger == 0 {
		return 1.0
	}
	return max(0, 1.0-float64(TreeEditDistance(a, b))/float64(larger))
}
