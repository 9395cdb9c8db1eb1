package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codeguard/domain"
)

func record(a, b string, verdict domain.Verdict, score float64) domain.PairRecord {
	return domain.PairRecord{FileA: a, FileB: b, Verdict: verdict, WeightedScore: score}
}

func TestBuildClusters(t *testing.T) {
	pairs := []domain.PairRecord{
		record("a.py", "b.py", domain.VerdictPlagiarized, 0.9),
		record("b.py", "c.py", domain.VerdictPlagiarized, 0.8),
		record("a.py", "c.py", domain.VerdictPlagiarized, 0.95),
		record("d.py", "e.py", domain.VerdictPlagiarized, 0.7),
		record("c.py", "d.py", domain.VerdictBorderline, 0.52),
		record("f.py", "g.py", domain.VerdictClean, 0.1),
	}

	clusters := BuildClusters(pairs)
	require.Len(t, clusters, 2)

	assert.Equal(t, 1, clusters[0].ID)
	assert.Equal(t, []string{"a.py", "b.py", "c.py"}, clusters[0].Members)
	assert.Equal(t, 3, clusters[0].Pairs)
	assert.Equal(t, 0.95, clusters[0].MaxScore)

	assert.Equal(t, 2, clusters[1].ID)
	assert.Equal(t, []string{"d.py", "e.py"}, clusters[1].Members)
	assert.Equal(t, 1, clusters[1].Pairs)
}

func TestBuildClusters_OrderBySizeThenName(t *testing.T) {
	pairs := []domain.PairRecord{
		record("x.py", "y.py", domain.VerdictPlagiarized, 0.9),
		record("m.py", "n.py", domain.VerdictPlagiarized, 0.9),
	}

	clusters := BuildClusters(pairs)
	require.Len(t, clusters, 2)
	assert.Equal(t, "m.py", clusters[0].Members[0])
	assert.Equal(t, "x.py", clusters[1].Members[0])
}

func TestBuildClusters_NoPlagiarism(t *testing.T) {
	assert.Empty(t, BuildClusters(nil))
	assert.Empty(t, BuildClusters([]domain.PairRecord{
		record("a.py", "b.py", domain.VerdictBorderline, 0.5),
	}))
}
