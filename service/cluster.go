package service

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ludo-technologies/codeguard/domain"
)

// BuildClusters groups files connected by plagiarized pairs.
// Clusters are ordered by size, largest first, then by first member, and
// numbered from 1.
func BuildClusters(pairs []domain.PairRecord) []domain.Cluster {
	ids := make(map[string]int64)
	names := make(map[int64]string)
	g := simple.NewUndirectedGraph()

	node := func(name string) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		id := int64(len(ids))
		ids[name] = id
		names[id] = name
		g.AddNode(simple.Node(id))
		return id
	}

	for _, p := range pairs {
		if p.Verdict != domain.VerdictPlagiarized || p.FileA == p.FileB {
			continue
		}
		a, b := node(p.FileA), node(p.FileB)
		if !g.HasEdgeBetween(a, b) {
			g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var clusters []domain.Cluster
	member := make(map[string]int)
	for _, comp := range topo.ConnectedComponents(g) {
		if len(comp) < 2 {
			continue
		}
		c := domain.Cluster{Members: make([]string, 0, len(comp))}
		for _, n := range comp {
			c.Members = append(c.Members, names[n.ID()])
		}
		sort.Strings(c.Members)
		clusters = append(clusters, c)
	}

	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i].Members) != len(clusters[j].Members) {
			return len(clusters[i].Members) > len(clusters[j].Members)
		}
		return clusters[i].Members[0] < clusters[j].Members[0]
	})
	for i := range clusters {
		clusters[i].ID = i + 1
		for _, m := range clusters[i].Members {
			member[m] = i
		}
	}

	for _, p := range pairs {
		if p.Verdict != domain.VerdictPlagiarized {
			continue
		}
		idx, ok := member[p.FileA]
		if !ok {
			continue
		}
		c := &clusters[idx]
		c.Pairs++
		c.MaxScore = max(c.MaxScore, p.WeightedScore)
	}
	return clusters
}
