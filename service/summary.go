package service

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ludo-technologies/codeguard/domain"
)

// Summarize aggregates verdicts, confidence levels and per-detector score
// statistics over the compared pairs. totalPairs counts every pair the batch
// enumerated, including pairs skipped after cancellation.
func Summarize(decisions []domain.VotingDecision, units []domain.UnitStatus, totalPairs int) domain.BatchSummary {
	s := domain.BatchSummary{
		Files:         len(units),
		TotalPairs:    totalPairs,
		ComparedPairs: len(decisions),
		ByVerdict:     make(map[domain.Verdict]int),
		ByConfidence:  make(map[domain.ConfidenceLevel]int),
	}
	for _, u := range units {
		if u.Degraded() {
			s.DegradedFiles++
		}
	}

	scores := make(map[domain.DetectorKind][]float64)
	stats := make(map[domain.DetectorKind]*domain.DetectorStats)
	var weighted []float64

	for _, d := range decisions {
		s.ByVerdict[d.Verdict]++
		s.ByConfidence[d.Confidence]++
		if d.Verdict != domain.VerdictUndetermined {
			weighted = append(weighted, d.WeightedScore)
		}

		for _, r := range d.Results {
			st, ok := stats[r.Kind]
			if !ok {
				st = &domain.DetectorStats{Kind: r.Kind}
				stats[r.Kind] = st
			}
			if !r.Available {
				st.Degraded++
				continue
			}
			st.Evaluated++
			if r.Vote {
				st.Votes++
			}
			scores[r.Kind] = append(scores[r.Kind], r.Score)
		}
	}

	for _, kind := range domain.AllDetectorKinds() {
		st, ok := stats[kind]
		if !ok {
			continue
		}
		st.Mean, st.StdDev, st.Max = describe(scores[kind])
		s.Detectors = append(s.Detectors, *st)
	}

	s.MeanWeighted, _, _ = describe(weighted)
	return s
}

// describe returns mean, sample standard deviation and maximum of xs
func describe(xs []float64) (mean, std, maxValue float64) {
	switch len(xs) {
	case 0:
		return 0, 0, 0
	case 1:
		return xs[0], 0, xs[0]
	}
	mean, std = stat.MeanStdDev(xs, nil)
	return mean, std, floats.Max(xs)
}
