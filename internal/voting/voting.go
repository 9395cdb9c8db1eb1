package voting

import (
	"errors"
	"math"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

var errMissingResult = errors.New("detector produced no result")

// Decide combines results under preset.
//
// The returned decision holds exactly one result per enabled detector, in
// canonical order. Results for disabled detectors are dropped; an enabled
// detector without a result is recorded as unavailable. Available results
// whose threshold differs from the preset's are re-voted against the preset.
func Decide(results []domain.DetectorResult, preset domain.Preset) domain.VotingDecision {
	byKind := make(map[domain.DetectorKind]domain.DetectorResult, len(results))
	for _, r := range results {
		if _, seen := byKind[r.Kind]; !seen {
			byKind[r.Kind] = r
		}
	}

	enabled := preset.EnabledKinds()
	selected := make([]domain.DetectorResult, 0, len(enabled))

	var weightSum, scoreSum float64
	available, voted := 0, false
	degraded := false

	for _, kind := range enabled {
		setting := preset.Setting(kind)
		r, ok := byKind[kind]
		switch {
		case !ok:
			r = domain.UnavailableResult(kind, setting.Threshold, domain.NewDetectorInternalError(kind, errMissingResult))
		case r.Available && r.Threshold != setting.Threshold:
			evidence := r.Evidence
			r = domain.NewDetectorResult(kind, r.Score, setting.Threshold)
			r.Evidence = evidence
		}
		selected = append(selected, r)

		if !r.Available {
			degraded = true
			continue
		}
		available++
		weightSum += setting.Weight
		scoreSum += setting.Weight * r.Score
		voted = voted || r.Vote
	}

	d := domain.VotingDecision{
		Results:    selected,
		PresetName: preset.Name,
	}
	if available == 0 || weightSum == 0 {
		d.Verdict = domain.VerdictUndetermined
		d.Confidence = domain.ConfidenceLow
		d.Margin = preset.DecisionThreshold
		return d
	}

	d.WeightedScore = domain.ClampScore(scoreSum / weightSum)
	d.Margin = math.Abs(d.WeightedScore - preset.DecisionThreshold)
	d.Verdict = verdictFor(d.WeightedScore, d.Margin, preset.DecisionThreshold, voted)
	d.Agreement = Agreement(d.Verdict, selected)
	d.Confidence = Confidence(d.Verdict, d.Agreement, d.Margin, degraded)
	return d
}

func verdictFor(score, margin, threshold float64, voted bool) domain.Verdict {
	switch {
	case !voted:
		return domain.VerdictClean
	case margin < constants.BorderlineBand:
		return domain.VerdictBorderline
	case score >= threshold:
		return domain.VerdictPlagiarized
	default:
		return domain.VerdictClean
	}
}
