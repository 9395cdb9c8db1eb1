package voting

import (
	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

// Agreement returns the fraction of available results whose vote matches
// verdict. A plagiarized verdict matches true votes and a clean verdict
// matches false votes; borderline and undetermined match nothing.
func Agreement(verdict domain.Verdict, results []domain.DetectorResult) float64 {
	total, agree := 0, 0
	for _, r := range results {
		if !r.Available {
			continue
		}
		total++
		switch verdict {
		case domain.VerdictPlagiarized:
			if r.Vote {
				agree++
			}
		case domain.VerdictClean:
			if !r.Vote {
				agree++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(agree) / float64(total)
}

// Confidence grades a verdict.
func Confidence(verdict domain.Verdict, agreement, margin float64, degraded bool) domain.ConfidenceLevel {
	switch {
	case verdict == domain.VerdictBorderline || verdict == domain.VerdictUndetermined:
		return domain.ConfidenceLow
	case degraded:
		return domain.ConfidenceLow
	case agreement <= constants.LowAgreementRatio || margin < constants.BorderlineBand:
		return domain.ConfidenceLow
	case agreement == 1 && margin >= constants.HighConfidenceMargin:
		return domain.ConfidenceHigh
	default:
		return domain.ConfidenceMedium
	}
}
