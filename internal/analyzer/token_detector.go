package analyzer

import "github.com/ludo-technologies/codeguard/domain"

// TokenDetector scores verbatim similarity as the Jaccard coefficient of the
// two files' raw-token n-gram sets. Identifiers are kept as written, so
// renaming lowers the score.
type TokenDetector struct{}

func (d *TokenDetector) Kind() domain.DetectorKind { return domain.DetectorToken }

func (d *TokenDetector) Evaluate(a, b *SourceUnit, threshold float64) domain.DetectorResult {
	if err := unitError(a, b, tokenErr); err != nil {
		return domain.UnavailableResult(domain.DetectorToken, threshold, err)
	}
	return domain.NewDetectorResult(domain.DetectorToken, Jaccard(a.NGrams, b.NGrams), threshold)
}

func (d *TokenDetector) sealed() {}
