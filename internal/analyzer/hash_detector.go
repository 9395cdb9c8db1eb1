package analyzer

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/ludo-technologies/codeguard/domain"
)

// HashDetector scores partial copying as the containment of shared winnowed
// fingerprints in the smaller fingerprint set, and reports the matched
// fragments as evidence.
type HashDetector struct{}

func (d *HashDetector) Kind() domain.DetectorKind { return domain.DetectorHash }

func (d *HashDetector) Evaluate(a, b *SourceUnit, threshold float64) domain.DetectorResult {
	if err := unitError(a, b, tokenErr); err != nil {
		return domain.UnavailableResult(domain.DetectorHash, threshold, err)
	}

	fa, fb := a.Fingerprints.Bitmap(), b.Fingerprints.Bitmap()
	res := domain.NewDetectorResult(domain.DetectorHash, Containment(fa, fb), threshold)

	shared := roaring64.And(fa, fb)
	if shared.IsEmpty() {
		return res
	}
	for _, span := range sharedSpans(a.Fingerprints, b.Fingerprints, shared) {
		res.Evidence = append(res.Evidence, domain.FragmentMatch{
			LinesA:       domain.LineRange{Start: a.lineOf(span.startA), End: a.lineOf(span.endA)},
			LinesB:       domain.LineRange{Start: b.lineOf(span.startB), End: b.lineOf(span.endB)},
			Fingerprints: span.count,
		})
	}
	return res
}

func (d *HashDetector) sealed() {}
