package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/codeguard/domain"
)

// Detector scores one file pair with one representation.
//
// The set of detectors is closed: TokenDetector, ASTDetector and
// HashDetector are the only implementations.
type Detector interface {
	Kind() domain.DetectorKind
	Evaluate(a, b *SourceUnit, threshold float64) domain.DetectorResult
	sealed()
}

// NewDetector returns the detector for kind.
func NewDetector(kind domain.DetectorKind, opts Options) (Detector, error) {
	switch kind {
	case domain.DetectorToken:
		return &TokenDetector{}, nil
	case domain.DetectorAST:
		return NewASTDetector(opts.ASTMetric), nil
	case domain.DetectorHash:
		return &HashDetector{}, nil
	}
	return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown detector: %q", kind), nil)
}

// Detectors returns the detectors for kinds, in the given order.
func Detectors(kinds []domain.DetectorKind, opts Options) ([]Detector, error) {
	out := make([]Detector, 0, len(kinds))
	for _, k := range kinds {
		d, err := NewDetector(k, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// unitError returns the first representation error of a or b.
func unitError(a, b *SourceUnit, pick func(*SourceUnit) error) error {
	if err := pick(a); err != nil {
		return err
	}
	return pick(b)
}

func tokenErr(u *SourceUnit) error { return u.TokenErr }
func treeErr(u *SourceUnit) error  { return u.TreeErr }
