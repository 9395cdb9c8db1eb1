package domain

import (
	"fmt"
	"math"
	"strings"
)

// DetectorKind identifies one of the three similarity detectors.
// The set is closed: Token, AST and Hash are the only kinds.
type DetectorKind string

const (
	// DetectorToken compares n-gram sets of raw tokens
	DetectorToken DetectorKind = "token"
	// DetectorAST compares normalized syntax trees
	DetectorAST DetectorKind = "ast"
	// DetectorHash compares winnowed k-gram fingerprints
	DetectorHash DetectorKind = "hash"
)

// AllDetectorKinds returns every detector kind in canonical order.
func AllDetectorKinds() []DetectorKind {
	return []DetectorKind{DetectorToken, DetectorAST, DetectorHash}
}

// String returns the kind's wire name
func (k DetectorKind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the known detector kinds
func (k DetectorKind) IsValid() bool {
	switch k {
	case DetectorToken, DetectorAST, DetectorHash:
		return true
	default:
		return false
	}
}

// ParseDetectorKind converts a case-insensitive name to a DetectorKind.
func ParseDetectorKind(s string) (DetectorKind, error) {
	k := DetectorKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", NewInvalidInputError(fmt.Sprintf("unknown detector: %q", s), nil)
	}
	return k, nil
}

// LineRange is an inclusive 1-based line span.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// String returns the range as "start-end"
func (r LineRange) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// FragmentMatch is a matched region shared by both files of a pair.
type FragmentMatch struct {
	LinesA       LineRange `json:"lines_a" yaml:"lines_a"`
	LinesB       LineRange `json:"lines_b" yaml:"lines_b"`
	Fingerprints int       `json:"fingerprints" yaml:"fingerprints"`
}

// DetectorResult is the outcome of one detector on one file pair.
//
// Vote is exactly Score >= Threshold at evaluation time. An unavailable
// result carries the reason in Error and never votes.
type DetectorResult struct {
	Kind      DetectorKind    `json:"kind" yaml:"kind"`
	Score     float64         `json:"score" yaml:"score"`
	Threshold float64         `json:"threshold" yaml:"threshold"`
	Vote      bool            `json:"vote" yaml:"vote"`
	Available bool            `json:"available" yaml:"available"`
	Error     *DomainError    `json:"error,omitempty" yaml:"error,omitempty"`
	Evidence  []FragmentMatch `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// NewDetectorResult builds an available result whose vote is derived from
// score and threshold. The score is clamped to [0,1].
func NewDetectorResult(kind DetectorKind, score, threshold float64) DetectorResult {
	score = ClampScore(score)
	return DetectorResult{
		Kind:      kind,
		Score:     score,
		Threshold: threshold,
		Vote:      score >= threshold,
		Available: true,
	}
}

// UnavailableResult builds a degraded result for kind.
func UnavailableResult(kind DetectorKind, threshold float64, cause error) DetectorResult {
	res := DetectorResult{
		Kind:      kind,
		Threshold: threshold,
	}
	if cause != nil {
		de := AsDomainError(cause, ErrCodeDetectorInternal)
		res.Error = &de
	}
	return res
}

// ScorePtr returns a pointer to the score or nil when the result is unavailable.
func (r DetectorResult) ScorePtr() *float64 {
	if !r.Available {
		return nil
	}
	s := r.Score
	return &s
}

// ClampScore forces s into [0,1]; NaN maps to 0.
func ClampScore(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
