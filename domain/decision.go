package domain

import (
	"fmt"
	"strings"
)

// Verdict is the fused outcome for a file pair.
type Verdict string

const (
	VerdictPlagiarized Verdict = "plagiarized"
	VerdictBorderline  Verdict = "borderline"
	VerdictClean       Verdict = "clean"
	// VerdictUndetermined is used only when no enabled detector could run.
	VerdictUndetermined Verdict = "undetermined"
)

// Rank orders verdicts by severity for filtering.
func (v Verdict) Rank() int {
	switch v {
	case VerdictPlagiarized:
		return 3
	case VerdictBorderline:
		return 2
	case VerdictClean:
		return 1
	default:
		return 0
	}
}

// ParseVerdict converts a case-insensitive name to a Verdict
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VerdictPlagiarized, VerdictBorderline, VerdictClean, VerdictUndetermined:
		return v, nil
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown verdict: %q", s), nil)
}

// ConfidenceLevel expresses how much the detectors agree on a verdict.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// VotingDecision is the fused result for a pair under one preset.
// Results holds exactly one entry per enabled detector, in canonical order.
type VotingDecision struct {
	WeightedScore float64          `json:"weighted_score" yaml:"weighted_score"`
	Verdict       Verdict          `json:"verdict" yaml:"verdict"`
	Confidence    ConfidenceLevel  `json:"confidence_level" yaml:"confidence_level"`
	Agreement     float64          `json:"agreement" yaml:"agreement"`
	Margin        float64          `json:"margin" yaml:"margin"`
	Results       []DetectorResult `json:"results" yaml:"results"`
	PresetName    string           `json:"preset_name" yaml:"preset_name"`
}

// Result returns the decision's result for kind, if that detector was enabled.
func (d VotingDecision) Result(kind DetectorKind) (DetectorResult, bool) {
	for _, r := range d.Results {
		if r.Kind == kind {
			return r, true
		}
	}
	return DetectorResult{}, false
}

// Degraded lists enabled detectors whose result was unavailable
func (d VotingDecision) Degraded() []DetectorKind {
	var kinds []DetectorKind
	for _, r := range d.Results {
		if !r.Available {
			kinds = append(kinds, r.Kind)
		}
	}
	return kinds
}
