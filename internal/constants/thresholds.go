package constants

import "time"

// Per-detector default vote thresholds. A detector votes "plagiarized" for a
// pair when its score is at or above its threshold.
const (
	// DefaultTokenThreshold suits verbatim or lightly reformatted copies.
	// Renaming identifiers drops the token score well below it.
	DefaultTokenThreshold = 0.70

	// DefaultASTThreshold is the structural threshold of the standard preset.
	DefaultASTThreshold = 0.80

	// SimpleASTThreshold is the stricter structural threshold used for
	// low-entropy problem sets, where honest solutions share shape by chance.
	SimpleASTThreshold = 0.85

	// DefaultHashThreshold is the containment threshold. Containment is
	// normalised by the smaller file so partial copies still reach it.
	DefaultHashThreshold = 0.60
)

// Detector weights and decision thresholds of the built-in presets.
const (
	DefaultTokenWeight = 1.0
	DefaultASTWeight   = 1.0
	// DefaultHashWeight favours fragment evidence in the standard preset.
	DefaultHashWeight = 1.5

	StandardDecisionThreshold = 0.50
	SimpleDecisionThreshold   = 0.55
)

// Built-in preset names.
const (
	PresetStandard = "standard"
	PresetSimple   = "simple"
)

// Voting and confidence bands.
const (
	// BorderlineBand is the half-width of the band around the decision
	// threshold that yields a borderline verdict.
	BorderlineBand = 0.05

	// HighConfidenceMargin is the minimum distance from the decision threshold
	// for High confidence, together with full agreement.
	HighConfidenceMargin = 0.15

	// LowAgreementRatio is the agreement at or below which confidence is Low.
	LowAgreementRatio = 0.5
)

// Representation parameters.
const (
	// DefaultTokenNGram is the n-gram width of the token detector.
	DefaultTokenNGram = 3

	// DefaultHashKGram is the k-gram width of the fingerprint generator.
	DefaultHashKGram = 5

	// DefaultHashWindow is the winnowing window. Any shared run of
	// k + w - 1 tokens yields at least one shared fingerprint.
	DefaultHashWindow = 4

	// RollingHashBase is the polynomial base of the rolling k-gram hash.
	// Arithmetic is modulo 2^64.
	RollingHashBase uint64 = 1099511628211

	// EvidenceMergeGap merges matched token positions closer than this into one fragment.
	EvidenceMergeGap = 8

	// MaxEditDistanceNodes caps the tree size for the edit-distance metric.
	// Larger trees fall back to the subtree metric.
	MaxEditDistanceNodes = 1200

	// MaxNGram and MaxWindow bound configurable widths.
	MaxNGram  = 32
	MaxWindow = 64
)

// AST metric names.
const (
	ASTMetricSubtree = "subtree"
	ASTMetricEdit    = "edit"
)

// ParseTimeout bounds a single tree-sitter parse.
const ParseTimeout = 10 * time.Second
