package analyzer

import (
	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

// ASTDetector scores structural similarity of normalized syntax trees.
//
// The subtree metric is the Dice coefficient of the multisets of structural
// subtree hashes. The edit metric is 1 - editDistance/max(size) and falls
// back to the subtree metric for trees larger than MaxEditDistanceNodes.
type ASTDetector struct {
	metric string
}

// NewASTDetector creates an AST detector with the given metric
func NewASTDetector(metric string) *ASTDetector {
	if metric == "" {
		metric = constants.ASTMetricSubtree
	}
	return &ASTDetector{metric: metric}
}

func (d *ASTDetector) Kind() domain.DetectorKind { return domain.DetectorAST }

// Metric returns the configured metric name
func (d *ASTDetector) Metric() string { return d.metric }

func (d *ASTDetector) Evaluate(a, b *SourceUnit, threshold float64) domain.DetectorResult {
	if err := unitError(a, b, treeErr); err != nil {
		return domain.UnavailableResult(domain.DetectorAST, threshold, err)
	}
	return domain.NewDetectorResult(domain.DetectorAST, d.score(a, b), threshold)
}

func (d *ASTDetector) score(a, b *SourceUnit) float64 {
	if d.metric == constants.ASTMetricEdit &&
		a.Tree.Size() <= constants.MaxEditDistanceNodes &&
		b.Tree.Size() <= constants.MaxEditDistanceNodes {
		return EditSimilarity(a.Tree, b.Tree)
	}
	return DiceMultiset(a.Subtrees, b.Subtrees)
}

func (d *ASTDetector) sealed() {}
