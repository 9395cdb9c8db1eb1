package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/codeguard/internal/constants"
)

// Options controls how SourceUnit representations are derived and compared.
type Options struct {
	// NGram is the token n-gram width of the token detector
	NGram int
	// KGram and Window parameterise fingerprint winnowing
	KGram  int
	Window int
	// ASTMetric selects the structural similarity metric: "subtree" or "edit"
	ASTMetric string
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{
		NGram:     constants.DefaultTokenNGram,
		KGram:     constants.DefaultHashKGram,
		Window:    constants.DefaultHashWindow,
		ASTMetric: constants.ASTMetricSubtree,
	}
}

// Validate checks option ranges
func (o Options) Validate() error {
	if o.NGram < 1 || o.NGram > constants.MaxNGram {
		return fmt.Errorf("token n-gram width must be in [1,%d], got %d", constants.MaxNGram, o.NGram)
	}
	if o.KGram < 1 || o.KGram > constants.MaxNGram {
		return fmt.Errorf("hash k-gram width must be in [1,%d], got %d", constants.MaxNGram, o.KGram)
	}
	if o.Window < 1 || o.Window > constants.MaxWindow {
		return fmt.Errorf("winnowing window must be in [1,%d], got %d", constants.MaxWindow, o.Window)
	}
	switch o.ASTMetric {
	case constants.ASTMetricSubtree, constants.ASTMetricEdit:
	default:
		return fmt.Errorf("unknown AST metric %q", o.ASTMetric)
	}
	return nil
}
