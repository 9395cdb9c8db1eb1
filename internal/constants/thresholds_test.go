package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultThresholds(t *testing.T) {
	t.Run("Constants have expected values", func(t *testing.T) {
		assert.Equal(t, 0.70, DefaultTokenThreshold)
		assert.Equal(t, 0.80, DefaultASTThreshold)
		assert.Equal(t, 0.60, DefaultHashThreshold)
		assert.Equal(t, 0.85, SimpleASTThreshold)
	})

	t.Run("Simple AST threshold is never looser than standard", func(t *testing.T) {
		assert.GreaterOrEqual(t, SimpleASTThreshold, DefaultASTThreshold)
	})

	t.Run("All thresholds are in the open unit interval", func(t *testing.T) {
		for _, th := range []float64{
			DefaultTokenThreshold, DefaultASTThreshold, SimpleASTThreshold, DefaultHashThreshold,
			StandardDecisionThreshold, SimpleDecisionThreshold,
		} {
			assert.Greater(t, th, 0.0)
			assert.Less(t, th, 1.0)
		}
	})

	t.Run("High confidence margin lies outside the borderline band", func(t *testing.T) {
		assert.Greater(t, HighConfidenceMargin, BorderlineBand)
	})
}

func TestWinnowingGuarantee(t *testing.T) {
	// shared runs of k + w - 1 tokens must be detectable
	assert.Equal(t, 8, DefaultHashKGram+DefaultHashWindow-1)
}
