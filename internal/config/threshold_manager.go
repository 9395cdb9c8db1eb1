package config

import (
	"fmt"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

// ThresholdManager applies per-run overrides to presets.
// It holds no state; every call returns a new preset.
type ThresholdManager struct{}

// NewThresholdManager creates a new threshold manager
func NewThresholdManager() *ThresholdManager {
	return &ThresholdManager{}
}

// Apply returns a copy of preset with overrides applied and validated.
// Overriding the weight of a detector the preset does not mention enables it
// at its default threshold.
func (m *ThresholdManager) Apply(preset domain.Preset, overrides domain.PresetOverrides) (domain.Preset, error) {
	out := preset.Clone()

	for kind, w := range overrides.Weights {
		if !kind.IsValid() {
			return domain.Preset{}, domain.NewInvalidWeightError(fmt.Sprintf("unknown detector %q", kind))
		}
		s, ok := out.Detectors[kind]
		if !ok {
			s.Threshold = DefaultThreshold(kind)
		}
		s.Weight = w
		out.Detectors[kind] = s
	}

	for kind, th := range overrides.Thresholds {
		if !kind.IsValid() {
			return domain.Preset{}, domain.NewInvalidWeightError(fmt.Sprintf("unknown detector %q", kind))
		}
		s := out.Detectors[kind]
		s.Threshold = th
		out.Detectors[kind] = s
	}

	if overrides.DecisionThreshold != nil {
		out.DecisionThreshold = *overrides.DecisionThreshold
	}

	if err := out.Validate(); err != nil {
		return domain.Preset{}, err
	}
	return out, nil
}

// Resolve looks up name in registry and applies overrides
func (m *ThresholdManager) Resolve(registry *PresetRegistry, name string, overrides domain.PresetOverrides) (domain.Preset, error) {
	p, err := registry.Resolve(name)
	if err != nil {
		return domain.Preset{}, err
	}
	if overrides.IsEmpty() {
		if err := p.Validate(); err != nil {
			return domain.Preset{}, err
		}
		return p, nil
	}
	return m.Apply(p, overrides)
}

// DefaultThreshold returns the calibrated vote threshold of kind
func DefaultThreshold(kind domain.DetectorKind) float64 {
	switch kind {
	case domain.DetectorToken:
		return constants.DefaultTokenThreshold
	case domain.DetectorAST:
		return constants.DefaultASTThreshold
	case domain.DetectorHash:
		return constants.DefaultHashThreshold
	}
	return 0
}
