package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DetectorSetting is the weight and vote threshold of one detector within a preset.
// A zero weight disables the detector.
type DetectorSetting struct {
	Weight    float64 `json:"weight" yaml:"weight" toml:"weight" mapstructure:"weight"`
	Threshold float64 `json:"threshold" yaml:"threshold" toml:"threshold" mapstructure:"threshold"`
}

// Enabled reports whether the detector takes part in voting
func (s DetectorSetting) Enabled() bool {
	return s.Weight > 0
}

// Preset is a named bundle of per-detector settings plus a decision threshold.
// Presets are values: callers copy and override rather than mutate shared state.
type Preset struct {
	Name              string                           `json:"name" yaml:"name"`
	Description       string                           `json:"description,omitempty" yaml:"description,omitempty"`
	Detectors         map[DetectorKind]DetectorSetting `json:"detectors" yaml:"detectors"`
	DecisionThreshold float64                          `json:"decision_threshold" yaml:"decision_threshold"`
}

// Setting returns the setting for kind; missing kinds are disabled.
func (p Preset) Setting(kind DetectorKind) DetectorSetting {
	return p.Detectors[kind]
}

// EnabledKinds returns the enabled detector kinds in canonical order.
func (p Preset) EnabledKinds() []DetectorKind {
	kinds := make([]DetectorKind, 0, len(p.Detectors))
	for _, k := range AllDetectorKinds() {
		if p.Detectors[k].Enabled() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Clone returns a deep copy so overrides never leak into the source preset.
func (p Preset) Clone() Preset {
	out := p
	out.Detectors = make(map[DetectorKind]DetectorSetting, len(p.Detectors))
	for k, v := range p.Detectors {
		out.Detectors[k] = v
	}
	return out
}

// Validate checks weights, thresholds and that at least one detector is enabled.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewInvalidWeightError("preset name cannot be empty")
	}

	kinds := make([]string, 0, len(p.Detectors))
	for k := range p.Detectors {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	for _, name := range kinds {
		kind := DetectorKind(name)
		if !kind.IsValid() {
			return NewInvalidWeightError(fmt.Sprintf("preset %s: unknown detector %q", p.Name, name))
		}
		s := p.Detectors[kind]
		if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) || s.Weight < 0 {
			return NewInvalidWeightError(fmt.Sprintf("preset %s: %s weight must be a finite value >= 0, got %v", p.Name, kind, s.Weight))
		}
		if !inOpenUnit(s.Threshold) {
			return NewInvalidWeightError(fmt.Sprintf("preset %s: %s threshold must be in (0,1), got %v", p.Name, kind, s.Threshold))
		}
	}

	if len(p.EnabledKinds()) == 0 {
		return NewInvalidWeightError(fmt.Sprintf("preset %s: at least one detector must have weight > 0", p.Name))
	}
	if !inOpenUnit(p.DecisionThreshold) {
		return NewInvalidWeightError(fmt.Sprintf("preset %s: decision threshold must be in (0,1), got %v", p.Name, p.DecisionThreshold))
	}
	return nil
}

func inOpenUnit(v float64) bool {
	return !math.IsNaN(v) && v > 0 && v < 1
}

// PresetOverrides carries optional per-field overrides applied on top of a
// resolved preset. Nil fields keep the preset's value.
type PresetOverrides struct {
	Weights           map[DetectorKind]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
	Thresholds        map[DetectorKind]float64 `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	DecisionThreshold *float64                 `json:"decision_threshold,omitempty" yaml:"decision_threshold,omitempty"`
}

// IsEmpty reports whether no override is set
func (o PresetOverrides) IsEmpty() bool {
	return len(o.Weights) == 0 && len(o.Thresholds) == 0 && o.DecisionThreshold == nil
}
