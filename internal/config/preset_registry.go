package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

// StandardPreset returns the default three-detector preset.
func StandardPreset() domain.Preset {
	return domain.Preset{
		Name:        constants.PresetStandard,
		Description: "Token, AST and Hash detectors; Hash weighted highest",
		Detectors: map[domain.DetectorKind]domain.DetectorSetting{
			domain.DetectorToken: {Weight: constants.DefaultTokenWeight, Threshold: constants.DefaultTokenThreshold},
			domain.DetectorAST:   {Weight: constants.DefaultASTWeight, Threshold: constants.DefaultASTThreshold},
			domain.DetectorHash:  {Weight: constants.DefaultHashWeight, Threshold: constants.DefaultHashThreshold},
		},
		DecisionThreshold: constants.StandardDecisionThreshold,
	}
}

// SimplePreset returns the preset for short, trivial exercises: Hash is
// disabled and the AST threshold is stricter.
func SimplePreset() domain.Preset {
	return domain.Preset{
		Name:        constants.PresetSimple,
		Description: "Hash disabled and a stricter AST threshold, for trivial exercises",
		Detectors: map[domain.DetectorKind]domain.DetectorSetting{
			domain.DetectorToken: {Weight: constants.DefaultTokenWeight, Threshold: constants.DefaultTokenThreshold},
			domain.DetectorAST:   {Weight: constants.DefaultASTWeight, Threshold: constants.SimpleASTThreshold},
			domain.DetectorHash:  {Weight: 0, Threshold: constants.DefaultHashThreshold},
		},
		DecisionThreshold: constants.SimpleDecisionThreshold,
	}
}

// BuiltinPresets returns fresh copies of the built-in presets
func BuiltinPresets() []domain.Preset {
	return []domain.Preset{StandardPreset(), SimplePreset()}
}

// PresetRegistry resolves preset names to validated presets.
// A registry is built once per job and is read-only afterwards.
type PresetRegistry struct {
	presets map[string]domain.Preset
	builtin map[string]bool
	order   []string
}

// NewPresetRegistry creates a registry holding only the built-in presets
func NewPresetRegistry() *PresetRegistry {
	r := &PresetRegistry{
		presets: make(map[string]domain.Preset),
		builtin: make(map[string]bool),
	}
	for _, p := range BuiltinPresets() {
		key := normalizePresetName(p.Name)
		r.presets[key] = p
		r.builtin[key] = true
		r.order = append(r.order, key)
	}
	return r
}

// NewPresetRegistryFromConfig adds the custom presets declared in cfg.
// Custom presets are derived from a built-in base preset, "standard" when
// unset, and may not reuse a built-in name.
func NewPresetRegistryFromConfig(cfg *Config) (*PresetRegistry, error) {
	r := NewPresetRegistry()
	if cfg == nil {
		return r, nil
	}

	names := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	manager := NewThresholdManager()
	for _, name := range names {
		pc := cfg.Presets[name]

		baseName := pc.Base
		if strings.TrimSpace(baseName) == "" {
			baseName = constants.PresetStandard
		}
		if !r.IsBuiltin(baseName) {
			return nil, domain.NewConfigError(fmt.Sprintf("preset %s: base must be a built-in preset, got %q", name, pc.Base), nil)
		}
		base, _ := r.Resolve(baseName)

		p, err := manager.Apply(base, pc.Overrides())
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		p.Name = strings.TrimSpace(name)
		p.Description = pc.Description

		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and adds a custom preset
func (r *PresetRegistry) Register(p domain.Preset) error {
	key := normalizePresetName(p.Name)
	if key == "" {
		return domain.NewInvalidPresetNameError(p.Name)
	}
	if r.builtin[key] {
		return domain.NewDomainError(domain.ErrCodeInvalidPresetName,
			fmt.Sprintf("preset %q shadows a built-in preset", p.Name), nil)
	}
	if _, exists := r.presets[key]; exists {
		return domain.NewDomainError(domain.ErrCodeInvalidPresetName,
			fmt.Sprintf("preset %q is declared more than once", p.Name), nil)
	}
	if err := p.Validate(); err != nil {
		return err
	}

	r.presets[key] = p.Clone()
	r.order = append(r.order, key)
	return nil
}

// Resolve returns a copy of the named preset. Lookup ignores case and
// surrounding whitespace; unknown names are an error.
func (r *PresetRegistry) Resolve(name string) (domain.Preset, error) {
	p, ok := r.presets[normalizePresetName(name)]
	if !ok {
		return domain.Preset{}, domain.NewInvalidPresetNameError(name)
	}
	return p.Clone(), nil
}

// IsBuiltin reports whether name is a built-in preset
func (r *PresetRegistry) IsBuiltin(name string) bool {
	return r.builtin[normalizePresetName(name)]
}

// List returns all presets, built-ins first, then custom presets by name
func (r *PresetRegistry) List() []domain.Preset {
	out := make([]domain.Preset, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.presets[key].Clone())
	}
	return out
}

// Names returns every registered preset name
func (r *PresetRegistry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.presets[key].Name)
	}
	return names
}

func normalizePresetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
