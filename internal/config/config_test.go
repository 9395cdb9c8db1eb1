package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	opts := cfg.AnalyzerOptions()
	assert.Equal(t, constants.DefaultTokenNGram, opts.NGram)
	assert.Equal(t, constants.DefaultHashKGram, opts.KGram)
	assert.Equal(t, constants.DefaultHashWindow, opts.Window)
	assert.Equal(t, constants.ASTMetricSubtree, opts.ASTMetric)
	assert.Greater(t, cfg.EffectiveWorkers(), 0)
}

func TestConfig_Validate(t *testing.T) {
	weight := 2.0
	tests := []struct {
		name    string
		mutate  func(*Config)
		code    string
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero ngram", mutate: func(c *Config) { c.Detectors.TokenNGram = 0 }, code: domain.ErrCodeConfigError, wantErr: true},
		{name: "huge window", mutate: func(c *Config) { c.Detectors.HashWindow = 1000 }, code: domain.ErrCodeConfigError, wantErr: true},
		{name: "unknown metric", mutate: func(c *Config) { c.Detectors.ASTMetric = "cosine" }, code: domain.ErrCodeConfigError, wantErr: true},
		{name: "negative workers", mutate: func(c *Config) { c.Batch.Workers = -1 }, code: domain.ErrCodeConfigError, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "html" }, code: domain.ErrCodeConfigError, wantErr: true},
		{name: "bad min verdict", mutate: func(c *Config) { c.Output.MinVerdict = "guilty" }, code: domain.ErrCodeConfigError, wantErr: true},
		{name: "empty pattern", mutate: func(c *Config) { c.Input.ExcludePatterns = []string{" "} }, code: domain.ErrCodeConfigError, wantErr: true},
		{name: "unknown default preset", mutate: func(c *Config) { c.Batch.DefaultPreset = "lenient" }, code: domain.ErrCodeInvalidPresetName, wantErr: true},
		{
			name: "custom preset shadows built-in",
			mutate: func(c *Config) {
				c.Presets["Standard"] = PresetConfig{Description: "mine"}
			},
			code:    domain.ErrCodeInvalidPresetName,
			wantErr: true,
		},
		{
			name: "custom preset with bad weight",
			mutate: func(c *Config) {
				w := -1.0
				c.Presets["broken"] = PresetConfig{Token: &DetectorOverrideConfig{Weight: &w}}
			},
			code:    domain.ErrCodeInvalidWeight,
			wantErr: true,
		},
		{
			name: "custom preset selected as default",
			mutate: func(c *Config) {
				c.Presets["heavy-ast"] = PresetConfig{AST: &DetectorOverrideConfig{Weight: &weight}}
				c.Batch.DefaultPreset = "heavy-ast"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "codeguard.yaml", `
detectors:
  token_ngram: 4
  ast_metric: edit
batch:
  workers: 3
  default_preset: classroom
output:
  format: json
  min_verdict: borderline
presets:
  classroom:
    base: simple
    description: Intro course
    decision_threshold: 0.6
    token:
      threshold: 0.75
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Detectors.TokenNGram)
	assert.Equal(t, constants.DefaultHashKGram, cfg.Detectors.HashKGram, "unset keys keep defaults")
	assert.Equal(t, constants.ASTMetricEdit, cfg.Detectors.ASTMetric)
	assert.Equal(t, 3, cfg.EffectiveWorkers())
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, []string{"**/*.py"}, cfg.Input.IncludePatterns)

	registry, err := NewPresetRegistryFromConfig(cfg)
	require.NoError(t, err)
	p, err := registry.Resolve("Classroom")
	require.NoError(t, err)
	assert.Equal(t, "Intro course", p.Description)
	assert.Equal(t, 0.6, p.DecisionThreshold)
	assert.Equal(t, 0.75, p.Setting(domain.DetectorToken).Threshold)
	assert.False(t, p.Setting(domain.DetectorHash).Enabled(), "inherits simple's disabled hash")
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "codeguard.json", `{"batch": {"workers": 2}, "input": {"recursive": false}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.False(t, cfg.Input.Recursive)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, domain.IsCode(err, domain.ErrCodeConfigError))

	bad := writeFile(t, dir, "bad.yaml", "detectors:\n  hash_window: 0\n")
	_, err = LoadConfig(bad)
	assert.True(t, domain.IsCode(err, domain.ErrCodeConfigError))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestPresetConfig_Overrides(t *testing.T) {
	w, th, dt := 0.0, 0.9, 0.4
	pc := PresetConfig{
		DecisionThreshold: &dt,
		Hash:              &DetectorOverrideConfig{Weight: &w},
		AST:               &DetectorOverrideConfig{Threshold: &th},
	}

	ov := pc.Overrides()
	assert.Equal(t, map[domain.DetectorKind]float64{domain.DetectorHash: 0}, ov.Weights)
	assert.Equal(t, map[domain.DetectorKind]float64{domain.DetectorAST: 0.9}, ov.Thresholds)
	require.NotNil(t, ov.DecisionThreshold)
	assert.Equal(t, 0.4, *ov.DecisionThreshold)

	assert.True(t, PresetConfig{}.Overrides().IsEmpty())
}
