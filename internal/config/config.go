package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/analyzer"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Detectors holds representation parameters shared by every preset
	Detectors DetectorParams `mapstructure:"detectors" yaml:"detectors" json:"detectors" toml:"detectors"`

	// Batch holds scheduling configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch" toml:"batch"`

	// Input holds file discovery configuration
	Input InputConfig `mapstructure:"input" yaml:"input" json:"input" toml:"input"`

	// Output holds report configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output" toml:"output"`

	// Presets holds custom presets keyed by name
	Presets map[string]PresetConfig `mapstructure:"presets" yaml:"presets" json:"presets" toml:"presets"`
}

// DetectorParams configures how token, fingerprint and tree representations are built
type DetectorParams struct {
	TokenNGram int    `mapstructure:"token_ngram" yaml:"token_ngram" json:"token_ngram" toml:"token_ngram"`
	HashKGram  int    `mapstructure:"hash_kgram" yaml:"hash_kgram" json:"hash_kgram" toml:"hash_kgram"`
	HashWindow int    `mapstructure:"hash_window" yaml:"hash_window" json:"hash_window" toml:"hash_window"`
	ASTMetric  string `mapstructure:"ast_metric" yaml:"ast_metric" json:"ast_metric" toml:"ast_metric"`
}

// BatchConfig configures pair scheduling
type BatchConfig struct {
	// Workers bounds concurrent pair evaluations; 0 means GOMAXPROCS
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers" toml:"workers"`

	// DefaultPreset is used when no preset is requested
	DefaultPreset string `mapstructure:"default_preset" yaml:"default_preset" json:"default_preset" toml:"default_preset"`
}

// InputConfig configures file discovery
type InputConfig struct {
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive" toml:"recursive"`
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" json:"include_patterns" toml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns" toml:"exclude_patterns"`
}

// OutputConfig configures reports
type OutputConfig struct {
	Format       string `mapstructure:"format" yaml:"format" json:"format" toml:"format"`
	MinVerdict   string `mapstructure:"min_verdict" yaml:"min_verdict" json:"min_verdict" toml:"min_verdict"`
	ShowEvidence bool   `mapstructure:"show_evidence" yaml:"show_evidence" json:"show_evidence" toml:"show_evidence"`
}

// PresetConfig declares a custom preset as a base preset plus overrides.
// Unset fields keep the base preset's values.
type PresetConfig struct {
	Base              string                  `mapstructure:"base" yaml:"base" json:"base" toml:"base"`
	Description       string                  `mapstructure:"description" yaml:"description" json:"description" toml:"description"`
	DecisionThreshold *float64                `mapstructure:"decision_threshold" yaml:"decision_threshold" json:"decision_threshold" toml:"decision_threshold"`
	Token             *DetectorOverrideConfig `mapstructure:"token" yaml:"token" json:"token" toml:"token"`
	AST               *DetectorOverrideConfig `mapstructure:"ast" yaml:"ast" json:"ast" toml:"ast"`
	Hash              *DetectorOverrideConfig `mapstructure:"hash" yaml:"hash" json:"hash" toml:"hash"`
}

// DetectorOverrideConfig overrides one detector of a base preset
type DetectorOverrideConfig struct {
	Weight    *float64 `mapstructure:"weight" yaml:"weight" json:"weight" toml:"weight"`
	Threshold *float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold" toml:"threshold"`
}

// Overrides converts the preset declaration to overrides on its base preset
func (p PresetConfig) Overrides() domain.PresetOverrides {
	ov := domain.PresetOverrides{DecisionThreshold: p.DecisionThreshold}
	for kind, d := range map[domain.DetectorKind]*DetectorOverrideConfig{
		domain.DetectorToken: p.Token,
		domain.DetectorAST:   p.AST,
		domain.DetectorHash:  p.Hash,
	} {
		if d == nil {
			continue
		}
		if d.Weight != nil {
			if ov.Weights == nil {
				ov.Weights = make(map[domain.DetectorKind]float64)
			}
			ov.Weights[kind] = *d.Weight
		}
		if d.Threshold != nil {
			if ov.Thresholds == nil {
				ov.Thresholds = make(map[domain.DetectorKind]float64)
			}
			ov.Thresholds[kind] = *d.Threshold
		}
	}
	return ov
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Detectors: DetectorParams{
			TokenNGram: constants.DefaultTokenNGram,
			HashKGram:  constants.DefaultHashKGram,
			HashWindow: constants.DefaultHashWindow,
			ASTMetric:  constants.ASTMetricSubtree,
		},
		Batch: BatchConfig{
			Workers:       0,
			DefaultPreset: constants.PresetStandard,
		},
		Input: InputConfig{
			Recursive:       true,
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{
				"**/.venv/**",
				"**/venv/**",
				"**/__pycache__/**",
				"**/.git/**",
			},
		},
		Output: OutputConfig{
			Format:       string(domain.OutputFormatText),
			ShowEvidence: true,
		},
		Presets: map[string]PresetConfig{},
	}
}

// LoadConfig loads configuration from an explicit file of any format viper
// understands (yaml, yml, json, toml). Values not present in the file keep
// their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// AnalyzerOptions returns the representation options for the analyzer
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		NGram:     c.Detectors.TokenNGram,
		KGram:     c.Detectors.HashKGram,
		Window:    c.Detectors.HashWindow,
		ASTMetric: c.Detectors.ASTMetric,
	}
}

// EffectiveWorkers returns the worker count, resolving 0 to GOMAXPROCS
func (c *Config) EffectiveWorkers() int {
	if c.Batch.Workers > 0 {
		return c.Batch.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := c.AnalyzerOptions().Validate(); err != nil {
		return domain.NewConfigError("invalid detectors section", err)
	}

	if c.Batch.Workers < 0 {
		return domain.NewConfigError(fmt.Sprintf("batch.workers must be >= 0, got %d", c.Batch.Workers), nil)
	}

	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return domain.NewConfigError(fmt.Sprintf("invalid output.format %q", c.Output.Format), err)
	}
	if strings.TrimSpace(c.Output.MinVerdict) != "" {
		if _, err := domain.ParseVerdict(c.Output.MinVerdict); err != nil {
			return domain.NewConfigError(fmt.Sprintf("invalid output.min_verdict %q", c.Output.MinVerdict), err)
		}
	}

	for _, pattern := range append(append([]string{}, c.Input.IncludePatterns...), c.Input.ExcludePatterns...) {
		if strings.TrimSpace(pattern) == "" {
			return domain.NewConfigError("input patterns cannot be empty", nil)
		}
	}

	registry, err := NewPresetRegistryFromConfig(c)
	if err != nil {
		return err
	}
	if c.Batch.DefaultPreset != "" {
		if _, err := registry.Resolve(c.Batch.DefaultPreset); err != nil {
			return err
		}
	}
	return nil
}
