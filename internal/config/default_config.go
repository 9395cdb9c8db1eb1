package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ludo-technologies/codeguard/internal/constants"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template
type DefaultConfigValues struct {
	TokenNGram int
	HashKGram  int
	HashWindow int
	ASTMetric  string

	DefaultPreset string
	PresetNames   string

	TokenWeight    float64
	TokenThreshold float64
	ASTWeight      float64
	ASTThreshold   float64
	HashWeight     float64
	HashThreshold  float64
}

func newDefaultConfigValues() DefaultConfigValues {
	cfg := DefaultConfig()
	names := make([]string, 0, 2)
	for _, p := range BuiltinPresets() {
		names = append(names, p.Name)
	}
	return DefaultConfigValues{
		TokenNGram:     cfg.Detectors.TokenNGram,
		HashKGram:      cfg.Detectors.HashKGram,
		HashWindow:     cfg.Detectors.HashWindow,
		ASTMetric:      cfg.Detectors.ASTMetric,
		DefaultPreset:  cfg.Batch.DefaultPreset,
		PresetNames:    strings.Join(names, ", "),
		TokenWeight:    constants.DefaultTokenWeight,
		TokenThreshold: constants.DefaultTokenThreshold,
		ASTWeight:      constants.DefaultASTWeight,
		ASTThreshold:   constants.DefaultASTThreshold,
		HashWeight:     constants.DefaultHashWeight,
		HashThreshold:  constants.DefaultHashThreshold,
	}
}

// GenerateDefaultConfigTOML renders the default config template
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}
	return buf.String(), nil
}
