package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/codeguard/domain"
)

// Configuration file names searched during discovery
const (
	DedicatedConfigFile = ".codeguard.toml"
	PyprojectFile       = "pyproject.toml"
)

// codeguardToml mirrors Config with pointer fields so unset keys keep their defaults
type codeguardToml struct {
	Detectors struct {
		TokenNGram *int    `toml:"token_ngram"`
		HashKGram  *int    `toml:"hash_kgram"`
		HashWindow *int    `toml:"hash_window"`
		ASTMetric  *string `toml:"ast_metric"`
	} `toml:"detectors"`

	Batch struct {
		Workers       *int    `toml:"workers"`
		DefaultPreset *string `toml:"default_preset"`
	} `toml:"batch"`

	Input struct {
		Recursive       *bool    `toml:"recursive"`
		IncludePatterns []string `toml:"include_patterns"`
		ExcludePatterns []string `toml:"exclude_patterns"`
	} `toml:"input"`

	Output struct {
		Format       *string `toml:"format"`
		MinVerdict   *string `toml:"min_verdict"`
		ShowEvidence *bool   `toml:"show_evidence"`
	} `toml:"output"`

	Presets map[string]PresetConfig `toml:"presets"`
}

// pyprojectToml represents the [tool.codeguard] section of pyproject.toml
type pyprojectToml struct {
	Tool struct {
		Codeguard *codeguardToml `toml:"codeguard"`
	} `toml:"tool"`
}

// TomlConfigLoader discovers and loads TOML configuration
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig walks up from startDir and loads the first configuration found:
//  1. .codeguard.toml
//  2. pyproject.toml with a [tool.codeguard] section
//  3. defaults
//
// It returns the path that was loaded, or "" for defaults.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", domain.NewConfigError(fmt.Sprintf("invalid directory %s", startDir), err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		path := filepath.Join(dir, DedicatedConfigFile)
		if fileExists(path) {
			cfg, err := l.LoadFile(path)
			return cfg, path, err
		}

		path = filepath.Join(dir, PyprojectFile)
		if fileExists(path) {
			cfg, found, err := l.loadPyproject(path)
			if err != nil {
				return nil, path, err
			}
			if found {
				return cfg, path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return DefaultConfig(), "", nil
}

// LoadFile loads a dedicated .codeguard.toml file
func (l *TomlConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	var raw codeguardToml
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to parse %s", path), err)
	}
	return finish(&raw, path)
}

func (l *TomlConfigLoader) loadPyproject(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, domain.NewConfigError(fmt.Sprintf("failed to read %s", path), err)
	}

	var pyproject pyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, false, domain.NewConfigError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if pyproject.Tool.Codeguard == nil {
		return nil, false, nil
	}

	cfg, err := finish(pyproject.Tool.Codeguard, path)
	return cfg, true, err
}

func finish(raw *codeguardToml, path string) (*Config, error) {
	cfg := DefaultConfig()
	mergeToml(cfg, raw)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// mergeToml copies every set value of raw onto cfg
func mergeToml(cfg *Config, raw *codeguardToml) {
	setIf(&cfg.Detectors.TokenNGram, raw.Detectors.TokenNGram)
	setIf(&cfg.Detectors.HashKGram, raw.Detectors.HashKGram)
	setIf(&cfg.Detectors.HashWindow, raw.Detectors.HashWindow)
	setIf(&cfg.Detectors.ASTMetric, raw.Detectors.ASTMetric)

	setIf(&cfg.Batch.Workers, raw.Batch.Workers)
	setIf(&cfg.Batch.DefaultPreset, raw.Batch.DefaultPreset)

	setIf(&cfg.Input.Recursive, raw.Input.Recursive)
	if len(raw.Input.IncludePatterns) > 0 {
		cfg.Input.IncludePatterns = raw.Input.IncludePatterns
	}
	if len(raw.Input.ExcludePatterns) > 0 {
		cfg.Input.ExcludePatterns = raw.Input.ExcludePatterns
	}

	setIf(&cfg.Output.Format, raw.Output.Format)
	setIf(&cfg.Output.MinVerdict, raw.Output.MinVerdict)
	setIf(&cfg.Output.ShowEvidence, raw.Output.ShowEvidence)

	for name, p := range raw.Presets {
		cfg.Presets[name] = p
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
