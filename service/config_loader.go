package service

import (
	"github.com/ludo-technologies/codeguard/internal/config"
)

// ConfigurationLoaderImpl resolves the configuration for a comparison run
type ConfigurationLoaderImpl struct {
	toml *config.TomlConfigLoader
}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{toml: config.NewTomlConfigLoader()}
}

// Load returns the configuration and the path it came from.
//
// An explicit configPath is read as-is in any format viper understands.
// Otherwise discovery starts at targetDir (the current directory when empty)
// and walks up looking for .codeguard.toml or a pyproject.toml with a
// [tool.codeguard] section. "" is returned as the path when defaults are used.
func (c *ConfigurationLoaderImpl) Load(configPath, targetDir string) (*config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, configPath, err
		}
		return cfg, configPath, nil
	}

	if targetDir == "" {
		targetDir = "."
	}
	return c.toml.LoadConfig(targetDir)
}
