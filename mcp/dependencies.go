package mcp

import (
	"io"
	"log/slog"

	"github.com/ludo-technologies/codeguard/app"
	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/config"
	"github.com/ludo-technologies/codeguard/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	config     *config.Config
	configPath string
	logger     *slog.Logger
}

// NewDependencies constructs the dependency set. A nil cfg is resolved on
// each call from configPath, or by discovery from the compared paths.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	return &Dependencies{
		fileReader: service.NewFileReader(),
		config:     cfg,
		configPath: configPath,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger passed to the batch service
func (d *Dependencies) WithLogger(logger *slog.Logger) *Dependencies {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// ResolveConfig returns the fixed configuration or loads one for targetDir
func (d *Dependencies) ResolveConfig(targetDir string) (*config.Config, error) {
	if d.config != nil {
		return d.config, nil
	}
	cfg, _, err := service.NewConfigurationLoader().Load(d.configPath, targetDir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildBatchService assembles a batch service for cfg
func (d *Dependencies) BuildBatchService(cfg *config.Config) (*service.BatchServiceImpl, *config.PresetRegistry, error) {
	registry, err := config.NewPresetRegistryFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	batch := service.NewBatchService(
		service.WithLogger(d.logger),
		service.WithPresetRegistry(registry),
		service.WithDefaultPreset(cfg.Batch.DefaultPreset),
		service.WithAnalyzerOptions(cfg.AnalyzerOptions()),
	)
	return batch, registry, nil
}

// BuildCompareUseCase assembles a CompareUseCase reading from disk
func (d *Dependencies) BuildCompareUseCase(batch domain.BatchService) (*app.CompareUseCase, error) {
	return app.NewCompareUseCaseBuilder().
		WithService(batch).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewReportFormatter()).
		WithLogger(d.logger).
		Build()
}
