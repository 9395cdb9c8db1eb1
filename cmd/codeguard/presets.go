package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/config"
	"github.com/ludo-technologies/codeguard/service"
)

// PresetsCommand lists the presets a comparison can use
type PresetsCommand struct {
	configFile string
	format     string
}

// NewPresetsCommand creates a new presets command
func NewPresetsCommand() *PresetsCommand {
	return &PresetsCommand{format: string(domain.OutputFormatText)}
}

// CreateCobraCommand creates the cobra command for listing presets
func (p *PresetsCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List built-in and configured presets",
		Long: `List the detector presets available to compare.

Built-in presets are always listed first, followed by the custom presets
declared in the discovered or given configuration file.

Examples:
  codeguard presets
  codeguard presets --config course.toml --format json`,
		Args: cobra.NoArgs,
		RunE: p.runPresets,
	}

	cmd.Flags().StringVarP(&p.configFile, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&p.format, "format", "f", p.format, "Output format: text, json or yaml")

	return cmd
}

func (p *PresetsCommand) runPresets(cmd *cobra.Command, args []string) error {
	cfg, _, err := service.NewConfigurationLoader().Load(p.configFile, ".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	registry, err := config.NewPresetRegistryFromConfig(cfg)
	if err != nil {
		return err
	}

	format, err := domain.ParseOutputFormat(p.format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	presets := registry.List()
	switch format {
	case domain.OutputFormatJSON:
		return service.WriteJSON(out, presets)
	case domain.OutputFormatYAML:
		return service.WriteYAML(out, presets)
	case domain.OutputFormatText:
		service.NewFormatUtils(false).WriteTable(out, presetHeaders(), presetRows(registry, presets))
		return nil
	}
	return domain.NewUnsupportedFormatError(p.format)
}

func presetHeaders() []string {
	return []string{"Name", "Source", "Token", "AST", "Hash", "Decision", "Description"}
}

// presetRows renders one row per preset; detectors show weight/threshold
func presetRows(registry *config.PresetRegistry, presets []domain.Preset) [][]string {
	rows := make([][]string, 0, len(presets))
	for _, preset := range presets {
		source := "custom"
		if registry.IsBuiltin(preset.Name) {
			source = "built-in"
		}
		row := []string{preset.Name, source}
		for _, kind := range domain.AllDetectorKinds() {
			row = append(row, formatSetting(preset.Setting(kind)))
		}
		row = append(row, strconv.FormatFloat(preset.DecisionThreshold, 'f', 2, 64), preset.Description)
		rows = append(rows, row)
	}
	return rows
}

func formatSetting(s domain.DetectorSetting) string {
	if !s.Enabled() {
		return "off"
	}
	return fmt.Sprintf("%.2f/%.2f", s.Weight, s.Threshold)
}

// NewPresetsCmd creates and returns the presets cobra command
func NewPresetsCmd() *cobra.Command {
	return NewPresetsCommand().CreateCobraCommand()
}
