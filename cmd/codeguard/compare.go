package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/codeguard/app"
	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/config"
	"github.com/ludo-technologies/codeguard/service"
)

// Detector override flag names
const (
	flagTokenThreshold    = "token-threshold"
	flagASTThreshold      = "ast-threshold"
	flagHashThreshold     = "hash-threshold"
	flagTokenWeight       = "token-weight"
	flagASTWeight         = "ast-weight"
	flagHashWeight        = "hash-weight"
	flagDecisionThreshold = "decision-threshold"
)

// CompareCommand handles the compare CLI command
type CompareCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string

	// Batch configuration
	preset  string
	workers int

	// Per-detector overrides, applied only when explicitly set
	tokenThreshold    float64
	astThreshold      float64
	hashThreshold     float64
	tokenWeight       float64
	astWeight         float64
	hashWeight        float64
	decisionThreshold float64

	// Output options
	format       string
	outputPath   string
	minVerdict   string
	showEvidence bool
	noProgress   bool
	failOnMatch  bool
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	return &CompareCommand{
		recursive:    true,
		format:       string(domain.OutputFormatText),
		showEvidence: true,
	}
}

// CreateCobraCommand creates the cobra command for pairwise comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [paths...]",
		Short: "Compare every pair of Python submissions",
		Long: `Compare every pair of Python files found under the given paths.

Each pair is scored by the detectors enabled in the selected preset and the
weighted votes decide whether the pair is plagiarized, borderline or clean.

Exit codes:
  0  no plagiarized pairs (or --fail-on-match not set)
  1  at least one plagiarized pair and --fail-on-match is set
  2  fatal error

Examples:
  # Compare all submissions in a directory
  codeguard compare submissions/

  # Use the token-only preset and emit JSON
  codeguard compare --preset simple --format json submissions/ > report.json

  # Tighten the AST detector and only list suspicious pairs
  codeguard compare --ast-threshold 0.9 --min-verdict borderline submissions/

  # Fail a CI job when plagiarism is found
  codeguard compare --fail-on-match --no-progress submissions/`,
		RunE: c.runCompare,
	}

	// Input flags
	cmd.Flags().BoolVarP(&c.recursive, config.FlagRecursive, "r", c.recursive,
		"Recursively search directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "",
		"Path to configuration file (toml, yaml or json)")
	cmd.Flags().StringSliceVar(&c.includePatterns, config.FlagInclude, nil,
		"Glob patterns of files to include (default **/*.py)")
	cmd.Flags().StringSliceVar(&c.excludePatterns, config.FlagExclude, nil,
		"Glob patterns of files to exclude")

	// Batch flags
	cmd.Flags().StringVarP(&c.preset, config.FlagPreset, "p", "",
		"Detector preset (standard, simple or a configured preset)")
	cmd.Flags().IntVarP(&c.workers, config.FlagWorkers, "w", 0,
		"Concurrent pair evaluations (0 = number of CPUs)")

	// Detector overrides
	cmd.Flags().Float64Var(&c.tokenThreshold, flagTokenThreshold, 0, "Token detector vote threshold (0-1)")
	cmd.Flags().Float64Var(&c.astThreshold, flagASTThreshold, 0, "AST detector vote threshold (0-1)")
	cmd.Flags().Float64Var(&c.hashThreshold, flagHashThreshold, 0, "Hash detector vote threshold (0-1)")
	cmd.Flags().Float64Var(&c.tokenWeight, flagTokenWeight, 0, "Token detector weight (0 disables)")
	cmd.Flags().Float64Var(&c.astWeight, flagASTWeight, 0, "AST detector weight (0 disables)")
	cmd.Flags().Float64Var(&c.hashWeight, flagHashWeight, 0, "Hash detector weight (0 disables)")
	cmd.Flags().Float64Var(&c.decisionThreshold, flagDecisionThreshold, 0,
		"Weighted score at which a pair is plagiarized (0-1)")

	// Output flags
	cmd.Flags().StringVarP(&c.format, config.FlagFormat, "f", c.format,
		"Output format: text, json, yaml or csv")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&c.minVerdict, config.FlagMinVerdict, "",
		"Only report pairs at or above this verdict (clean, borderline, plagiarized)")
	cmd.Flags().BoolVar(&c.showEvidence, config.FlagShowEvidence, c.showEvidence,
		"Include matched fragments for suspicious pairs")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().BoolVar(&c.failOnMatch, "fail-on-match", false,
		"Exit with code 1 when a plagiarized pair is found")

	return cmd
}

// runCompare executes the comparison
func (c *CompareCommand) runCompare(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	explicit := GetExplicitFlags(cmd)
	cfg, cfgPath, err := c.loadConfig(paths[0], explicit)
	if err != nil {
		return err
	}

	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	var minVerdict domain.Verdict
	if strings.TrimSpace(cfg.Output.MinVerdict) != "" {
		if minVerdict, err = domain.ParseVerdict(cfg.Output.MinVerdict); err != nil {
			return err
		}
	}

	registry, err := config.NewPresetRegistryFromConfig(cfg)
	if err != nil {
		return err
	}

	logger := slog.Default()
	if cfgPath != "" {
		logger.Debug("loaded configuration", "path", cfgPath)
	}

	batch := service.NewBatchService(
		service.WithLogger(logger),
		service.WithPresetRegistry(registry),
		service.WithDefaultPreset(cfg.Batch.DefaultPreset),
		service.WithAnalyzerOptions(cfg.AnalyzerOptions()),
	)

	builder := app.NewCompareUseCaseBuilder().
		WithService(batch).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewReportFormatter()).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		WithLogger(logger)
	if !c.noProgress {
		builder = builder.WithProgressManager(service.NewProgressManager())
	}
	useCase, err := builder.Build()
	if err != nil {
		return err
	}

	req := domain.CompareRequest{
		Paths:           paths,
		Recursive:       cfg.Input.Recursive,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
		PresetName:      cfg.Batch.DefaultPreset,
		Overrides:       c.overrides(explicit),
		Workers:         cfg.Batch.Workers,
		OutputFormat:    format,
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      c.outputPath,
		MinVerdict:      minVerdict,
		ShowEvidence:    cfg.Output.ShowEvidence,
		ShowProgress:    !c.noProgress,
		ConfigPath:      cfgPath,
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	result, err := useCase.Execute(ctx, req)
	if err != nil {
		return err
	}

	if c.failOnMatch && result.Summary.ByVerdict[domain.VerdictPlagiarized] > 0 {
		return errMatchFound
	}
	return nil
}

// loadConfig resolves the configuration for target and applies explicit flags
func (c *CompareCommand) loadConfig(target string, explicit map[string]bool) (*config.Config, string, error) {
	cfg, cfgPath, err := service.NewConfigurationLoader().Load(c.configFile, configSearchDir(target))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg = cfg.ApplyFlags(config.FlagOverrides{
		Preset:          c.preset,
		Workers:         c.workers,
		Format:          c.format,
		MinVerdict:      c.minVerdict,
		Recursive:       c.recursive,
		IncludePatterns: c.includePatterns,
		ExcludePatterns: c.excludePatterns,
		ShowEvidence:    c.showEvidence,
	}, explicit)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, cfgPath, nil
}

// overrides collects the explicitly set detector flags
func (c *CompareCommand) overrides(explicit map[string]bool) domain.PresetOverrides {
	var ov domain.PresetOverrides

	setWeight := func(flag string, kind domain.DetectorKind, v float64) {
		if !config.WasExplicitlySet(explicit, flag) {
			return
		}
		if ov.Weights == nil {
			ov.Weights = make(map[domain.DetectorKind]float64)
		}
		ov.Weights[kind] = v
	}
	setThreshold := func(flag string, kind domain.DetectorKind, v float64) {
		if !config.WasExplicitlySet(explicit, flag) {
			return
		}
		if ov.Thresholds == nil {
			ov.Thresholds = make(map[domain.DetectorKind]float64)
		}
		ov.Thresholds[kind] = v
	}

	setWeight(flagTokenWeight, domain.DetectorToken, c.tokenWeight)
	setWeight(flagASTWeight, domain.DetectorAST, c.astWeight)
	setWeight(flagHashWeight, domain.DetectorHash, c.hashWeight)
	setThreshold(flagTokenThreshold, domain.DetectorToken, c.tokenThreshold)
	setThreshold(flagASTThreshold, domain.DetectorAST, c.astThreshold)
	setThreshold(flagHashThreshold, domain.DetectorHash, c.hashThreshold)

	if config.WasExplicitlySet(explicit, flagDecisionThreshold) {
		dt := c.decisionThreshold
		ov.DecisionThreshold = &dt
	}
	return ov
}

// configSearchDir returns the directory where config discovery starts
func configSearchDir(target string) string {
	info, err := os.Stat(target)
	if err == nil && !info.IsDir() {
		return filepath.Dir(target)
	}
	return target
}

// NewCompareCmd creates and returns the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
