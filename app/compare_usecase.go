package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/service"
)

// CompareUseCase orchestrates an all-pairs plagiarism comparison: collect the
// submissions, run the batch, render the report.
type CompareUseCase struct {
	service    domain.BatchService
	fileReader domain.FileReader
	formatter  domain.ReportFormatter
	output     domain.ReportWriter
	progress   domain.ProgressManager
	logger     *slog.Logger
}

// Analyze collects and compares the submissions named by req without
// rendering anything.
func (uc *CompareUseCase) Analyze(ctx context.Context, req domain.CompareRequest) (*domain.BatchResult, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewValidationError("paths cannot be empty")
	}

	files, err := ResolveFilePaths(uc.fileReader, req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	uc.logger.Debug("collected submissions", "files", len(files))

	sources, err := LoadSources(uc.fileReader, files)
	if err != nil {
		return nil, fmt.Errorf("failed to read files: %w", err)
	}

	batch := domain.BatchRequest{
		Files:      sources,
		PresetName: req.PresetName,
		Overrides:  req.Overrides,
		Workers:    req.Workers,
	}

	showProgress := req.ShowProgress && uc.progress != nil
	if showProgress {
		uc.progress.Initialize(len(files) * (len(files) - 1) / 2)
		batch.Progress = uc.progress.Update
		defer uc.progress.Close()
	}

	result, err := uc.service.Run(ctx, batch)
	if showProgress {
		uc.progress.Complete(err == nil && result != nil && !result.Cancelled)
	}
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}
	return result, nil
}

// Execute runs Analyze and writes the report. A cancelled batch still writes
// its partial report and then returns a CANCELLED error.
func (uc *CompareUseCase) Execute(ctx context.Context, req domain.CompareRequest) (*domain.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	result, err := uc.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := domain.ReportOptions{
		Format:       req.OutputFormat,
		MinVerdict:   req.MinVerdict,
		ShowEvidence: req.ShowEvidence,
		Colored:      req.OutputPath == "" && colorEnabled(req.OutputWriter),
	}
	err = uc.output.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.Format(result, opts, w)
	})
	if err != nil {
		return result, fmt.Errorf("failed to write report: %w", err)
	}

	if result.Cancelled {
		return result, domain.NewCancelledError(ctx.Err())
	}
	return result, nil
}

// colorEnabled reports whether w is a terminal and colour is not disabled
func colorEnabled(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// CompareUseCaseBuilder helps build CompareUseCase with dependencies
type CompareUseCaseBuilder struct {
	service    domain.BatchService
	fileReader domain.FileReader
	formatter  domain.ReportFormatter
	output     domain.ReportWriter
	progress   domain.ProgressManager
	logger     *slog.Logger
}

// NewCompareUseCaseBuilder creates a new builder for CompareUseCase
func NewCompareUseCaseBuilder() *CompareUseCaseBuilder {
	return &CompareUseCaseBuilder{}
}

// WithService sets the batch service
func (b *CompareUseCaseBuilder) WithService(s domain.BatchService) *CompareUseCaseBuilder {
	b.service = s
	return b
}

// WithFileReader sets the file reader
func (b *CompareUseCaseBuilder) WithFileReader(fr domain.FileReader) *CompareUseCaseBuilder {
	b.fileReader = fr
	return b
}

// WithFormatter sets the report formatter
func (b *CompareUseCaseBuilder) WithFormatter(f domain.ReportFormatter) *CompareUseCaseBuilder {
	b.formatter = f
	return b
}

// WithOutputWriter sets where reports go
func (b *CompareUseCaseBuilder) WithOutputWriter(w domain.ReportWriter) *CompareUseCaseBuilder {
	b.output = w
	return b
}

// WithProgressManager sets the progress manager
func (b *CompareUseCaseBuilder) WithProgressManager(pm domain.ProgressManager) *CompareUseCaseBuilder {
	b.progress = pm
	return b
}

// WithLogger sets the structured logger
func (b *CompareUseCaseBuilder) WithLogger(logger *slog.Logger) *CompareUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the CompareUseCase with the configured dependencies
func (b *CompareUseCaseBuilder) Build() (*CompareUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("batch service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("report formatter is required")
	}

	output := b.output
	if output == nil {
		output = service.NewFileOutputWriter(nil)
	}
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &CompareUseCase{
		service:    b.service,
		fileReader: b.fileReader,
		formatter:  b.formatter,
		output:     output,
		progress:   b.progress,
		logger:     logger,
	}, nil
}
