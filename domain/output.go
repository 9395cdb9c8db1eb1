package domain

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat converts a case-insensitive name to an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return f, nil
	case "yml":
		return OutputFormatYAML, nil
	case "":
		return OutputFormatText, nil
	}
	return "", NewUnsupportedFormatError(fmt.Sprintf("%q", s))
}

// ProgressManager manages progress tracking for a batch
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Update updates the progress
	Update(processed, total int)

	// Complete marks the progress as completed
	Complete(success bool)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// ReportWriter sends a rendered report to a file or writer
type ReportWriter interface {
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}
