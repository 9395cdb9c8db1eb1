package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/codeguard/domain"
)

// FileOutputWriter writes reports to a file or to a provided writer.
type FileOutputWriter struct {
	status io.Writer // where status messages go, typically stderr
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status}
}

// Write runs writeFunc against outputPath when set, otherwise against writer.
// A status line naming the file is printed after a successful file write.
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		if writer == nil {
			return domain.NewOutputError("no output destination", nil)
		}
		return writeFunc(writer)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create output directory: %s", dir), err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}
	if err := writeFunc(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to close output file: %s", outputPath), err)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}
	fmt.Fprintf(w.status, "%s report generated: %s\n", strings.ToUpper(string(format)), absPath)
	return nil
}
