package app

import (
	"fmt"

	"github.com/ludo-technologies/codeguard/domain"
)

// ResolveFilePaths collects the Python files under paths using the given
// filters. At least two files are needed for a comparison.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	files, err := fileReader.CollectPythonFiles(paths, recursive, includePatterns, excludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) < 2 {
		return nil, domain.NewValidationError(fmt.Sprintf("at least 2 Python files are required, found %d", len(files)))
	}
	return files, nil
}

// LoadSources reads every file and keys its content by path.
// A file that cannot be read fails the whole job.
func LoadSources(fileReader domain.FileReader, files []string) (map[string][]byte, error) {
	sources := make(map[string][]byte, len(files))
	for _, f := range files {
		content, err := fileReader.ReadFile(f)
		if err != nil {
			return nil, err
		}
		sources[f] = content
	}
	return sources, nil
}
