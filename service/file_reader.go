package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/codeguard/domain"
)

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectPythonFiles finds all Python files in the given paths.
// The result is cleaned, de-duplicated and sorted.
func (f *FileReaderImpl) CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	if err := f.ValidatePatterns(append(append([]string{}, includePatterns...), excludePatterns...)); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			for _, file := range dirFiles {
				add(file)
			}
			continue
		}

		// explicitly named files only need the right extension and must not be excluded
		if f.IsValidPythonFile(path) && !f.isExcluded(path, excludePatterns) {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidPythonFile checks if a file is a Python source file
func (f *FileReaderImpl) IsValidPythonFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".py"
}

// FileExists checks if a file exists
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// ValidatePatterns reports the first malformed glob pattern
func (f *FileReaderImpl) ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %q", p), nil)
		}
	}
	return nil
}

// collectFromDirectory collects Python files from a directory
func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are skipped
			return nil
		}

		if path != dirPath {
			if d.IsDir() && !recursive {
				return filepath.SkipDir
			}

			// Skip hidden directories and files
			if strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if path != dirPath && f.shouldSkipDirectory(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.IsValidPythonFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// shouldIncludeFile checks if a file should be included based on patterns
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if f.isExcluded(path, excludePatterns) {
		return false
	}

	// If no include patterns specified, include by default
	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

func (f *FileReaderImpl) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchesPattern matches a doublestar pattern against the base name, the
// whole path and every trailing run of path segments, so "venv/**" also
// excludes /abs/project/venv/lib/x.py.
func (f *FileReaderImpl) matchesPattern(pattern, path string) bool {
	pattern = filepath.ToSlash(pattern)
	slashed := filepath.ToSlash(path)

	// "dir/**" also matches dir itself
	dirPattern, isDirPattern := strings.CutSuffix(pattern, "/**")

	segments := strings.Split(strings.TrimPrefix(slashed, "/"), "/")
	for i := range segments {
		candidate := strings.Join(segments[i:], "/")
		if ok, _ := doublestar.Match(pattern, candidate); ok {
			return true
		}
		if isDirPattern {
			if ok, _ := doublestar.Match(dirPattern, candidate); ok {
				return true
			}
		}
	}

	ok, _ := doublestar.Match(pattern, slashed)
	return ok
}

// shouldSkipDirectory checks if a directory should be skipped entirely
func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	skipDirs := []string{
		"__pycache__",
		"node_modules",
		"venv",
		"env",
		"build",
		"dist",
		"*.egg-info",
	}

	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if matched, _ := doublestar.Match(skipDir, dirLower); matched {
			return true
		}
	}
	return false
}

// ValidatePaths validates that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}
