package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildCodeguardBinary builds cmd/codeguard into a temporary directory
func buildCodeguardBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "codeguard")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/codeguard")

	// Build from the project root, one level up from e2e
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build codeguard binary: %v\n%s", err, out)
	}
	return binaryPath
}

func createTestPythonFile(t *testing.T, dir, filename, content string) {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", filename, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}
}

// exitCodeOf returns the process exit code carried by err, 0 for nil
func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("command did not run: %v", err)
	}
	return exitErr.ExitCode()
}
