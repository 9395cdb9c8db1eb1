package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/ludo-technologies/codeguard/internal/version"
)

func TestShort(t *testing.T) {
	if version.Short() == "" {
		t.Error("Short() should return non-empty string")
	}
}

func TestInfo(t *testing.T) {
	info := version.Info()

	if !strings.HasPrefix(info, "codeguard ") {
		t.Errorf("Info() should start with program name, got %q", info)
	}
	if !strings.Contains(info, runtime.Version()) {
		t.Errorf("Info() should contain Go version %s", runtime.Version())
	}

	lines := strings.Split(info, "\n")
	expectedPrefixes := []string{"codeguard ", "Commit:", "Built:", "Go:", "OS/Arch:"}
	if len(lines) != len(expectedPrefixes) {
		t.Fatalf("Info() should contain %d lines, got %d", len(expectedPrefixes), len(lines))
	}
	for i, prefix := range expectedPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d should start with %q, got %q", i, prefix, lines[i])
		}
	}
}

func TestGet(t *testing.T) {
	original := version.Version
	defer func() { version.Version = original }()

	version.Version = "v1.2.3"
	b := version.Get()

	if b.Version != "v1.2.3" {
		t.Errorf("expected v1.2.3, got %s", b.Version)
	}
	if b.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %s", b.Platform)
	}
}
