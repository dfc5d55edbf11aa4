package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clashsub/internal/config"
)

// Workspace holds generator input contents. Empty fields are not written.
type Workspace struct {
	Template      string
	Subscriptions []string
	Format        string
	Readme        string
}

// WriteWorkspace writes the inputs to the locations cfg points at.
func WriteWorkspace(t testing.TB, cfg *config.Config, ws Workspace) {
	t.Helper()

	if ws.Template != "" {
		WriteFile(t, cfg.TemplatePath(), ws.Template)
	}
	if ws.Subscriptions != nil {
		WriteFile(t, cfg.SubscriptionsPath(), strings.Join(ws.Subscriptions, "\n")+"\n")
	}
	if ws.Format != "" && cfg.FormatPath() != "" {
		WriteFile(t, cfg.FormatPath(), ws.Format)
	}
	if ws.Readme != "" {
		WriteFile(t, cfg.ReadmePath(), ws.Readme)
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the contents of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
