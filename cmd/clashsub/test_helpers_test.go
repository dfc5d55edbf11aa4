package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testTemplate = "proxy-providers:\n  proxy:\n    url: %%URL_PLACEHOLDER%%\n    path: %%PATH_PLACEHOLDER%%\n"
	testReadme   = "# Subs\n<!-- START_LINKS -->\n<!-- END_LINKS -->\n"
)

type cliTestEnv struct {
	root       string
	configPath string
	server     *httptest.Server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("GITHUB_REPOSITORY", "")
	t.Setenv("GITHUB_REF_NAME", "")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "proxies for "+r.URL.Path)
	}))
	t.Cleanup(server.Close)

	root := t.TempDir()
	configPath := filepath.Join(root, "clashsub.toml")
	content := fmt.Sprintf(`[paths]
root = %q
format = ""

[repository]
slug = "octo/subs"
branch = "main"

[history]
enabled = true

[logging]
level = "warn"
`, root)
	writeTestFile(t, configPath, content)
	writeTestFile(t, filepath.Join(root, "template.yaml"), testTemplate)
	writeTestFile(t, filepath.Join(root, "README.md"), testReadme)
	writeTestFile(t, filepath.Join(root, "subscriptions.txt"),
		server.URL+"/sub123\n"+server.URL+"/missing\n")

	return &cliTestEnv{root: root, configPath: configPath, server: server}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
