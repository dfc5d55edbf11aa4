package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clashsub/internal/config"
	"clashsub/internal/testsupport"
)

const readmeWithMarkers = "# Subs\n<!-- START_LINKS -->\n<!-- END_LINKS -->\n"

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDirectory_WillBeCreated(t *testing.T) {
	result := CheckOutputDirectory("out", filepath.Join(t.TempDir(), "a", "b"))
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected pass for creatable dir, got: %+v", result)
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "subs.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFileReadable("subs", f); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckFileReadable("subs", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckFileReadable("subs", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckTemplateReportsMissingPlaceholder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteWorkspace(t, cfg, testsupport.Workspace{Template: "url: %%URL_PLACEHOLDER%%\n"})

	result := CheckTemplate(cfg)
	if result.Passed {
		t.Fatal("expected failure when path placeholder is absent")
	}
	if !strings.Contains(result.Detail, "path") {
		t.Fatalf("expected missing field in detail, got %q", result.Detail)
	}
}

func TestCheckTemplatePathStrategy(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStrategy(config.StrategyPath))
	testsupport.WriteWorkspace(t, cfg, testsupport.Workspace{
		Template: "proxy-providers:\n  proxy:\n    url: x\n    path: y\n",
	})
	if result := CheckTemplate(cfg); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
}

func TestCheckFormat(t *testing.T) {
	dir := t.TempDir()
	withToken := filepath.Join(dir, "with.txt")
	without := filepath.Join(dir, "without.txt")
	testsupport.WriteFile(t, withToken, "https://c.example/?u=[URL]")
	testsupport.WriteFile(t, without, "https://c.example/")

	if result := CheckFormat(withToken); !result.Passed || result.Warning || !strings.Contains(result.Detail, "token present") {
		t.Fatalf("unexpected result: %+v", result)
	}
	result := CheckFormat(without)
	if !result.Passed || !result.Warning || !strings.Contains(result.Detail, "as-is") {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := Warnings([]Result{result}); len(got) != 1 {
		t.Fatalf("expected passthrough format to be listed as a warning, got %+v", got)
	}
	if result := CheckFormat(filepath.Join(dir, "missing.txt")); result.Passed {
		t.Fatal("expected failure for missing format file")
	}
}

func TestCheckReadme(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckReadme(cfg); result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("expected missing README failure, got %+v", result)
	}

	testsupport.WriteFile(t, cfg.ReadmePath(), "# no markers\n")
	if result := CheckReadme(cfg); result.Passed {
		t.Fatal("expected failure without markers")
	}

	testsupport.WriteFile(t, cfg.ReadmePath(), readmeWithMarkers)
	if result := CheckReadme(cfg); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
}

func TestRunAllHealthyWorkspace(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	testsupport.WriteWorkspace(t, cfg, testsupport.Workspace{
		Template:      "url: %%URL_PLACEHOLDER%%\npath: %%PATH_PLACEHOLDER%%\n",
		Subscriptions: []string{"https://example.com/sub123"},
		Format:        "https://c.example/?u=[URL]",
		Readme:        readmeWithMarkers,
	})

	results := RunAll(context.Background(), cfg)
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, failed: %+v", failed)
	}
	names := make(map[string]bool, len(results))
	for _, r := range results {
		names[r.Name] = true
	}
	for _, want := range []string{"Repository", "Template", "Format", "README markers", "History directory"} {
		if !names[want] {
			t.Fatalf("expected %q check in results %v", want, names)
		}
	}
}

func TestRunAllSkipsDisabledFeatures(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutFormat(), testsupport.WithoutReadme())
	for _, r := range RunAll(context.Background(), cfg) {
		if r.Name == "Format" || r.Name == "README markers" || r.Name == "History directory" {
			t.Fatalf("unexpected check %q for disabled feature", r.Name)
		}
	}
}
