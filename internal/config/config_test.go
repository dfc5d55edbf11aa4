package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"clashsub/internal/config"
)

func TestLoadDefaultConfigUsesEnvRepository(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "octo/subs")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected clashsub.toml to be absent in package directory")
	}
	if cfg.Repository.Slug != "octo/subs" {
		t.Fatalf("expected slug from env, got %q", cfg.Repository.Slug)
	}
	if cfg.Repository.Branch != "main" {
		t.Fatalf("unexpected branch: %q", cfg.Repository.Branch)
	}
	if !filepath.IsAbs(cfg.Paths.Root) {
		t.Fatalf("expected absolute root, got %q", cfg.Paths.Root)
	}
	if cfg.Template.Strategy != config.StrategyPlaceholder {
		t.Fatalf("unexpected strategy: %q", cfg.Template.Strategy)
	}
	if cfg.FetchTimeout().Seconds() != 30 {
		t.Fatalf("unexpected fetch timeout: %s", cfg.FetchTimeout())
	}
	if cfg.Readme.StartMarker != "<!-- START_LINKS -->" || cfg.Readme.EndMarker != "<!-- END_LINKS -->" {
		t.Fatalf("unexpected markers: %q %q", cfg.Readme.StartMarker, cfg.Readme.EndMarker)
	}
	wantOutput := filepath.Join(cfg.Paths.Root, "output")
	if cfg.OutputDir() != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.OutputDir(), wantOutput)
	}
}

func TestLoadMissingRepositoryIsFatal(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "")

	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error without repository slug")
	}
	if !errors.Is(err, config.ErrMissingRepository) {
		t.Fatalf("expected ErrMissingRepository, got %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "env/ignored")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clashsub.toml")

	type payload struct {
		Paths struct {
			Root      string `toml:"root"`
			OutputDir string `toml:"output_dir"`
			Format    string `toml:"format"`
		} `toml:"paths"`
		Repository struct {
			Slug   string `toml:"slug"`
			Branch string `toml:"branch"`
		} `toml:"repository"`
		Template struct {
			Strategy string `toml:"strategy"`
		} `toml:"template"`
		Fetch struct {
			TimeoutSeconds int `toml:"timeout_seconds"`
		} `toml:"fetch"`
	}
	custom := payload{}
	custom.Paths.Root = tempDir
	custom.Paths.OutputDir = "configs/"
	custom.Paths.Format = ""
	custom.Repository.Slug = "me/clash"
	custom.Repository.Branch = "release"
	custom.Template.Strategy = "PATH"
	custom.Fetch.TimeoutSeconds = 5
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Repository.Slug != "me/clash" {
		t.Fatalf("expected slug from file to win over env, got %q", cfg.Repository.Slug)
	}
	if cfg.Template.Strategy != config.StrategyPath {
		t.Fatalf("expected strategy to be lowercased, got %q", cfg.Template.Strategy)
	}
	if cfg.Paths.OutputDir != "configs" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Paths.OutputDir)
	}
	if cfg.FormatPath() != "" {
		t.Fatalf("expected empty format path to disable wrapping, got %q", cfg.FormatPath())
	}
	if got, want := cfg.RawURL("providers/a.txt"), "https://raw.githubusercontent.com/me/clash/release/providers/a.txt"; got != want {
		t.Fatalf("unexpected raw url: got %q want %q", got, want)
	}
	if got, want := cfg.TemplatePath(), filepath.Join(tempDir, "template.yaml"); got != want {
		t.Fatalf("unexpected template path: got %q want %q", got, want)
	}
}

func TestLoadWithOverride(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "")
	cfg, _, _, err := config.LoadWith(filepath.Join(t.TempDir(), "none.toml"), func(c *config.Config) {
		c.Repository.Slug = "/flag/repo/"
	})
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Repository.Slug != "flag/repo" {
		t.Fatalf("expected override slug, got %q", cfg.Repository.Slug)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "%%URL_PLACEHOLDER%%") {
		t.Fatalf("sample config missing placeholder token: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Paths.ProvidersDir != "providers" {
		t.Fatalf("unexpected providers dir in sample: %q", cfg.Paths.ProvidersDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.Repository.Slug = "octo/subs"
		return cfg
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config with slug to validate, got %v", err)
	}

	cfg = valid()
	cfg.Paths.OutputDir = "../elsewhere"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for output dir escaping root")
	}

	cfg = valid()
	cfg.Paths.ProvidersDir = "/abs/providers"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for absolute providers dir")
	}

	cfg = valid()
	cfg.Paths.ProvidersDir = cfg.Paths.OutputDir
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when output and providers dirs match")
	}

	cfg = valid()
	cfg.Repository.Slug = "just-a-name"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for slug without owner")
	}

	cfg = valid()
	cfg.Repository.RawBaseURL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-http raw base url")
	}

	cfg = valid()
	cfg.Template.Strategy = "regex"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown strategy")
	}

	cfg = valid()
	cfg.Template.PathPlaceholder = cfg.Template.URLPlaceholder
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for identical placeholders")
	}

	cfg = valid()
	cfg.Readme.EndMarker = cfg.Readme.StartMarker
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for identical markers")
	}

	cfg = valid()
	cfg.Readme.Enabled = false
	cfg.Readme.EndMarker = cfg.Readme.StartMarker
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected markers to be ignored when readme disabled, got %v", err)
	}
}
