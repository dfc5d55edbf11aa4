package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the workspace layout. Relative entries resolve against Root.
type Paths struct {
	Root          string `toml:"root"`
	Template      string `toml:"template"`
	Subscriptions string `toml:"subscriptions"`
	Format        string `toml:"format"`
	Readme        string `toml:"readme"`
	OutputDir     string `toml:"output_dir"`
	ProvidersDir  string `toml:"providers_dir"`
}

// Repository identifies where generated files are published.
type Repository struct {
	Slug       string `toml:"slug"`
	Branch     string `toml:"branch"`
	RawBaseURL string `toml:"raw_base_url"`
}

// Template selects the substitution strategy and its locators.
type Template struct {
	Strategy        string `toml:"strategy"`
	URLPlaceholder  string `toml:"url_placeholder"`
	PathPlaceholder string `toml:"path_placeholder"`
	URLKey          string `toml:"url_key"`
	PathKey         string `toml:"path_key"`
}

// Fetch contains provider download settings.
type Fetch struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
	MaxBytes       int64  `toml:"max_bytes"`
}

// Readme contains the generated links section settings.
type Readme struct {
	Enabled     bool   `toml:"enabled"`
	StartMarker string `toml:"start_marker"`
	EndMarker   string `toml:"end_marker"`
	Heading     string `toml:"heading"`
	Intro       string `toml:"intro"`
}

// History contains run ledger settings.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clashsub.
//
// Configuration sections:
//   - Paths: workspace root and input/output locations
//   - Repository: slug, branch and raw host used to build published links
//   - Template: placeholder or structured-path substitution settings
//   - Fetch: provider download timeout and limits
//   - Readme: marker pair and listing text for the README section
//   - History: optional sqlite run ledger
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Repository Repository `toml:"repository"`
	Template   Template   `toml:"template"`
	Fetch      Fetch      `toml:"fetch"`
	Readme     Readme     `toml:"readme"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the project-local config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigFile)
}

// Load locates, parses, and validates a configuration file. The returned config
// has Root expanded to an absolute path and every other field normalized.
func Load(path string) (*Config, string, bool, error) {
	return LoadWith(path, nil)
}

// LoadWith behaves like Load and applies override to the decoded config before
// normalization, so command-line flags take part in validation.
func LoadWith(path string, override func(*Config)) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if override != nil {
		override(&cfg)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigFile
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// Resolve returns p joined to the workspace root unless it is already absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Root, filepath.FromSlash(p))
}

// TemplatePath returns the absolute template location.
func (c *Config) TemplatePath() string { return c.Resolve(c.Paths.Template) }

// SubscriptionsPath returns the absolute subscriptions list location.
func (c *Config) SubscriptionsPath() string { return c.Resolve(c.Paths.Subscriptions) }

// FormatPath returns the absolute format file location, or "" when disabled.
func (c *Config) FormatPath() string { return c.Resolve(c.Paths.Format) }

// ReadmePath returns the absolute README location.
func (c *Config) ReadmePath() string { return c.Resolve(c.Paths.Readme) }

// OutputDir returns the absolute directory receiving generated configs.
func (c *Config) OutputDir() string { return c.Resolve(c.Paths.OutputDir) }

// ProvidersDir returns the absolute directory receiving provider bodies.
func (c *Config) ProvidersDir() string { return c.Resolve(c.Paths.ProvidersDir) }

// HistoryPath returns the absolute run ledger location.
func (c *Config) HistoryPath() string { return c.Resolve(c.History.Path) }

// LockPath returns the workspace run lock location.
func (c *Config) LockPath() string { return filepath.Join(c.Paths.Root, lockFileName) }

// FetchTimeout returns the bounded wait for a single provider download.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// RawURL builds the published raw link for a repository-relative slash path.
func (c *Config) RawURL(repoPath string) string {
	repoPath = strings.TrimPrefix(filepath.ToSlash(repoPath), "./")
	return strings.Join([]string{
		strings.TrimRight(c.Repository.RawBaseURL, "/"),
		c.Repository.Slug,
		c.Repository.Branch,
		repoPath,
	}, "/")
}

// EnsureDirectories creates the output and provider directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.OutputDir(), c.ProvidersDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(c.HistoryPath()), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
