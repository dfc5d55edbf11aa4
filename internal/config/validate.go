package config

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ErrMissingRepository reports that no repository slug could be resolved.
var ErrMissingRepository = errors.New("repository.slug is required")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRepository(); err != nil {
		return err
	}
	if err := c.validateTemplate(); err != nil {
		return err
	}
	if err := c.validateReadme(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.Template == "" {
		return errors.New("paths.template must be set")
	}
	if c.Paths.Subscriptions == "" {
		return errors.New("paths.subscriptions must be set")
	}
	if c.Readme.Enabled && c.Paths.Readme == "" {
		return errors.New("paths.readme must be set when readme.enabled is true")
	}
	if err := validateRepoRelative("paths.output_dir", c.Paths.OutputDir); err != nil {
		return err
	}
	if err := validateRepoRelative("paths.providers_dir", c.Paths.ProvidersDir); err != nil {
		return err
	}
	if path.Clean(c.Paths.OutputDir) == path.Clean(c.Paths.ProvidersDir) {
		return errors.New("paths.output_dir and paths.providers_dir must differ")
	}
	return nil
}

// Output and provider directories are published as repository paths, so
// they must stay inside the workspace root.
func validateRepoRelative(key, value string) error {
	if filepath.IsAbs(value) {
		return fmt.Errorf("%s must be relative to paths.root", key)
	}
	cleaned := path.Clean(filepath.ToSlash(value))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%s must name a directory inside paths.root", key)
	}
	return nil
}

func (c *Config) validateRepository() error {
	if c.Repository.Slug == "" {
		return fmt.Errorf("%w. Set GITHUB_REPOSITORY, pass --repo, or edit %s", ErrMissingRepository, defaultConfigFile)
	}
	if strings.Count(c.Repository.Slug, "/") != 1 {
		return fmt.Errorf("repository.slug must look like owner/name, got %q", c.Repository.Slug)
	}
	parsed, err := url.Parse(c.Repository.RawBaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("repository.raw_base_url must be an http(s) URL, got %q", c.Repository.RawBaseURL)
	}
	return nil
}

func (c *Config) validateTemplate() error {
	switch c.Template.Strategy {
	case StrategyPlaceholder:
		if c.Template.URLPlaceholder == c.Template.PathPlaceholder {
			return errors.New("template.url_placeholder and template.path_placeholder must differ")
		}
	case StrategyPath:
		if c.Template.URLKey == c.Template.PathKey {
			return errors.New("template.url_key and template.path_key must differ")
		}
	default:
		return fmt.Errorf("template.strategy: unsupported value %q (use %q or %q)", c.Template.Strategy, StrategyPlaceholder, StrategyPath)
	}
	return nil
}

func (c *Config) validateReadme() error {
	if !c.Readme.Enabled {
		return nil
	}
	if c.Readme.StartMarker == c.Readme.EndMarker {
		return errors.New("readme.start_marker and readme.end_marker must differ")
	}
	if strings.Contains(c.Readme.StartMarker, c.Readme.EndMarker) || strings.Contains(c.Readme.EndMarker, c.Readme.StartMarker) {
		return errors.New("readme.start_marker and readme.end_marker must not contain each other")
	}
	return nil
}
