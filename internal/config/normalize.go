package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRepository()
	c.normalizeTemplate()
	c.normalizeFetch()
	c.normalizeReadme()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Root) == "" {
		c.Paths.Root = defaultRoot
	}
	if c.Paths.Root, err = expandPath(strings.TrimSpace(c.Paths.Root)); err != nil {
		return fmt.Errorf("paths.root: %w", err)
	}
	c.Paths.Template = strings.TrimSpace(c.Paths.Template)
	c.Paths.Subscriptions = strings.TrimSpace(c.Paths.Subscriptions)
	// An empty format path disables URL wrapping.
	c.Paths.Format = strings.TrimSpace(c.Paths.Format)
	c.Paths.Readme = strings.TrimSpace(c.Paths.Readme)
	c.Paths.OutputDir = strings.Trim(strings.TrimSpace(c.Paths.OutputDir), "/")
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	c.Paths.ProvidersDir = strings.Trim(strings.TrimSpace(c.Paths.ProvidersDir), "/")
	if c.Paths.ProvidersDir == "" {
		c.Paths.ProvidersDir = defaultProvidersDir
	}
	return nil
}

func (c *Config) normalizeRepository() {
	c.Repository.Slug = strings.Trim(strings.TrimSpace(c.Repository.Slug), "/")
	if c.Repository.Slug == "" {
		if value, ok := os.LookupEnv("GITHUB_REPOSITORY"); ok {
			c.Repository.Slug = strings.Trim(strings.TrimSpace(value), "/")
		}
	}
	c.Repository.Branch = strings.TrimSpace(c.Repository.Branch)
	if c.Repository.Branch == "" {
		if value, ok := os.LookupEnv("GITHUB_REF_NAME"); ok && strings.TrimSpace(value) != "" {
			c.Repository.Branch = strings.TrimSpace(value)
		} else {
			c.Repository.Branch = defaultBranch
		}
	}
	c.Repository.RawBaseURL = strings.TrimRight(strings.TrimSpace(c.Repository.RawBaseURL), "/")
	if c.Repository.RawBaseURL == "" {
		c.Repository.RawBaseURL = defaultRawBaseURL
	}
}

func (c *Config) normalizeTemplate() {
	c.Template.Strategy = strings.ToLower(strings.TrimSpace(c.Template.Strategy))
	if c.Template.Strategy == "" {
		c.Template.Strategy = defaultStrategy
	}
	if c.Template.URLPlaceholder == "" {
		c.Template.URLPlaceholder = defaultURLPlaceholder
	}
	if c.Template.PathPlaceholder == "" {
		c.Template.PathPlaceholder = defaultPathPlaceholder
	}
	c.Template.URLKey = strings.TrimSpace(c.Template.URLKey)
	if c.Template.URLKey == "" {
		c.Template.URLKey = defaultURLKey
	}
	c.Template.PathKey = strings.TrimSpace(c.Template.PathKey)
	if c.Template.PathKey == "" {
		c.Template.PathKey = defaultPathKey
	}
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = defaultFetchMaxBytes
	}
}

func (c *Config) normalizeReadme() {
	c.Readme.StartMarker = strings.TrimSpace(c.Readme.StartMarker)
	if c.Readme.StartMarker == "" {
		c.Readme.StartMarker = defaultStartMarker
	}
	c.Readme.EndMarker = strings.TrimSpace(c.Readme.EndMarker)
	if c.Readme.EndMarker == "" {
		c.Readme.EndMarker = defaultEndMarker
	}
	c.Readme.Heading = strings.TrimSpace(c.Readme.Heading)
	c.Readme.Intro = strings.TrimSpace(c.Readme.Intro)
}

func (c *Config) normalizeHistory() {
	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
