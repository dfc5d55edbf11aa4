package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clashsub/internal/config"
	"clashsub/internal/history"
	"clashsub/internal/logging"
	"clashsub/internal/services"
)

type globalFlags struct {
	config    string
	root      string
	repo      string
	branch    string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.flags != nil {
			path = strings.TrimSpace(c.flags.config)
		}
		cfg, resolved, exists, err := config.LoadWith(path, c.applyOverrides)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cfg *config.Config) {
	if c.flags == nil {
		return
	}
	if v := strings.TrimSpace(c.flags.root); v != "" {
		cfg.Paths.Root = v
	}
	if v := strings.TrimSpace(c.flags.repo); v != "" {
		cfg.Repository.Slug = v
	}
	if v := strings.TrimSpace(c.flags.branch); v != "" {
		cfg.Repository.Branch = v
	}
	if v := strings.TrimSpace(c.flags.logLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(c.flags.logFormat); v != "" {
		cfg.Logging.Format = v
	}
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, w)
}

// openHistory returns nil when the run ledger is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.HistoryPath())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
