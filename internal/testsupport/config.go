package testsupport

import (
	"testing"

	"clashsub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted at a unique temp directory per test.
// It defaults the repository slug and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Root = base
	cfgVal.Repository.Slug = "octo/subs"
	cfgVal.Fetch.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithStrategy selects the template strategy.
func WithStrategy(strategy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Template.Strategy = strategy
	}
}

// WithRepository overrides the repository slug and branch.
func WithRepository(slug, branch string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Repository.Slug = slug
		if branch != "" {
			b.cfg.Repository.Branch = branch
		}
	}
}

// WithHistory enables the run ledger inside the workspace.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithoutFormat disables URL wrapping.
func WithoutFormat() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Format = ""
	}
}

// WithoutReadme disables the README update.
func WithoutReadme() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Readme.Enabled = false
	}
}
