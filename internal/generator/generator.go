package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"clashsub/internal/config"
	"clashsub/internal/history"
	"clashsub/internal/logging"
	"clashsub/internal/provider"
	"clashsub/internal/services"
	"clashsub/internal/subscription"
	"clashsub/internal/templating"
)

// ErrLocked is returned when another run holds the workspace lock.
var ErrLocked = errors.New("another clashsub run is already in progress")

// Recorder persists finished runs. *history.Store satisfies it.
type Recorder interface {
	RecordRun(ctx context.Context, run history.Run) error
}

// Options configures a Generator. Zero values fall back to config-derived
// defaults.
type Options struct {
	Fetcher  provider.Fetcher
	Strategy templating.Strategy
	Logger   *slog.Logger
	Recorder Recorder
	DryRun   bool
	Now      func() time.Time
}

// Generator runs the subscription pipeline for one workspace.
type Generator struct {
	cfg      *config.Config
	fetcher  provider.Fetcher
	strategy templating.Strategy
	logger   *slog.Logger
	recorder Recorder
	dryRun   bool
	now      func() time.Time
}

// inputs are loaded once per run, before the first fetch.
type inputs struct {
	template templating.Document
	entries  []subscription.Entry
	wrapper  subscription.Wrapper
}

// New constructs a generator for cfg.
func New(cfg *config.Config, opts Options) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("generator requires config")
	}
	g := &Generator{
		cfg:      cfg,
		fetcher:  opts.Fetcher,
		strategy: opts.Strategy,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		dryRun:   opts.DryRun,
		now:      opts.Now,
	}
	if g.fetcher == nil {
		g.fetcher = provider.NewFromConfig(cfg)
	}
	if g.strategy == nil {
		strategy, err := templating.FromConfig(cfg.Template)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "init", "template strategy", "", err)
		}
		g.strategy = strategy
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	g.logger = logging.NewComponentLogger(g.logger, "generator")
	if g.now == nil {
		g.now = time.Now
	}
	return g, nil
}

// Run processes every subscription entry and updates the README once.
// The returned report is populated even when err is non-nil.
func (g *Generator) Run(ctx context.Context) (report Report, err error) {
	report = Report{
		RunID:     uuid.NewString(),
		Strategy:  g.strategy.Name(),
		DryRun:    g.dryRun,
		StartedAt: g.now(),
	}
	ctx = services.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, g.logger)

	if !g.dryRun {
		lock := flock.New(g.cfg.LockPath())
		ok, lockErr := lock.TryLock()
		if lockErr != nil {
			return report, fmt.Errorf("acquire lock: %w", lockErr)
		}
		if !ok {
			return report, ErrLocked
		}
		defer func() {
			if unlockErr := lock.Unlock(); unlockErr != nil {
				logger.Warn("failed to release workspace lock", logging.Error(unlockErr))
			}
		}()
	}

	defer func() {
		report.FinishedAt = g.now()
		if err != nil {
			logging.ErrorWithContext(logger, "generation aborted", "run_aborted",
				logging.String("kind", services.Kind(err)),
				logging.String(logging.FieldErrorHint, abortHint(err)),
				logging.Error(err),
			)
		}
		g.record(ctx, report, err)
	}()

	in, err := g.loadInputs(ctx)
	if err != nil {
		return report, err
	}
	if err := g.validateReadme(); err != nil {
		return report, err
	}
	if !g.dryRun {
		if err := g.cfg.EnsureDirectories(); err != nil {
			return report, services.Wrap(services.ErrConfiguration, "prepare", "directories", "", err)
		}
	}

	logger.Info("generation started",
		logging.Int("entries", len(in.entries)),
		logging.String("strategy", report.Strategy),
		logging.Bool("dry_run", g.dryRun),
	)

	seen := make([]Generated, 0, len(in.entries))
	for _, entry := range in.entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		generated, entryErr := g.processEntry(ctx, in, entry, seen)
		if entryErr != nil {
			skip := Skipped{
				Line:      entry.Line,
				Name:      generated.Name,
				SourceURL: entry.SourceURL,
				Kind:      services.Kind(entryErr),
				Reason:    entryErr.Error(),
			}
			report.Skipped = append(report.Skipped, skip)
			entryLogger := logging.WithContext(services.WithEntry(ctx, skip.Name), g.logger)
			logging.WarnWithContext(entryLogger, "subscription skipped", "entry_skipped",
				logging.Int(logging.FieldLine, entry.Line),
				logging.String(logging.FieldSourceURL, entry.SourceURL),
				logging.String("kind", skip.Kind),
				logging.String(logging.FieldErrorHint, hintFor(entryErr)),
				logging.Error(entryErr),
			)
			continue
		}
		seen = append(seen, generated)
		report.Generated = append(report.Generated, generated)
	}

	if err := g.updateReadme(ctx, &report); err != nil {
		return report, err
	}

	logger.Info("generation finished",
		logging.Int("generated", len(report.Generated)),
		logging.Int("skipped", len(report.Skipped)),
		logging.Bool("readme_updated", report.ReadmeUpdated),
	)
	return report, nil
}

func (g *Generator) loadInputs(ctx context.Context) (inputs, error) {
	logger := logging.WithContext(services.WithStage(ctx, "load"), g.logger)

	doc, err := templating.ReadDocument(g.cfg.TemplatePath())
	if err != nil {
		return inputs{}, services.Wrap(services.ErrConfiguration, "load", "template", g.cfg.TemplatePath(), err)
	}

	file, err := os.Open(g.cfg.SubscriptionsPath())
	if err != nil {
		return inputs{}, services.Wrap(services.ErrConfiguration, "load", "subscriptions", g.cfg.SubscriptionsPath(), err)
	}
	defer file.Close()
	entries, err := subscription.Parse(file)
	if err != nil {
		return inputs{}, services.Wrap(services.ErrConfiguration, "load", "subscriptions", g.cfg.SubscriptionsPath(), err)
	}

	wrapper, err := subscription.LoadWrapper(g.cfg.FormatPath())
	if err != nil {
		return inputs{}, services.Wrap(services.ErrConfiguration, "load", "format", g.cfg.FormatPath(), err)
	}
	if g.cfg.FormatPath() != "" && wrapper.Passthrough() {
		logging.WarnWithContext(logger, "format has no URL token; using subscription URLs unchanged", "format_passthrough",
			logging.String("path", g.cfg.FormatPath()),
			logging.String(logging.FieldErrorHint, "add "+subscription.URLToken+" to the format file"),
			logging.String(logging.FieldImpact, "subscription URLs are fetched directly"),
		)
	}

	if missing := g.strategy.Check(doc); len(missing) > 0 {
		logging.WarnWithContext(logger, "template is missing substitution targets", "template_incomplete",
			logging.Any("fields", missing),
			logging.String(logging.FieldImpact, "every entry will be skipped"),
		)
	}

	logger.Debug("inputs loaded",
		logging.Int("entries", len(entries)),
		logging.Bool("wrapped", !wrapper.Passthrough()),
	)
	return inputs{template: doc, entries: entries, wrapper: wrapper}, nil
}

func abortHint(err error) string {
	switch {
	case errors.Is(err, services.ErrStructural):
		return "keep exactly one start and one end marker in the README"
	case errors.Is(err, services.ErrConfiguration):
		return "run clashsub check to verify the workspace"
	default:
		return "rerun once the cause is fixed"
	}
}

func (g *Generator) record(ctx context.Context, report Report, runErr error) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.RecordRun(context.WithoutCancel(ctx), report.historyRun(runErr)); err != nil {
		logging.WithContext(ctx, g.logger).Warn("failed to record run history", logging.Error(err))
	}
}
