package generator

import (
	"context"
	"errors"
	"os"

	"clashsub/internal/logging"
	"clashsub/internal/readme"
	"clashsub/internal/section"
	"clashsub/internal/services"
)

// validateReadme checks the marker pair before any entry is fetched.
func (g *Generator) validateReadme() error {
	if !g.cfg.Readme.Enabled {
		return nil
	}
	err := section.ValidateFile(g.cfg.ReadmePath(), g.cfg.Readme.StartMarker, g.cfg.Readme.EndMarker)
	return readmeError("validate", g.cfg.ReadmePath(), err)
}

// updateReadme rewrites the README section once with the generated listing.
func (g *Generator) updateReadme(ctx context.Context, report *Report) error {
	if !g.cfg.Readme.Enabled {
		return nil
	}
	logger := logging.WithContext(services.WithStage(ctx, "readme"), g.logger)

	if len(report.Generated) == 0 {
		logging.WarnWithContext(logger, "no configs generated; README left unchanged", "readme_skipped",
			logging.Int("skipped", len(report.Skipped)),
			logging.String(logging.FieldImpact, "published links kept from the previous run"),
		)
		return nil
	}

	content := readme.NewListing(g.cfg, report.ConfigFiles()).Markdown()
	report.Section = content
	if g.dryRun {
		logger.Info("would update README", logging.String("path", g.cfg.ReadmePath()))
		return nil
	}

	err := section.ReplaceFile(g.cfg.ReadmePath(), g.cfg.Readme.StartMarker, g.cfg.Readme.EndMarker, content)
	if err != nil {
		return readmeError("update", g.cfg.ReadmePath(), err)
	}
	report.ReadmeUpdated = true
	logger.Info("README updated",
		logging.String("path", g.cfg.ReadmePath()),
		logging.Int("links", len(report.Generated)),
	)
	return nil
}

func readmeError(op, path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return services.Wrap(services.ErrConfiguration, "readme", op, path, err)
	case errors.Is(err, section.ErrMarkerNotFound), errors.Is(err, section.ErrMarkerMalformed):
		return services.Wrap(services.ErrStructural, "readme", op, path, err)
	default:
		return services.Wrap(services.ErrTransient, "readme", op, path, err)
	}
}
