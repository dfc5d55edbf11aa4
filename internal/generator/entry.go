package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"
	"path/filepath"

	"clashsub/internal/fileutil"
	"clashsub/internal/logging"
	"clashsub/internal/provider"
	"clashsub/internal/services"
	"clashsub/internal/subscription"
	"clashsub/internal/templating"
	"clashsub/internal/textutil"
)

const (
	providerExt = ".txt"
	configExt   = ".yaml"
	fileMode    = 0o644
)

// processEntry generates one config. The returned Generated carries the base
// name even on failure so skips can be reported by name.
func (g *Generator) processEntry(ctx context.Context, in inputs, entry subscription.Entry, seen []Generated) (Generated, error) {
	out := Generated{Line: entry.Line, SourceURL: entry.SourceURL}

	name, err := entry.BaseName()
	if err != nil {
		return out, services.Wrap(services.ErrValidation, "name", entry.SourceURL, "cannot derive base name", err)
	}
	out.Name = name
	for _, prior := range seen {
		if textutil.SameName(prior.Name, name) {
			return out, services.Wrap(services.ErrValidation, "name", name,
				fmt.Sprintf("duplicate of line %d", prior.Line), nil)
		}
	}

	ctx = services.WithEntry(ctx, name)
	logger := logging.WithContext(services.WithStage(ctx, "fetch"), g.logger)

	fetchURL := in.wrapper.Wrap(entry.SourceURL)
	logger.Debug("fetching subscription", logging.String(logging.FieldSourceURL, entry.SourceURL))
	body, err := g.fetcher.Fetch(ctx, fetchURL)
	if err != nil {
		return out, classifyFetch(name, err)
	}
	out.Bytes = len(body)

	providerRel := path.Join(g.cfg.Paths.ProvidersDir, name+providerExt)
	out.ProviderURL = g.cfg.RawURL(providerRel)
	subs := templating.Substitutions{
		templating.FieldURL:  out.ProviderURL,
		templating.FieldPath: "./" + providerRel,
	}
	result, err := g.strategy.Render(in.template, subs)
	if err != nil {
		return out, services.Wrap(services.ErrValidation, "render", name, "template could not be processed", err)
	}
	if err := result.Err(); err != nil {
		return out, services.Wrap(services.ErrNotFound, "render", name, "substitution target missing", err)
	}

	out.ProviderPath = filepath.Join(g.cfg.ProvidersDir(), name+providerExt)
	out.ConfigPath = filepath.Join(g.cfg.OutputDir(), name+configExt)
	if g.dryRun {
		logger.Info("would write config",
			logging.String("config", out.ConfigPath),
			logging.Int("bytes", out.Bytes),
		)
		return out, nil
	}

	if err := fileutil.WriteFileAtomic(out.ProviderPath, body, fileMode); err != nil {
		return out, services.Wrap(services.ErrTransient, "write", name, "provider file", err)
	}
	if err := fileutil.WriteFileAtomic(out.ConfigPath, result.Output, fileMode); err != nil {
		return out, services.Wrap(services.ErrTransient, "write", name, "config file", err)
	}
	logger.Info("config generated",
		logging.String("config", out.ConfigPath),
		logging.String("provider", out.ProviderPath),
		logging.Int("bytes", out.Bytes),
	)
	return out, nil
}

func classifyFetch(name string, err error) error {
	var statusErr *provider.StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "fetch", name, "source returned 404", err)
	case errors.As(err, &statusErr):
		return services.Wrap(services.ErrTransient, "fetch", name, "source returned "+statusErr.Status, err)
	case errors.Is(err, provider.ErrTooLarge):
		return services.Wrap(services.ErrValidation, "fetch", name, "response too large", err)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return services.Wrap(services.ErrTimeout, "fetch", name, "request timed out", err)
	default:
		return services.Wrap(services.ErrTransient, "fetch", name, "request failed", err)
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "check the subscription URL and the template substitution targets"
	case errors.Is(err, services.ErrTimeout):
		return "raise fetch.timeout_seconds or retry later"
	case errors.Is(err, services.ErrValidation):
		return "give the entry a custom name after a comma"
	default:
		return "retry the run; no retries happen within one run"
	}
}
