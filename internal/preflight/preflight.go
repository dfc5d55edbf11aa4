package preflight

import (
	"context"

	"clashsub/internal/config"
)

// Result reports the outcome of a single preflight check. Warning marks a
// passed check whose setup is probably unintended.
type Result struct {
	Name    string
	Passed  bool
	Warning bool
	Detail  string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckRepository(cfg))
	results = append(results, CheckDirectoryAccess("Workspace root", cfg.Paths.Root))
	results = append(results, CheckOutputDirectory("Output directory", cfg.OutputDir()))
	results = append(results, CheckOutputDirectory("Providers directory", cfg.ProvidersDir()))
	results = append(results, CheckFileReadable("Subscriptions", cfg.SubscriptionsPath()))
	results = append(results, CheckTemplate(cfg))

	if cfg.FormatPath() != "" {
		results = append(results, CheckFormat(cfg.FormatPath()))
	}

	if cfg.Readme.Enabled {
		results = append(results, CheckReadme(cfg))
	}

	if cfg.History.Enabled {
		results = append(results, CheckOutputDirectory("History directory", parentDir(cfg.HistoryPath())))
	}

	select {
	case <-ctx.Done():
		results = append(results, Result{Name: "Preflight", Detail: ctx.Err().Error()})
	default:
	}
	return results
}

// Warnings returns the passed results that carry a warning.
func Warnings(results []Result) []Result {
	var warned []Result
	for _, r := range results {
		if r.Passed && r.Warning {
			warned = append(warned, r)
		}
	}
	return warned
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
