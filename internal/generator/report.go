package generator

import (
	"sort"
	"time"

	"clashsub/internal/history"
)

// Generated describes one entry that produced a config.
type Generated struct {
	Line         int
	Name         string
	SourceURL    string
	ProviderPath string
	ProviderURL  string
	ConfigPath   string
	Bytes        int
}

// Skipped describes one entry that was not generated.
type Skipped struct {
	Line      int
	Name      string
	SourceURL string
	Kind      string
	Reason    string
}

// Report summarizes a generator run.
type Report struct {
	RunID         string
	Strategy      string
	DryRun        bool
	StartedAt     time.Time
	FinishedAt    time.Time
	Generated     []Generated
	Skipped       []Skipped
	ReadmeUpdated bool
	// Section holds the README section body that was written, or would have
	// been written on a dry run. Empty when the update was skipped.
	Section string
}

// ConfigFiles returns the generated config file names in entry order.
func (r Report) ConfigFiles() []string {
	files := make([]string, 0, len(r.Generated))
	for _, g := range r.Generated {
		files = append(files, g.Name+configExt)
	}
	return files
}

// Duration returns the wall time of the run.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r Report) historyRun(runErr error) history.Run {
	run := history.Run{
		ID:            r.RunID,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Strategy:      r.Strategy,
		Generated:     len(r.Generated),
		Skipped:       len(r.Skipped),
		ReadmeUpdated: r.ReadmeUpdated,
		DryRun:        r.DryRun,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	for _, g := range r.Generated {
		run.Entries = append(run.Entries, history.Entry{
			Line:      g.Line,
			Name:      g.Name,
			SourceURL: g.SourceURL,
			Status:    history.StatusGenerated,
		})
	}
	for _, s := range r.Skipped {
		run.Entries = append(run.Entries, history.Entry{
			Line:      s.Line,
			Name:      s.Name,
			SourceURL: s.SourceURL,
			Status:    history.StatusSkipped,
			Kind:      s.Kind,
			Reason:    s.Reason,
		})
	}
	sort.SliceStable(run.Entries, func(i, j int) bool {
		return run.Entries[i].Line < run.Entries[j].Line
	})
	return run
}
