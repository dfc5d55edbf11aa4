package history

import "time"

// Status is the outcome of one subscription entry.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
)

// Run is one recorded generator run.
type Run struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Strategy      string
	Generated     int
	Skipped       int
	ReadmeUpdated bool
	DryRun        bool
	Error         string
	Entries       []Entry
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Entry is the recorded outcome of one subscription line.
type Entry struct {
	Line      int
	Name      string
	SourceURL string
	Status    Status
	Kind      string
	Reason    string
}
