package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"clashsub/internal/history"
	"clashsub/internal/testsupport"
)

func TestRecordRunAndRead(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	run := history.Run{
		ID:            "run-1",
		StartedAt:     started,
		FinishedAt:    started.Add(1500 * time.Millisecond),
		Strategy:      "placeholder",
		Generated:     1,
		Skipped:       1,
		ReadmeUpdated: true,
		Entries: []history.Entry{
			{Line: 1, Name: "sub123", SourceURL: "https://example.com/sub123", Status: history.StatusGenerated},
			{Line: 2, SourceURL: "https://example.com/", Status: history.StatusSkipped, Kind: "validation", Reason: "cannot determine a file name"},
		},
	}
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := store.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != "run-1" || got.Generated != 1 || got.Skipped != 1 || !got.ReadmeUpdated || got.DryRun {
		t.Fatalf("unexpected run: %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) || got.Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected timing: %s %s", got.StartedAt, got.Duration())
	}

	entries, err := store.Entries(ctx, "run-1")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if diff := cmp.Diff(run.Entries, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{0, 500 * time.Millisecond, time.Second} {
		run := history.Run{
			ID:         string(rune('a' + i)),
			StartedAt:  base.Add(offset),
			FinishedAt: base.Add(offset),
			Strategy:   "path",
		}
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun %d failed: %v", i, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	var ids []string
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	if diff := cmp.Diff([]string{"c", "b"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordRunRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	if err := store.RecordRun(context.Background(), history.Run{}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	first, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.RecordRun(context.Background(), history.Run{ID: "keep", Strategy: "placeholder"}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := history.Open(path)
	if err != nil {
		if errors.Is(err, history.ErrSchemaMismatch) {
			t.Fatalf("unexpected schema mismatch: %v", err)
		}
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	runs, err := second.Recent(context.Background(), 0)
	if err != nil || len(runs) != 1 || runs[0].ID != "keep" {
		t.Fatalf("expected persisted run, got %v %v", runs, err)
	}
	if second.Path() != path {
		t.Fatalf("unexpected path %q", second.Path())
	}
}
