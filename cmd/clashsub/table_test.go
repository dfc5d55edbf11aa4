package main

import (
	"strings"
	"testing"

	"clashsub/internal/generator"
)

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := renderTable(tableView{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	got := renderTable(tableView{
		headers: []string{"A", "B"},
		rows:    [][]string{{"only"}},
	})
	if !strings.Contains(got, "only") || !strings.Contains(got, "╭") {
		t.Fatalf("unexpected table:\n%s", got)
	}
}

func TestRenderRunSummaryOrdersByLine(t *testing.T) {
	report := generator.Report{
		RunID:     "r1",
		Generated: []generator.Generated{{Line: 3, Name: "third", Bytes: 2048}},
		Skipped:   []generator.Skipped{{Line: 1, Kind: "validation", Reason: "no name"}},
	}
	got := renderRunSummary(report)
	first, third := strings.Index(got, "no name"), strings.Index(got, "third")
	if first < 0 || third < 0 || first > third {
		t.Fatalf("expected rows in line order:\n%s", got)
	}
	if !strings.Contains(got, "2.0 KiB") {
		t.Fatalf("expected formatted size:\n%s", got)
	}
	if !strings.Contains(got, "r1") {
		t.Fatalf("expected title:\n%s", got)
	}
}
