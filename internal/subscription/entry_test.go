package subscription_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clashsub/internal/subscription"
)

func TestBaseNameFromURLPath(t *testing.T) {
	entry, ok := subscription.ParseLine("https://example.com/path/sub123?x=1", 1)
	if !ok {
		t.Fatal("expected line to parse")
	}
	name, err := entry.BaseName()
	if err != nil {
		t.Fatalf("BaseName returned error: %v", err)
	}
	if name != "sub123" {
		t.Fatalf("unexpected base name: got %q want %q", name, "sub123")
	}
}

func TestBaseNameFromCustomName(t *testing.T) {
	entry, ok := subscription.ParseLine("https://example.com/a, myName", 1)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if entry.SourceURL != "https://example.com/a" {
		t.Fatalf("unexpected source url: %q", entry.SourceURL)
	}
	name, err := entry.BaseName()
	if err != nil {
		t.Fatalf("BaseName returned error: %v", err)
	}
	if name != "myName" {
		t.Fatalf("unexpected base name: got %q want %q", name, "myName")
	}
}

func TestBaseNameEmptySegment(t *testing.T) {
	entry, _ := subscription.ParseLine("https://example.com/path/", 3)
	_, err := entry.BaseName()
	if !errors.Is(err, subscription.ErrNoName) {
		t.Fatalf("expected ErrNoName, got %v", err)
	}
}

func TestBaseNameEmptyCustomFallsBack(t *testing.T) {
	entry, _ := subscription.ParseLine("https://example.com/list.yaml,  ", 1)
	name, err := entry.BaseName()
	if err != nil {
		t.Fatalf("BaseName returned error: %v", err)
	}
	if name != "list" {
		t.Fatalf("unexpected base name: %q", name)
	}
}

func TestDeriveName(t *testing.T) {
	cases := map[string]string{
		"https://example.com/sub.txt":            "sub",
		"https://example.com/archive.tar.gz":     "archive.tar",
		"https://example.com/.hidden":            ".hidden",
		"https://example.com/my%20sub.yaml":      "my sub",
		"https://example.com":                    "",
		"https://example.com/api/v1/clash?t=abc": "clash",
		"://broken":                              "",
	}
	for input, want := range cases {
		if got := subscription.DeriveName(input); got != want {
			t.Fatalf("DeriveName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	input := strings.Join([]string{
		"\ufeff# providers",
		"",
		"https://example.com/one",
		"   ",
		"  # indented comment",
		"https://example.com/two , Second",
		"https://example.com/three,a,b",
	}, "\n")

	entries, err := subscription.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []subscription.Entry{
		{SourceURL: "https://example.com/one", Line: 3},
		{SourceURL: "https://example.com/two", DisplayName: "Second", Line: 6},
		{SourceURL: "https://example.com/three", DisplayName: "a,b", Line: 7},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}
