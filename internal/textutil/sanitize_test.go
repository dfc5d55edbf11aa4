package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  sub123  ":       "sub123",
		"a/b\\c:d*e":       "a-b-c-d-e",
		"what?\"<>|":       "what",
		"tab\tname":        "tabname",
		"..":               "",
		"":                 "",
		"Cafe\u0301":       "Caf\u00e9",
		"my provider.list": "my provider.list",
	}
	for input, want := range cases {
		if got := SanitizeFileName(input); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSameName(t *testing.T) {
	if !SameName("Sub", "sub") {
		t.Fatal("expected case-insensitive match")
	}
	if !SameName("Cafe\u0301", "caf\u00e9") {
		t.Fatal("expected NFC-normalized match")
	}
	if SameName("a", "b") {
		t.Fatal("unexpected match")
	}
}
