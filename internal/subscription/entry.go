package subscription

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"clashsub/internal/textutil"
)

// ErrNoName reports that no base name could be derived for an entry.
var ErrNoName = errors.New("cannot determine a file name")

const maxLineBytes = 1 << 20

// Entry is one parsed subscription line. It is immutable once parsed.
type Entry struct {
	SourceURL string
	// DisplayName is the user-supplied custom name, empty when absent.
	DisplayName string
	// Line is the 1-based line number in the subscriptions file.
	Line int
}

// BaseName returns the sanitized file base name for the entry.
func (e Entry) BaseName() (string, error) {
	if name := textutil.SanitizeFileName(e.DisplayName); name != "" {
		return name, nil
	}
	if name := DeriveName(e.SourceURL); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("%w for %q", ErrNoName, e.SourceURL)
}

// ParseLine parses one subscriptions line. ok is false for blank lines and
// comments.
func ParseLine(line string, lineNo int) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false
	}
	entry := Entry{SourceURL: trimmed, Line: lineNo}
	if source, custom, found := strings.Cut(trimmed, ","); found {
		entry.SourceURL = strings.TrimSpace(source)
		entry.DisplayName = strings.TrimSpace(custom)
	}
	return entry, true
}

// Parse reads every entry from r in file order.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if entry, ok := ParseLine(text, lineNo); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read subscriptions: %w", err)
	}
	return entries, nil
}

// DeriveName returns the last path segment of rawURL without its extension,
// or "" when the path ends in a slash or the URL cannot be parsed.
func DeriveName(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	escaped := parsed.EscapedPath()
	segment := escaped[strings.LastIndex(escaped, "/")+1:]
	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}
	return textutil.SanitizeFileName(trimExtension(segment))
}

// trimExtension drops the final ".ext" suffix. Leading dots do not start an
// extension, so ".hidden" is returned unchanged.
func trimExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || strings.Trim(name[:idx], ".") == "" {
		return name
	}
	return name[:idx]
}
