package section

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"clashsub/internal/fileutil"
)

var (
	// ErrMarkerNotFound reports that a marker does not occur in the host.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrMarkerMalformed reports duplicate, reversed, or otherwise unusable markers.
	ErrMarkerMalformed = errors.New("marker malformed")
)

// MarkerError describes a marker precondition failure.
type MarkerError struct {
	Marker string
	Reason string
	Err    error
}

func (e *MarkerError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q", e.Err, e.Marker)
	}
	return fmt.Sprintf("%s: %q: %s", e.Err, e.Marker, e.Reason)
}

func (e *MarkerError) Unwrap() error {
	return e.Err
}

func notFound(marker string) error {
	return &MarkerError{Marker: marker, Err: ErrMarkerNotFound}
}

func malformed(marker, reason string) error {
	return &MarkerError{Marker: marker, Reason: reason, Err: ErrMarkerMalformed}
}

// Validate checks the marker preconditions without building any output.
func Validate(host, start, end string) error {
	_, _, err := locate(host, start, end)
	return err
}

// Replace returns host with the text between start and end replaced by
// content. The result is host[:after start] + "\n\n" + content + "\n" +
// host[end:].
func Replace(host, start, end, content string) (string, error) {
	afterStart, endIdx, err := locate(host, start, end)
	if err != nil {
		return "", err
	}
	if strings.Contains(content, start) {
		return "", malformed(start, "replacement content contains the start marker")
	}
	if strings.Contains(content, end) {
		return "", malformed(end, "replacement content contains the end marker")
	}

	var b strings.Builder
	b.Grow(afterStart + len(content) + len(host) - endIdx + 3)
	b.WriteString(host[:afterStart])
	b.WriteString("\n\n")
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(host[endIdx:])
	return b.String(), nil
}

// locate returns the offset just past the start marker and the offset of the
// end marker.
func locate(host, start, end string) (int, int, error) {
	if start == "" || end == "" {
		return 0, 0, malformed(start+end, "markers must be non-empty")
	}
	if start == end {
		return 0, 0, malformed(start, "start and end markers are identical")
	}
	if strings.Contains(start, end) || strings.Contains(end, start) {
		return 0, 0, malformed(start, "one marker contains the other")
	}

	startCount := strings.Count(host, start)
	endCount := strings.Count(host, end)
	switch {
	case startCount == 0:
		return 0, 0, notFound(start)
	case endCount == 0:
		return 0, 0, notFound(end)
	case startCount > 1:
		return 0, 0, malformed(start, fmt.Sprintf("appears %d times", startCount))
	case endCount > 1:
		return 0, 0, malformed(end, fmt.Sprintf("appears %d times", endCount))
	}

	startIdx := strings.Index(host, start)
	endIdx := strings.Index(host, end)
	afterStart := startIdx + len(start)
	if endIdx < afterStart {
		return 0, 0, malformed(end, "end marker precedes start marker")
	}
	return afterStart, endIdx, nil
}

// ReplaceFile rewrites the section in the file at path. On any failure the
// file is left unmodified.
func ReplaceFile(path, start, end, content string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	updated, err := Replace(string(data), start, end, content)
	if err != nil {
		return err
	}
	if updated == string(data) {
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, []byte(updated), fileutil.FileMode(path, 0o644)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ValidateFile runs Validate against the file at path.
func ValidateFile(path, start, end string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return Validate(string(data), start, end)
}

// Extract returns the current text between the markers.
func Extract(host, start, end string) (string, error) {
	afterStart, endIdx, err := locate(host, start, end)
	if err != nil {
		return "", err
	}
	return host[afterStart:endIdx], nil
}
