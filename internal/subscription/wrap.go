package subscription

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
)

// URLToken marks where the escaped subscription URL is inserted.
const URLToken = "[URL]"

// Wrapper routes subscription URLs through a conversion-service format.
type Wrapper struct {
	format      string
	passthrough bool
}

// NewWrapper builds a Wrapper from a format string. A format without the
// [URL] token degrades to passthrough; callers can detect that with
// Passthrough to warn once.
func NewWrapper(format string) Wrapper {
	format = strings.TrimSpace(format)
	if !strings.Contains(format, URLToken) {
		return Wrapper{format: URLToken, passthrough: true}
	}
	return Wrapper{format: format}
}

// LoadWrapper reads the format file at path. An empty path disables wrapping.
// A configured file that does not exist is an error.
func LoadWrapper(path string) (Wrapper, error) {
	if path == "" {
		return Wrapper{format: URLToken}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Wrapper{}, fmt.Errorf("format file %q not found: %w", path, err)
		}
		return Wrapper{}, fmt.Errorf("read format file: %w", err)
	}
	return NewWrapper(string(data)), nil
}

// Passthrough reports whether the configured format lacked the [URL] token.
func (w Wrapper) Passthrough() bool {
	return w.passthrough
}

// Wrap returns the fetch URL for source. With a real format the source is
// query-escaped before substitution; otherwise it is returned unchanged.
func (w Wrapper) Wrap(source string) string {
	if w.format == "" || w.format == URLToken {
		return source
	}
	return strings.ReplaceAll(w.format, URLToken, url.QueryEscape(source))
}
