package readme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"clashsub/internal/config"
)

// ConfigExt is the extension of generated config files.
const ConfigExt = ".yaml"

var (
	titlePolicyOnce sync.Once
	titlePolicy     *bluemonday.Policy
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "'",
	"[", `\[`,
	"]", `\]`,
)

// Link is one generated config entry in the listing.
type Link struct {
	Title string
	File  string
	URL   string
}

// Listing is the README section body.
type Listing struct {
	Heading string
	Intro   string
	Links   []Link
}

// NewListing builds a listing for the given output file names, sorted by name.
func NewListing(cfg *config.Config, files []string) Listing {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	links := make([]Link, 0, len(sorted))
	for _, file := range sorted {
		links = append(links, Link{
			Title: strings.TrimSuffix(file, filepath.Ext(file)),
			File:  file,
			URL:   cfg.RawURL(path.Join(cfg.Paths.OutputDir, file)),
		})
	}
	return Listing{
		Heading: cfg.Readme.Heading,
		Intro:   cfg.Readme.Intro,
		Links:   links,
	}
}

// Markdown renders the listing:
//
//	<heading>
//
//	<intro>
//
//	* **title**: `raw url`
func (l Listing) Markdown() string {
	var b strings.Builder
	if l.Heading != "" {
		b.WriteString(l.Heading)
		b.WriteString("\n\n")
	}
	if l.Intro != "" {
		b.WriteString(l.Intro)
		b.WriteString("\n\n")
	}
	for _, link := range l.Links {
		fmt.Fprintf(&b, "* **%s**: `%s`\n", sanitizeTitle(link.Title), strings.ReplaceAll(link.URL, "`", "%60"))
	}
	return b.String()
}

func sanitizeTitle(raw string) string {
	titlePolicyOnce.Do(func() {
		titlePolicy = bluemonday.StrictPolicy()
	})
	cleaned := strings.TrimSpace(titlePolicy.Sanitize(raw))
	if cleaned == "" {
		cleaned = "untitled"
	}
	return markdownEscaper.Replace(cleaned)
}

// ScanOutputDir lists generated config file names in dir. A missing directory
// yields no files.
func ScanOutputDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if filepath.Ext(entry.Name()) == ConfigExt {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
