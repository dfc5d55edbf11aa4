package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"clashsub/internal/config"
	"clashsub/internal/section"
	"clashsub/internal/subscription"
	"clashsub/internal/templating"
)

// CheckRepository confirms a repository slug is configured.
func CheckRepository(cfg *config.Config) Result {
	const name = "Repository"
	if strings.TrimSpace(cfg.Repository.Slug) == "" {
		return Result{Name: name, Detail: "missing slug (set GITHUB_REPOSITORY or repository.slug)"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s@%s", cfg.Repository.Slug, cfg.Repository.Branch)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory passes when the directory is writable, or when it does
// not exist yet but its nearest existing parent is writable.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := parentDir(path)
	for parent != "" {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := parentDir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	check := CheckDirectoryAccess(name, parent)
	if !check.Passed {
		return check
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckFileReadable verifies that path is a readable regular file.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckTemplate verifies the template exists and every field locator resolves.
func CheckTemplate(cfg *config.Config) Result {
	const name = "Template"
	path := cfg.TemplatePath()
	if check := CheckFileReadable(name, path); !check.Passed {
		return check
	}
	strategy, err := templating.FromConfig(cfg.Template)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	doc, err := templating.ReadDocument(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if missing := strategy.Check(doc); len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s strategy cannot locate: %s", strategy.Name(), strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s strategy ok)", path, strategy.Name())}
}

// CheckFormat verifies the format file exists. A format without the [URL]
// token passes with a note because URLs are then used unchanged.
func CheckFormat(path string) Result {
	const name = "Format"
	wrapper, err := subscription.LoadWrapper(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if wrapper.Passthrough() {
		return Result{Name: name, Passed: true, Warning: true, Detail: fmt.Sprintf("%s (no %s token; URLs used as-is)", path, subscription.URLToken)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s token present)", path, subscription.URLToken)}
}

// CheckReadme verifies the README exists and holds exactly one marker pair.
func CheckReadme(cfg *config.Config) Result {
	const name = "README markers"
	path := cfg.ReadmePath()
	err := section.ValidateFile(path, cfg.Readme.StartMarker, cfg.Readme.EndMarker)
	switch {
	case err == nil:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (one marker pair)", path)}
	case errors.Is(err, os.ErrNotExist):
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
}

func parentDir(path string) string {
	return filepath.Dir(filepath.Clean(path))
}
