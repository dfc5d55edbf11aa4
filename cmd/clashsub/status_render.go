package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"clashsub/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

// statusStyles maps each kind to its bracket label and ANSI colour.
var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 22
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	statusText := "[" + style.label + "]"
	if message != "" {
		statusText += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

func resultKind(r preflight.Result) statusKind {
	switch {
	case !r.Passed:
		return statusError
	case r.Warning:
		return statusWarn
	default:
		return statusOK
	}
}

// preflightLines renders a summary line followed by one line per check.
func preflightLines(results []preflight.Result, colorize bool) []string {
	failed := len(preflight.Failed(results))
	warned := len(preflight.Warnings(results))

	var summary string
	var kind statusKind
	switch {
	case failed > 0:
		kind, summary = statusError, fmt.Sprintf("%d of %d checks failed", failed, len(results))
	case warned > 0:
		kind, summary = statusWarn, fmt.Sprintf("%d checks passed, %d with warnings", len(results), warned)
	default:
		kind, summary = statusOK, fmt.Sprintf("%d checks passed", len(results))
	}

	lines := make([]string, 0, len(results)+1)
	lines = append(lines, renderStatusLine("Summary", kind, summary, colorize))
	for _, r := range results {
		lines = append(lines, renderStatusLine(r.Name, resultKind(r), r.Detail, colorize))
	}
	return lines
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		color := statusStyles[statusInfo].color
		line = color + line + ansiReset
		rule = color + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
