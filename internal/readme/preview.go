package readme

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Preview renders markdown for the terminal. Styled output is used only when
// color is true.
func Preview(markdown string, width int, color bool) (string, error) {
	if width <= 0 {
		width = 100
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if color {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
