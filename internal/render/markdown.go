package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Normalize converts CRLF to LF and trims surrounding blank space.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}

// Terminal renders markdown-ish lesson text for a terminal using glamour.
// width <= 0 falls back to 80 columns.
func Terminal(s string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(Normalize(s))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
