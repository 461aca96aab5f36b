package common

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FormatCount renders a counter compactly: 999, 1.2k, 3.4M.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1_000_000), ".0") + "M"
	case n >= 1_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1_000), ".0") + "k"
	default:
		return fmt.Sprintf("%d", n)
	}
}

// TruncateLines keeps at most maxLines lines of text, each cut to width
// display cells. Escape sequences are not counted.
func TruncateLines(text string, width, maxLines int) string {
	if width < 1 {
		width = 1
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cut := len(lines) > maxLines
	if cut {
		lines = lines[:maxLines]
	}
	for i, ln := range lines {
		lines[i] = ansi.Truncate(ln, width, "…")
	}
	if cut {
		last := len(lines) - 1
		lines[last] = ansi.Truncate(lines[last], width-1, "") + "…"
	}
	return strings.Join(lines, "\n")
}
