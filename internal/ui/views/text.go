package views

import "github.com/charmbracelet/x/ansi"

// Truncate shortens s to at most width cells, ending in "…" when cut.
// Styled input keeps its escape sequences.
func Truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
