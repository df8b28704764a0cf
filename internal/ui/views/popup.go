package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer composes boxes on top of other content
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderOverlay centers popupContent over the lines of mainContent. Lines of
// the base hidden behind the popup are replaced whole; the rest of the base is
// dimmed so the popup stands out. The result has exactly as many lines as
// mainContent.
func (pr *PopupRenderer) RenderOverlay(mainContent, popupContent string, width int) string {
	base := strings.Split(mainContent, "\n")
	box := strings.Split(popupContent, "\n")
	if len(box) > len(base) {
		box = box[:len(base)]
	}
	top := (len(base) - len(box)) / 2

	out := make([]string, len(base))
	for i, line := range base {
		out[i] = pr.dim(line)
	}
	for i, line := range box {
		out[top+i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
	}
	return strings.Join(out, "\n")
}

// RenderBand replaces the first line of mainContent with band, centered
func (pr *PopupRenderer) RenderBand(mainContent, band string, width int) string {
	lines := strings.SplitN(mainContent, "\n", 2)
	lines[0] = lipgloss.PlaceHorizontal(width, lipgloss.Center, band)
	return strings.Join(lines, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color and style codes
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func (pr *PopupRenderer) dim(line string) string {
	plain := StripANSI(line)
	if strings.TrimSpace(plain) == "" {
		return plain
	}
	return pr.styles.Dim.Render(plain)
}
