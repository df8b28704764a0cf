package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Header        lipgloss.Style
	Label         lipgloss.Style
	Dim           lipgloss.Style
	Help          lipgloss.Style
	Button        lipgloss.Style
	ButtonOff     lipgloss.Style
	ResultName    lipgloss.Style
	ResultCoords  lipgloss.Style
	ResultCursor  lipgloss.Style
	Separator     lipgloss.Style
	EmptyTitle    lipgloss.Style
	Spinner       lipgloss.Style
	Panel         lipgloss.Style
	PanelFocused  lipgloss.Style
	Graticule     lipgloss.Style
	Marker        lipgloss.Style
	Popup         lipgloss.Style
	Overlay       lipgloss.Style
	FlyingOverlay lipgloss.Style
	InfoPanel     lipgloss.Style
	Highlight     lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		Dim:   lipgloss.NewStyle().Faint(true),
		Help:  lipgloss.NewStyle().Faint(true),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("33")).
			Padding(0, 2),
		ButtonOff: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("238")).
			Padding(0, 2),
		ResultName:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ResultCoords: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ResultCursor: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Separator:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		EmptyTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Spinner:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")),
		PanelFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")),
		Graticule: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // red
		Popup: lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("230")),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
		FlyingOverlay: lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("214")). // yellow
			Padding(0, 1),
		InfoPanel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
	}
}
