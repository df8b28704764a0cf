// Package ui holds what the screen regions share.
package ui

import tea "github.com/charmbracelet/bubbletea"

// Panel is a composable TUI region with its own state, update logic, and view.
// The app shell orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
	Focus() tea.Cmd
	Blur()
	Focused() bool
}
