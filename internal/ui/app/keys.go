package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the shell-level bindings
type KeyMap struct {
	Quit      key.Binding
	MapQuit   key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	Help      key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		MapQuit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		NextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
		PrevFocus: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous panel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// helpKeys joins the shell bindings with those of the focused panel
type helpKeys struct {
	shell  KeyMap
	panel  help.KeyMap
	mapped bool // the map has focus, so the map-only shell keys apply
}

func (h helpKeys) ShortHelp() []key.Binding {
	keys := append([]key.Binding{}, h.panel.ShortHelp()...)
	keys = append(keys, h.shell.NextFocus)
	if h.mapped {
		keys = append(keys, h.shell.Help, h.shell.MapQuit)
	} else {
		keys = append(keys, h.shell.Quit)
	}
	return keys
}

func (h helpKeys) FullHelp() [][]key.Binding {
	groups := append([][]key.Binding{}, h.panel.FullHelp()...)
	shell := []key.Binding{h.shell.NextFocus, h.shell.PrevFocus, h.shell.Quit}
	if h.mapped {
		shell = append(shell, h.shell.Help, h.shell.MapQuit)
	}
	return append(groups, shell)
}
