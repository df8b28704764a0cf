package searchpanel

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the search panel's bindings
type KeyMap struct {
	Submit key.Binding
	Up     key.Binding
	Down   key.Binding
	Go     key.Binding
	Edit   key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous result")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next result")),
		Go:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go to result")),
		Edit:   key.NewBinding(key.WithKeys("/", "i"), key.WithHelp("/", "edit query")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Down, k.Go}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Edit}, {k.Up, k.Down, k.Go}}
}
