// Package app is the top-level Bubble Tea model. It lays out the search
// panel and the map view and owns the selected place.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"mapsexplorer/internal/config"
	"mapsexplorer/internal/domain"
	"mapsexplorer/internal/eventbus"
	"mapsexplorer/internal/search"
	"mapsexplorer/internal/ui"
	"mapsexplorer/internal/ui/mapview"
	"mapsexplorer/internal/ui/searchpanel"
	"mapsexplorer/internal/ui/views"
)

const (
	focusSearch = iota
	focusMap
	panelCount
)

// minimum width of the search column
const minSearchWidth = 30

// placeSelectedMsg carries a result activated in the search panel
type placeSelectedMsg struct {
	place  domain.Place
	search int // sequence of the search that returned the result
}

// Options configures the model
type Options struct {
	Context context.Context
	Config  *config.Config
	Client  search.Client
	Bus     eventbus.EventBus // optional
	Logger  zerolog.Logger
	// Widget overrides the map widget; nil uses the terminal renderer
	Widget mapview.Widget
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	log    zerolog.Logger
	styles *views.Styles
	keys   KeyMap
	help   help.Model

	search  *searchpanel.Panel
	mapView *mapview.View

	// selectedSearch is the search that returned the selected place.
	// Picking the same result again leaves the map alone; picking it from
	// a newer search flies again.
	selected       *domain.Place
	selectedSearch int

	focus    int
	showHelp bool
	width    int
	height   int
}

// NewModel creates the UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := views.NewStyles()

	m := &Model{
		bus:    opts.Bus,
		log:    opts.Logger.With().Str("component", "app").Logger(),
		styles: styles,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}

	m.search = searchpanel.New(opts.Client, searchpanel.Options{
		Context:  opts.Context,
		OnSelect: m.selectPlace,
		Bus:      opts.Bus,
		Logger:   opts.Logger,
		Styles:   styles,
	})
	m.mapView = mapview.New(mapview.Options{
		Settings: cfg.Map,
		Widget:   opts.Widget,
		Bus:      opts.Bus,
		Logger:   opts.Logger,
		Styles:   styles,
	})
	m.search.Focus()

	return m
}

// selectPlace is the search panel's activation callback. The place travels
// back through the runtime as a message so state only changes in Update.
func (m *Model) selectPlace(place domain.Place) tea.Cmd {
	seq := m.search.Sequence()
	return func() tea.Msg {
		return placeSelectedMsg{place: place, search: seq}
	}
}

// Selected returns the selected place, or nil
func (m *Model) Selected() *domain.Place {
	return m.selected
}

// SearchPanel exposes the search column
func (m *Model) SearchPanel() *searchpanel.Panel {
	return m.search
}

// MapView exposes the map column
func (m *Model) MapView() *mapview.View {
	return m.mapView
}

// Focus returns the index of the focused panel
func (m *Model) Focus() int {
	return m.focus
}

func (m *Model) panel(i int) ui.Panel {
	if i == focusMap {
		return m.mapView
	}
	return m.search
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.search.Focus())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case placeSelectedMsg:
		return m, m.handleSelection(msg.place, msg.search)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	// everything else (search outcomes, spinner and flight ticks, timers)
	// goes to both panels; each ignores what it does not own
	_, searchCmd := m.search.Update(msg)
	_, mapCmd := m.mapView.Update(msg)
	return m, tea.Batch(searchCmd, mapCmd)
}

func (m *Model) handleSelection(place domain.Place, seq int) tea.Cmd {
	if m.selected != nil && *m.selected == place && m.selectedSearch == seq {
		return nil
	}
	m.selected = &place
	m.selectedSearch = seq
	m.log.Info().Str("place", place.Name).Str("id", place.ID).Msg("place selected")
	if m.bus != nil {
		m.bus.Publish(eventbus.PlaceSelectedEvent{Place: place})
	}
	return m.mapView.SetPlace(m.selected)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.NextFocus):
		return m.setFocus((m.focus + 1) % panelCount)
	case key.Matches(msg, m.keys.PrevFocus):
		return m.setFocus((m.focus + panelCount - 1) % panelCount)
	}

	if m.focus == focusMap {
		switch {
		case key.Matches(msg, m.keys.MapQuit):
			return tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.layout()
			return nil
		}
	}

	_, cmd := m.panel(m.focus).Update(msg)
	return cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	if i == m.focus {
		return nil
	}
	m.panel(m.focus).Blur()
	m.focus = i
	return m.panel(i).Focus()
}

func (m *Model) helpView() string {
	keys := helpKeys{shell: m.keys, mapped: m.focus == focusMap}
	if m.focus == focusMap {
		keys.panel = m.mapView.KeyMap()
	} else {
		keys.panel = m.search.KeyMap()
	}
	m.help.ShowAll = m.showHelp
	return m.styles.Help.Render(m.help.View(keys))
}

func (m *Model) header() string {
	return m.styles.Header.Width(m.width).Render("Maps Explorer")
}

// columns returns the outer widths of the search and map columns
func (m *Model) columns() (int, int) {
	searchWidth := max(minSearchWidth, m.width/3)
	if searchWidth > m.width {
		searchWidth = m.width
	}
	return searchWidth, m.width - searchWidth
}

func (m *Model) bodyHeight() int {
	return max(m.height-lipgloss.Height(m.header())-lipgloss.Height(m.helpView()), 0)
}

func (m *Model) layout() {
	searchWidth, mapWidth := m.columns()
	frameW, frameH := m.styles.Panel.GetFrameSize()
	inner := max(m.bodyHeight()-frameH, 0)
	m.search.SetSize(max(searchWidth-frameW, 0), inner)
	m.mapView.SetSize(max(mapWidth-frameW, 0), inner)
}

func (m *Model) frame(i int, content string, outerWidth int) string {
	style := m.styles.Panel
	if m.focus == i {
		style = m.styles.PanelFocused
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(outerWidth-frameW, 0)).
		Height(max(m.bodyHeight()-frameH, 0)).
		Render(content)
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	searchWidth, mapWidth := m.columns()
	columns := []string{m.frame(focusSearch, m.search.View(), searchWidth)}
	if mapWidth > 0 {
		columns = append(columns, m.frame(focusMap, m.mapView.View(), mapWidth))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.helpView())
}
