// Package searchpanel implements the search column: query box, loading state
// and the results list.
package searchpanel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"mapsexplorer/internal/domain"
	"mapsexplorer/internal/eventbus"
	"mapsexplorer/internal/search"
	"mapsexplorer/internal/ui"
	"mapsexplorer/internal/ui/views"
)

// SelectFunc is called with the activated result. The returned command, if
// any, is handed back to the runtime.
type SelectFunc func(domain.Place) tea.Cmd

// searchResultsMsg carries a completed search
type searchResultsMsg struct {
	seq    int
	query  string
	places []domain.Place
}

// searchFailedMsg carries a failed search
type searchFailedMsg struct {
	seq   int
	query string
	err   error
}

// Options configures a Panel
type Options struct {
	Context  context.Context // parent of every search request; defaults to context.Background()
	OnSelect SelectFunc
	Bus      eventbus.EventBus // optional
	Logger   zerolog.Logger
	Styles   *views.Styles
}

// Panel is the search column
type Panel struct {
	client   search.Client
	ctx      context.Context
	onSelect SelectFunc
	bus      eventbus.EventBus
	log      zerolog.Logger
	styles   *views.Styles
	keys     KeyMap

	input   textinput.Model
	spinner spinner.Model
	state   domain.SearchState

	seq           int  // sequence number of the latest submitted search
	cursor        int  // highlighted result
	offset        int  // first result drawn when the list is taller than the panel
	resultsActive bool // keyboard focus is on the results list instead of the input
	focused       bool
	width         int
	height        int
}

var _ ui.Panel = (*Panel)(nil)

// New creates a search panel backed by client
func New(client search.Client, opts Options) *Panel {
	ti := textinput.New()
	ti.Placeholder = "Enter city, address, or landmark..."
	ti.Prompt = "> "
	ti.CharLimit = 256

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	styles := opts.Styles
	if styles == nil {
		styles = views.NewStyles()
	}
	sp.Style = styles.Spinner

	return &Panel{
		client:   client,
		ctx:      ctx,
		onSelect: opts.OnSelect,
		bus:      opts.Bus,
		log:      opts.Logger.With().Str("component", "searchpanel").Logger(),
		styles:   styles,
		keys:     DefaultKeyMap(),
		input:    ti,
		spinner:  sp,
	}
}

// State returns a copy of the panel's search state
func (p *Panel) State() domain.SearchState {
	s := p.state
	s.Results = append([]domain.Place(nil), p.state.Results...)
	return s
}

// Query returns the current text of the query box
func (p *Panel) Query() string {
	return p.input.Value()
}

// SetQuery replaces the text of the query box
func (p *Panel) SetQuery(q string) {
	p.input.SetValue(q)
}

// Sequence returns the number of the latest submitted search. Results of
// different searches are different results, even for the same place.
func (p *Panel) Sequence() int {
	return p.seq
}

// Cursor returns the index of the highlighted result
func (p *Panel) Cursor() int {
	return p.cursor
}

// KeyMap returns the panel's bindings for the help view
func (p *Panel) KeyMap() KeyMap {
	return p.keys
}

// SubmitEnabled reports whether the submit control accepts a submission:
// not while a search is in flight, and not for a blank query.
func (p *Panel) SubmitEnabled() bool {
	return !p.state.Loading && strings.TrimSpace(p.input.Value()) != ""
}

// Submit starts a search for the current query. Blank queries and
// submissions while a search is in flight are ignored and change nothing.
func (p *Panel) Submit() tea.Cmd {
	if !p.SubmitEnabled() {
		return nil
	}

	query := strings.TrimSpace(p.input.Value())
	p.seq++
	seq := p.seq

	p.state = domain.SearchState{Query: query, Loading: true}
	p.cursor = 0
	p.offset = 0
	p.resultsActive = false
	p.input.Blur()

	p.publish(eventbus.SearchStartedEvent{Query: query, Sequence: seq})

	return tea.Batch(p.spinner.Tick, p.searchCmd(seq, query))
}

func (p *Panel) searchCmd(seq int, query string) tea.Cmd {
	client := p.client
	ctx := p.ctx
	return func() tea.Msg {
		places, err := client.Search(ctx, query)
		if err != nil {
			return searchFailedMsg{seq: seq, query: query, err: err}
		}
		return searchResultsMsg{seq: seq, query: query, places: places}
	}
}

// Select activates the result at index i
func (p *Panel) Select(i int) tea.Cmd {
	if i < 0 || i >= len(p.state.Results) {
		return nil
	}
	p.cursor = i
	p.scrollToCursor()
	if p.onSelect == nil {
		return nil
	}
	return p.onSelect(p.state.Results[i])
}

// Update handles messages
func (p *Panel) Update(msg tea.Msg) (ui.Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		return p, p.handleResults(msg)

	case searchFailedMsg:
		return p, p.handleFailure(msg)

	case spinner.TickMsg:
		if !p.state.Loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		if p.resultsActive {
			return p, p.handleResultsKey(msg)
		}
		return p, p.handleInputKey(msg)
	}

	if p.input.Focused() {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *Panel) handleResults(msg searchResultsMsg) tea.Cmd {
	if msg.seq != p.seq {
		p.log.Debug().Str("query", msg.query).Int("seq", msg.seq).Int("latest", p.seq).Msg("dropping stale search results")
		p.publish(eventbus.SearchCompletedEvent{Query: msg.query, Sequence: msg.seq, Results: len(msg.places), Stale: true})
		return nil
	}

	p.state.Results = msg.places
	p.state.Loading = false
	p.cursor = 0
	p.offset = 0
	p.publish(eventbus.SearchCompletedEvent{Query: msg.query, Sequence: msg.seq, Results: len(msg.places)})

	if len(msg.places) > 0 {
		p.resultsActive = true
		return nil
	}
	return p.focusInput()
}

func (p *Panel) handleFailure(msg searchFailedMsg) tea.Cmd {
	if msg.seq != p.seq {
		p.log.Debug().Err(msg.err).Int("seq", msg.seq).Msg("dropping stale search failure")
		return nil
	}

	p.log.Error().Err(msg.err).Str("query", msg.query).Msg("search failed")
	p.publish(eventbus.SearchFailedEvent{Query: msg.query, Sequence: msg.seq, Err: msg.err})

	p.state.Results = nil
	p.state.Loading = false
	p.cursor = 0
	p.offset = 0
	return p.focusInput()
}

func (p *Panel) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	if p.state.Loading {
		return nil
	}

	switch {
	case key.Matches(msg, p.keys.Submit):
		return p.Submit()
	case msg.String() == "down" && len(p.state.Results) > 0:
		p.input.Blur()
		p.resultsActive = true
		return nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *Panel) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Go):
		return p.Select(p.cursor)
	case key.Matches(msg, p.keys.Up):
		if p.cursor == 0 {
			return p.focusInput()
		}
		p.cursor--
	case key.Matches(msg, p.keys.Down):
		if p.cursor < len(p.state.Results)-1 {
			p.cursor++
		}
	case key.Matches(msg, p.keys.Edit):
		return p.focusInput()
	}
	p.scrollToCursor()
	return nil
}

func (p *Panel) focusInput() tea.Cmd {
	p.resultsActive = false
	if !p.focused {
		return nil
	}
	return p.input.Focus()
}

// Focus gives the panel keyboard focus
func (p *Panel) Focus() tea.Cmd {
	p.focused = true
	if p.resultsActive || p.state.Loading {
		return nil
	}
	return p.input.Focus()
}

// Blur removes keyboard focus
func (p *Panel) Blur() {
	p.focused = false
	p.input.Blur()
}

// Focused reports whether the panel has keyboard focus
func (p *Panel) Focused() bool {
	return p.focused
}

// SetSize sets the panel's content area
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	// prompt and cursor take three cells
	p.input.Width = max(width-3, 1)
	p.scrollToCursor()
}

func (p *Panel) publish(e eventbus.DomainEvent) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

// View renders the panel
func (p *Panel) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Label.Render("Search for a location"))
	b.WriteString("\n")

	inputLine := p.input.View()
	if p.state.Loading {
		inputLine = lipgloss.JoinHorizontal(lipgloss.Top, inputLine, " ", p.spinner.View())
	}
	b.WriteString(inputLine)
	b.WriteString("\n\n")

	b.WriteString(p.renderSubmit())
	b.WriteString("\n\n")

	switch {
	case len(p.state.Results) > 0:
		b.WriteString(p.renderResults())
	case !p.state.Loading:
		b.WriteString(p.renderEmpty())
	}

	return lipgloss.NewStyle().Width(p.width).MaxHeight(p.height).Render(b.String())
}

func (p *Panel) renderSubmit() string {
	label := "Search"
	if p.state.Loading {
		label = "Searching..."
	}
	if p.SubmitEnabled() {
		return p.styles.Button.Render(label)
	}
	return p.styles.ButtonOff.Render(label)
}

// resultRows returns one entry per result: name line and coordinates line
func (p *Panel) resultRows() []string {
	rows := make([]string, 0, len(p.state.Results))
	for i, place := range p.state.Results {
		marker := "  "
		name := p.styles.ResultName.Render(views.Truncate(place.Name, p.width-2))
		if p.resultsActive && i == p.cursor {
			marker = p.styles.ResultCursor.Render("> ")
			name = p.styles.ResultCursor.Render(views.Truncate(place.Name, p.width-2))
		}
		coords := p.styles.ResultCoords.Render(place.FormatCoordinates())
		rows = append(rows, fmt.Sprintf("%s%s\n  %s", marker, name, coords))
	}
	return rows
}

// lines above the results list: title, input, gap, button, gap, count, gap
const chromeLines = 7

// rowsIn returns how many results fit in n lines. A result takes two lines
// plus a separator between results.
func rowsIn(n int) int {
	if n < 2 {
		return 0
	}
	return (n + 1) / 3
}

// visibleRows returns how many results are drawn at once. When the list is
// cut, one line above and one below are kept for the scroll indicators.
func (p *Panel) visibleRows() int {
	total := len(p.state.Results)
	if p.height <= 0 {
		return total
	}
	avail := p.height - chromeLines
	if rowsIn(avail) >= total {
		return total
	}
	return max(rowsIn(avail-2), 1)
}

// scrollToCursor moves the window so the cursor row is drawn
func (p *Panel) scrollToCursor() {
	n := p.visibleRows()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+n {
		p.offset = p.cursor - n + 1
	}
	p.offset = max(min(p.offset, len(p.state.Results)-n), 0)
}

// VisibleRange returns the half-open range of results currently drawn
func (p *Panel) VisibleRange() (int, int) {
	return p.offset, min(p.offset+p.visibleRows(), len(p.state.Results))
}

func (p *Panel) renderResults() string {
	var b strings.Builder
	b.WriteString(p.styles.Label.Render(fmt.Sprintf("Found Locations (%d)", len(p.state.Results))))
	b.WriteString("\n\n")

	from, to := p.VisibleRange()
	if from > 0 {
		b.WriteString(p.styles.Dim.Render(fmt.Sprintf("  ↑ %d more", from)) + "\n")
	}

	sep := p.styles.Separator.Render(strings.Repeat("─", max(p.width-4, 1)))
	rows := p.resultRows()[from:to]
	for i, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
		if i < len(rows)-1 {
			b.WriteString("  " + sep + "\n")
		}
	}

	if rest := len(p.state.Results) - to; rest > 0 {
		b.WriteString(p.styles.Dim.Render(fmt.Sprintf("  ↓ %d more", rest)))
	}
	return b.String()
}

func (p *Panel) renderEmpty() string {
	var b strings.Builder
	b.WriteString(p.styles.EmptyTitle.Render("Ready to explore?"))
	b.WriteString("\n")
	b.WriteString(p.styles.Dim.Render("Search for any location to get started. Try searching for cities, landmarks, or addresses."))
	return lipgloss.NewStyle().Width(max(p.width, 1)).Render(b.String())
}
