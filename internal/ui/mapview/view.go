// Package mapview implements the map column: the map widget, the marker for
// the selected place, and the overlays drawn above it.
package mapview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"mapsexplorer/internal/config"
	"mapsexplorer/internal/domain"
	"mapsexplorer/internal/eventbus"
	"mapsexplorer/internal/ui"
	"mapsexplorer/internal/ui/views"
)

// flyOverlayDoneMsg clears the flying overlay. It is not tied to a
// particular selection, so an earlier timer may clear a later overlay.
type flyOverlayDoneMsg struct{}

// Options configures a View
type Options struct {
	Settings config.MapSettings
	Widget   Widget // defaults to a TerminalWidget at the configured start camera
	Bus      eventbus.EventBus
	Logger   zerolog.Logger
	Styles   *views.Styles
}

// View is the map column
type View struct {
	widget   Widget
	settings config.MapSettings
	bus      eventbus.EventBus
	log      zerolog.Logger
	styles   *views.Styles
	popups   *views.PopupRenderer
	keys     KeyMap

	place    *domain.Place
	flyingTo string // name shown in the flying overlay; empty when hidden
	focused  bool
	width    int
	height   int
}

var _ ui.Panel = (*View)(nil)

// New creates a map view
func New(opts Options) *View {
	styles := opts.Styles
	if styles == nil {
		styles = views.NewStyles()
	}
	w := opts.Widget
	if w == nil {
		start := domain.Camera{
			Center: domain.Coordinate{Lat: opts.Settings.StartLat, Lon: opts.Settings.StartLon},
			Zoom:   opts.Settings.StartZoom,
		}
		w = NewTerminalWidget(start, opts.Settings.TileURL, styles)
	}
	return &View{
		widget:   w,
		settings: opts.Settings,
		bus:      opts.Bus,
		log:      opts.Logger.With().Str("component", "mapview").Logger(),
		styles:   styles,
		popups:   views.NewPopupRenderer(styles),
		keys:     DefaultKeyMap(),
	}
}

// Widget returns the underlying map widget
func (v *View) Widget() Widget {
	return v.widget
}

// Place returns the selected place, or nil
func (v *View) Place() *domain.Place {
	return v.place
}

// Target returns the point the camera is showing or flying to
func (v *View) Target() domain.Coordinate {
	return v.widget.Target().Center
}

// FlyingOverlay reports whether the flying overlay is shown
func (v *View) FlyingOverlay() bool {
	return v.flyingTo != ""
}

// KeyMap returns the view's bindings for the help view
func (v *View) KeyMap() KeyMap {
	return v.keys
}

// SetPlace shows p and starts a flight with the flying overlay, even when p
// is the place already shown. Deciding whether a selection is new belongs to
// the caller. nil clears the marker and moves nothing.
func (v *View) SetPlace(p *domain.Place) tea.Cmd {
	if p == nil {
		v.place = nil
		v.widget.SetMarker(nil)
		return nil
	}

	place := *p
	v.place = &place
	v.widget.SetMarker(&Marker{
		Position: place.Coordinate(),
		Title:    place.Name,
		Detail:   place.FormatCoordinates(),
	})

	d := v.settings.FlyDuration.Duration
	v.log.Debug().Str("place", place.Name).Stringer("target", place.Coordinate()).Dur("duration", d).Msg("flying to place")

	fly := v.widget.FlyTo(place.Coordinate(), v.settings.FlyZoom, d)
	if d <= 0 {
		return fly
	}
	v.flyingTo = place.Name
	return tea.Batch(fly, tea.Tick(d, func(time.Time) tea.Msg {
		return flyOverlayDoneMsg{}
	}))
}

// ZoomBy changes the zoom by delta levels. It does nothing without a
// selected place.
func (v *View) ZoomBy(delta int) {
	if v.place == nil {
		return
	}
	before := v.widget.Camera().Zoom
	v.widget.SetZoom(before + delta)
	after := v.widget.Camera().Zoom
	if after != before {
		v.log.Debug().Int("zoom", after).Msg("zoom changed")
		if v.bus != nil {
			v.bus.Publish(eventbus.ZoomChangedEvent{Zoom: after})
		}
	}
}

// Update handles messages
func (v *View) Update(msg tea.Msg) (ui.Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case flyOverlayDoneMsg:
		v.flyingTo = ""
		return v, nil

	case tea.KeyMsg:
		if !v.focused {
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.ZoomIn):
			v.ZoomBy(1)
		case key.Matches(msg, v.keys.ZoomOut):
			v.ZoomBy(-1)
		}
		return v, nil
	}

	return v, v.widget.Update(msg)
}

func (v *View) Focus() tea.Cmd {
	v.focused = true
	return nil
}

func (v *View) Blur() {
	v.focused = false
}

func (v *View) Focused() bool {
	return v.focused
}

func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the map with its overlays
func (v *View) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}

	info := ""
	mapHeight := v.height
	if v.place != nil {
		info = v.renderInfo()
		mapHeight = max(v.height-lipgloss.Height(info), 1)
	}

	out := v.widget.Render(v.width, mapHeight)
	if v.place == nil {
		out = v.popups.RenderOverlay(out, v.renderWelcome(), v.width)
	}
	if v.flyingTo != "" {
		band := v.styles.FlyingOverlay.Render(views.Truncate("Flying to "+v.flyingTo+"...", v.width-2))
		out = v.popups.RenderBand(out, band, v.width)
	}

	if info != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, info)
	}
	return out
}

func (v *View) renderWelcome() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		v.styles.Title.Render("Welcome to Maps Explorer"),
		"",
		v.styles.Dim.Render("Search for a location to start exploring"),
	)
	return v.styles.Overlay.Render(body)
}

func (v *View) renderInfo() string {
	cam := v.widget.Camera()
	inner := max(v.width-2, 1)
	lines := []string{
		v.styles.Label.Render(views.Truncate(v.place.Name, inner)),
		fmt.Sprintf("%s  %s",
			v.styles.Highlight.Render(v.place.FormatCoordinates()),
			v.styles.Dim.Render(fmt.Sprintf("zoom %d", cam.Zoom))),
		v.styles.Dim.Render(views.Truncate(v.widget.TileURL(), inner)),
		v.styles.Help.Render("+ zoom in  - zoom out"),
	}
	return v.styles.InfoPanel.Width(v.width).Render(strings.Join(lines, "\n"))
}
