package mapview

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsexplorer/internal/config"
	"mapsexplorer/internal/domain"
	"mapsexplorer/internal/eventbus"
)

var paris = domain.Place{ID: "1", Name: "Paris, France", Latitude: 48.8566, Longitude: 2.3522}

// fakeClock is a settable time source for flights
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testSettings() config.MapSettings {
	return config.DefaultConfig().Map
}

func newTestView(t *testing.T, bus eventbus.EventBus) (*View, *TerminalWidget, *fakeClock) {
	t.Helper()
	settings := testSettings()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	w := NewTerminalWidget(domain.Camera{
		Center: domain.Coordinate{Lat: settings.StartLat, Lon: settings.StartLon},
		Zoom:   settings.StartZoom,
	}, settings.TileURL, nil)
	w.now = clock.now

	v := New(Options{Settings: settings, Widget: w, Bus: bus, Logger: zerolog.Nop()})
	v.SetSize(80, 24)
	return v, w, clock
}

// finishFlight jumps the clock past the flight and delivers the next frame
func finishFlight(v *View, w *TerminalWidget, clock *fakeClock) {
	clock.advance(w.length + time.Millisecond)
	v.Update(flyFrameMsg{flight: w.flight})
}

func TestNew_StartCamera(t *testing.T) {
	v := New(Options{Settings: testSettings(), Logger: zerolog.Nop()})

	cam := v.Widget().Camera()
	assert.Equal(t, domain.Coordinate{Lat: 40.7, Lon: -74.0}, cam.Center)
	assert.Equal(t, 12, cam.Zoom)
	assert.Nil(t, v.Place())
	assert.False(t, v.FlyingOverlay())
}

func TestView_WelcomeOverlayWithoutSelection(t *testing.T) {
	v, _, _ := newTestView(t, nil)

	out := v.View()
	assert.Contains(t, out, "Welcome to Maps Explorer")
	assert.NotContains(t, out, "zoom in")
}

func TestSetPlace_TargetsPlaceCoordinates(t *testing.T) {
	v, w, clock := newTestView(t, nil)

	cmd := v.SetPlace(&paris)
	require.NotNil(t, cmd)

	// the target is set immediately, before any frame runs
	assert.Equal(t, paris.Coordinate(), v.Target())
	assert.Equal(t, 12, w.Target().Zoom)
	assert.True(t, w.Flying())
	assert.True(t, v.FlyingOverlay())

	finishFlight(v, w, clock)
	assert.False(t, w.Flying())
	assert.Equal(t, domain.Camera{Center: paris.Coordinate(), Zoom: 12}, w.Camera())
}

func TestSetPlace_FlyingOverlayClearsOnTimer(t *testing.T) {
	v, _, _ := newTestView(t, nil)

	v.SetPlace(&paris)
	assert.Contains(t, v.View(), "Flying to Paris, France...")

	v.Update(flyOverlayDoneMsg{})
	assert.False(t, v.FlyingOverlay())
	assert.NotContains(t, v.View(), "Flying to")
}

func TestSetPlace_SamePlaceFliesAgain(t *testing.T) {
	v, w, clock := newTestView(t, nil)

	v.SetPlace(&paris)
	finishFlight(v, w, clock)
	v.Update(flyOverlayDoneMsg{})
	w.SetZoom(5)

	again := paris
	assert.NotNil(t, v.SetPlace(&again))
	assert.True(t, w.Flying())
	assert.True(t, v.FlyingOverlay())
	assert.Equal(t, 12, w.Target().Zoom)

	finishFlight(v, w, clock)
	assert.Equal(t, domain.Camera{Center: paris.Coordinate(), Zoom: 12}, w.Camera())
}

func TestSetPlace_NewSelectionSupersedesFlight(t *testing.T) {
	v, w, clock := newTestView(t, nil)
	lyon := domain.Place{ID: "2", Name: "Lyon, France", Latitude: 45.7640, Longitude: 4.8357}

	v.SetPlace(&paris)
	oldFlight := w.flight
	clock.advance(500 * time.Millisecond)
	v.Update(flyFrameMsg{flight: oldFlight})
	midway := w.Camera()

	v.SetPlace(&lyon)
	assert.Equal(t, lyon.Coordinate(), v.Target())

	// a frame for the abandoned flight changes nothing
	assert.Nil(t, w.Update(flyFrameMsg{flight: oldFlight}))
	assert.Equal(t, midway, w.Camera())

	finishFlight(v, w, clock)
	assert.Equal(t, lyon.Coordinate(), w.Camera().Center)
}

func TestView_InfoPanel(t *testing.T) {
	v, w, clock := newTestView(t, nil)
	v.SetPlace(&paris)
	finishFlight(v, w, clock)
	v.Update(flyOverlayDoneMsg{})

	out := v.View()
	assert.Contains(t, out, "Paris, France")
	assert.Contains(t, out, "48.8566, 2.3522")
	assert.Contains(t, out, "zoom 12")
	assert.Contains(t, out, "https://a.tile.openstreetmap.org/12/2074/1409.png")
	assert.Contains(t, out, "+ zoom in")
	assert.Contains(t, out, "◉")
	assert.NotContains(t, out, "Welcome to Maps Explorer")
}

func TestZoomKeys(t *testing.T) {
	bus := eventbus.New(zerolog.Nop())
	defer bus.Close()
	zooms := make(chan int, 4)
	bus.Subscribe(eventbus.EventZoomChanged, func(e eventbus.DomainEvent) {
		zooms <- e.(eventbus.ZoomChangedEvent).Zoom
	})

	v, w, _ := newTestView(t, bus)
	v.Focus()

	// nothing selected, nothing to zoom
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	assert.Equal(t, 12, w.Camera().Zoom)

	v.SetPlace(&paris)
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})

	// zooming ends the flight at the destination
	assert.False(t, w.Flying())
	assert.Equal(t, domain.Camera{Center: paris.Coordinate(), Zoom: 13}, w.Camera())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	assert.Equal(t, 11, w.Camera().Zoom)

	for _, want := range []int{13, 12, 11} {
		select {
		case got := <-zooms:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("no zoom event for %d", want)
		}
	}
}

func TestZoomBy_Clamped(t *testing.T) {
	v, w, _ := newTestView(t, nil)
	v.SetPlace(&paris)

	v.ZoomBy(100)
	assert.Equal(t, MaxZoom, w.Camera().Zoom)
	v.ZoomBy(-100)
	assert.Equal(t, MinZoom, w.Camera().Zoom)
}

func TestBlurredViewIgnoresKeys(t *testing.T) {
	v, w, _ := newTestView(t, nil)
	v.SetPlace(&paris)
	v.Blur()

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	assert.Equal(t, 12, w.Target().Zoom)
	assert.True(t, w.Flying())
}

func TestSetPlace_ZeroDurationJumps(t *testing.T) {
	settings := testSettings()
	settings.FlyDuration = config.Duration{}
	v := New(Options{Settings: settings, Logger: zerolog.Nop()})

	assert.Nil(t, v.SetPlace(&paris))
	assert.False(t, v.FlyingOverlay())
	assert.Equal(t, paris.Coordinate(), v.Widget().Camera().Center)
}
