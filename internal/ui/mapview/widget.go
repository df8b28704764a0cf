package mapview

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mapsexplorer/internal/domain"
	"mapsexplorer/internal/ui/views"
)

// Marker is a pin drawn on the map with a popup label
type Marker struct {
	Position domain.Coordinate
	Title    string
	Detail   string
}

// Widget is a mutable map: a camera that can fly, a marker and a renderer.
// It is driven from the owning model's Update loop.
type Widget interface {
	Camera() domain.Camera
	// Target is where the camera is flying to, or the camera itself when idle
	Target() domain.Camera
	Flying() bool
	FlyTo(center domain.Coordinate, zoom int, d time.Duration) tea.Cmd
	SetZoom(zoom int)
	SetMarker(m *Marker)
	Marker() *Marker
	Update(msg tea.Msg) tea.Cmd
	Render(width, height int) string
	// TileURL is the tile under the camera center
	TileURL() string
}

// flyFrameMsg advances a flight. Frames from a superseded flight are ignored.
type flyFrameMsg struct {
	flight int
}

const (
	frameInterval = time.Second / 30
	// one terminal cell covers this many world pixels
	cellWidthPx  = 8
	cellHeightPx = 16
	// minimum columns between graticule lines
	minGridCols = 12
)

var gridSteps = []float64{90, 45, 30, 15, 10, 5, 2, 1, 0.5, 0.25, 0.1, 0.05, 0.02, 0.01, 0.005, 0.002, 0.001, 0.0005, 0.0002, 0.0001}

// TerminalWidget renders the camera as a character grid: a graticule with
// the marker at its projected position.
type TerminalWidget struct {
	tileTemplate string
	styles       *views.Styles
	now          func() time.Time

	camera domain.Camera
	from   domain.Camera
	target domain.Camera
	flight int
	flying bool
	start  time.Time
	length time.Duration

	marker *Marker
}

var _ Widget = (*TerminalWidget)(nil)

// NewTerminalWidget creates a widget looking at start
func NewTerminalWidget(start domain.Camera, tileTemplate string, styles *views.Styles) *TerminalWidget {
	if styles == nil {
		styles = views.NewStyles()
	}
	start.Zoom = clampInt(start.Zoom, MinZoom, MaxZoom)
	return &TerminalWidget{
		tileTemplate: tileTemplate,
		styles:       styles,
		now:          time.Now,
		camera:       start,
		target:       start,
	}
}

func (w *TerminalWidget) Camera() domain.Camera { return w.camera }

func (w *TerminalWidget) Target() domain.Camera { return w.target }

func (w *TerminalWidget) Flying() bool { return w.flying }

func (w *TerminalWidget) Marker() *Marker { return w.marker }

func (w *TerminalWidget) SetMarker(m *Marker) { w.marker = m }

// FlyTo starts a flight to center. A zero duration jumps immediately. Any
// flight already under way is abandoned where it is.
func (w *TerminalWidget) FlyTo(center domain.Coordinate, zoom int, d time.Duration) tea.Cmd {
	w.flight++
	w.target = domain.Camera{Center: center, Zoom: clampInt(zoom, MinZoom, MaxZoom)}
	if d <= 0 {
		w.camera = w.target
		w.flying = false
		return nil
	}
	w.from = w.camera
	w.start = w.now()
	w.length = d
	w.flying = true
	return w.nextFrame()
}

// SetZoom ends any flight at its destination and applies zoom there
func (w *TerminalWidget) SetZoom(zoom int) {
	if w.flying {
		w.flight++
		w.flying = false
		w.camera.Center = w.target.Center
	}
	w.camera.Zoom = clampInt(zoom, MinZoom, MaxZoom)
	w.target = w.camera
}

func (w *TerminalWidget) nextFrame() tea.Cmd {
	flight := w.flight
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return flyFrameMsg{flight: flight}
	})
}

// Update advances the flight
func (w *TerminalWidget) Update(msg tea.Msg) tea.Cmd {
	frame, ok := msg.(flyFrameMsg)
	if !ok || !w.flying || frame.flight != w.flight {
		return nil
	}

	t := float64(w.now().Sub(w.start)) / float64(w.length)
	if t >= 1 {
		w.camera = w.target
		w.flying = false
		return nil
	}

	e := easeInOut(t)
	w.camera.Center = interpolate(w.from.Center, w.target.Center, e)
	w.camera.Zoom = flightZoom(w.from, w.target, e)
	return w.nextFrame()
}

func easeInOut(t float64) float64 {
	return t * t * (3 - 2*t)
}

// flightZoom pulls the camera out mid-flight, further for longer hops
func flightZoom(from, to domain.Camera, e float64) int {
	dip := 0.0
	if arc := arcDegrees(from.Center, to.Center); arc > 0 {
		dip = math.Min(8, math.Max(0, math.Log2(arc*16)))
	}
	z := float64(from.Zoom) + (float64(to.Zoom)-float64(from.Zoom))*e - dip*4*e*(1-e)
	return clampInt(int(math.Round(z)), MinZoom, MaxZoom)
}

func (w *TerminalWidget) TileURL() string {
	x, y := TileXY(w.camera.Center, w.camera.Zoom)
	return ExpandTileURL(w.tileTemplate, w.camera.Zoom, x, y)
}

type cellKind int

const (
	cellBlank cellKind = iota
	cellGrid
	cellMarker
	cellPopup
)

type cell struct {
	text string
	kind cellKind
}

// Render draws the map into a width x height block
func (w *TerminalWidget) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := w.graticule(width, height)
	if w.marker != nil {
		w.placeMarker(grid, width, height)
	}

	lines := make([]string, height)
	for row := range grid {
		lines[row] = w.renderRow(grid[row])
	}
	return strings.Join(lines, "\n")
}

// pixelAt returns the world pixel at the top-left of a cell
func (w *TerminalWidget) pixelAt(col, row, width, height int) (float64, float64) {
	cx, cy := project(w.camera.Center, w.camera.Zoom)
	return cx + float64(col-width/2)*cellWidthPx, cy + float64(row-height/2)*cellHeightPx
}

func (w *TerminalWidget) graticule(width, height int) [][]cell {
	zoom := w.camera.Zoom
	size := worldSize(zoom)

	// degrees of longitude per column, then the finest step that still
	// leaves room between lines
	degPerCol := 360 / size * cellWidthPx
	step := gridSteps[0]
	for _, s := range gridSteps {
		if s/degPerCol < minGridCols {
			break
		}
		step = s
	}

	vertical := make([]bool, width)
	for col := range width {
		x0, _ := w.pixelAt(col, 0, width, height)
		lon0 := unproject(x0, 0, zoom).Lon
		lon1 := unproject(x0+cellWidthPx, 0, zoom).Lon
		vertical[col] = crossesMultiple(lon0, lon1, step)
	}

	horizontal := make([]bool, height)
	outside := make([]bool, height)
	for row := range height {
		_, y0 := w.pixelAt(0, row, width, height)
		if y0 < 0 || y0+cellHeightPx > size {
			outside[row] = true
			continue
		}
		latTop := unproject(0, y0, zoom).Lat
		latBottom := unproject(0, y0+cellHeightPx, zoom).Lat
		// a line on the top edge of a cell belongs to that row
		horizontal[row] = crossesMultiple(-latTop, -latBottom, step)
	}

	grid := make([][]cell, height)
	for row := range height {
		grid[row] = make([]cell, width)
		for col := range width {
			c := cell{text: " "}
			if !outside[row] {
				switch {
				case vertical[col] && horizontal[row]:
					c = cell{text: "┼", kind: cellGrid}
				case vertical[col]:
					c = cell{text: "│", kind: cellGrid}
				case horizontal[row]:
					c = cell{text: "─", kind: cellGrid}
				}
			}
			grid[row][col] = c
		}
	}
	return grid
}

// crossesMultiple reports whether [lo, hi) contains a multiple of step
func crossesMultiple(lo, hi, step float64) bool {
	if hi < lo {
		// crossed the antimeridian
		return true
	}
	return math.Ceil(lo/step)*step < hi
}

func (w *TerminalWidget) placeMarker(grid [][]cell, width, height int) {
	cx, cy := project(w.camera.Center, w.camera.Zoom)
	mx, my := project(w.marker.Position, w.camera.Zoom)
	col := width/2 + int(math.Floor((mx-cx)/cellWidthPx))
	row := height/2 + int(math.Floor((my-cy)/cellHeightPx))
	if col < 0 || col >= width || row < 0 || row >= height {
		return
	}
	grid[row][col] = cell{text: "◉", kind: cellMarker}

	var label []string
	for _, s := range []string{w.marker.Title, w.marker.Detail} {
		if s != "" {
			label = append(label, s)
		}
	}
	// popup sits above the pin, or below it when there is no room
	first := row - len(label)
	if first < 0 {
		first = row + 1
	}
	for i, text := range label {
		r := first + i
		if r < 0 || r >= height || r == row {
			continue
		}
		writeLabel(grid[r], col, text)
	}
}

// narrow measures cells the way lipgloss does, whatever the locale says
// about ambiguous-width runes
var narrow = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// writeLabel writes text centered on col, clipped to the row. A wide rune
// takes two cells; the second one is left empty so the row keeps its width.
func writeLabel(row []cell, col int, text string) {
	label := narrow.Truncate(" "+text+" ", len(row), "…")
	var cells []cell
	for _, r := range label {
		switch narrow.RuneWidth(r) {
		case 0:
			if len(cells) > 0 {
				cells[len(cells)-1].text += string(r)
			}
		case 2:
			cells = append(cells, cell{text: string(r), kind: cellPopup}, cell{kind: cellPopup})
		default:
			cells = append(cells, cell{text: string(r), kind: cellPopup})
		}
	}
	start := clampInt(col-len(cells)/2, 0, len(row)-len(cells))
	copy(row[start:], cells)
}

// renderRow styles runs of equal kind together
func (w *TerminalWidget) renderRow(cells []cell) string {
	var b strings.Builder
	var run strings.Builder
	kind := cellBlank
	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(w.styleFor(kind).Render(run.String()))
		run.Reset()
	}
	for _, c := range cells {
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		run.WriteString(c.text)
	}
	flush()
	return b.String()
}

func (w *TerminalWidget) styleFor(kind cellKind) lipgloss.Style {
	switch kind {
	case cellGrid:
		return w.styles.Graticule
	case cellMarker:
		return w.styles.Marker
	case cellPopup:
		return w.styles.Popup
	}
	return lipgloss.NewStyle()
}
