package mapview

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"

	"mapsexplorer/internal/domain"
)

const (
	tileSize = 256
	// MinZoom and MaxZoom bound the camera zoom
	MinZoom = 0
	MaxZoom = 19
	// maxMercatorLat is where the Web Mercator square ends
	maxMercatorLat = 85.05112878
)

var tileSubdomains = []string{"a", "b", "c"}

// project returns the Web Mercator world-pixel position of c at zoom
func project(c domain.Coordinate, zoom int) (x, y float64) {
	size := worldSize(zoom)
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, c.Lat))
	latRad := lat * math.Pi / 180
	x = (c.Lon + 180) / 360 * size
	y = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * size
	return x, y
}

// unproject is the inverse of project
func unproject(x, y float64, zoom int) domain.Coordinate {
	size := worldSize(zoom)
	lon := x/size*360 - 180
	n := math.Pi - 2*math.Pi*y/size
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return domain.Coordinate{Lat: lat, Lon: lon}
}

func worldSize(zoom int) float64 {
	return tileSize * math.Exp2(float64(zoom))
}

// TileXY returns the slippy-map tile containing c at zoom
func TileXY(c domain.Coordinate, zoom int) (x, y int) {
	px, py := project(c, zoom)
	n := int(math.Exp2(float64(zoom)))
	x = clampInt(int(math.Floor(px/tileSize)), 0, n-1)
	y = clampInt(int(math.Floor(py/tileSize)), 0, n-1)
	return x, y
}

// ExpandTileURL fills a {s}/{z}/{x}/{y} template. The subdomain rotates with
// the tile position so neighbouring tiles spread over the hosts.
func ExpandTileURL(template string, zoom, x, y int) string {
	s := tileSubdomains[(x+y)%len(tileSubdomains)]
	r := strings.NewReplacer(
		"{s}", s,
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(template)
}

// interpolate returns the point a fraction t along the great circle from a to b
func interpolate(a, b domain.Coordinate, t float64) domain.Coordinate {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lon))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lon))
	ll := s2.LatLngFromPoint(s2.Interpolate(t, pa, pb))
	return domain.Coordinate{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// arcDegrees is the great-circle distance between a and b in degrees
func arcDegrees(a, b domain.Coordinate) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Degrees()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
