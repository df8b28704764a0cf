package domain

import "fmt"

// Coordinate is a WGS 84 point
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether the coordinate lies inside the latitude/longitude ranges
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String formats the coordinate with four decimals, e.g. "48.8566, 2.3522"
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// Place is a named geographic point returned by the search service.
// Places are values; two places are the same place when their IDs match.
type Place struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
}

// Coordinate returns the place's position
func (p Place) Coordinate() Coordinate {
	return Coordinate{Lat: p.Latitude, Lon: p.Longitude}
}

// FormatCoordinates renders the place's position for display
func (p Place) FormatCoordinates() string {
	return p.Coordinate().String()
}

// Camera is the map's viewpoint
type Camera struct {
	Center Coordinate
	Zoom   int
}

// SearchState is the search panel's local state. It is replaced on every submission.
type SearchState struct {
	Query   string
	Loading bool
	Results []Place
}
