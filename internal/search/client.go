// Package search talks to the external geocoding service.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"mapsexplorer/internal/config"
	"mapsexplorer/internal/domain"
)

// Client turns a free-text query into place candidates
type Client interface {
	Search(ctx context.Context, query string) ([]domain.Place, error)
}

// maxErrorBody caps how much of an error response is kept for the message
const maxErrorBody = 512

// NominatimClient queries a Nominatim-compatible /search endpoint
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	limit      int
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewNominatimClient creates a client from the search settings
func NewNominatimClient(cfg config.SearchSettings, log zerolog.Logger) *NominatimClient {
	return &NominatimClient{
		httpClient: &http.Client{Timeout: cfg.Timeout.Duration},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		language:   cfg.Language,
		limit:      cfg.Limit,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		log:        log.With().Str("component", "search").Logger(),
	}
}

// nominatimPlace mirrors the relevant parts of the jsonv2 search payload
type nominatimPlace struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}

// Search issues the request and maps the response. An empty result list is
// not an error.
func (c *NominatimClient) Search(ctx context.Context, query string) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Op: "wait", Err: err}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(c.limit))
	if c.language != "" {
		params.Set("accept-language", c.language)
	}
	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("query", query).Msg("geocoding request failed")
		return nil, &NetworkError{Op: "request", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error().
			Int("status_code", resp.StatusCode).
			Str("body", string(body)).
			Str("query", query).
			Msg("geocoding service returned error")
		return nil, &ServiceError{Op: "request", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var raw []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.log.Error().Err(err).Str("query", query).Msg("failed to decode geocoding payload")
		return nil, &ServiceError{Op: "decode", Message: "malformed response body", Err: err}
	}

	places := make([]domain.Place, 0, len(raw))
	for i, r := range raw {
		place, err := toPlace(r)
		if err != nil {
			c.log.Error().Err(err).Int("index", i).Str("query", query).Msg("malformed geocoding record")
			return nil, &ServiceError{Op: "decode", Message: fmt.Sprintf("record %d: %v", i, err), Err: err}
		}
		places = append(places, place)
	}

	c.log.Debug().
		Str("query", query).
		Int("results", len(places)).
		Dur("elapsed", time.Since(start)).
		Msg("geocoding request successful")

	return places, nil
}

func toPlace(r nominatimPlace) (domain.Place, error) {
	if r.PlaceID == "" {
		return domain.Place{}, fmt.Errorf("missing place_id")
	}
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("invalid lat %q", r.Lat)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("invalid lon %q", r.Lon)
	}
	place := domain.Place{
		ID:        r.PlaceID.String(),
		Name:      r.DisplayName,
		Latitude:  lat,
		Longitude: lon,
	}
	if !place.Coordinate().Valid() {
		return domain.Place{}, fmt.Errorf("coordinates out of range: %s", place.FormatCoordinates())
	}
	return place, nil
}
