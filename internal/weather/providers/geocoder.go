package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/forecast-board/internal/weather"
)

// Geocoder resolves a free-form place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (lat, lon float64, err error)
}

// GoogleGeocoder resolves places with the Google geocoding API. Results are
// memoized per query.
type GoogleGeocoder struct {
	apiKey string

	mu    sync.Mutex
	cache map[string][2]float64
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey: apiKey,
		cache:  make(map[string][2]float64),
	}
}

// geocoderMu guards the package-level API key of the geocoder library.
var geocoderMu sync.Mutex

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (float64, float64, error) {
	if g.apiKey == "" {
		return 0, 0, fmt.Errorf("geocoder api key is not configured")
	}
	key := strings.ToLower(strings.TrimSpace(query))

	g.mu.Lock()
	if c, ok := g.cache[key]; ok {
		g.mu.Unlock()
		return c[0], c[1], nil
	}
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	geocoderMu.Lock()
	geocoder.ApiKey = g.apiKey
	loc, err := geocoder.Geocoding(addressFromQuery(query))
	geocoderMu.Unlock()
	if err != nil {
		return 0, 0, geocodeError(query, err)
	}

	g.mu.Lock()
	g.cache[key] = [2]float64{loc.Latitude, loc.Longitude}
	g.mu.Unlock()

	return loc.Latitude, loc.Longitude, nil
}

// addressFromQuery splits "City,Country" into an address.
func addressFromQuery(query string) geocoder.Address {
	parts := strings.SplitN(query, ",", 2)
	addr := geocoder.Address{City: strings.TrimSpace(parts[0])}
	if len(parts) == 2 {
		addr.Country = strings.TrimSpace(parts[1])
	}
	return addr
}

// geocodeError reports an empty result set as ErrLocationNotFound so an
// unknown place reads the same as with the other providers.
func geocodeError(query string, err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"zero_results", "zero results", "no results", "not found"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("geocoding %q: %w", query, weather.ErrLocationNotFound)
		}
	}
	return fmt.Errorf("geocoding %q: %w", query, err)
}
