package weather

import (
	"context"
	"time"
)

// Provider abstracts a forecast source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
// FetchForecast returns up to days entries starting today, in source units,
// ordered by date.
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location, days int) ([]ProviderDay, error)
}

// Snapshot is a merged provider result kept in the cache.
type Snapshot struct {
	Location  Location
	FetchedAt time.Time
	Horizon   int
	Days      []ProviderDay
}

// Store is the contract the in-memory cache must satisfy.
type Store interface {
	SaveSnapshot(snapshot Snapshot)
	GetLatest(loc Location) (Snapshot, error)
}
