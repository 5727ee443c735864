package weather

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/i474232898/forecast-board/internal/logger"
)

const (
	// DefaultDays is used when a query names neither a day count nor a range.
	DefaultDays = 5
	// MaxDays caps the day count of a query.
	MaxDays = 14

	fetchTimeout = 10 * time.Second
)

// Query describes a forecast request. Range, when set, wins over Days.
type Query struct {
	Location string
	Days     int
	Range    *DateRange
}

// Service orchestrates fetching from multiple providers, caching and turning
// provider data into render-ready forecasts.
type Service struct {
	store       Store
	providers   []Provider
	clock       clock.Clock
	log         *logger.Logger
	defaultDays int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l.Named("weather") }
}

// WithDefaultDays overrides DefaultDays.
func WithDefaultDays(days int) Option {
	return func(s *Service) {
		if days > 0 && days <= MaxDays {
			s.defaultDays = days
		}
	}
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider, opts ...Option) *Service {
	s := &Service{
		store:       store,
		providers:   providers,
		clock:       clock.NewClock(),
		log:         logger.Nop(),
		defaultDays: DefaultDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the service's current local date.
func (s *Service) Today() time.Time {
	return Today(s.clock)
}

// Forecast validates q, fetches (or reuses cached) provider data, filters it
// to the requested range, converts it to Celsius and derives alerts per day.
func (s *Service) Forecast(ctx context.Context, q Query) (*Forecast, error) {
	loc := Location{Query: strings.TrimSpace(q.Location)}
	if loc.Query == "" {
		return nil, ErrLocationRequired
	}

	today := s.Today()
	start := today
	horizon := s.horizon(q.Days)

	if q.Range != nil {
		if err := ValidateRange(*q.Range, today); err != nil {
			return nil, err
		}
		start = CalendarDate(q.Range.Start)
		horizon = rangeHorizon(*q.Range, today)
	}

	snapshot, err := s.snapshot(ctx, loc, today, horizon)
	if err != nil {
		return nil, err
	}

	days := selectDays(snapshot.Days, start, horizon)
	readings := make([]DayReading, 0, len(days))
	for _, d := range days {
		readings = append(readings, ToCelsius(d))
	}
	if q.Range != nil {
		readings = FilterRange(readings, *q.Range)
	}

	if len(readings) == 0 {
		s.log.Debugw("forecast empty after filtering", "location", loc.Key())
		return nil, ErrNoData
	}

	out := &Forecast{
		Location: loc,
		Days:     make([]DayForecast, 0, len(readings)),
	}
	for _, r := range readings {
		out.Days = append(out.Days, DayForecast{
			DayReading: r,
			Date:       r.DateString(),
			Alerts:     DeriveAlerts(r.Reading),
		})
	}
	return out, nil
}

// Refresh fetches the default horizon for location and stores it, replacing
// any cached snapshot.
func (s *Service) Refresh(ctx context.Context, location string) error {
	loc := Location{Query: strings.TrimSpace(location)}
	if loc.Query == "" {
		return ErrLocationRequired
	}
	snapshot, err := s.fetch(ctx, loc, MaxRangeDays+1)
	if err != nil {
		return err
	}
	s.store.SaveSnapshot(snapshot)
	return nil
}

func (s *Service) horizon(days int) int {
	switch {
	case days <= 0:
		return s.defaultDays
	case days > MaxDays:
		return MaxDays
	}
	return days
}

// rangeHorizon is the number of days, starting today, providers must return
// to cover r.
func rangeHorizon(r DateRange, today time.Time) int {
	n := int(CalendarDate(r.End).Sub(today).Hours()/24) + 1
	switch {
	case n < 1:
		return 1
	case n > MaxRangeDays+1:
		return MaxRangeDays + 1
	}
	return n
}

// selectDays keeps up to n days starting at start.
func selectDays(days []ProviderDay, start time.Time, n int) []ProviderDay {
	out := make([]ProviderDay, 0, n)
	for _, d := range days {
		if len(out) >= n {
			break
		}
		if CalendarDate(d.Date).Before(start) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// covers reports whether snap holds the horizon days starting at today.
// Horizon counts from the local date the snapshot was fetched on.
func covers(snap Snapshot, today time.Time, horizon int) bool {
	fetched := CalendarDate(snap.FetchedAt.Local())
	if fetched.After(today) {
		return false
	}
	lastCached := fetched.AddDate(0, 0, snap.Horizon-1)
	lastWanted := today.AddDate(0, 0, horizon-1)
	return !lastCached.Before(lastWanted)
}

func (s *Service) snapshot(ctx context.Context, loc Location, today time.Time, horizon int) (Snapshot, error) {
	if cached, err := s.store.GetLatest(loc); err == nil && covers(cached, today, horizon) {
		s.log.Debugw("forecast cache hit", "location", loc.Key(), "fetchedAt", cached.FetchedAt)
		return cached, nil
	}

	snapshot, err := s.fetch(ctx, loc, horizon)
	if err != nil {
		return Snapshot{}, err
	}
	s.store.SaveSnapshot(snapshot)
	return snapshot, nil
}

// fetch queries all providers concurrently and merges whatever succeeded.
func (s *Service) fetch(ctx context.Context, loc Location, horizon int) (Snapshot, error) {
	if len(s.providers) == 0 {
		s.log.Errorw("no providers available", "location", loc.Key())
		return Snapshot{}, ErrNoProviders
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		perIndex = make([][]ProviderDay, len(s.providers))
		errs     = make([]error, len(s.providers))
	)

	// Results are kept in provider order so merging is deterministic.
	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			days, err := p.FetchForecast(ctx, loc, horizon)
			if err != nil {
				s.log.Warnw("provider forecast failed", "provider", p.Name(), "location", loc.Key(), "error", err)
				errs[i] = err
				return
			}
			perIndex[i] = days
		}(i, p)
	}

	wg.Wait()

	var results [][]ProviderDay
	for _, days := range perIndex {
		if len(days) > 0 {
			results = append(results, days)
		}
	}

	if len(results) == 0 {
		errs = compactErrors(errs)
		for _, err := range errs {
			if errors.Is(err, ErrLocationNotFound) {
				return Snapshot{}, err
			}
		}
		if len(errs) > 0 {
			return Snapshot{}, &UpstreamError{Err: errors.Join(errs...)}
		}
		return Snapshot{}, ErrNoData
	}

	return Snapshot{
		Location:  loc,
		FetchedAt: s.clock.Now().UTC(),
		Horizon:   horizon,
		Days:      AggregateDays(results),
	}, nil
}

func compactErrors(errs []error) []error {
	out := errs[:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
