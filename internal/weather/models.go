package weather

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates in queries and responses.
const DateLayout = "2006-01-02"

// Location represents a place a forecast is requested for, as typed by the
// user ("Paris", "Paris,FR").
type Location struct {
	Query string `json:"query"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Query))
}

// Reading is the part shared by day and hour records, already in Celsius.
type Reading struct {
	TemperatureC     int    `json:"temperature"`
	PrecipitationPct int    `json:"precipitation"`
	Condition        string `json:"condition"`
}

// HourReading is one hourly slot of a day. Time is local wall time, "15:04".
type HourReading struct {
	Time string `json:"time"`
	Reading
}

// DayReading is one day of forecast with its hourly breakdown.
// Date is the calendar date at UTC midnight.
type DayReading struct {
	Date time.Time `json:"-"`
	Reading
	Hourly []HourReading `json:"hourly"`
}

// DateString formats the calendar date as YYYY-MM-DD.
func (d DayReading) DateString() string {
	return d.Date.Format(DateLayout)
}

// DayForecast is a converted day together with the alerts derived from it.
type DayForecast struct {
	DayReading
	Date   string  `json:"date"`
	Alerts []Alert `json:"alerts"`
}

// Forecast is the render-ready result of a forecast query.
type Forecast struct {
	Location Location      `json:"location"`
	Days     []DayForecast `json:"days"`
}

// Day returns the forecast for the given calendar date, if present.
func (f *Forecast) Day(date time.Time) (DayForecast, bool) {
	date = CalendarDate(date)
	for _, d := range f.Days {
		if d.DayReading.Date.Equal(date) {
			return d, true
		}
	}
	return DayForecast{}, false
}

// HasAlerts reports whether any day carries at least one alert.
func (f *Forecast) HasAlerts() bool {
	for _, d := range f.Days {
		if len(d.Alerts) > 0 {
			return true
		}
	}
	return false
}

// CalendarDate drops the time of day and the zone, keeping the wall-clock date.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
