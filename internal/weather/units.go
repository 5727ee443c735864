package weather

import (
	"math"
	"time"
)

// TemperatureUnit is the unit a provider reports temperatures in.
type TemperatureUnit int

const (
	UnitCelsius TemperatureUnit = iota
	UnitFahrenheit
)

// ProviderHour is an hourly slot as reported by a provider, in source units.
type ProviderHour struct {
	Time             string
	Temperature      float64
	PrecipitationPct float64
	Condition        string
}

// ProviderDay is a day as reported by a provider, in source units.
type ProviderDay struct {
	ProviderName     string
	Date             time.Time
	Unit             TemperatureUnit
	Temperature      float64
	PrecipitationPct float64
	Condition        string
	Hourly           []ProviderHour
}

// FahrenheitToCelsius converts and rounds half up to a whole degree.
func FahrenheitToCelsius(f float64) int {
	return roundHalfUp((f - 32) * 5 / 9)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func toCelsius(v float64, unit TemperatureUnit) int {
	if unit == UnitFahrenheit {
		return FahrenheitToCelsius(v)
	}
	return roundHalfUp(v)
}

func clampPercent(v float64) int {
	p := roundHalfUp(v)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// ToCelsius converts a provider day into a new DayReading in Celsius.
// The input is left untouched.
func ToCelsius(d ProviderDay) DayReading {
	out := DayReading{
		Date: CalendarDate(d.Date),
		Reading: Reading{
			TemperatureC:     toCelsius(d.Temperature, d.Unit),
			PrecipitationPct: clampPercent(d.PrecipitationPct),
			Condition:        d.Condition,
		},
		Hourly: make([]HourReading, 0, len(d.Hourly)),
	}
	for _, h := range d.Hourly {
		out.Hourly = append(out.Hourly, HourReading{
			Time: h.Time,
			Reading: Reading{
				TemperatureC:     toCelsius(h.Temperature, d.Unit),
				PrecipitationPct: clampPercent(h.PrecipitationPct),
				Condition:        h.Condition,
			},
		})
	}
	return out
}

// FilterRange keeps the days that fall inside r, preserving order.
func FilterRange(days []DayReading, r DateRange) []DayReading {
	out := make([]DayReading, 0, len(days))
	for _, d := range days {
		if r.Contains(d.Date) {
			out = append(out, d)
		}
	}
	return out
}
