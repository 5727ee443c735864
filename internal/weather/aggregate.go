package weather

import (
	"sort"
	"time"
)

// AggregateDays merges per-provider forecasts into one day list.
// For every calendar date temperatures and precipitation are averaged
// (after bringing all values to Fahrenheit), the condition is selected by
// majority (first seen wins a tie) and the hourly breakdown comes from the
// first provider that has one. The result is ordered by date.
func AggregateDays(results [][]ProviderDay) []ProviderDay {
	type bucket struct {
		date       time.Time
		providers  []string
		sumTemp    float64
		sumPrecip  float64
		n          int
		conditions []string
		counts     map[string]int
		hourly     []ProviderHour
		hourlyUnit TemperatureUnit
	}

	buckets := make(map[time.Time]*bucket)

	for _, days := range results {
		for _, d := range days {
			date := CalendarDate(d.Date)
			b, ok := buckets[date]
			if !ok {
				b = &bucket{date: date, counts: make(map[string]int)}
				buckets[date] = b
			}

			b.sumTemp += toFahrenheit(d.Temperature, d.Unit)
			b.sumPrecip += d.PrecipitationPct
			b.n++
			b.providers = append(b.providers, d.ProviderName)

			if d.Condition != "" {
				if b.counts[d.Condition] == 0 {
					b.conditions = append(b.conditions, d.Condition)
				}
				b.counts[d.Condition]++
			}

			if len(b.hourly) == 0 && len(d.Hourly) > 0 {
				b.hourly = d.Hourly
				b.hourlyUnit = d.Unit
			}
		}
	}

	out := make([]ProviderDay, 0, len(buckets))
	for _, b := range buckets {
		n := float64(b.n)

		// Pick majority condition.
		bestCond := ""
		bestCount := 0
		for _, cond := range b.conditions {
			if b.counts[cond] > bestCount {
				bestCount = b.counts[cond]
				bestCond = cond
			}
		}

		hourly := make([]ProviderHour, 0, len(b.hourly))
		for _, h := range b.hourly {
			h.Temperature = toFahrenheit(h.Temperature, b.hourlyUnit)
			hourly = append(hourly, h)
		}

		name := "aggregate"
		if len(b.providers) == 1 {
			name = b.providers[0]
		}

		out = append(out, ProviderDay{
			ProviderName:     name,
			Date:             b.date,
			Unit:             UnitFahrenheit,
			Temperature:      b.sumTemp / n,
			PrecipitationPct: b.sumPrecip / n,
			Condition:        bestCond,
			Hourly:           hourly,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func toFahrenheit(v float64, unit TemperatureUnit) float64 {
	if unit == UnitCelsius {
		return v*9/5 + 32
	}
	return v
}
