package charts

import "github.com/i474232898/forecast-board/internal/weather"

// TemperaturePoints turns hourly readings into a temperature series.
func TemperaturePoints(hours []weather.HourReading) []Point {
	out := make([]Point, 0, len(hours))
	for _, h := range hours {
		out = append(out, Point{Label: weather.FormatHour(h.Time), Value: float64(h.TemperatureC)})
	}
	return out
}

// PrecipitationPoints turns hourly readings into a precipitation series.
func PrecipitationPoints(hours []weather.HourReading) []Point {
	out := make([]Point, 0, len(hours))
	for _, h := range hours {
		out = append(out, Point{Label: weather.FormatHour(h.Time), Value: float64(h.PrecipitationPct)})
	}
	return out
}
