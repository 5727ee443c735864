package weather

import (
	"fmt"
	"strings"
)

// Severity is the tier of a derived alert.
type Severity int

const (
	SeverityMild Severity = iota + 1
	SeverityModerate
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityMild:
		return "Mild"
	case SeverityModerate:
		return "Moderate"
	case SeveritySevere:
		return "Severe"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Icon returns the icon class shown next to an alert of this severity.
func (s Severity) Icon() string {
	switch s {
	case SeveritySevere:
		return "fas fa-exclamation-triangle"
	case SeverityModerate:
		return "fas fa-exclamation-circle"
	case SeverityMild:
		return "fas fa-info-circle"
	default:
		return "fas fa-exclamation-circle"
	}
}

// Alert is an advisory derived from a single reading.
type Alert struct {
	Severity    Severity `json:"severity"`
	Event       string   `json:"event"`
	Description string   `json:"description"`
}

// Alert thresholds. Temperatures are in Celsius, precipitation in percent.
const (
	heatThresholdC       = 35
	freezeThresholdC     = 0
	heavyPrecipThreshold = 70
	modPrecipThreshold   = 40
	lightPrecipThreshold = 20
)

// DeriveAlerts returns the alerts that apply to r, which must already be in
// Celsius. Each category yields at most one alert, in the order temperature,
// precipitation, condition.
func DeriveAlerts(r Reading) []Alert {
	alerts := make([]Alert, 0, 3)

	if a, ok := temperatureAlert(r.TemperatureC); ok {
		alerts = append(alerts, a)
	}
	if a, ok := precipitationAlert(r.PrecipitationPct); ok {
		alerts = append(alerts, a)
	}
	if a, ok := conditionAlert(r.Condition); ok {
		alerts = append(alerts, a)
	}

	return alerts
}

func temperatureAlert(tempC int) (Alert, bool) {
	switch {
	case tempC > heatThresholdC:
		return Alert{
			Severity:    SeveritySevere,
			Event:       "Extreme Heat",
			Description: "Temperature exceeds 35°C. Stay hydrated and avoid prolonged sun exposure.",
		}, true
	case tempC < freezeThresholdC:
		return Alert{
			Severity:    SeveritySevere,
			Event:       "Freezing Temperature",
			Description: "Temperature below 0°C. Take precautions against freezing conditions.",
		}, true
	}
	return Alert{}, false
}

func precipitationAlert(pct int) (Alert, bool) {
	switch {
	case pct > heavyPrecipThreshold:
		return Alert{
			Severity:    SeveritySevere,
			Event:       "Heavy Precipitation",
			Description: fmt.Sprintf("High (%d%%) chance of precipitation. Prepare for wet conditions.", pct),
		}, true
	case pct > modPrecipThreshold:
		return Alert{
			Severity:    SeverityModerate,
			Event:       "Moderate Precipitation",
			Description: fmt.Sprintf("Moderate (%d%%) chance of precipitation. Consider rain gear.", pct),
		}, true
	case pct > lightPrecipThreshold:
		return Alert{
			Severity:    SeverityMild,
			Event:       "Light Precipitation",
			Description: fmt.Sprintf("Light (%d%%) chance of precipitation.", pct),
		}, true
	}
	return Alert{}, false
}

func conditionAlert(condition string) (Alert, bool) {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "thunderstorm"):
		return Alert{
			Severity:    SeveritySevere,
			Event:       "Thunderstorm",
			Description: "Thunderstorm conditions expected. Stay indoors when possible.",
		}, true
	case strings.Contains(c, "heavy rain"):
		return Alert{
			Severity:    SeveritySevere,
			Event:       "Heavy Rain",
			Description: "Heavy rain expected. Be cautious of flooding.",
		}, true
	case strings.Contains(c, "snow"):
		return Alert{
			Severity:    SeverityModerate,
			Event:       "Snow",
			Description: "Snowy conditions expected. Plan travel accordingly.",
		}, true
	}
	return Alert{}, false
}
