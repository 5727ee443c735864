package weather

import "testing"

func TestParseCondition(t *testing.T) {
	tests := map[string]ConditionKind{
		"Clear":                      ConditionClear,
		"clouds":                     ConditionClouds,
		"Rain":                       ConditionRain,
		"Patchy light drizzle":       ConditionDrizzle,
		"Moderate or heavy snow":     ConditionSnow,
		"Thundery outbreaks nearby":  ConditionThunderstorm,
		"Heavy Rain":                 ConditionRain,
		"Light rain shower":          ConditionRain,
		"Freezing fog":               ConditionFog,
		"Partly cloudy":              ConditionClouds,
		"Overcast":                   ConditionClouds,
		"Sunny":                      ConditionClear,
		"Tornado":                    ConditionTornado,
		"":                           ConditionUnknown,
		"something else entirely ~~": ConditionUnknown,
	}
	for label, want := range tests {
		if got := ParseCondition(label); got != want {
			t.Fatalf("%q: expected %d, got %d", label, want, got)
		}
	}
}

func TestConditionIcon(t *testing.T) {
	tests := map[string]string{
		"Clear":        "fas fa-sun",
		"Clouds":       "fas fa-cloud",
		"Drizzle":      "fas fa-cloud-rain",
		"Snow":         "fas fa-snowflake",
		"Thunderstorm": "fas fa-bolt",
		"Haze":         "fas fa-smog",
		"Squall":       "fas fa-wind",
		"???":          "fas fa-cloud",
	}
	for label, want := range tests {
		if got := ConditionIcon(label); got != want {
			t.Fatalf("%q: expected %s, got %s", label, want, got)
		}
	}
}
