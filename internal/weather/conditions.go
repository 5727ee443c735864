package weather

import (
	"strings"

	"github.com/i474232898/forecast-board/internal/common"
)

// ConditionKind is a normalized high-level weather condition.
type ConditionKind int

const (
	ConditionUnknown ConditionKind = iota
	ConditionClear
	ConditionClouds
	ConditionRain
	ConditionDrizzle
	ConditionSnow
	ConditionThunderstorm
	ConditionMist
	ConditionSmoke
	ConditionHaze
	ConditionDust
	ConditionFog
	ConditionSand
	ConditionAsh
	ConditionSquall
	ConditionTornado
)

var conditionNames = map[string]ConditionKind{
	"clear":        ConditionClear,
	"clouds":       ConditionClouds,
	"rain":         ConditionRain,
	"drizzle":      ConditionDrizzle,
	"snow":         ConditionSnow,
	"thunderstorm": ConditionThunderstorm,
	"mist":         ConditionMist,
	"smoke":        ConditionSmoke,
	"haze":         ConditionHaze,
	"dust":         ConditionDust,
	"fog":          ConditionFog,
	"sand":         ConditionSand,
	"ash":          ConditionAsh,
	"squall":       ConditionSquall,
	"tornado":      ConditionTornado,
}

// ParseCondition maps a provider label to a ConditionKind. Exact group names
// ("Rain", "Clouds") match first; free text ("Patchy light drizzle") falls
// back to keyword matching.
func ParseCondition(label string) ConditionKind {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return ConditionUnknown
	}
	if k, ok := conditionNames[l]; ok {
		return k
	}

	switch {
	case common.HasAny(l, "thunder"):
		return ConditionThunderstorm
	case common.HasAny(l, "tornado"):
		return ConditionTornado
	case common.HasAny(l, "squall", "gale"):
		return ConditionSquall
	case common.HasAny(l, "snow", "sleet", "blizzard", "ice pellets"):
		return ConditionSnow
	case common.HasAny(l, "drizzle"):
		return ConditionDrizzle
	case common.HasAny(l, "rain", "shower"):
		return ConditionRain
	case common.HasAny(l, "fog"):
		return ConditionFog
	case common.HasAny(l, "mist"):
		return ConditionMist
	case common.HasAny(l, "haze"):
		return ConditionHaze
	case common.HasAny(l, "smoke"):
		return ConditionSmoke
	case common.HasAny(l, "dust"):
		return ConditionDust
	case common.HasAny(l, "sand"):
		return ConditionSand
	case common.HasAny(l, "ash"):
		return ConditionAsh
	case common.HasAny(l, "cloud", "overcast"):
		return ConditionClouds
	case common.HasAny(l, "clear", "sunny"):
		return ConditionClear
	}
	return ConditionUnknown
}

// Icon returns the icon class for the condition.
func (k ConditionKind) Icon() string {
	switch k {
	case ConditionClear:
		return "fas fa-sun"
	case ConditionClouds:
		return "fas fa-cloud"
	case ConditionRain, ConditionDrizzle:
		return "fas fa-cloud-rain"
	case ConditionSnow:
		return "fas fa-snowflake"
	case ConditionThunderstorm:
		return "fas fa-bolt"
	case ConditionMist, ConditionSmoke, ConditionHaze, ConditionDust, ConditionFog, ConditionSand, ConditionAsh:
		return "fas fa-smog"
	case ConditionSquall, ConditionTornado:
		return "fas fa-wind"
	case ConditionUnknown:
		return "fas fa-cloud"
	default:
		return "fas fa-cloud"
	}
}

// ConditionIcon is shorthand for ParseCondition(label).Icon().
func ConditionIcon(label string) string {
	return ParseCondition(label).Icon()
}
