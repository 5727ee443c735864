package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/forecast-board/internal/common"
)

type AppConfig struct {
	Port     string `validate:"required,numeric"`
	LivePort string `validate:"required,numeric,nefield=Port"`
	LogLevel string `validate:"oneof=debug info warn error"`

	// LiveURL is the websocket address the page connects to. Set it when the
	// socket sits behind a proxy; it defaults to the local live port.
	LiveURL string `validate:"omitempty,url"`

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// RefreshInterval controls how often forecasts for WarmLocations are refetched.
	RefreshInterval time.Duration `validate:"gte=0"`
	WarmLocations   []string

	// In-memory cache retention.
	CacheMaxEntries int           `validate:"gte=0"` // max cached locations (0 = unlimited)
	CacheMaxAge     time.Duration `validate:"gte=0"` // max age of a cached forecast (0 = unlimited)

	// DebounceWindow is the quiescence window for live range edits.
	DebounceWindow time.Duration `validate:"gt=0"`
	DefaultDays    int           `validate:"min=1,max=14"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LIVE_PORT", "8081")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LIVE_URL", "")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("REFRESH_INTERVAL", "30m")
	v.SetDefault("WARM_LOCATIONS", "")
	v.SetDefault("CACHE_MAX_ENTRIES", 256)
	v.SetDefault("CACHE_MAX_AGE", "30m")
	v.SetDefault("DEBOUNCE_WINDOW", "300ms")
	v.SetDefault("DEFAULT_DAYS", 5)
}

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:              v.GetString("PORT"),
		LivePort:          v.GetString("LIVE_PORT"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LiveURL:           strings.TrimSpace(v.GetString("LIVE_URL")),
		OpenWeatherAPIKey: v.GetString("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     v.GetString("WEATHERAPI_API_KEY"),
		GeocoderAPIKey:    v.GetString("GEOCODER_API_KEY"),
		WarmLocations:     common.SplitList(v.GetString("WARM_LOCATIONS")),
		CacheMaxEntries:   v.GetInt("CACHE_MAX_ENTRIES"),
		DefaultDays:       v.GetInt("DEFAULT_DAYS"),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"REFRESH_INTERVAL", &cfg.RefreshInterval},
		{"CACHE_MAX_AGE", &cfg.CacheMaxAge},
		{"DEBOUNCE_WINDOW", &cfg.DebounceWindow},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if cfg.LiveURL == "" {
		cfg.LiveURL = fmt.Sprintf("ws://localhost:%s/ws", cfg.LivePort)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// HasProvider reports whether at least one forecast provider can be built.
func (c *AppConfig) HasProvider() bool {
	return c.OpenWeatherAPIKey != "" || c.WeatherAPIKey != "" || c.GeocoderAPIKey != ""
}
