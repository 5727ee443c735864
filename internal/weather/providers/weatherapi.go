package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/forecast-board/internal/weather"
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	cfg := defaultHTTPConfig(client)
	// WeatherAPI answers 400 (error code 1006) for unknown places.
	cfg.NotFoundStatus = []int{http.StatusBadRequest, http.StatusNotFound}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: cfg,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIForecast struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempF          float64 `json:"avgtemp_f"`
				DailyChanceOfRain int     `json:"daily_chance_of_rain"`
				DailyChanceOfSnow int     `json:"daily_chance_of_snow"`
				Condition         struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
			Hour []struct {
				Time         string  `json:"time"`
				TempF        float64 `json:"temp_f"`
				ChanceOfRain int     `json:"chance_of_rain"`
				ChanceOfSnow int     `json:"chance_of_snow"`
				Condition    struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.ProviderDay, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		values.Set("q", loc.Query)
		values.Set("days", strconv.Itoa(days))
		values.Set("aqi", "no")
		values.Set("alerts", "no")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, locationError(err, loc)
	}
	defer resp.Body.Close()

	var payload weatherAPIForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]weather.ProviderDay, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		date, err := time.Parse(weather.DateLayout, fd.Date)
		if err != nil {
			return nil, fmt.Errorf("weatherapi: bad forecast date %q: %w", fd.Date, err)
		}

		day := weather.ProviderDay{
			ProviderName:     p.name,
			Date:             date,
			Unit:             weather.UnitFahrenheit,
			Temperature:      fd.Day.AvgTempF,
			PrecipitationPct: chanceOf(fd.Day.DailyChanceOfRain, fd.Day.DailyChanceOfSnow),
			Condition:        fd.Day.Condition.Text,
		}
		for _, h := range fd.Hour {
			ts, err := time.Parse("2006-01-02 15:04", h.Time)
			if err != nil {
				continue
			}
			day.Hourly = append(day.Hourly, weather.ProviderHour{
				Time:             ts.Format("15:04"),
				Temperature:      h.TempF,
				PrecipitationPct: chanceOf(h.ChanceOfRain, h.ChanceOfSnow),
				Condition:        h.Condition.Text,
			})
		}
		out = append(out, day)
	}

	return limitDays(out, days), nil
}

// chanceOf reports the larger of the rain and snow chances.
func chanceOf(rain, snow int) float64 {
	return math.Max(float64(rain), float64(snow))
}
