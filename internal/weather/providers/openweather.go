package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/forecast-board/internal/weather"
)

// OpenWeatherProvider implements weather.Provider on top of the OpenWeatherMap
// 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.ProviderDay, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("q", loc.Query)
		values.Set("units", "imperial")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, locationError(err, loc)
	}
	defer resp.Body.Close()

	var payload openWeatherForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return limitDays(groupOpenWeather(p.name, payload), days), nil
}

// groupOpenWeather buckets 3-hour slots by the city's local calendar day.
// The first slot of a day provides the day summary.
func groupOpenWeather(provider string, payload openWeatherForecast) []weather.ProviderDay {
	zone := time.FixedZone(payload.City.Name, payload.City.Timezone)

	var out []weather.ProviderDay
	for _, item := range payload.List {
		local := time.Unix(item.Dt, 0).In(zone)
		date := weather.CalendarDate(local)

		condition := ""
		if len(item.Weather) > 0 {
			condition = item.Weather[0].Main
		}
		precip := item.Pop * 100

		if len(out) == 0 || !out[len(out)-1].Date.Equal(date) {
			out = append(out, weather.ProviderDay{
				ProviderName:     provider,
				Date:             date,
				Unit:             weather.UnitFahrenheit,
				Temperature:      item.Main.Temp,
				PrecipitationPct: precip,
				Condition:        condition,
			})
		}

		day := &out[len(out)-1]
		day.Hourly = append(day.Hourly, weather.ProviderHour{
			Time:             local.Format("15:04"),
			Temperature:      item.Main.Temp,
			PrecipitationPct: precip,
			Condition:        condition,
		})
	}
	return out
}
