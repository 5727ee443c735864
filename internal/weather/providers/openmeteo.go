package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/forecast-board/internal/weather"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. Open-Meteo
// only takes coordinates, so places are resolved through a Geocoder first.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	geocoder Geocoder
}

func NewOpenMeteoProvider(client *http.Client, geocoder Geocoder) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		httpCfg:  defaultHTTPConfig(client),
		circuit:  newBreaker("openmeteo"),
		geocoder: geocoder,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoForecast struct {
	Daily struct {
		Time                        []string  `json:"time"`
		Temperature2mMax            []float64 `json:"temperature_2m_max"`
		PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
		WeatherCode                 []int     `json:"weather_code"`
	} `json:"daily"`
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature2m            []float64 `json:"temperature_2m"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.ProviderDay, error) {
	if p.geocoder == nil {
		return nil, fmt.Errorf("openmeteo requires a geocoder")
	}
	lat, lon, err := p.geocoder.Geocode(ctx, loc.Query)
	if err != nil {
		return nil, locationError(err, loc)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("daily", "temperature_2m_max,precipitation_probability_max,weather_code")
		values.Set("hourly", "temperature_2m,precipitation_probability,weather_code")
		values.Set("temperature_unit", "fahrenheit")
		values.Set("timezone", "auto")
		values.Set("forecast_days", strconv.Itoa(days))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload openMeteoForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return limitDays(p.toDays(payload), days), nil
}

func (p *OpenMeteoProvider) toDays(payload openMeteoForecast) []weather.ProviderDay {
	d := payload.Daily
	out := make([]weather.ProviderDay, 0, len(d.Time))
	index := make(map[string]int, len(d.Time))

	for i, ds := range d.Time {
		date, err := time.Parse(weather.DateLayout, ds)
		if err != nil {
			continue
		}
		index[ds] = len(out)
		out = append(out, weather.ProviderDay{
			ProviderName:     p.name,
			Date:             date,
			Unit:             weather.UnitFahrenheit,
			Temperature:      at(d.Temperature2mMax, i),
			PrecipitationPct: at(d.PrecipitationProbabilityMax, i),
			Condition:        openMeteoLabel(atInt(d.WeatherCode, i)),
		})
	}

	h := payload.Hourly
	for i, ts := range h.Time {
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		di, ok := index[t.Format(weather.DateLayout)]
		if !ok {
			continue
		}
		out[di].Hourly = append(out[di].Hourly, weather.ProviderHour{
			Time:             t.Format("15:04"),
			Temperature:      at(h.Temperature2m, i),
			PrecipitationPct: at(h.PrecipitationProbability, i),
			Condition:        openMeteoLabel(atInt(h.WeatherCode, i)),
		})
	}
	return out
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func atInt(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return -1
}

// openMeteoLabel maps WMO weather codes to the labels other providers use.
func openMeteoLabel(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Clouds"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code == 65 || code == 67 || code == 82:
		return "Heavy Rain"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "Snow"
	case code >= 95 && code <= 99:
		return "Thunderstorm"
	default:
		return ""
	}
}
