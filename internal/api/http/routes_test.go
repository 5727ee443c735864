package httpapi

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/forecast-board/internal/views"
	"github.com/i474232898/forecast-board/internal/weather"
)

var today = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

type fakeForecaster struct {
	forecast *weather.Forecast
	err      error
	calls    []weather.Query
}

func (f *fakeForecaster) Forecast(_ context.Context, q weather.Query) (*weather.Forecast, error) {
	f.calls = append(f.calls, q)
	return f.forecast, f.err
}

func (f *fakeForecaster) Today() time.Time {
	return today
}

func sampleForecast() *weather.Forecast {
	reading := weather.DayReading{
		Date:    today,
		Reading: weather.Reading{TemperatureC: 21, PrecipitationPct: 45, Condition: "Rain"},
		Hourly: []weather.HourReading{
			{Time: "09:00", Reading: weather.Reading{TemperatureC: 18, PrecipitationPct: 30, Condition: "Rain"}},
			{Time: "12:00", Reading: weather.Reading{TemperatureC: 21, PrecipitationPct: 45, Condition: "Rain"}},
			{Time: "15:00", Reading: weather.Reading{TemperatureC: 20, PrecipitationPct: 60, Condition: "Clouds"}},
		},
	}
	return &weather.Forecast{
		Location: weather.Location{Query: "Paris"},
		Days: []weather.DayForecast{{
			DayReading: reading,
			Date:       reading.DateString(),
			Alerts:     weather.DeriveAlerts(reading.Reading),
		}},
	}
}

func TestMain(m *testing.M) {
	if err := views.LoadTemplates(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestApp(f *fakeForecaster) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, f, Options{LiveURL: "ws://localhost:8081/ws"})
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("response is not an error payload: %v (%s)", err, body)
	}
	return payload.Error
}

// TestForecastQueryValidation verifies that malformed queries are rejected
// before the service is called.
func TestForecastQueryValidation(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"missing location", "/api/v1/weather", "Location is required"},
		{"blank location", "/api/v1/weather?location=%20%20", "Location is required"},
		{"non-numeric days", "/api/v1/weather?location=Paris&num_days=abc", "Invalid number of days"},
		{"too many days", "/api/v1/weather?location=Paris&num_days=15", "Number of days must be between 1 and 14"},
		{"zero days", "/api/v1/weather?location=Paris&num_days=0", "Number of days must be between 1 and 14"},
		{"start without end", "/api/v1/weather?location=Paris&start_date=2026-10-17", "Both start_date and end_date are required"},
		{"bad date", "/api/v1/weather?location=Paris&start_date=17/10/2026&end_date=2026-10-18", weather.ReasonInvalidFormat},
		{"end before start", "/api/v1/weather?location=Paris&start_date=2026-10-18&end_date=2026-10-17", weather.ReasonEndBeforeStart},
		{"end too late", "/api/v1/weather?location=Paris&start_date=2026-10-20&end_date=2026-11-01", weather.ReasonEndTooLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeForecaster{forecast: sampleForecast()}
			resp, body := doGet(t, newTestApp(f), tt.target)

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
			}
			if got := errorMessage(t, body); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
			if len(f.calls) != 0 {
				t.Fatalf("expected no service calls, got %d", len(f.calls))
			}
		})
	}
}

func TestForecastPassesRangeToService(t *testing.T) {
	f := &fakeForecaster{forecast: sampleForecast()}
	resp, body := doGet(t, newTestApp(f), "/api/v1/weather?location=Paris&start_date=2026-10-17&end_date=2026-10-20")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (%s)", http.StatusOK, resp.StatusCode, body)
	}
	if len(f.calls) != 1 {
		t.Fatalf("expected 1 service call, got %d", len(f.calls))
	}
	q := f.calls[0]
	if q.Location != "Paris" || q.Range == nil {
		t.Fatalf("unexpected query: %+v", q)
	}
	if q.Range.Days() != 4 {
		t.Fatalf("expected a 4 day range, got %d", q.Range.Days())
	}

	var out struct {
		Location struct {
			Query string `json:"query"`
		} `json:"location"`
		Days []struct {
			Date        string `json:"date"`
			Temperature int    `json:"temperature"`
			Alerts      []struct {
				Severity string `json:"severity"`
				Event    string `json:"event"`
			} `json:"alerts"`
		} `json:"days"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Location.Query != "Paris" || len(out.Days) != 1 {
		t.Fatalf("unexpected payload: %s", body)
	}
	day := out.Days[0]
	if day.Date != "2026-10-17" || day.Temperature != 21 {
		t.Fatalf("unexpected day: %+v", day)
	}
	if len(day.Alerts) != 1 || day.Alerts[0].Severity != "Moderate" {
		t.Fatalf("expected one moderate alert, got %+v", day.Alerts)
	}
}

func TestForecastErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", weather.ErrLocationNotFound, http.StatusNotFound, "location not found"},
		{"no data", weather.ErrNoData, http.StatusNotFound, "No weather data available for the selected date range"},
		{"upstream", &weather.UpstreamError{Err: io.ErrUnexpectedEOF}, http.StatusBadGateway, "Failed to fetch weather data"},
		{"no providers", weather.ErrNoProviders, http.StatusBadGateway, "Failed to fetch weather data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeForecaster{err: tt.err}
			resp, body := doGet(t, newTestApp(f), "/api/v1/weather?location=Atlantis&num_days=3")

			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if got := errorMessage(t, body); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
			if f.calls[0].Days != 3 {
				t.Fatalf("expected 3 days, got %d", f.calls[0].Days)
			}
		})
	}
}

func TestPageRendersForecast(t *testing.T) {
	f := &fakeForecaster{forecast: sampleForecast()}
	resp, body := doGet(t, newTestApp(f), "/forecast?location=Paris")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	html := string(body)
	for _, want := range []string{"Moderate Precipitation", "Sat, Oct 17", "/charts/temperature.png?date=2026-10-17", "new WebSocket("} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
}

func TestPageRendersWarning(t *testing.T) {
	f := &fakeForecaster{err: weather.ErrNoData}
	resp, body := doGet(t, newTestApp(f), "/forecast?location=Paris&start_date=2026-10-17&end_date=2026-10-18")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if !strings.Contains(string(body), "No weather data available for the selected date range") {
		t.Fatalf("expected warning in page")
	}
}

func TestPageWithoutLocationSkipsService(t *testing.T) {
	f := &fakeForecaster{forecast: sampleForecast()}
	resp, _ := doGet(t, newTestApp(f), "/forecast")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if len(f.calls) != 0 {
		t.Fatalf("expected no service calls, got %d", len(f.calls))
	}
}

func TestChartEndpoint(t *testing.T) {
	f := &fakeForecaster{forecast: sampleForecast()}
	app := newTestApp(f)

	for _, kind := range []string{"temperature", "precipitation"} {
		resp, body := doGet(t, app, "/charts/"+kind+".png?location=Paris&date=2026-10-17")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d (%s)", kind, http.StatusOK, resp.StatusCode, body)
		}
		if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/png" {
			t.Fatalf("%s: expected image/png, got %q", kind, ct)
		}
		if _, err := png.Decode(strings.NewReader(string(body))); err != nil {
			t.Fatalf("%s: body is not a png: %v", kind, err)
		}
	}

	q := f.calls[0]
	if q.Range == nil || q.Range.Days() != 1 {
		t.Fatalf("expected a single day range, got %+v", q.Range)
	}
}

func TestChartEndpointRejectsBadRequests(t *testing.T) {
	f := &fakeForecaster{forecast: sampleForecast()}
	app := newTestApp(f)

	resp, _ := doGet(t, app, "/charts/humidity.png?location=Paris&date=2026-10-17")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp, _ = doGet(t, app, "/charts/temperature.png?location=Paris")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// A date the forecast does not cover.
	resp, _ = doGet(t, app, "/charts/temperature.png?location=Paris&date=2026-10-18")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestPageKeepsNumDays(t *testing.T) {
	f := &fakeForecaster{forecast: sampleForecast()}
	app := newTestApp(f)

	_, body := doGet(t, app, "/forecast?location=Paris&num_days=3")
	if !strings.Contains(string(body), `name="num_days" id="weatherNumDays" min="1" max="14" value="3"`) {
		t.Fatalf("expected the requested day count in the form")
	}
	if f.calls[0].Days != 3 {
		t.Fatalf("expected 3 days, got %d", f.calls[0].Days)
	}

	// A range request leaves the default day count in the form.
	_, body = doGet(t, app, "/forecast?location=Paris&start_date=2026-10-17&end_date=2026-10-18")
	if !strings.Contains(string(body), `id="weatherNumDays" min="1" max="14" value="5"`) {
		t.Fatalf("expected the default day count in the form")
	}
}
