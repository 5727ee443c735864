package views

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/forecast-board/internal/weather"
)

//go:embed templates
var viewsFS embed.FS

var tmpl *template.Template

var funcs = template.FuncMap{
	"formatDate":    formatDate,
	"formatHour":    weather.FormatHour,
	"conditionIcon": weather.ConditionIcon,
	"severityClass": func(s weather.Severity) string { return strings.ToLower(s.String()) },
	"chartURL":      ChartURL,
}

// loadTemplatesFromFS parses the page and its partials from fsys/dir.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	t, err := template.New("views").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	tmpl = t
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

var errNotLoaded = errors.New("templates not loaded: call views.LoadTemplates during startup")

// PageData is the view model of the forecast page.
type PageData struct {
	Location  string
	NumDays   int
	StartDate string
	EndDate   string
	MinDate   string
	MaxDate   string
	LiveURL   string

	Forecast *weather.Forecast
	Error    string
}

// NewPageData fills the date input bounds around today.
func NewPageData(location string, today time.Time) PageData {
	return PageData{
		Location: location,
		NumDays:  weather.DefaultDays,
		MinDate:  today.AddDate(0, 0, -weather.MaxRangeDays).Format(weather.DateLayout),
		MaxDate:  today.AddDate(0, 0, weather.MaxRangeDays).Format(weather.DateLayout),
	}
}

// RenderPage executes the full page into w.
func RenderPage(w io.Writer, data *PageData) error {
	if tmpl == nil {
		return errNotLoaded
	}
	return tmpl.ExecuteTemplate(w, "page", data)
}

// RenderForecast executes only the forecast partial into w.
func RenderForecast(w io.Writer, f *weather.Forecast) error {
	if tmpl == nil {
		return errNotLoaded
	}
	return tmpl.ExecuteTemplate(w, "forecast", f)
}

// RenderError executes only the warning partial into w.
func RenderError(w io.Writer, message string) error {
	if tmpl == nil {
		return errNotLoaded
	}
	return tmpl.ExecuteTemplate(w, "error", message)
}

// ForecastHTML renders the forecast partial to a string.
func ForecastHTML(f *weather.Forecast) (string, error) {
	var buf bytes.Buffer
	if err := RenderForecast(&buf, f); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ErrorHTML renders the warning partial to a string.
func ErrorHTML(message string) (string, error) {
	var buf bytes.Buffer
	if err := RenderError(&buf, message); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ChartURL is the image URL of one chart of one day.
func ChartURL(kind, location, date string) string {
	v := url.Values{}
	v.Set("location", location)
	v.Set("date", date)
	return "/charts/" + kind + ".png?" + v.Encode()
}

func formatDate(t time.Time) string {
	return weather.FormatDate(t)
}
