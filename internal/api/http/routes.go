package httpapi

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/forecast-board/internal/charts"
	"github.com/i474232898/forecast-board/internal/display"
	"github.com/i474232898/forecast-board/internal/views"
	"github.com/i474232898/forecast-board/internal/weather"
)

var validate = validator.New()

// Forecaster is the part of weather.Service the handlers need.
type Forecaster interface {
	Forecast(ctx context.Context, q weather.Query) (*weather.Forecast, error)
	Today() time.Time
}

// Options tunes what the page handler renders.
type Options struct {
	// LiveURL is the websocket URL the page connects to; empty disables it.
	LiveURL string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Forecaster, opts Options) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseForecastQuery(c, service.Today())
		if err != nil {
			return err
		}

		forecast, err := service.Forecast(c.UserContext(), q)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(forecast)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/forecast", fiber.StatusFound)
	})

	app.Get("/forecast", func(c *fiber.Ctx) error {
		data := views.NewPageData(strings.TrimSpace(c.Query("location")), service.Today())
		data.LiveURL = opts.LiveURL
		data.StartDate = c.Query("start_date")
		data.EndDate = c.Query("end_date")

		if data.Location != "" {
			q, err := parseForecastQuery(c, service.Today())
			if err != nil {
				data.Error = err.Error()
			} else {
				if q.Days > 0 {
					data.NumDays = q.Days
				}
				forecast, err := service.Forecast(c.UserContext(), q)
				if err != nil {
					data.Error = display.Message(err)
				} else {
					data.Forecast = forecast
				}
			}
		}

		var buf bytes.Buffer
		if err := views.RenderPage(&buf, &data); err != nil {
			return err
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	app.Get("/charts/:kind.png", func(c *fiber.Ctx) error {
		var req chartQuery
		req.Kind = c.Params("kind")
		req.Location = strings.TrimSpace(c.Query("location"))
		req.Date = c.Query("date")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid chart request")
		}

		date, err := time.Parse(weather.DateLayout, req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, weather.ReasonInvalidFormat)
		}

		forecast, err := service.Forecast(c.UserContext(), weather.Query{
			Location: req.Location,
			Range:    &weather.DateRange{Start: date, End: date},
		})
		if err != nil {
			return toHTTPError(err)
		}
		day, ok := forecast.Day(date)
		if !ok || len(day.Hourly) == 0 {
			return fiber.NewError(fiber.StatusNotFound, display.MsgNoData)
		}

		var buf bytes.Buffer
		if req.Kind == "temperature" {
			err = charts.Line(&buf, charts.TemperaturePoints(day.Hourly), charts.TemperatureOptions())
		} else {
			err = charts.Bar(&buf, charts.PrecipitationPoints(day.Hourly), charts.PrecipitationOptions())
		}
		if err != nil {
			return err
		}

		c.Type("png")
		c.Set(fiber.HeaderCacheControl, "public, max-age=600")
		return c.Send(buf.Bytes())
	})
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// toHTTPError maps forecast errors to status codes and user messages.
func toHTTPError(err error) error {
	var rangeErr *weather.RangeError
	switch {
	case errors.As(err, &rangeErr):
		return fiber.NewError(fiber.StatusBadRequest, rangeErr.Reason)
	case errors.Is(err, weather.ErrLocationRequired):
		return fiber.NewError(fiber.StatusBadRequest, display.MsgNoLocation)
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, display.MsgNoData)
	default:
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch weather data")
	}
}

// forecastQuery holds query parameters of the forecast endpoints. NumDays is
// range-checked while parsing so each failure gets its own message.
type forecastQuery struct {
	Location  string `validate:"required"`
	NumDays   int
	StartDate string `validate:"required_with=EndDate"`
	EndDate   string `validate:"required_with=StartDate"`
}

// chartQuery holds the parameters of the chart endpoint.
type chartQuery struct {
	Kind     string `validate:"oneof=temperature precipitation"`
	Location string `validate:"required"`
	Date     string `validate:"required"`
}

// parseForecastQuery binds and checks the query string. Returned errors are
// *fiber.Error carrying the user-facing message.
func parseForecastQuery(c *fiber.Ctx, today time.Time) (weather.Query, error) {
	var q forecastQuery
	q.Location = strings.TrimSpace(c.Query("location"))
	q.StartDate = c.Query("start_date")
	q.EndDate = c.Query("end_date")

	if raw := c.Query("num_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return weather.Query{}, fiber.NewError(fiber.StatusBadRequest, "Invalid number of days")
		}
		if n < 1 || n > weather.MaxDays {
			return weather.Query{}, fiber.NewError(fiber.StatusBadRequest, "Number of days must be between 1 and 14")
		}
		q.NumDays = n
	}

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Location" {
			return weather.Query{}, fiber.NewError(fiber.StatusBadRequest, display.MsgNoLocation)
		}
		return weather.Query{}, fiber.NewError(fiber.StatusBadRequest, "Both start_date and end_date are required")
	}

	out := weather.Query{Location: q.Location, Days: q.NumDays}
	if q.StartDate != "" {
		r, err := weather.ParseRange(q.StartDate, q.EndDate, today)
		if err != nil {
			return weather.Query{}, toHTTPError(err)
		}
		out.Range = &r
	}
	return out, nil
}
