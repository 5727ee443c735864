package charts

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/i474232898/forecast-board/internal/weather"
)

func hours() []weather.HourReading {
	return []weather.HourReading{
		{Time: "06:00", Reading: weather.Reading{TemperatureC: -3, PrecipitationPct: 0}},
		{Time: "09:00", Reading: weather.Reading{TemperatureC: 2, PrecipitationPct: 35}},
		{Time: "12:00", Reading: weather.Reading{TemperatureC: 8, PrecipitationPct: 80}},
		{Time: "15:00", Reading: weather.Reading{TemperatureC: 7, PrecipitationPct: 100}},
	}
}

func TestLineEncodesPNG(t *testing.T) {
	var buf bytes.Buffer
	opts := TemperatureOptions()
	if err := Line(&buf, TemperaturePoints(hours()), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != opts.Width || b.Dy() != opts.Height {
		t.Fatalf("expected %dx%d, got %dx%d", opts.Width, opts.Height, b.Dx(), b.Dy())
	}
}

func TestBarEncodesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Bar(&buf, PrecipitationPoints(hours()), Options{Width: 200, Height: 100, Max: 100, Stroke: "#000", Fill: "#999"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestManyPointsAndFlatSeries(t *testing.T) {
	points := make([]Point, 48)
	for i := range points {
		points[i] = Point{Label: "x", Value: 5}
	}
	var buf bytes.Buffer
	if err := Line(&buf, points, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := Line(&buf, nil, TemperatureOptions()); !errors.Is(err, ErrNoPoints) {
		t.Fatalf("expected ErrNoPoints, got %v", err)
	}
	if err := Bar(&buf, []Point{}, PrecipitationOptions()); !errors.Is(err, ErrNoPoints) {
		t.Fatalf("expected ErrNoPoints, got %v", err)
	}
}

func TestSeries(t *testing.T) {
	temps := TemperaturePoints(hours())
	if len(temps) != 4 || temps[0].Label != "6AM" || temps[0].Value != -3 {
		t.Fatalf("unexpected temperature series: %+v", temps)
	}
	precip := PrecipitationPoints(hours())
	if precip[3].Label != "3PM" || precip[3].Value != 100 {
		t.Fatalf("unexpected precipitation series: %+v", precip)
	}
}

func TestBounds(t *testing.T) {
	lo, hi := bounds([]Point{{Value: 10}, {Value: 30}})
	if lo != 8 || hi != 32 {
		t.Fatalf("expected 8..32, got %v..%v", lo, hi)
	}
	lo, hi = bounds([]Point{{Value: 5}})
	if lo != 4 || hi != 6 {
		t.Fatalf("expected 4..6, got %v..%v", lo, hi)
	}
}
