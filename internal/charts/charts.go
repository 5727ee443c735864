// Package charts draws small PNG charts of labeled numeric series.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Point is one labeled value of a series.
type Point struct {
	Label string
	Value float64
}

// Options controls the look of a chart.
type Options struct {
	Width  int
	Height int

	// Unit is appended to axis tick labels. The basic font is ASCII only.
	Unit string

	// Fixed axis bounds. When Min == Max the bounds come from the data.
	Min float64
	Max float64

	// Colors as hex strings.
	Stroke string
	Fill   string
}

var ErrNoPoints = errors.New("charts: no points to draw")

const (
	padLeft   = 44.0
	padRight  = 12.0
	padTop    = 12.0
	padBottom = 24.0
	ticks     = 4
)

// TemperatureOptions is the line chart look for hourly temperatures.
func TemperatureOptions() Options {
	return Options{Width: 480, Height: 160, Unit: "C", Stroke: "#ff6b6b", Fill: "#ff6b6b1a"}
}

// PrecipitationOptions is the bar chart look for precipitation probability.
func PrecipitationOptions() Options {
	return Options{Width: 480, Height: 160, Unit: "%", Min: 0, Max: 100, Stroke: "#36a2eb", Fill: "#36a2eb99"}
}

// Line draws points as a filled line chart and writes it to w as PNG.
func Line(w io.Writer, points []Point, opts Options) error {
	if len(points) == 0 {
		return ErrNoPoints
	}
	c := newCanvas(points, opts)

	dc := c.dc
	for i, p := range points {
		x, y := c.x(i), c.y(p.Value)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.LineTo(c.x(len(points)-1), c.bottom())
	dc.LineTo(c.x(0), c.bottom())
	dc.ClosePath()
	dc.SetHexColor(opts.Fill)
	dc.Fill()

	dc.SetHexColor(opts.Stroke)
	dc.SetLineWidth(2)
	for i, p := range points {
		x, y := c.x(i), c.y(p.Value)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	for i, p := range points {
		dc.DrawCircle(c.x(i), c.y(p.Value), 3)
		dc.Fill()
	}

	return dc.EncodePNG(w)
}

// Bar draws points as a bar chart and writes it to w as PNG.
func Bar(w io.Writer, points []Point, opts Options) error {
	if len(points) == 0 {
		return ErrNoPoints
	}
	c := newCanvas(points, opts)

	dc := c.dc
	barWidth := c.slot() * 0.6
	base := c.y(math.Max(c.min, 0))
	for i, p := range points {
		x := c.x(i) - barWidth/2
		y := c.y(p.Value)
		dc.DrawRectangle(x, math.Min(y, base), barWidth, math.Abs(base-y))
		dc.SetHexColor(opts.Fill)
		dc.FillPreserve()
		dc.SetHexColor(opts.Stroke)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	return dc.EncodePNG(w)
}

type canvas struct {
	dc       *gg.Context
	n        int
	min, max float64
	w, h     float64
}

func newCanvas(points []Point, opts Options) *canvas {
	if opts.Width <= 0 {
		opts.Width = 480
	}
	if opts.Height <= 0 {
		opts.Height = 160
	}

	lo, hi := opts.Min, opts.Max
	if lo == hi {
		lo, hi = bounds(points)
	}

	c := &canvas{
		dc:  gg.NewContext(opts.Width, opts.Height),
		n:   len(points),
		min: lo,
		max: hi,
		w:   float64(opts.Width),
		h:   float64(opts.Height),
	}
	c.drawFrame(points, opts.Unit)
	return c
}

// bounds pads the data range so lines never touch the frame.
func bounds(points []Point) (float64, float64) {
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	pad := math.Max((hi-lo)*0.1, 1)
	return math.Floor(lo - pad), math.Ceil(hi + pad)
}

func (c *canvas) slot() float64 {
	return (c.w - padLeft - padRight) / float64(c.n)
}

func (c *canvas) x(i int) float64 {
	return padLeft + c.slot()*(float64(i)+0.5)
}

func (c *canvas) y(v float64) float64 {
	span := c.max - c.min
	if span == 0 {
		span = 1
	}
	return c.bottom() - (v-c.min)/span*(c.h-padTop-padBottom)
}

func (c *canvas) bottom() float64 {
	return c.h - padBottom
}

func (c *canvas) drawFrame(points []Point, unit string) {
	dc := c.dc
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	// Horizontal grid with value ticks.
	dc.SetLineWidth(1)
	for i := 0; i <= ticks; i++ {
		v := c.min + (c.max-c.min)*float64(i)/ticks
		y := c.y(v)
		dc.SetRGBA(0, 0, 0, 0.1)
		dc.DrawLine(padLeft, y, c.w-padRight, y)
		dc.Stroke()
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f%s", v, unit), padLeft-4, y, 1, 0.5)
	}

	// Category labels; thin them out when they would collide.
	step := 1
	if maxLabels := int((c.w - padLeft - padRight) / 36); maxLabels > 0 && c.n > maxLabels {
		step = int(math.Ceil(float64(c.n) / float64(maxLabels)))
	}
	for i := 0; i < c.n; i += step {
		dc.DrawStringAnchored(points[i].Label, c.x(i), c.h-padBottom/2, 0.5, 0.5)
	}
}
