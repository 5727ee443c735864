package display

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/forecast-board/internal/logger"
	"github.com/i474232898/forecast-board/internal/views"
	"github.com/i474232898/forecast-board/internal/weather"
)

// User-facing messages.
const (
	MsgMissingFields = "Please ensure all fields are filled correctly"
	MsgUnavailable   = "Unable to load weather data at this time."
	MsgNoData        = "No weather data available for the selected date range"
	MsgNoLocation    = "Location is required"
)

// Forecaster is the part of weather.Service the orchestrator needs.
type Forecaster interface {
	Forecast(ctx context.Context, q weather.Query) (*weather.Forecast, error)
	Today() time.Time
}

// Output is the single region a session renders into. Every Show replaces
// what was shown before.
type Output interface {
	Show(html string) error
}

// RangeRequest is one edit of the location/date inputs.
type RangeRequest struct {
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Orchestrator turns debounced range edits into rendered forecasts.
type Orchestrator struct {
	forecaster Forecaster
	out        Output
	debouncer  *Debouncer
	log        *logger.Logger

	mu       sync.Mutex
	gen      uint64
	inflight context.CancelFunc
}

func NewOrchestrator(f Forecaster, out Output, d *Debouncer, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		forecaster: f,
		out:        out,
		debouncer:  d,
		log:        log,
	}
}

// RequestRange schedules req; a later request inside the debounce window
// replaces it.
func (o *Orchestrator) RequestRange(req RangeRequest) {
	o.debouncer.Trigger(func() {
		if err := o.Update(context.Background(), req); err != nil {
			o.log.Warnw("render failed", "error", err)
		}
	})
}

// Update validates req, fetches and renders immediately. Starting an update
// cancels the fetch of any earlier one, and a superseded update never writes
// to the output.
func (o *Orchestrator) Update(ctx context.Context, req RangeRequest) error {
	ctx, gen := o.begin(ctx)
	defer o.finish(gen)

	html, err := o.render(ctx, req)
	if err != nil {
		return err
	}

	if ctx.Err() != nil || !o.current(gen) {
		o.log.Debugw("dropping superseded render", "location", req.Location)
		return nil
	}
	return o.out.Show(html)
}

// Close cancels pending and in-flight work.
func (o *Orchestrator) Close() {
	o.debouncer.Stop()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight != nil {
		o.inflight()
		o.inflight = nil
	}
}

func (o *Orchestrator) begin(parent context.Context) (context.Context, uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight != nil {
		o.inflight()
	}
	ctx, cancel := context.WithCancel(parent)
	o.inflight = cancel
	o.gen++
	return ctx, o.gen
}

// finish releases the context of update gen unless a newer one took over.
func (o *Orchestrator) finish(gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gen == gen && o.inflight != nil {
		o.inflight()
		o.inflight = nil
	}
}

func (o *Orchestrator) current(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gen == gen
}

func (o *Orchestrator) render(ctx context.Context, req RangeRequest) (string, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" || req.StartDate == "" || req.EndDate == "" {
		return views.ErrorHTML(MsgMissingFields)
	}

	r, err := weather.ParseRange(req.StartDate, req.EndDate, o.forecaster.Today())
	if err != nil {
		return views.ErrorHTML(Message(err))
	}

	o.log.Debugw("updating forecast", "location", location, "start", req.StartDate, "end", req.EndDate)
	f, err := o.forecaster.Forecast(ctx, weather.Query{Location: location, Range: &r})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", nil
		}
		o.log.Infow("forecast failed", "location", location, "error", err)
		return views.ErrorHTML(Message(err))
	}
	return views.ForecastHTML(f)
}

// Message maps a forecast error to the text shown to the user.
func Message(err error) string {
	var rangeErr *weather.RangeError
	switch {
	case errors.As(err, &rangeErr):
		return rangeErr.Reason
	case errors.Is(err, weather.ErrNoData):
		return MsgNoData
	case errors.Is(err, weather.ErrLocationNotFound):
		return err.Error()
	case errors.Is(err, weather.ErrLocationRequired):
		return MsgNoLocation
	default:
		return MsgUnavailable
	}
}
