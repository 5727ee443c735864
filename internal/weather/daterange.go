package weather

import (
	"math"
	"time"

	"code.cloudfoundry.org/clock"
)

// MaxRangeDays bounds both the distance from today and the width of a range.
const MaxRangeDays = 14

// Rejection reasons, shown to the user as-is.
const (
	ReasonInvalidFormat  = "Invalid date format"
	ReasonEndBeforeStart = "End date must be after start date"
	ReasonStartTooEarly  = "Start date cannot be more than 14 days in the past"
	ReasonEndTooLate     = "End date cannot be more than 14 days in the future"
	ReasonRangeTooLong   = "Date range cannot exceed 14 days"
)

// RangeError is returned when a date range is rejected.
type RangeError struct {
	Reason string
}

func (e *RangeError) Error() string {
	return e.Reason
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of calendar days covered, both ends included.
func (r DateRange) Days() int {
	return int(CalendarDate(r.End).Sub(CalendarDate(r.Start)).Hours()/24) + 1
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	date = CalendarDate(date)
	return !date.Before(CalendarDate(r.Start)) && !date.After(CalendarDate(r.End))
}

// Today returns the current local date of c with the time of day zeroed.
func Today(c clock.Clock) time.Time {
	return CalendarDate(c.Now().Local())
}

// ParseRange parses two YYYY-MM-DD strings and validates the result.
func ParseRange(start, end string, today time.Time) (DateRange, error) {
	s, errStart := time.Parse(DateLayout, start)
	e, errEnd := time.Parse(DateLayout, end)
	if errStart != nil || errEnd != nil {
		return DateRange{}, &RangeError{Reason: ReasonInvalidFormat}
	}

	r := DateRange{Start: s, End: e}
	if err := ValidateRange(r, today); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ValidateRange checks r against today. Rules are applied in order and the
// first failure wins.
func ValidateRange(r DateRange, today time.Time) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return &RangeError{Reason: ReasonInvalidFormat}
	}

	start := CalendarDate(r.Start)
	end := CalendarDate(r.End)
	today = CalendarDate(today)

	if end.Before(start) {
		return &RangeError{Reason: ReasonEndBeforeStart}
	}
	if start.Before(today.AddDate(0, 0, -MaxRangeDays)) {
		return &RangeError{Reason: ReasonStartTooEarly}
	}
	if end.After(today.AddDate(0, 0, MaxRangeDays)) {
		return &RangeError{Reason: ReasonEndTooLate}
	}

	span := math.Ceil(end.Sub(start).Hours() / 24)
	if span > MaxRangeDays {
		return &RangeError{Reason: ReasonRangeTooLong}
	}
	return nil
}
