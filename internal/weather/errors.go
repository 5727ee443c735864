package weather

import (
	"errors"
	"fmt"
)

var (
	ErrLocationRequired = errors.New("location is required")
	ErrNoProviders      = errors.New("no weather providers configured")
	ErrNoData           = errors.New("no weather data available for the selected date range")

	// ErrLocationNotFound is reported by providers that do not know the
	// requested place. Its message is meant to be shown to the user.
	ErrLocationNotFound = errors.New("location not found")
)

// UpstreamError wraps transport and decoding failures from providers.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("error fetching weather data: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
