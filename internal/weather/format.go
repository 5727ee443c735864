package weather

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDate renders a calendar date as "Mon, Jan 2".
func FormatDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// FormatHour renders "15:04" wall time as "3PM". Unparseable input is
// returned unchanged.
func FormatHour(hhmm string) string {
	h, _, _ := strings.Cut(hhmm, ":")
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return hhmm
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d%s", display, meridiem)
}
