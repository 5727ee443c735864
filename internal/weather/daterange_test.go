package weather

import (
	"errors"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
)

var testToday = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return testToday.AddDate(0, 0, offset)
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *RangeError, got %T: %v", err, err)
	}
	return rangeErr.Reason
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name   string
		r      DateRange
		reason string
	}{
		{"single day today", DateRange{day(0), day(0)}, ""},
		{"full fourteen day span", DateRange{day(0), day(14)}, ""},
		{"past fourteen days", DateRange{day(-14), day(0)}, ""},
		{"zero start", DateRange{time.Time{}, day(1)}, ReasonInvalidFormat},
		{"end before start", DateRange{day(3), day(2)}, ReasonEndBeforeStart},
		{"start too early", DateRange{day(-15), day(-10)}, ReasonStartTooEarly},
		{"end too late", DateRange{day(10), day(15)}, ReasonEndTooLate},
		{"span too long", DateRange{day(-14), day(1)}, ReasonRangeTooLong},
		// End before start wins over every other rule.
		{"order checked first", DateRange{day(20), day(-20)}, ReasonEndBeforeStart},
		// Start too early wins over end too late.
		{"early checked before late", DateRange{day(-20), day(20)}, ReasonStartTooEarly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reasonOf(t, ValidateRange(tt.r, testToday))
			if got != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, got)
			}
		})
	}
}

func TestValidateRangeIgnoresTimeOfDay(t *testing.T) {
	r := DateRange{
		Start: time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 31, 0, 15, 0, 0, time.UTC),
	}
	if err := ValidateRange(r, testToday); err != nil {
		t.Fatalf("expected valid range, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("2026-10-17", "2026-10-20", testToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days() != 4 {
		t.Fatalf("expected 4 days, got %d", r.Days())
	}

	for _, in := range [][2]string{{"", "2026-10-20"}, {"2026-10-17", "tomorrow"}, {"10/17/2026", "2026-10-18"}} {
		_, err := ParseRange(in[0], in[1], testToday)
		if got := reasonOf(t, err); got != ReasonInvalidFormat {
			t.Fatalf("%v: expected %q, got %q", in, ReasonInvalidFormat, got)
		}
	}

	_, err = ParseRange("2026-10-20", "2026-10-19", testToday)
	if got := reasonOf(t, err); got != ReasonEndBeforeStart {
		t.Fatalf("expected %q, got %q", ReasonEndBeforeStart, got)
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{day(1), day(3)}
	cases := map[int]bool{0: false, 1: true, 2: true, 3: true, 4: false}
	for offset, want := range cases {
		if got := r.Contains(day(offset).Add(13 * time.Hour)); got != want {
			t.Fatalf("offset %d: expected %v, got %v", offset, want, got)
		}
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 4, 5, 0, time.Local)
	got := Today(fakeclock.NewFakeClock(now))
	want := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
